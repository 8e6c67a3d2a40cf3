/*
ShieldCI Analyze - A health analyzer for Laravel applications
Copyright (C) 2026  ShieldCI Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package envfile reads Laravel dotenv files. All lookups go through the
// parsed map, the analyzer never mutates its own process environment.
package envfile

import (
	"encoding/base64"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Parse reads one dotenv file into a key/value map.
func Parse(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return godotenv.Parse(f)
}

// Diff compares the live env against the example env. Missing holds example
// keys absent from the live file, extra holds live keys the example does not
// declare. Both are sorted.
func Diff(env, example map[string]string) (missing, extra []string) {
	for key := range example {
		if _, ok := env[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range env {
		if _, ok := example[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

// Lookup returns the value of key, or def when the key is unset or empty.
func Lookup(env map[string]string, key, def string) string {
	if v, ok := env[key]; ok && v != "" {
		return v
	}
	return def
}

// IsTruthy reports whether a dotenv value means "enabled". Laravel accepts
// the usual boolean spellings.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// IsFalsy reports whether a dotenv value means "disabled".
func IsFalsy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "0", "no", "off", "":
		return true
	}
	return false
}

// ValidAppKey reports whether value is a usable Laravel application key.
// Keys produced by `php artisan key:generate` are base64: followed by 32
// encoded bytes. A bare string key must also cover the cipher block size.
func ValidAppKey(value string) bool {
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "base64:") {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, "base64:"))
		if err != nil {
			return false
		}
		return len(decoded) == 32
	}
	return len(value) >= 32
}

// IsPlaceholder reports whether an example value is safe to ship: empty,
// an obvious placeholder, or a ${VAR} reference.
func IsPlaceholder(value string, placeholders []string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	if strings.HasPrefix(trimmed, "${") && strings.HasSuffix(trimmed, "}") {
		return true
	}
	lowered := strings.ToLower(trimmed)
	for _, placeholder := range placeholders {
		if lowered == strings.ToLower(placeholder) {
			return true
		}
	}
	return false
}
