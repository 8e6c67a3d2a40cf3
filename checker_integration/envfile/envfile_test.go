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

package envfile

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "APP_NAME=shop\nAPP_ENV=production\nAPP_DEBUG=false\n" +
		"# comment line\nDB_PASSWORD=\"s3cret pass\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	env, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	expected := map[string]string{
		"APP_NAME":    "shop",
		"APP_ENV":     "production",
		"APP_DEBUG":   "false",
		"DB_PASSWORD": "s3cret pass",
	}
	if !reflect.DeepEqual(env, expected) {
		t.Errorf("Expected %v, got %v", expected, env)
	}
}

func TestDiff(t *testing.T) {
	env := map[string]string{
		"APP_NAME": "shop",
		"APP_KEY":  "base64:abc",
		"NEW_FLAG": "1",
	}
	example := map[string]string{
		"APP_NAME":    "Laravel",
		"APP_KEY":     "",
		"DB_PASSWORD": "",
		"APP_URL":     "http://localhost",
	}
	missing, extra := Diff(env, example)
	if !reflect.DeepEqual(missing, []string{"APP_URL", "DB_PASSWORD"}) {
		t.Errorf("unexpected missing keys: %v", missing)
	}
	if !reflect.DeepEqual(extra, []string{"NEW_FLAG"}) {
		t.Errorf("unexpected extra keys: %v", extra)
	}
}

func TestIsTruthyFalsy(t *testing.T) {
	var boolTests = []struct {
		in     string
		truthy bool
		falsy  bool
	}{
		{"true", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"on", true, false},
		{"false", false, true},
		{"0", false, true},
		{"off", false, true},
		{"", false, true},
		{"maybe", false, false},
	}
	for _, tt := range boolTests {
		if IsTruthy(tt.in) != tt.truthy {
			t.Errorf("IsTruthy(%q): expected %v", tt.in, tt.truthy)
		}
		if IsFalsy(tt.in) != tt.falsy {
			t.Errorf("IsFalsy(%q): expected %v", tt.in, tt.falsy)
		}
	}
}

func TestValidAppKey(t *testing.T) {
	goodKey := "base64:" + base64.StdEncoding.EncodeToString(make([]byte, 32))
	shortKey := "base64:" + base64.StdEncoding.EncodeToString(make([]byte, 16))
	var keyTests = []struct {
		in       string
		expected bool
	}{
		{"", false},
		{goodKey, true},
		{shortKey, false},
		{"base64:%%%not-base64%%%", false},
		{"SomeRandomStringWithAtLeast32Chars!!", true},
		{"tooshort", false},
	}
	for _, tt := range keyTests {
		if ValidAppKey(tt.in) != tt.expected {
			t.Errorf("ValidAppKey(%q): expected %v", tt.in, tt.expected)
		}
	}
}

func TestIsPlaceholder(t *testing.T) {
	placeholders := []string{"null", "secret", "changeme", "your-key-here"}
	var placeholderTests = []struct {
		in       string
		expected bool
	}{
		{"", true},
		{"   ", true},
		{"${DB_PASSWORD}", true},
		{"CHANGEME", true},
		{"null", true},
		{"sk-live-4f9a8b7c6d5e", false},
		{"hunter2hunter2", false},
	}
	for _, tt := range placeholderTests {
		if IsPlaceholder(tt.in, placeholders) != tt.expected {
			t.Errorf("IsPlaceholder(%q): expected %v", tt.in, tt.expected)
		}
	}
}
