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

package rule_app_key

import (
	"path/filepath"
	"strings"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/envfile"
	"shieldci.dev/analyzer/checklib/options"
)

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption
	if envOptions.Env == nil {
		return results, nil
	}
	envPath := filepath.Join(srcdir, ".env")
	key := envfile.Lookup(envOptions.Env, "APP_KEY", "")
	if key == "" {
		results.Results = append(results.Results, &report.Result{
			Path:           envPath,
			LineNumber:     0,
			ErrorMessage:   "APP_KEY is not set, sessions and encrypted data are unprotected",
			ErrorKind:      report.EnvAppKeyMissing,
			Recommendation: "Run `php artisan key:generate` and deploy the generated key.",
		})
		return results, nil
	}
	if !envfile.ValidAppKey(key) {
		reason := "a plain key must be at least 32 characters"
		if strings.HasPrefix(key, "base64:") {
			reason = "a base64: key must decode to exactly 32 bytes"
		}
		results.Results = append(results.Results, &report.Result{
			Path:            envPath,
			LineNumber:      0,
			ErrorMessage:    "APP_KEY is not a valid application key\n" + reason,
			ExternalMessage: reason,
			ErrorKind:       report.EnvAppKeyInvalid,
			Recommendation:  "Regenerate the key with `php artisan key:generate`.",
		})
	}
	return results, nil
}
