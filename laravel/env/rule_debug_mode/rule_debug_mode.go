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

package rule_debug_mode

import (
	"path/filepath"
	"strings"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/envfile"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/runner"
)

// debugEnabled reads the runtime debug state out of `artisan about`, which
// reflects cached config. Boolean settings print as ENABLED/OFF badges.
// Falls back to the dotenv value when artisan did not report one.
func debugEnabled(about map[string]map[string]string, fallback bool) bool {
	env, ok := about["environment"]
	if !ok {
		return fallback
	}
	v, ok := env["debug_mode"]
	if !ok {
		return fallback
	}
	return strings.EqualFold(v, "ENABLED") || envfile.IsTruthy(v)
}

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption
	if envOptions.Env == nil {
		return results, nil
	}
	if !envOptions.IsProduction(opts.JsonOption.ProductionEnvs) {
		return results, nil
	}
	debug := envfile.IsTruthy(envfile.Lookup(envOptions.Env, "APP_DEBUG", "false"))
	if about, err := runner.RunArtisanAbout(srcdir, opts); err == nil {
		debug = debugEnabled(about, debug)
	}
	if debug {
		results.Results = append(results.Results, &report.Result{
			Path:           filepath.Join(srcdir, ".env"),
			LineNumber:     0,
			ErrorMessage:   "APP_DEBUG shall be disabled in production",
			ErrorKind:      report.EnvDebugEnabled,
			Recommendation: "Set APP_DEBUG=false, debug pages leak credentials and stack traces to visitors.",
		})
	}
	return results, nil
}
