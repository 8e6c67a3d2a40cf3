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

package rule_session_secure

import (
	"path/filepath"

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
	if !envOptions.IsProduction(opts.JsonOption.ProductionEnvs) {
		return results, nil
	}
	if !envfile.IsTruthy(envfile.Lookup(envOptions.Env, "SESSION_SECURE_COOKIE", "")) {
		results.Results = append(results.Results, &report.Result{
			Path:           filepath.Join(srcdir, ".env"),
			LineNumber:     0,
			ErrorMessage:   "Session cookies shall be secure in production",
			ErrorKind:      report.ConfigSessionInsecure,
			Recommendation: "Set SESSION_SECURE_COOKIE=true so session cookies are only sent over HTTPS.",
		})
	}
	return results, nil
}
