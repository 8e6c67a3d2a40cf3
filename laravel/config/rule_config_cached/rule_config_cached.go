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

package rule_config_cached

import (
	"os"
	"path/filepath"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/options"
)

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption

	cachePath := filepath.Join(srcdir, "bootstrap", "cache", "config.php")
	_, err := os.Stat(cachePath)
	cached := err == nil

	if envOptions.IsProduction(opts.JsonOption.ProductionEnvs) {
		if !cached {
			results.Results = append(results.Results, &report.Result{
				Path:           "",
				LineNumber:     0,
				ErrorMessage:   "Configuration is not cached in production",
				ErrorKind:      report.ConfigNotCached,
				Recommendation: "Run `php artisan config:cache` as part of the deployment.",
			})
		}
	} else if cached {
		results.Results = append(results.Results, &report.Result{
			Path:           cachePath,
			LineNumber:     0,
			ErrorMessage:   "Cached configuration shadows .env changes outside production",
			ErrorKind:      report.ConfigCachedInDev,
			Recommendation: "Run `php artisan config:clear`, a stale cache makes .env edits silently ineffective.",
		})
	}
	return results, nil
}
