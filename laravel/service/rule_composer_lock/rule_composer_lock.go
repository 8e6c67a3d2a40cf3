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

package rule_composer_lock

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/composer"
	"shieldci.dev/analyzer/checklib/options"
)

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption

	jsonPath := filepath.Join(srcdir, "composer.json")
	lockPath := filepath.Join(srcdir, "composer.lock")

	if _, err := os.Stat(lockPath); err != nil {
		results.Results = append(results.Results, &report.Result{
			Path:           "",
			LineNumber:     0,
			ErrorMessage:   "composer.lock does not exist, dependency versions are unpinned",
			ErrorKind:      report.ComposerLockMissing,
			Recommendation: "Run `composer install` and commit the generated composer.lock.",
		})
		return results, nil
	}

	stale, err := composer.LockIsStale(jsonPath, lockPath)
	if err != nil {
		glog.Errorf("composer.LockIsStale: %v", err)
	} else if stale {
		results.Results = append(results.Results, &report.Result{
			Path:           lockPath,
			LineNumber:     0,
			ErrorMessage:   "composer.lock is older than composer.json, run `composer update`",
			ErrorKind:      report.ComposerLockStale,
			Recommendation: "Run `composer update` so the lock file matches the declared requirements.",
		})
	}

	if envOptions.IsProduction(opts.JsonOption.ProductionEnvs) {
		lock, err := composer.ParseComposerLock(lockPath)
		if err != nil {
			glog.Errorf("composer.ParseComposerLock: %v", err)
			return results, nil
		}
		devPackages := composer.InstalledDevPackages(srcdir, lock)
		if len(devPackages) > 0 {
			shown := devPackages
			if len(shown) > 5 {
				shown = shown[:5]
			}
			detail := strings.Join(shown, ", ")
			if len(devPackages) > len(shown) {
				detail += ", ..."
			}
			results.Results = append(results.Results, &report.Result{
				Path:            "",
				LineNumber:      0,
				ErrorMessage:    "Development autoloader artifacts are present in a production environment\n" + detail,
				ExternalMessage: detail,
				ErrorKind:       report.ComposerDevAutoload,
				Recommendation:  "Deploy with `composer install --no-dev --optimize-autoloader`.",
			})
		}
	}
	return results, nil
}
