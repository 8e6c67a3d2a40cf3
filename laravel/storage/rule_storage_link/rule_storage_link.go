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

package rule_storage_link

import (
	"os"
	"path/filepath"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/options"
)

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}

	target := filepath.Join(srcdir, "storage", "app", "public")
	if _, err := os.Stat(target); err != nil {
		// the public disk is not used, nothing to link
		return results, nil
	}

	linkPath := filepath.Join(srcdir, "public", "storage")
	info, err := os.Lstat(linkPath)
	if err != nil {
		results.Results = append(results.Results, &report.Result{
			Path:           linkPath,
			LineNumber:     0,
			ErrorMessage:   "public/storage link is missing, run `php artisan storage:link`",
			ErrorKind:      report.StorageLinkMissing,
			Recommendation: "Run `php artisan storage:link` so uploaded files are reachable over HTTP.",
		})
		return results, nil
	}

	if info.Mode()&os.ModeSymlink == 0 {
		results.Results = append(results.Results, &report.Result{
			Path:            linkPath,
			LineNumber:      0,
			ErrorMessage:    "public/storage does not point at storage/app/public\npublic/storage is a regular directory, not a symlink",
			ExternalMessage: "public/storage is a regular directory, not a symlink",
			ErrorKind:       report.StorageLinkDangling,
			Recommendation:  "Remove public/storage and recreate it with `php artisan storage:link`.",
		})
		return results, nil
	}

	resolved, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		results.Results = append(results.Results, &report.Result{
			Path:            linkPath,
			LineNumber:      0,
			ErrorMessage:    "public/storage does not point at storage/app/public\n" + err.Error(),
			ExternalMessage: err.Error(),
			ErrorKind:       report.StorageLinkDangling,
			Recommendation:  "Remove the dangling link and recreate it with `php artisan storage:link`.",
		})
		return results, nil
	}
	expected, err := filepath.EvalSymlinks(target)
	if err != nil {
		return nil, err
	}
	if resolved != expected {
		detail := "points at " + resolved
		results.Results = append(results.Results, &report.Result{
			Path:            linkPath,
			LineNumber:      0,
			ErrorMessage:    "public/storage does not point at storage/app/public\n" + detail,
			ExternalMessage: detail,
			ErrorKind:       report.StorageLinkDangling,
			Recommendation:  "Remove public/storage and recreate it with `php artisan storage:link`.",
		})
	}
	return results, nil
}
