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

package rule_writable_dirs

import (
	"os"
	"path/filepath"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/options"
)

// Directories Laravel writes to at runtime.
var defaultWritableDirs = []string{
	"storage",
	"storage/app",
	"storage/framework",
	"storage/framework/cache",
	"storage/framework/sessions",
	"storage/framework/views",
	"storage/logs",
	"bootstrap/cache",
}

// isWritable probes by creating and removing a scratch file. Permission
// bits alone lie when ACLs or read-only mounts are involved.
func isWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".sca_write_check-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}

	dirs := opts.JsonOption.WritableDirs
	if len(dirs) == 0 {
		dirs = defaultWritableDirs
	}
	for _, dir := range dirs {
		path := filepath.Join(srcdir, dir)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			results.Results = append(results.Results, &report.Result{
				Path:            path,
				LineNumber:      0,
				ErrorMessage:    "Required directory does not exist",
				ExternalMessage: dir,
				ErrorKind:       report.StorageDirMissing,
				Recommendation:  "Create " + dir + " and make it writable by the application user.",
			})
			continue
		}
		if !isWritable(path) {
			results.Results = append(results.Results, &report.Result{
				Path:            path,
				LineNumber:      0,
				ErrorMessage:    "Directory is not writable by the application",
				ExternalMessage: dir,
				ErrorKind:       report.StorageDirNotWritable,
				Recommendation:  "Grant the application user write permission on " + dir + ".",
			})
		}
	}
	return results, nil
}
