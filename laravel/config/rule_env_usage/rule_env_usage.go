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

package rule_env_usage

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/analyzerinterface"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/options"
)

// Directories whose sources run after `php artisan config:cache`. env()
// returns null there once the config is cached.
var scannedSubdirs = []string{"app", "routes", "database"}

// Bare env( calls only. Method calls ($x->env, Foo::env) and declarations
// of an own env helper are someone else's business.
var envCallPattern = regexp.MustCompile(`(^|[^A-Za-z0-9_$>:])env\s*\(`)

var envDeclPattern = regexp.MustCompile(`function\s+env\s*\(`)

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}

	sourceFiles, err := analyzerinterface.ListSourceFiles(srcdir, scannedSubdirs, opts.EnvOption.IgnoreDirPatterns)
	if err != nil {
		glog.Errorf("analyzerinterface.ListSourceFiles: %v", err)
		return nil, err
	}

	for _, sourceFile := range sourceFiles {
		file, err := os.Open(sourceFile)
		if err != nil {
			glog.Errorf("failed to open %s: %v", sourceFile, err)
			continue
		}
		scanner := bufio.NewScanner(file)
		var lineNumber int32 = 0
		for scanner.Scan() {
			lineNumber++
			line := scanner.Text()
			trimmed := strings.TrimSpace(line)
			// comments may legally mention env()
			if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "#") {
				continue
			}
			if !envCallPattern.MatchString(line) || envDeclPattern.MatchString(line) {
				continue
			}
			results.Results = append(results.Results, &report.Result{
				Path:            sourceFile,
				LineNumber:      lineNumber,
				ErrorMessage:    "env() calls outside the config directory break config caching\n" + trimmed,
				ExternalMessage: trimmed,
				ErrorKind:       report.ConfigEnvCallOutsideConfig,
				Recommendation:  "Read the value through config() and declare it in a file under config/.",
			})
		}
		if err := scanner.Err(); err != nil {
			glog.Errorf("failed to scan %s: %v", sourceFile, err)
		}
		file.Close()
	}
	return results, nil
}
