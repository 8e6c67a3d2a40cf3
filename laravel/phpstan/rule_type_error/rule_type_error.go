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

package rule_type_error

import (
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/phpstan"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/runner"
	"shieldci.dev/analyzer/checklib/severity"
)

// Analyze reports the fallthrough category and, being the catch-all rule,
// also surfaces the analyzer's own failures as warning results.
func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	rep, err := runner.RunPhpstan(srcdir, opts)
	if err != nil {
		results := &report.ResultsList{}
		results.Results = append(results.Results, &report.Result{
			Path:            "",
			LineNumber:      0,
			ErrorMessage:    "The static analyzer did not finish cleanly\n" + err.Error(),
			ExternalMessage: err.Error(),
			ErrorKind:       report.PhpstanInternalError,
			Recommendation:  "Run phpstan by hand to see the full failure output.",
			Severity:        severity.Low,
		})
		return results, nil
	}
	results := phpstan.ResultsForCategory(rep, phpstan.CategoryTypeError)
	internal := phpstan.InternalErrorResults(rep)
	for _, result := range internal.Results {
		result.Severity = severity.Low
		result.Recommendation = "Run phpstan by hand to see the full failure output."
	}
	results.Results = append(results.Results, internal.Results...)
	return results, nil
}
