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

package rule_deprecation

import (
	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/phpstan"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/runner"
)

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	rep, err := runner.RunPhpstan(srcdir, opts)
	if err != nil {
		// the failure is reported once, by phpstan/rule_type_error
		glog.Warningf("runner.RunPhpstan: %v", err)
		return &report.ResultsList{}, nil
	}
	return phpstan.ResultsForCategory(rep, phpstan.CategoryDeprecation), nil
}
