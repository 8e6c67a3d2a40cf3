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
	"strings"
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/phpstan"
	"shieldci.dev/analyzer/checklib/severity"
	"shieldci.dev/analyzer/checklib/testlib"
)

func TestFallthroughAndInternalErrors(t *testing.T) {
	dir := t.TempDir()
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	rep := &phpstan.Report{
		Files: map[string]phpstan.FileReport{
			"app/Http/Controllers/UserController.php": {
				Messages: []phpstan.Message{
					{Message: "Parameter #1 $id of method find() expects int, string given.", Line: 23},
					{Message: "Call to deprecated method setHidden().", Line: 40},
				},
			},
		},
		Errors: []string{"Child process error: out of memory while analysing app/Services/Import.php"},
	}
	testlib.SetPhpstanReport(opts, rep, "")
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results.Results) != 2 {
		t.Fatalf("expected 2 results, got %d: %v", len(results.Results), results.Results)
	}
	typeError := results.Results[0]
	if typeError.ErrorKind != report.PhpstanTypeError || typeError.LineNumber != 23 {
		t.Errorf("unexpected type error result: %v", typeError)
	}
	internal := results.Results[1]
	if internal.ErrorKind != report.PhpstanInternalError || internal.Path != "" {
		t.Errorf("unexpected internal error result: %v", internal)
	}
	if internal.Severity != severity.Low {
		t.Errorf("internal errors shall be warnings, got severity %v", internal.Severity)
	}
}

func TestPhpstanDidNotProduceReport(t *testing.T) {
	dir := t.TempDir()
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	testlib.SetPhpstanReport(opts, nil, "Fatal error: Allowed memory size exhausted")
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("a missing report shall not fail the rule: %v", err)
	}
	if len(results.Results) != 1 {
		t.Fatalf("expected 1 result, got %d: %v", len(results.Results), results.Results)
	}
	result := results.Results[0]
	if result.ErrorKind != report.PhpstanInternalError || result.Severity != severity.Low {
		t.Errorf("unexpected result: %v", result)
	}
	if !strings.Contains(result.ErrorMessage, "memory size exhausted") {
		t.Errorf("the failure output shall be carried in the message, got %q", result.ErrorMessage)
	}
}
