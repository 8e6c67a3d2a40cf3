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

package rule_dead_code

import (
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/phpstan"
	"shieldci.dev/analyzer/checklib/testlib"
)

func TestDeadCodeCategoryOnly(t *testing.T) {
	dir := t.TempDir()
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	rep := &phpstan.Report{
		Files: map[string]phpstan.FileReport{
			"app/Models/User.php": {
				Messages: []phpstan.Message{
					{Message: "Unreachable statement - code above always terminates.", Line: 42},
					{Message: "Parameter #1 $id of method find() expects int, string given.", Line: 10},
				},
			},
			"app/Console/Kernel.php": {
				Messages: []phpstan.Message{
					{Message: "Method App\\Console\\Kernel::schedule() is unused.", Line: 17, Identifier: "deadCode.unusedMethod"},
				},
			},
		},
	}
	testlib.SetPhpstanReport(opts, rep, "")
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results.Results) != 2 {
		t.Fatalf("expected 2 results, got %d: %v", len(results.Results), results.Results)
	}
	// files are visited in sorted order
	first := results.Results[0]
	if first.Path != "app/Console/Kernel.php" || first.LineNumber != 17 || first.ErrorKind != report.PhpstanDeadCode {
		t.Errorf("unexpected first result: %v", first)
	}
	second := results.Results[1]
	if second.Path != "app/Models/User.php" || second.LineNumber != 42 {
		t.Errorf("unexpected second result: %v", second)
	}
}

func TestAnalyzerFailureIsSilentHere(t *testing.T) {
	dir := t.TempDir()
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	testlib.SetPhpstanReport(opts, nil, "Fatal error: Allowed memory size exhausted")
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results.Results) != 0 {
		t.Errorf("analyzer failures are reported by the fallthrough rule, got %v", results.Results)
	}
}
