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

package phpstan

import (
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
)

func TestClassify(t *testing.T) {
	var classifyTests = []struct {
		in       Message
		expected Category
	}{
		{
			Message{Message: "Unreachable statement - code above always terminates."},
			CategoryDeadCode,
		},
		{
			Message{Message: "Property App\\Models\\Order::$total is never read, only written."},
			CategoryDeadCode,
		},
		{
			Message{Message: "Method App\\Services\\Invoice::legacyTotal() is unused."},
			CategoryDeadCode,
		},
		{
			Message{Message: "Anonymous function never returns.", Identifier: "deadCode.unreachable"},
			CategoryDeadCode,
		},
		{
			Message{Message: "Call to deprecated method format() of class App\\Support\\Money."},
			CategoryDeprecation,
		},
		{
			Message{Message: "Usage of deprecated class Illuminate\\Support\\Facades\\Input."},
			CategoryDeprecation,
		},
		{
			Message{Message: "Instantiated class App\\Servcies\\Mailer not found."},
			CategoryInvalidImport,
		},
		{
			Message{Message: "Call to static method render() on an unknown class App\\View\\Card."},
			CategoryInvalidImport,
		},
		{
			Message{Message: "Function str_randm not found."},
			CategoryInvalidImport,
		},
		{
			Message{Message: "Relation 'posts' is not found in App\\Models\\User model."},
			CategoryMissingRelation,
		},
		{
			Message{Message: "Access to an undefined property App\\Models\\User::$posts."},
			CategoryMissingRelation,
		},
		{
			Message{Message: "Parameter #1 $id of method App\\Repositories\\Orders::find() expects int, string given."},
			CategoryTypeError,
		},
		{
			Message{Message: "Method App\\Http\\Controllers\\UserController::index() should return Illuminate\\View\\View but returns string."},
			CategoryTypeError,
		},
		{
			// The identifier is the secondary signal when the text alone
			// does not decide.
			Message{Message: "PHPDoc tag @var references an invalid symbol.", Identifier: "class.notFound"},
			CategoryInvalidImport,
		},
	}
	for _, tt := range classifyTests {
		actual := Classify(tt.in)
		if actual.Category != tt.expected {
			t.Errorf("Classify(%q): expected category %v, got %v", tt.in.Message, tt.expected, actual.Category)
		}
	}
}

func TestClassifyOrderFirstMatchWins(t *testing.T) {
	// A relation message also contains "not found" but must stay in the
	// relation category.
	msg := Message{Message: "Relation 'comments' is not found in App\\Models\\Post model."}
	class := Classify(msg)
	if class.Kind != report.PhpstanMissingRelation {
		t.Errorf("expected PhpstanMissingRelation, got %v", class.Kind)
	}
}

func TestResultsForCategory(t *testing.T) {
	rep := &Report{
		Totals: Totals{Errors: 0, FileErrors: 4},
		Files: map[string]FileReport{
			"app/Models/User.php": {
				Errors: 2,
				Messages: []Message{
					{Message: "Relation 'posts' is not found in App\\Models\\User model.", Line: 27},
					{Message: "Unreachable statement - code above always terminates.", Line: 44},
				},
			},
			"app/Console/Kernel.php": {
				Errors: 2,
				Messages: []Message{
					{Message: "Method App\\Console\\Kernel::legacySchedule() is unused.", Line: 12},
					{Message: "Call to deprecated method daily() of class App\\Support\\Schedule.", Line: 19},
				},
			},
		},
	}
	results := ResultsForCategory(rep, CategoryDeadCode)
	if len(results.Results) != 2 {
		t.Fatalf("expected 2 dead code results, got %d", len(results.Results))
	}
	// Files are visited in sorted order.
	first := results.Results[0]
	if first.Path != "app/Console/Kernel.php" || first.LineNumber != 12 {
		t.Errorf("unexpected first result: %s:%d", first.Path, first.LineNumber)
	}
	if first.ErrorKind != report.PhpstanDeadCode {
		t.Errorf("expected PhpstanDeadCode, got %v", first.ErrorKind)
	}
	if first.Recommendation == "" {
		t.Errorf("expected a recommendation on %s:%d", first.Path, first.LineNumber)
	}
	second := results.Results[1]
	if second.Path != "app/Models/User.php" || second.LineNumber != 44 {
		t.Errorf("unexpected second result: %s:%d", second.Path, second.LineNumber)
	}
	relations := ResultsForCategory(rep, CategoryMissingRelation)
	if len(relations.Results) != 1 || relations.Results[0].LineNumber != 27 {
		t.Errorf("unexpected relation results: %v", relations.Results)
	}
}

func TestInternalErrorResults(t *testing.T) {
	rep := &Report{
		Errors: []string{"Child process error (exit code 255): PHP Fatal error: Allowed memory size exhausted"},
	}
	results := InternalErrorResults(rep)
	if len(results.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results.Results))
	}
	result := results.Results[0]
	if result.ErrorKind != report.PhpstanInternalError {
		t.Errorf("expected PhpstanInternalError, got %v", result.ErrorKind)
	}
	if result.Path != "" || result.LineNumber != 0 {
		t.Errorf("internal errors shall be project level, got %s:%d", result.Path, result.LineNumber)
	}
}
