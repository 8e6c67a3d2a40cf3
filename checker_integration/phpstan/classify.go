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
	"regexp"
	"sort"

	"shieldci.dev/analyzer/analyzer/report"
)

type Category int

const (
	CategoryDeadCode Category = iota
	CategoryDeprecation
	CategoryInvalidImport
	CategoryMissingRelation
	CategoryTypeError
)

type Classification struct {
	Category       Category
	Kind           report.ErrorKind
	Headline       string
	Recommendation string
}

// classifierEntry matches a diagnostic either on the message text or on the
// PHPStan identifier. The message regex is the primary signal; identifiers
// only exist on PHPStan >= 1.11 reports.
type classifierEntry struct {
	pattern    *regexp.Regexp
	identifier *regexp.Regexp
	class      Classification
}

// The classifier is ordered, the first matching entry wins. Diagnostics
// matching no entry fall through to CategoryTypeError.
var classifier = []classifierEntry{
	{
		pattern:    regexp.MustCompile(`(?i)(unreachable (statement|code)|is never (read|used)|is unused|never returns|only written)`),
		identifier: regexp.MustCompile(`^deadCode\.`),
		class: Classification{
			Category:       CategoryDeadCode,
			Kind:           report.PhpstanDeadCode,
			Headline:       "Dead code shall be removed",
			Recommendation: "Remove the unreachable or unused code, or restore the path that uses it.",
		},
	},
	{
		pattern:    regexp.MustCompile(`(?i)deprecated`),
		identifier: regexp.MustCompile(`\.deprecated$`),
		class: Classification{
			Category:       CategoryDeprecation,
			Kind:           report.PhpstanDeprecation,
			Headline:       "Deprecated symbols shall not be used",
			Recommendation: "Replace the deprecated symbol with its documented successor before upgrading.",
		},
	},
	{
		// Must precede the import entry, relation diagnostics also say
		// "is not found".
		pattern:    regexp.MustCompile(`(?i)(relation ['"]?\w+['"]? is not found|undefined method .*(Model|Builder|Relation)|undefined property .*Model(s\\\w+)?::\$)`),
		identifier: regexp.MustCompile(`^larastan\.relation`),
		class: Classification{
			Category:       CategoryMissingRelation,
			Kind:           report.PhpstanMissingRelation,
			Headline:       "Eloquent relation is not defined on the model",
			Recommendation: "Define the relation method on the Eloquent model or correct the relation name.",
		},
	},
	{
		pattern:    regexp.MustCompile(`(?i)(unknown class|not found|undefined (function|constant)|used but not found)`),
		identifier: regexp.MustCompile(`^(class|function|constant|interface|trait)\.notFound$`),
		class: Classification{
			Category:       CategoryInvalidImport,
			Kind:           report.PhpstanInvalidImport,
			Headline:       "Referenced class or function cannot be resolved",
			Recommendation: "Fix the import or namespace, or run `composer dump-autoload` to refresh the class map.",
		},
	},
}

var typeErrorClass = Classification{
	Category:       CategoryTypeError,
	Kind:           report.PhpstanTypeError,
	Headline:       "Static analysis reported a type error",
	Recommendation: "Adjust the declared types or the call site so the types agree.",
}

// Classify dispatches one diagnostic to its category, first match wins.
func Classify(msg Message) Classification {
	for _, entry := range classifier {
		if entry.pattern.MatchString(msg.Message) {
			return entry.class
		}
		if msg.Identifier != "" && entry.identifier.MatchString(msg.Identifier) {
			return entry.class
		}
	}
	return typeErrorClass
}

// ResultsForCategory collects the diagnostics of one category, files in
// sorted order, messages in report order.
func ResultsForCategory(rep *Report, category Category) *report.ResultsList {
	resultsList := &report.ResultsList{}
	paths := make([]string, 0, len(rep.Files))
	for path := range rep.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		for _, msg := range rep.Files[path].Messages {
			class := Classify(msg)
			if class.Category != category {
				continue
			}
			resultsList.Results = append(resultsList.Results, &report.Result{
				Path:            path,
				LineNumber:      msg.Line,
				ErrorMessage:    class.Headline + "\n" + msg.Message,
				ExternalMessage: msg.Message,
				ErrorKind:       class.Kind,
				Recommendation:  class.Recommendation,
			})
		}
	}
	return resultsList
}

// InternalErrorResults surfaces the analyzer's own failures as project-level
// results instead of aborting the run.
func InternalErrorResults(rep *Report) *report.ResultsList {
	resultsList := &report.ResultsList{}
	for _, msg := range rep.Errors {
		resultsList.Results = append(resultsList.Results, &report.Result{
			Path:            "",
			LineNumber:      0,
			ErrorMessage:    "The static analyzer did not finish cleanly\n" + msg,
			ExternalMessage: msg,
			ErrorKind:       report.PhpstanInternalError,
		})
	}
	return resultsList
}
