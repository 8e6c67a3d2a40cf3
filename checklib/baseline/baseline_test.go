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

package baseline

import (
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/diff"
)

func TestCompareIssuesThroughHunks(t *testing.T) {
	for _, testCase := range [...]struct {
		name     string
		newline  int
		oldline  int
		hunks    []*diff.Hunk
		expected bool
	}{
		{
			name:     "no changes in file",
			newline:  10,
			oldline:  10,
			hunks:    nil,
			expected: true,
		},
		{
			name:     "issue above the only hunk",
			newline:  5,
			oldline:  5,
			hunks:    []*diff.Hunk{{OldPos: 20, OldLines: 2, NewPos: 20, NewLines: 3}},
			expected: true,
		},
		{
			name:     "issue inside a changed hunk",
			newline:  21,
			oldline:  21,
			hunks:    []*diff.Hunk{{OldPos: 20, OldLines: 2, NewPos: 20, NewLines: 3}},
			expected: false,
		},
		{
			name:     "issue shifted by an insertion above",
			newline:  33,
			oldline:  30,
			hunks:    []*diff.Hunk{{OldPos: 10, OldLines: 0, NewPos: 11, NewLines: 3}},
			expected: true,
		},
		{
			name:     "issue shifted by a deletion above",
			newline:  28,
			oldline:  30,
			hunks:    []*diff.Hunk{{OldPos: 11, OldLines: 2, NewPos: 10, NewLines: 0}},
			expected: true,
		},
		{
			name:     "line offsets disagree",
			newline:  30,
			oldline:  30,
			hunks:    []*diff.Hunk{{OldPos: 10, OldLines: 0, NewPos: 11, NewLines: 3}},
			expected: false,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			got := CompareIssuesThroughHunks(testCase.newline, testCase.oldline, testCase.hunks)
			if got != testCase.expected {
				t.Errorf("unexpected result for %v. got: %v. expected: %v.", testCase.name, got, testCase.expected)
			}
		})
	}
}

func TestResultLocations(t *testing.T) {
	locations := ResultLocations(&report.Result{
		Path:         "/repo/app/config.php",
		LineNumber:   7,
		ErrorMessage: "[L1201][config-cache.prefix]: x",
	})
	if len(locations) != 1 {
		t.Fatalf("expected the primary location, got %d locations", len(locations))
	}
	if locations[0].Path != "/repo/app/config.php" || locations[0].LineNumber != 7 {
		t.Errorf("unexpected primary location: %v", locations[0])
	}
}

func TestIsDuplicated(t *testing.T) {
	const workingDir = "/repo"
	baseline := Baseline{
		Results: []Result{
			{
				ErrorMessage: "[L1202][config-env.usage]: env() called outside config",
				LineNumber:   3,
				Locations:    Locations{{Path: "/repo/a.php", LineNumber: 3}},
			},
		},
	}
	// unchanged files between the two commits
	gitObject := &GitObject{
		WorkingDir: workingDir,
		hunkCache: map[string][]*diff.Hunk{
			"a.php": {},
			"b.php": {},
		},
	}
	for _, testCase := range [...]struct {
		name     string
		result   *report.Result
		expected bool
	}{
		{
			name: "identical finding is covered by the baseline",
			result: &report.Result{
				Path:         "/repo/a.php",
				LineNumber:   3,
				ErrorMessage: "[L1202][config-env.usage]: env() called outside config",
			},
			expected: true,
		},
		{
			name: "same rule at another path survives",
			result: &report.Result{
				Path:         "/repo/b.php",
				LineNumber:   42,
				ErrorMessage: "[L1202][config-env.usage]: env() called outside config",
			},
			expected: false,
		},
		{
			name: "same rule and path at another line survives",
			result: &report.Result{
				Path:         "/repo/a.php",
				LineNumber:   9,
				ErrorMessage: "[L1202][config-env.usage]: env() called outside config",
			},
			expected: false,
		},
		{
			name: "different rule at the baselined location survives",
			result: &report.Result{
				Path:         "/repo/a.php",
				LineNumber:   3,
				ErrorMessage: "[L1203][config-config.cached]: config cache missing",
			},
			expected: false,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			got := IsDuplicated(gitObject, testCase.result, baseline, workingDir)
			if got != testCase.expected {
				t.Errorf("unexpected result for %v. got: %v. expected: %v.", testCase.name, got, testCase.expected)
			}
		})
	}
}

func TestIsSameRule(t *testing.T) {
	if !IsSameRule("[L1101][env-example.sync]: a", "[L1101][env-example.sync]: b") {
		t.Errorf("same issue code shall match")
	}
	if IsSameRule("[L1101][env-example.sync]: a", "[L1102][env-debug.mode]: a") {
		t.Errorf("different issue codes shall not match")
	}
}
