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

package rule_debug_mode

import (
	"os"
	"path/filepath"
	"testing"

	"shieldci.dev/analyzer/checklib/testlib"
)

func TestDebugEnabledFromRuntimeReport(t *testing.T) {
	about := map[string]map[string]string{
		"environment": {"application_name": "Laravel", "debug_mode": "ENABLED"},
	}
	if !debugEnabled(about, false) {
		t.Errorf("ENABLED badge shall report debug on")
	}
	about["environment"]["debug_mode"] = "OFF"
	if debugEnabled(about, true) {
		t.Errorf("OFF badge shall report debug off")
	}
	if !debugEnabled(map[string]map[string]string{}, true) {
		t.Errorf("missing section shall fall back to the dotenv value")
	}
	if !debugEnabled(map[string]map[string]string{"environment": {}}, true) {
		t.Errorf("missing key shall fall back to the dotenv value")
	}
}

func TestDebugMode(t *testing.T) {
	for _, testCase := range [...]struct {
		name          string
		env           string
		expectedCount int
	}{
		{
			name:          "debug enabled in production",
			env:           "APP_ENV=production\nAPP_DEBUG=true\n",
			expectedCount: 1,
		},
		{
			name:          "debug disabled in production",
			env:           "APP_ENV=production\nAPP_DEBUG=false\n",
			expectedCount: 0,
		},
		{
			name:          "debug enabled locally",
			env:           "APP_ENV=local\nAPP_DEBUG=true\n",
			expectedCount: 0,
		},
		{
			name:          "unset APP_ENV defaults to production",
			env:           "APP_DEBUG=1\n",
			expectedCount: 1,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(testCase.env), 0644); err != nil {
				t.Fatal(err)
			}
			opts, err := testlib.MakeTestOption(dir)
			if err != nil {
				t.Fatal(err)
			}
			results, err := Analyze(dir, opts)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if len(results.Results) != testCase.expectedCount {
				t.Errorf("unexpected result count for %v. got: %d. expected: %d.", testCase.name, len(results.Results), testCase.expectedCount)
			}
		})
	}
}
