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

package rule_session_secure

import (
	"os"
	"path/filepath"
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/testlib"
)

func TestSessionSecure(t *testing.T) {
	for _, testCase := range [...]struct {
		name          string
		env           string
		expectedCount int
	}{
		{
			name:          "production without the flag",
			env:           "APP_ENV=production\n",
			expectedCount: 1,
		},
		{
			name:          "production with insecure cookies",
			env:           "APP_ENV=production\nSESSION_SECURE_COOKIE=false\n",
			expectedCount: 1,
		},
		{
			name:          "production with secure cookies",
			env:           "APP_ENV=production\nSESSION_SECURE_COOKIE=true\n",
			expectedCount: 0,
		},
		{
			name:          "local development is exempt",
			env:           "APP_ENV=local\n",
			expectedCount: 0,
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
			if testCase.expectedCount == 1 && results.Results[0].ErrorKind != report.ConfigSessionInsecure {
				t.Errorf("unexpected error kind: %v", results.Results[0].ErrorKind)
			}
		})
	}
}
