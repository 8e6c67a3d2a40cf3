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

package rule_db_connectivity

import (
	"os"
	"path/filepath"
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/severity"
	"shieldci.dev/analyzer/checklib/testlib"
)

func analyzeWithEnv(t *testing.T, env string, sqliteFile bool) *report.ResultsList {
	t.Helper()
	dir := t.TempDir()
	if env != "" {
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if sqliteFile {
		dbDir := filepath.Join(dir, "database")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dbDir, "database.sqlite"), []byte{}, 0644); err != nil {
			t.Fatal(err)
		}
	}
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return results
}

func TestNoEnvFile(t *testing.T) {
	results := analyzeWithEnv(t, "", false)
	if len(results.Results) != 0 {
		t.Errorf("no .env means nothing to probe, got %v", results.Results)
	}
}

func TestSqliteFileMissing(t *testing.T) {
	results := analyzeWithEnv(t, "DB_CONNECTION=sqlite\n", false)
	if len(results.Results) != 1 || results.Results[0].ErrorKind != report.ServiceDbUnreachable {
		t.Errorf("unexpected results: %v", results.Results)
	}
}

func TestSqliteFilePresent(t *testing.T) {
	results := analyzeWithEnv(t, "DB_CONNECTION=sqlite\n", true)
	if len(results.Results) != 0 {
		t.Errorf("an existing sqlite file shall not be reported, got %v", results.Results)
	}
}

func TestNetworkProbesDisabled(t *testing.T) {
	results := analyzeWithEnv(t, "DB_CONNECTION=mysql\nDB_HOST=127.0.0.1\nDB_PORT=3306\n", false)
	if len(results.Results) != 1 {
		t.Fatalf("expected 1 result, got %d: %v", len(results.Results), results.Results)
	}
	result := results.Results[0]
	if result.ErrorKind != report.ServiceDbSkipped || result.Severity != severity.Low {
		t.Errorf("unexpected result: %v", result)
	}
}
