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

package rule_cache_connectivity

import (
	"os"
	"path/filepath"
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/testlib"
)

func analyzeWithEnv(t *testing.T, env string, prepare func(dir string)) (*report.ResultsList, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
		t.Fatal(err)
	}
	if prepare != nil {
		prepare(dir)
	}
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return results, dir
}

func TestFileStoreMissingCacheDir(t *testing.T) {
	results, _ := analyzeWithEnv(t, "CACHE_STORE=file\n", nil)
	if len(results.Results) != 1 {
		t.Fatalf("unexpected result count. got: %d. expected: 1.", len(results.Results))
	}
	if results.Results[0].ErrorKind != report.ServiceCacheUnreachable {
		t.Errorf("unexpected error kind: %v", results.Results[0].ErrorKind)
	}
}

func TestFileStoreWritableCacheDir(t *testing.T) {
	results, _ := analyzeWithEnv(t, "CACHE_STORE=file\n", func(dir string) {
		if err := os.MkdirAll(filepath.Join(dir, "storage", "framework", "cache"), 0755); err != nil {
			t.Fatal(err)
		}
	})
	if len(results.Results) != 0 {
		t.Errorf("unexpected result count. got: %d. expected: 0.", len(results.Results))
	}
}

func TestFileStoreLeavesNoMarkerBehind(t *testing.T) {
	results, dir := analyzeWithEnv(t, "CACHE_STORE=file\n", func(dir string) {
		if err := os.MkdirAll(filepath.Join(dir, "storage", "framework", "cache"), 0755); err != nil {
			t.Fatal(err)
		}
	})
	if len(results.Results) != 0 {
		t.Fatalf("unexpected result count. got: %d. expected: 0.", len(results.Results))
	}
	entries, err := os.ReadDir(filepath.Join(dir, "storage", "framework", "cache"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("the writability check shall clean up after itself, found %d entries", len(entries))
	}
}

func TestSharedStoresSkipProbes(t *testing.T) {
	// testlib options disable network probes
	for _, env := range []string{"CACHE_STORE=redis\n", "CACHE_STORE=memcached\n"} {
		results, _ := analyzeWithEnv(t, env, nil)
		if len(results.Results) != 0 {
			t.Errorf("unexpected result count for %q. got: %d. expected: 0.", env, len(results.Results))
		}
	}
}
