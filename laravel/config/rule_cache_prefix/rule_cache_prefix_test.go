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

package rule_cache_prefix

import (
	"os"
	"path/filepath"
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/testlib"
)

func TestCacheDriverFromRuntimeReport(t *testing.T) {
	about := map[string]map[string]string{
		"cache": {"driver": "Redis"},
	}
	if got := cacheDriver(about, "file"); got != "redis" {
		t.Errorf("unexpected driver. got: %v. expected: redis.", got)
	}
	if got := cacheDriver(map[string]map[string]string{}, "file"); got != "file" {
		t.Errorf("missing section shall fall back to the dotenv value, got %v", got)
	}
	if got := cacheDriver(map[string]map[string]string{"cache": {}}, "memcached"); got != "memcached" {
		t.Errorf("missing key shall fall back to the dotenv value, got %v", got)
	}
}

func TestCachePrefix(t *testing.T) {
	for _, testCase := range [...]struct {
		name            string
		env             string
		defaultPrefixes []string
		expectedCount   int
	}{
		{
			name:          "shared store without a prefix",
			env:           "CACHE_STORE=redis\n",
			expectedCount: 1,
		},
		{
			name:          "shared store with the stock prefix",
			env:           "CACHE_STORE=redis\nCACHE_PREFIX=laravel_cache_\n",
			expectedCount: 1,
		},
		{
			name:          "shared store with an application prefix",
			env:           "CACHE_STORE=redis\nCACHE_PREFIX=shop_prod\n",
			expectedCount: 0,
		},
		{
			name:          "legacy CACHE_DRIVER key",
			env:           "CACHE_DRIVER=memcached\n",
			expectedCount: 1,
		},
		{
			name:          "file store never collides",
			env:           "CACHE_STORE=file\n",
			expectedCount: 0,
		},
		{
			name:            "custom default prefix list",
			env:             "CACHE_STORE=redis\nCACHE_PREFIX=shop_prod\n",
			defaultPrefixes: []string{"shop_prod"},
			expectedCount:   1,
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
			opts.JsonOption.DefaultPrefixes = testCase.defaultPrefixes
			results, err := Analyze(dir, opts)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if len(results.Results) != testCase.expectedCount {
				t.Errorf("unexpected result count for %v. got: %d. expected: %d.", testCase.name, len(results.Results), testCase.expectedCount)
			}
			if testCase.expectedCount == 1 && results.Results[0].ErrorKind != report.ConfigCachePrefixDefault {
				t.Errorf("unexpected error kind: %v", results.Results[0].ErrorKind)
			}
		})
	}
}
