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

package rule_composer_lock

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/testlib"
)

const composerJSON = `{
	"name": "acme/app",
	"require": {"laravel/framework": "^11.0"},
	"require-dev": {"fakerphp/faker": "^1.23"}
}`

const composerLock = `{
	"content-hash": "abc123",
	"packages": [{"name": "laravel/framework", "version": "v11.0.0"}],
	"packages-dev": [{"name": "fakerphp/faker", "version": "v1.23.0"}]
}`

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMissingLock(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "composer.json"), composerJSON)
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results.Results) != 1 || results.Results[0].ErrorKind != report.ComposerLockMissing {
		t.Errorf("unexpected results: %v", results.Results)
	}
}

func TestStaleLock(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "composer.json")
	lockPath := filepath.Join(dir, "composer.lock")
	mustWrite(t, jsonPath, composerJSON)
	mustWrite(t, lockPath, composerLock)
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(lockPath, past, past); err != nil {
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
	if len(results.Results) != 1 || results.Results[0].ErrorKind != report.ComposerLockStale {
		t.Errorf("unexpected results: %v", results.Results)
	}
}

func TestDevPackagesInProduction(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "composer.json"), composerJSON)
	mustWrite(t, filepath.Join(dir, "composer.lock"), composerLock)
	mustWrite(t, filepath.Join(dir, "vendor", "fakerphp", "faker", "composer.json"), "{}")
	opts, err := testlib.MakeTestOptionWithAppEnv(dir, "production")
	if err != nil {
		t.Fatal(err)
	}
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results.Results) != 1 {
		t.Fatalf("expected 1 result, got %d: %v", len(results.Results), results.Results)
	}
	result := results.Results[0]
	if result.ErrorKind != report.ComposerDevAutoload || result.ExternalMessage != "fakerphp/faker" {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestDevPackagesIgnoredOutsideProduction(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "composer.json"), composerJSON)
	mustWrite(t, filepath.Join(dir, "composer.lock"), composerLock)
	mustWrite(t, filepath.Join(dir, "vendor", "fakerphp", "faker", "composer.json"), "{}")
	opts, err := testlib.MakeTestOptionWithAppEnv(dir, "local")
	if err != nil {
		t.Fatal(err)
	}
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results.Results) != 0 {
		t.Errorf("dev packages outside production shall not be reported, got %v", results.Results)
	}
}
