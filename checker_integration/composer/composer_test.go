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

package composer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseComposerJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "composer.json")
	writeFile(t, path, `{
		"name": "acme/shop",
		"require": {"php": "^8.2", "laravel/framework": "^10.0"},
		"require-dev": {"phpunit/phpunit": "^10.0", "larastan/larastan": "^2.0"}
	}`)
	composerJSON, err := ParseComposerJSON(path)
	if err != nil {
		t.Fatalf("ParseComposerJSON: %v", err)
	}
	if composerJSON.Name != "acme/shop" {
		t.Errorf("unexpected name: %s", composerJSON.Name)
	}
	if !composerJSON.HasPackage("laravel/framework") {
		t.Errorf("expected laravel/framework in require")
	}
	if !composerJSON.HasPackage("larastan/larastan") {
		t.Errorf("expected larastan/larastan in require-dev")
	}
	if composerJSON.HasPackage("symfony/console") {
		t.Errorf("did not expect symfony/console")
	}
}

func TestLockIsStale(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "composer.json")
	lockPath := filepath.Join(dir, "composer.lock")
	writeFile(t, jsonPath, `{"name": "acme/shop"}`)
	writeFile(t, lockPath, `{"content-hash": "abc"}`)

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(jsonPath, old, old); err != nil {
		t.Fatal(err)
	}
	stale, err := LockIsStale(jsonPath, lockPath)
	if err != nil {
		t.Fatalf("LockIsStale: %v", err)
	}
	if stale {
		t.Errorf("lock newer than json shall not be stale")
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(jsonPath, future, future); err != nil {
		t.Fatal(err)
	}
	stale, err = LockIsStale(jsonPath, lockPath)
	if err != nil {
		t.Fatalf("LockIsStale: %v", err)
	}
	if !stale {
		t.Errorf("json newer than lock shall be stale")
	}
}

func TestInstalledDevPackages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vendor", "phpunit", "phpunit", "composer.json"), "{}")
	lock := &ComposerLock{
		PackagesDev: []Package{
			{Name: "phpunit/phpunit", Version: "10.5.0"},
			{Name: "mockery/mockery", Version: "1.6.0"},
		},
	}
	installed := InstalledDevPackages(dir, lock)
	if !reflect.DeepEqual(installed, []string{"phpunit/phpunit"}) {
		t.Errorf("unexpected installed dev packages: %v", installed)
	}
}
