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
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

type ComposerJSON struct {
	Name       string            `json:"name"`
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ComposerLock struct {
	ContentHash string    `json:"content-hash"`
	Packages    []Package `json:"packages"`
	PackagesDev []Package `json:"packages-dev"`
}

func ParseComposerJSON(path string) (*ComposerJSON, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	composerJSON := &ComposerJSON{}
	err = json.Unmarshal(content, composerJSON)
	if err != nil {
		return nil, err
	}
	return composerJSON, nil
}

func ParseComposerLock(path string) (*ComposerLock, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	composerLock := &ComposerLock{}
	err = json.Unmarshal(content, composerLock)
	if err != nil {
		return nil, err
	}
	return composerLock, nil
}

// HasPackage checks require and require-dev of composer.json.
func (c *ComposerJSON) HasPackage(name string) bool {
	if _, ok := c.Require[name]; ok {
		return true
	}
	_, ok := c.RequireDev[name]
	return ok
}

// LockIsStale reports whether composer.json was modified after
// composer.lock, meaning the lock no longer pins the declared dependencies.
func LockIsStale(jsonPath, lockPath string) (bool, error) {
	jsonInfo, err := os.Stat(jsonPath)
	if err != nil {
		return false, err
	}
	lockInfo, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}
	return jsonInfo.ModTime().After(lockInfo.ModTime()), nil
}

// InstalledDevPackages returns the packages-dev entries of the lock that are
// present under vendor/, sorted by name.
func InstalledDevPackages(srcdir string, lock *ComposerLock) []string {
	installed := []string{}
	for _, pkg := range lock.PackagesDev {
		if _, err := os.Stat(filepath.Join(srcdir, "vendor", filepath.FromSlash(pkg.Name))); err == nil {
			installed = append(installed, pkg.Name)
		}
	}
	sort.Strings(installed)
	return installed
}
