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

// Package artisan shells out to the project's artisan script. Everything in
// here is best-effort: a project without a working PHP runtime is still
// analyzable, callers treat errors as "no data".
package artisan

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/checklib/basic"
)

// HasArtisan reports whether srcdir carries the artisan entry script.
func HasArtisan(srcdir string) bool {
	_, err := os.Stat(filepath.Join(srcdir, "artisan"))
	return err == nil
}

// ExecArtisan runs `php artisan <args>` in srcdir and returns the combined
// output.
func ExecArtisan(srcdir, resultsDir, inputPhpBin string, cmd_args []string, limitMemory bool, timeoutNormal, timeoutOom int) ([]byte, error) {
	if !HasArtisan(srcdir) {
		return nil, fmt.Errorf("artisan not found in %s", srcdir)
	}
	cmd := exec.Command(inputPhpBin, append([]string{"artisan"}, cmd_args...)...)
	cmd.Dir = srcdir
	taskName := filepath.Base(resultsDir)
	glog.Infof("in %s, executing: %s", taskName, cmd.String())
	out, err := basic.CombinedOutput(cmd, taskName, limitMemory, timeoutNormal, timeoutOom)
	if err != nil {
		return out, fmt.Errorf("in %s, executing: %s: %v", taskName, cmd.String(), err)
	}
	return out, nil
}

// About runs `php artisan about --json` and returns the section map, e.g.
// about["environment"]["debug_mode"] == "ENABLED".
func About(srcdir, resultsDir, inputPhpBin string, limitMemory bool, timeoutNormal, timeoutOom int) (map[string]map[string]string, error) {
	out, err := ExecArtisan(srcdir, resultsDir, inputPhpBin, []string{"about", "--json"}, limitMemory, timeoutNormal, timeoutOom)
	if err != nil {
		return nil, err
	}
	return ParseAbout(out)
}

// ParseAbout decodes the `artisan about --json` output. Boot-time notices
// printed before the JSON document are skipped.
func ParseAbout(content []byte) (map[string]map[string]string, error) {
	start := strings.IndexByte(string(content), '{')
	if start < 0 {
		return nil, fmt.Errorf("no JSON document in artisan output")
	}
	about := map[string]map[string]string{}
	err := json.Unmarshal(content[start:], &about)
	if err != nil {
		return nil, err
	}
	return about, nil
}
