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

package phpstan

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/google/shlex"
	"shieldci.dev/analyzer/checklib/basic"
)

// Message is one diagnostic of a file in the PHPStan JSON report. Line is 0
// for file-level diagnostics. Identifier is emitted by PHPStan >= 1.11.
type Message struct {
	Message    string `json:"message"`
	Line       int32  `json:"line"`
	Ignorable  bool   `json:"ignorable"`
	Identifier string `json:"identifier,omitempty"`
}

type FileReport struct {
	Errors   int32     `json:"errors"`
	Messages []Message `json:"messages"`
}

type Totals struct {
	Errors     int32 `json:"errors"`
	FileErrors int32 `json:"file_errors"`
}

// Report mirrors `phpstan analyse --error-format=json`. The top-level Errors
// are internal analyzer failures, not findings.
type Report struct {
	Totals Totals                `json:"totals"`
	Files  map[string]FileReport `json:"files"`
	Errors []string              `json:"errors"`
}

// UnmarshalJSON tolerates the empty "files" value, which PHP serializes as
// [] instead of {} when there are no findings.
func (r *Report) UnmarshalJSON(data []byte) error {
	type rawReport struct {
		Totals Totals          `json:"totals"`
		Files  json.RawMessage `json:"files"`
		Errors []string        `json:"errors"`
	}
	raw := rawReport{}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	r.Totals = raw.Totals
	r.Errors = raw.Errors
	r.Files = map[string]FileReport{}
	trimmed := strings.TrimSpace(string(raw.Files))
	if trimmed == "" || trimmed == "[]" || trimmed == "null" {
		return nil
	}
	return json.Unmarshal(raw.Files, &r.Files)
}

func ParseReport(content []byte) (*Report, error) {
	// PHPStan may print deprecation notices before the JSON document.
	start := strings.IndexByte(string(content), '{')
	if start < 0 {
		return nil, fmt.Errorf("no JSON document in phpstan output")
	}
	report := &Report{}
	err := json.Unmarshal(content[start:], report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ExecPhpstanBinary runs phpstan against srcdir and returns the parsed
// report. The raw output is kept as phpstan_out.json under resultsDir.
// An exit code of 1 means violations were found, it is not an error.
func ExecPhpstanBinary(srcdir, resultsDir string, inputPhpstanBin, inputPhpBin, extraArgs, confPath, memoryLimit string, limitMemory bool, timeoutNormal, timeoutOom int) (*Report, error) {
	phpstanBin, err := filepath.Abs(inputPhpstanBin)
	if err != nil {
		glog.Errorf("phpstan bin not found in %s", inputPhpstanBin)
		return nil, err
	}
	cmd_args := []string{"analyse", "--error-format=json", "--no-progress"}
	if confPath != "" {
		cmd_args = append(cmd_args, "--configuration", confPath)
	}
	if memoryLimit != "" {
		cmd_args = append(cmd_args, "--memory-limit="+memoryLimit)
	}
	if extraArgs != "" {
		splitted, err := shlex.Split(extraArgs)
		if err != nil {
			return nil, fmt.Errorf("failed to split phpstan args %q: %v", extraArgs, err)
		}
		cmd_args = append(cmd_args, splitted...)
	}
	var cmd *exec.Cmd
	if inputPhpBin != "" {
		cmd = exec.Command(inputPhpBin, append([]string{phpstanBin}, cmd_args...)...)
	} else {
		cmd = exec.Command(phpstanBin, cmd_args...)
	}
	cmd.Dir = srcdir
	taskName := filepath.Base(resultsDir)
	glog.Infof("in %s, executing: %s", taskName, cmd.String())
	out, err := basic.CombinedOutput(cmd, taskName, limitMemory, timeoutNormal, timeoutOom)
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok && exitError.ExitCode() == 1 {
			// phpstan exits with 1 if found violations, it's not an error.
		} else {
			glog.Errorf("in %s, executing: %s, reported:\n%s", taskName, cmd.String(), string(out))
			return nil, fmt.Errorf("in %s, executing: %s: %v", taskName, cmd.String(), err)
		}
	}
	reportFilePath := filepath.Join(resultsDir, "phpstan_out.json")
	err = os.WriteFile(reportFilePath, out, os.ModePerm)
	if err != nil {
		glog.Errorf("failed to write %s: %v", reportFilePath, err)
	}
	report, err := ParseReport(out)
	if err != nil {
		glog.Errorf("in %s: phpstan output is not a report: %v", taskName, err)
		return nil, err
	}
	return report, nil
}
