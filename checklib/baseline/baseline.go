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

package baseline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/diff"
)

type Result struct {
	ErrorMessage string    `json:"errorMessage"`
	LineNumber   int32     `json:"lineNumber"`
	Locations    Locations `json:"locations"`
}

type Baseline struct {
	Results    []Result `json:"results"`
	CommitHash string   `json:"commitHash"`
}

// GitObject compares the baseline commit to the current one. Per-file
// diffs are cached because many results point into the same file.
type GitObject struct {
	WorkingDir         string
	CurrentCommitHash  string
	BaselineCommitHash string
	hunkCache          map[string][]*diff.Hunk
}

func CreateBaselineFile(allResults *report.ResultsList, resultsDir, currentCommitHash string) error {
	baslinePath := filepath.Join(resultsDir, "baseline.json")
	var baseline Baseline
	baseline.CommitHash = currentCommitHash
	baseline.Results = []Result{}
	for _, result := range allResults.Results {
		var currentResult Result
		currentResult.LineNumber = result.LineNumber
		currentResult.ErrorMessage = result.ErrorMessage
		currentResult.Locations = ResultLocations(result)
		baseline.Results = append(baseline.Results, currentResult)
	}
	out, err := json.MarshalIndent(baseline, "", "\t")
	if err != nil {
		return fmt.Errorf("Cannot stringify baseline")
	}

	err = os.WriteFile(baslinePath, out, os.ModePerm)
	if err != nil {
		return fmt.Errorf("Cannot write baseline.json")
	}

	return nil
}

func GetBaseline(baselinePath string) (Baseline, error) {
	var baseline Baseline
	baselineFile, err := os.Open(baselinePath)
	if err != nil {
		return baseline, fmt.Errorf("Cannot open baseline.json")
	}
	defer baselineFile.Close()
	baselineContent, err := io.ReadAll(baselineFile)
	if err != nil {
		return baseline, fmt.Errorf("Cannot read baseline.json")
	}
	err = json.Unmarshal(baselineContent, &baseline)
	if err != nil {
		return baseline, fmt.Errorf("Cannot parse baseline.json")
	}
	return baseline, nil
}

func GetHeadCommitHash(workingDir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = workingDir
	out, err := cmd.CombinedOutput()
	strOut := string(out)
	if err != nil {
		return "", fmt.Errorf("%s", strOut)
	}
	return strings.TrimSuffix(strOut, "\n"), nil
}

func NewGitObject(baseline Baseline, currentCommitHash, workingDir string) *GitObject {
	return &GitObject{
		WorkingDir:         workingDir,
		CurrentCommitHash:  currentCommitHash,
		BaselineCommitHash: baseline.CommitHash,
		hunkCache:          make(map[string][]*diff.Hunk),
	}
}

// GetHunksForPath diffs one file between the baseline commit and the current
// one. path is relative to the repository root.
func (g *GitObject) GetHunksForPath(path string) ([]*diff.Hunk, error) {
	if hunks, exist := g.hunkCache[path]; exist {
		return hunks, nil
	}
	cmd := exec.Command("git", "diff", "-U0", g.BaselineCommitHash, g.CurrentCommitHash, "--", path)
	cmd.Dir = g.WorkingDir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff %s: %v", path, err)
	}
	patch, err := diff.Parse(string(out))
	if err != nil {
		return nil, fmt.Errorf("diff.Parse: %v", err)
	}
	hunks := []*diff.Hunk{}
	if file := patch.FindNewFile(path); file != nil {
		hunks = file.Hunks
	}
	g.hunkCache[path] = hunks
	return hunks, nil
}

func inHunk(linenumber, start, lines int) bool {
	if linenumber >= start && linenumber < start+lines {
		return true
	}
	return false
}

func aboveHunk(linenumber, start, lines int) bool {
	if lines == 0 {
		return linenumber <= start
	}
	return linenumber < start
}

func underHunk(linenumber, start, lines int) bool {
	if lines == 0 {
		return linenumber > start
	}
	return linenumber >= start+lines
}

func CompareIssuesThroughHunks(newline, oldline int, hunks []*diff.Hunk) bool {
	newPrev := 0 // the start line of previous same block
	oldPrev := 0 // the start line of previous same block
	for _, hunk := range hunks {
		if inHunk(newline, hunk.NewPos, hunk.NewLines) {
			return false
		} else if aboveHunk(newline, hunk.NewPos, hunk.NewLines) {
			if aboveHunk(oldline, hunk.OldPos, hunk.OldLines) && newline-newPrev == oldline-oldPrev {
				return true
			}
			return false
		} else if !underHunk(oldline, hunk.OldPos, hunk.OldLines) {
			return false
		}
		newPrev = hunk.NewPos + hunk.NewLines
		if hunk.NewLines > 0 {
			newPrev -= 1
		}
		oldPrev = hunk.OldPos + hunk.OldLines
		if hunk.OldLines > 0 {
			oldPrev -= 1
		}
	}
	return newline-newPrev == oldline-oldPrev
}

func IsSameCode(gitObject *GitObject, curLocations, oldLocations Locations, workingDir string) bool {
	for idx, curLoc := range curLocations {
		// project level results carry no file to diff
		if curLoc.Path == "" {
			if curLoc.LineNumber != oldLocations[idx].LineNumber {
				return false
			}
			continue
		}
		relPath := strings.TrimPrefix(strings.TrimPrefix(curLoc.Path, workingDir), "/")
		issueHunks, err := gitObject.GetHunksForPath(relPath)
		if err != nil {
			glog.Errorf("GetHunksForPath failed: %v", err)
			return false
		}
		if !CompareIssuesThroughHunks(int(curLoc.LineNumber), int(oldLocations[idx].LineNumber), issueHunks) {
			return false
		}
	}

	return true
}

func IsSameRule(curErrorMessage, oldErrorMessage string) bool {
	return strings.Split(curErrorMessage, "]")[0] == strings.Split(oldErrorMessage, "]")[0]
}

func IsSamePath(curLocations, oldLocations Locations) bool {
	for idx, curLoc := range curLocations {
		if curLoc.Path != oldLocations[idx].Path {
			return false
		}
	}
	return true
}

// ResultLocations returns the locations identifying a result: the primary
// Path/LineNumber followed by any secondary locations the rule attached.
func ResultLocations(result *report.Result) Locations {
	locations := Locations{{Path: result.Path, LineNumber: result.LineNumber}}
	locations = append(locations, result.Locations...)
	sort.Sort(locations)
	return locations
}

func IsDuplicated(gitObject *GitObject, currentResult *report.Result, baseline Baseline, workingDir string) bool {
	curLocations := ResultLocations(currentResult)
	for _, baselineResult := range baseline.Results {
		var oldLocations Locations = baselineResult.Locations
		sort.Sort(oldLocations)
		if len(oldLocations) != len(curLocations) {
			continue
		}
		if IsSameRule(currentResult.ErrorMessage, baselineResult.ErrorMessage) &&
			IsSamePath(curLocations, oldLocations) &&
			IsSameCode(gitObject, curLocations, oldLocations, workingDir) {
			return true
		}
	}
	return false
}

func RemoveDuplicatedResults(allResults *report.ResultsList, workingDir, configDir, resultsDir string) *report.ResultsList {
	baselinePath := filepath.Join(configDir, "baseline.json")

	cmd := exec.Command("git", "--version")
	if err := cmd.Run(); err != nil {
		glog.Warningf("Cannot find git. Add git to PATH or set option use_git to false")
		return allResults
	}

	cmd = exec.Command("git", "log")
	cmd.Dir = workingDir
	if err := cmd.Run(); err != nil {
		glog.Warningf("This is not a git repo.")
		return allResults
	}

	currentCommitHash, err := GetHeadCommitHash(workingDir)
	if err != nil {
		glog.Errorf("%v", err)
		return allResults
	}
	_, err = os.Stat(baselinePath)
	if err != nil {
		if os.IsNotExist(err) {
			err = CreateBaselineFile(allResults, resultsDir, currentCommitHash)
			if err != nil {
				glog.Errorf("%v", err)
			}
		} else {
			glog.Errorf("%v", err)
		}
		return allResults
	}

	baseline, err := GetBaseline(baselinePath)
	if err != nil {
		glog.Errorf("%v", err)
		return allResults
	}

	gitObject := NewGitObject(baseline, currentCommitHash, workingDir)
	newResults := make([]*report.Result, 0)
	for _, currentResult := range allResults.Results {
		if !IsDuplicated(gitObject, currentResult, baseline, workingDir) {
			newResults = append(newResults, currentResult)
		}
	}
	allResults.Results = newResults
	return allResults
}

func SortResults(allResults *report.ResultsList) {
	sort.Slice(allResults.Results, func(i, j int) bool {
		x := allResults.Results[i]
		y := allResults.Results[j]
		if x.Path < y.Path {
			return true
		}
		if x.Path > y.Path {
			return false
		}
		if x.LineNumber < y.LineNumber {
			return true
		}
		if x.LineNumber > y.LineNumber {
			return false
		}
		return x.ErrorMessage < y.ErrorMessage
	})
}
