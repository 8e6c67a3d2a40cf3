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

package analyzerinterface

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/hhatto/gocloc"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/checkrule"
	"shieldci.dev/analyzer/checker_integration/composer"
	"shieldci.dev/analyzer/rulesets"
	"shieldci.dev/analyzer/utils"
)

type ArrayFlags []string

func (i *ArrayFlags) String() string {
	return "array flags"
}

func (i *ArrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func PrintCmdOutput(cmd *exec.Cmd) error {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Start()
	if err != nil {
		return err
	}
	return cmd.Wait()
}

// DetectLaravelProject verifies that srcdir is a Laravel application: the
// artisan entry script must exist and composer.json must require
// laravel/framework.
func DetectLaravelProject(srcdir string) error {
	if _, err := os.Stat(filepath.Join(srcdir, "artisan")); err != nil {
		return fmt.Errorf("no artisan script in %s", srcdir)
	}
	composerJSON, err := composer.ParseComposerJSON(filepath.Join(srcdir, "composer.json"))
	if err != nil {
		return fmt.Errorf("failed to read composer.json in %s: %v", srcdir, err)
	}
	if !composerJSON.HasPackage("laravel/framework") && !composerJSON.HasPackage("laravel/lumen-framework") {
		return fmt.Errorf("%s does not require laravel/framework", srcdir)
	}
	return nil
}

// ListSourceFiles walks the given subdirs of srcdir and collects the PHP
// sources that survive the ignore patterns. Missing subdirs are skipped, a
// Laravel project without database/ is legal.
func ListSourceFiles(srcdir string, subdirs []string, ignoreDirPatterns []string) ([]string, error) {
	phpFiles := []string{}
	for _, subdir := range subdirs {
		root := filepath.Join(srcdir, subdir)
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(path, ".php") {
				return nil
			}
			matched, err := MatchIgnoreDirPatterns(ignoreDirPatterns, path)
			if err != nil {
				glog.Error(err)
				return nil
			}
			if !matched {
				phpFiles = append(phpFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %v", root, err)
		}
	}
	return phpFiles, nil
}

func CreateLogDir(logDir string) error {
	return os.MkdirAll(logDir, os.ModePerm)
}

func FilterCheckRules(checkrules []checkrule.CheckRule, prefix string) []checkrule.CheckRule {
	var returnCheckRules []checkrule.CheckRule
	for _, rule := range checkrules {
		if strings.HasPrefix(rule.Name, prefix) {
			returnCheckRules = append(returnCheckRules, rule)
		}
	}
	return returnCheckRules
}

func ReadCheckRules(checkRulesPath string) ([]checkrule.CheckRule, error) {
	glog.Info("checkRulesPath ", checkRulesPath)
	checkRulesFile, err := os.Open(checkRulesPath)
	if err != nil {
		return nil, err
	}
	defer checkRulesFile.Close()

	scanner := bufio.NewScanner(checkRulesFile)
	checkRules := make([]checkrule.CheckRule, 0)
	logCheckRules := []string{}

	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, " ", 2)
		ruleName := parts[0]
		jsonOptions := "{}"
		if len(parts) > 1 {
			jsonOptions = parts[1]
		}

		checkRule, err := checkrule.MakeCheckRule(ruleName, jsonOptions)
		if err != nil {
			return nil, err
		}
		logCheckRules = append(logCheckRules, line)
		checkRules = append(checkRules, *checkRule)
	}

	err = scanner.Err()
	if err != nil {
		return nil, err
	}
	glog.Infof("check_rules content:\n%s", strings.Join(logCheckRules, "\n"))
	return checkRules, nil
}

func CreateResultDir(resultsDir string) error {
	dir, err := os.Stat(resultsDir)
	if err != nil {
		if os.IsNotExist(err) {
			err = os.MkdirAll(resultsDir, os.ModePerm)
			return err
		} else {
			return err
		}
	}

	if !dir.IsDir() {
		// a file exists instead of dir
		return os.ErrExist
	}

	return nil
}

func ProcessIgnoreDir(allResults *report.ResultsList, ignoreDirPatterns *ArrayFlags) *report.ResultsList {
	for _, ignoreDirPattern := range *ignoreDirPatterns {
		newResults := []*report.Result{}
		for _, result := range allResults.Results {
			matched, err := doublestar.Match(ignoreDirPattern, result.Path)
			if err != nil {
				glog.Error("malformed ignore_dir pattern ", ignoreDirPattern)
				newResults = allResults.Results
				break
			}
			if matched {
				glog.Infof("Result in path %s ignored due to pattern %s", result.Path, ignoreDirPattern)
			} else {
				newResults = append(newResults, result)
			}
		}
		allResults.Results = newResults
	}
	return allResults
}

func AddID(allResults *report.ResultsList) {
	for i := 0; i < len(allResults.Results); i++ {
		id, err := uuid.NewRandom()
		if err != nil {
			// Just warning If id left empty here, it will be regenerated when
			// inserting results into DB. Report errors at that time.
			glog.Warningf("uuid.NewRandom: %v", err)
			continue
		}
		allResults.Results[i].Id = id.String()
	}
}

func AddCodeLineHash(allResults *report.ResultsList) {
	start := time.Now()
	// suppose resultsList has been sorted by paths and line numbers
	// you may take baseline.SortResults() for reference
	var lastLineHash string
	for i := 0; i < len(allResults.Results); {
		result := allResults.Results[i]
		// rescan file only when the path is different from the last one
		if i != 0 && result.Path == allResults.Results[i-1].Path {
			i++
			continue
		}
		fi, err := os.Stat(result.Path)
		// skip if result.Path does not exist or other errors occur
		if err != nil {
			glog.Errorf("os.Stat('%s'): %v", result.Path, err)
			i++
			continue
		}
		// skip if result.Path is a dir
		if fi.IsDir() {
			glog.Warningf("'%s' is not a file", result.Path)
			i++
			continue
		}
		fileContent, _ := os.Open(result.Path)
		fileScanner := bufio.NewScanner(fileContent)
		var count int32 = 1
		for fileScanner.Scan() {
			for ; i < len(allResults.Results); i++ {
				curResult := allResults.Results[i]
				if count != curResult.LineNumber {
					break
				}
				// recompute line hash only when the lineNumber is different
				if i != 0 && curResult.LineNumber == allResults.Results[i-1].LineNumber {
					curResult.CodeLineHash = lastLineHash
					continue
				}
				content := strings.TrimSpace(fileScanner.Text())
				h := sha1.New()
				h.Write([]byte(content))
				contentSha1 := hex.EncodeToString(h.Sum(nil))
				lastLineHash = contentSha1[:16]
				curResult.CodeLineHash = lastLineHash
			}
			count++
		}
		fileContent.Close()
	}
	glog.Infof("spent %s on adding CodeLineHash for all results", time.Since(start))
}

func ProcessSuppression(allResults *report.ResultsList, suppressionDir string) (*report.ResultsList, error) {
	var suppressionFiles []string
	err := filepath.Walk(suppressionDir, visit(&suppressionFiles))
	if err != nil {
		return allResults, err
	}
	suppressionMap, err := getSuppressionMap(suppressionFiles)
	if err != nil {
		return allResults, err
	}
	countMap := make(map[string]int)
	newResults := []*report.Result{}
	for _, result := range allResults.Results {
		re := regexp.MustCompile(`\[(.*?)\]`)
		ruleCode := re.FindString(result.ErrorMessage)
		if ruleCode == "" {
			newResults = append(newResults, result)
			continue
		}
		ruleCode = ruleCode[1 : len(ruleCode)-1]
		key := suppressionAsKey{content: result.CodeLineHash, ruleCode: ruleCode}
		_, exist := suppressionMap[key]
		if exist {
			_, ok := countMap[ruleCode]
			if ok {
				countMap[ruleCode] += 1
			} else {
				countMap[ruleCode] = 1
			}
		} else {
			newResults = append(newResults, result)
		}
	}
	for ruleCode, count := range countMap {
		glog.Infof("%d violations of %s are filtered out with suppression", count, ruleCode)
	}
	allResults.Results = newResults

	return allResults, nil
}

// convert path from relative path to absolute path
// remove results of which the path not in src dir
// project-level results with an empty path are kept as-is
func FormatResultPath(allResults *report.ResultsList, srcDir string) *report.ResultsList {
	formattedResult := &report.ResultsList{}
	for _, result := range allResults.Results {
		if result.Path == "" {
			formattedResult.Results = append(formattedResult.Results, result)
			continue
		}
		if !filepath.IsAbs(result.Path) {
			result.Path = filepath.Join(srcDir, result.Path)
		}
		for _, location := range result.Locations {
			if !filepath.IsAbs(location.Path) {
				location.Path = filepath.Join(srcDir, location.Path)
			}
		}
		if strings.HasPrefix(result.Path, srcDir) {
			formattedResult.Results = append(formattedResult.Results, result)
		}
	}

	return formattedResult
}

func WriteJsonResults(allResults *report.ResultsList, resultsPath string) error {
	out, err := json.MarshalIndent(allResults, "", "  ")
	if err != nil {
		return err
	}
	err = os.WriteFile(resultsPath, out, os.ModePerm)
	if err != nil {
		return err
	}

	return nil
}

func PrintResults(allResults *report.ResultsList, printCounts bool) {
	results := allResults.Results
	result_count_map := map[string]int{}

	sort.Slice(results, func(i, j int) bool {
		x := results[i]
		y := results[j]
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

	for _, result := range results {
		fmt.Printf("%s:%d: %s\n\n", result.Path, result.LineNumber, result.ErrorMessage)
		result_count_map[result.ErrorMessage]++
	}
	if printCounts {
		// add a group by output to show the occurred times of an error in project.
		for errorMessage, count := range result_count_map {
			fmt.Printf("count: %d error message: %s\n", count, errorMessage)
		}
	}
}

func CleanResultDir(resultsDir string) error {
	filesToIgnore := []string{}
	// add *.sca_metadata to filesToIgnore
	err := filepath.Walk(resultsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".sca_metadata") {
			filesToIgnore = append(filesToIgnore, filepath.Base(path))
		}
		return nil
	})
	if err != nil {
		glog.Errorf("filepath.Walk: %v", err)
	}

	cleanedLogDir := filepath.Clean(flag.Lookup("log_dir").Value.String())
	cleanedResultsDir := filepath.Clean(resultsDir)

	// If logDir is in resultsDir, we shall keep it.
	if strings.HasPrefix(cleanedLogDir, cleanedResultsDir) {
		relPath, err := filepath.Rel(cleanedResultsDir, cleanedLogDir)
		if err != nil {
			glog.Errorf("filepath.Rel: %v", err)
		}
		ignoredName := strings.Split(relPath, string(filepath.Separator))[0] // ignore the whole subfolder.
		glog.Infof("clean cache: ignoring log dir: %s", ignoredName)
		filesToIgnore = append(filesToIgnore, ignoredName)
	}

	err = utils.CleanCache(resultsDir, filesToIgnore)
	if err != nil {
		return err
	}
	return nil
}

func MatchIgnoreDirPatterns(ignoreDirPatterns []string, filePath string) (bool, error) {
	matched := false
	var err error
	for _, ignoreDirPattern := range ignoreDirPatterns {
		matched, err = doublestar.Match(ignoreDirPattern, filePath)
		if err != nil {
			return matched, fmt.Errorf("malformed ignore_dir pattern %s", ignoreDirPattern)
		}
		if matched {
			glog.Infof("Source file %s ignored due to pattern %s", filePath, ignoreDirPattern)
			break
		}
	}
	return matched, nil
}

func CountLinesUnderDir(workingDirs []string, countLangs []string, ignoreDirPatterns []string) (int, error) {
	clocOpts := gocloc.NewClocOptions()
	languages := gocloc.NewDefinedLanguages()
	for _, lang := range countLangs {
		if _, exists := languages.Langs[lang]; exists {
			clocOpts.IncludeLangs[lang] = struct{}{}
		}
	}
	processor := gocloc.NewProcessor(languages, clocOpts)
	result, err := processor.Analyze(workingDirs)
	if err != nil {
		glog.Errorf("gocloc fail: %v", err)
		return 0, err
	}
	sum := 0
	for _, file := range result.Files {
		matched, err := MatchIgnoreDirPatterns(ignoreDirPatterns, file.Name)
		if err != nil {
			glog.Error(err)
			continue
		}
		if matched {
			continue
		}
		sum += int(file.Code)
	}

	return sum, nil
}

type Severity struct {
	Id    string
	Label string
}

var SEVERITY = map[int32]Severity{
	1: {Id: "highest", Label: "最高"},
	2: {Id: "high", Label: "高"},
	3: {Id: "medium", Label: "中"},
	4: {Id: "low", Label: "低"},
	5: {Id: "lowest", Label: "最低"},
	0: {Id: "unknown", Label: "未定义"},
}

type Violation struct {
	Path    string `json:"path"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type Rule struct {
	Ident      string      `json:"ident"`
	Subject    string      `json:"subject"`
	Severity   string      `json:"severity"`
	Violations []Violation `json:"violations"`
}

type Report struct {
	Rules []Rule `json:"rules"`
}

// GenerateReport groups the results per rule with code excerpts into a
// human-facing report.json.
func GenerateReport(allResults *report.ResultsList, srcDir, reportPath, lang string) error {
	ruleMap := make(map[string]Rule)
	ruleNameList := []string{}
	for _, result := range allResults.Results {
		if result.Ruleset == "" {
			glog.Errorf("result without a ruleset: %s", result.ErrorMessage)
			continue
		}
		fullRuleName := fmt.Sprintf("%s/%s", result.Ruleset, result.RuleId)
		subject, externalMessage, _ := strings.Cut(result.ErrorMessage, "\n")
		re := regexp.MustCompile(`\[.*\]: (.*)`)
		matches := re.FindStringSubmatch(subject)
		if len(matches) == 2 {
			subject = matches[1]
		}

		severity, exist := SEVERITY[result.Severity]
		if !exist {
			severity = SEVERITY[0]
		}
		var severityName string
		if lang == "zh" {
			severityName = severity.Label
		} else {
			severityName = severity.Id
		}

		rule, exist := ruleMap[fullRuleName]
		if !exist {
			ruleNameList = append(ruleNameList, fullRuleName)
			rule = Rule{Ident: fullRuleName, Subject: subject, Severity: severityName, Violations: make([]Violation, 0)}
		}

		path := result.Path
		if rel, err := filepath.Rel(srcDir, result.Path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
		code := ""
		if result.Path != "" && result.LineNumber > 0 {
			var err error
			code, err = rulesets.GetCode(result.Path, result.LineNumber /* charset =*/, "utf8")
			if err != nil {
				glog.Errorf("GetCode: %v", err)
				continue
			}
		}
		rule.Violations = append(rule.Violations, Violation{Path: path, Code: code, Details: externalMessage})
		ruleMap[fullRuleName] = rule
	}
	sort.Strings(ruleNameList)
	rules := []Rule{}
	for _, ruleName := range ruleNameList {
		rule := ruleMap[ruleName]
		if len(rule.Violations) > 0 {
			rules = append(rules, rule)
		}
	}
	report := Report{Rules: rules}
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(&report)
	if err != nil {
		return fmt.Errorf("enc.Encode: %v", err)
	}
	err = os.WriteFile(reportPath, buf.Bytes(), os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to write %s: %v", reportPath, err)
	}

	return nil
}
