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

/*
This package should not import any packages of other analyzers to
avoid recursive import.
*/
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/checkrule"
	"shieldci.dev/analyzer/checklib/i18n"
)

// DefaultMaxReportNum caps the issues reported per rule unless the rule
// options say otherwise. The tail result notes the omitted count.
const DefaultMaxReportNum = 50

var kPhpSuffixs = []string{"php", "phtml", "blade.php"}

func IsPhpFile(path string) bool {
	for _, suffix := range kPhpSuffixs {
		if strings.HasSuffix(path, "."+suffix) {
			return true
		}
	}
	return false
}

func GetRuleNameFromErrorMessage(msg string) (string, error) {
	reg := regexp.MustCompile(`\[([a-zA-Z\_\d]*)\]\[([a-zA-Z\.\-\_\d]*)\].*`)
	matches := reg.FindAllStringSubmatch(msg, -1)

	for _, match := range matches {
		if len(match) < 3 {
			continue
		}
		ruleInfo := strings.Split(match[2], "-")
		if len(ruleInfo) == 2 {
			ruleId := strings.ReplaceAll(ruleInfo[1], ".", "_")
			return ruleInfo[0] + "/rule_" + ruleId, nil
		}
		lastIndex := strings.LastIndex(match[2], "-")
		if lastIndex != -1 {
			return fmt.Sprintf("%s/%s", match[2][:lastIndex], match[2][lastIndex+1:]), nil
		}
	}
	return "", fmt.Errorf("invalid error message %v", msg)
}

// DeleteExceedResults keeps the first MaxReportNum results of every rule.
// When a rule overflows, the last kept result carries a note with the total.
func DeleteExceedResults(allResults *report.ResultsList, checkRules []checkrule.CheckRule, lang string) *report.ResultsList {
	maxReportNumMap := make(map[string]int)
	for _, checkRule := range checkRules {
		if checkRule.JSONOptions.MaxReportNum != nil {
			maxReportNumMap[checkRule.Name] = *checkRule.JSONOptions.MaxReportNum
		}
	}
	maxFor := func(rule string) int {
		if max, exist := maxReportNumMap[rule]; exist {
			return max
		}
		return DefaultMaxReportNum
	}
	totalMap := make(map[string]int)
	for _, currentResult := range allResults.Results {
		rule, err := GetRuleNameFromErrorMessage(currentResult.ErrorMessage)
		if err != nil {
			continue
		}
		totalMap[rule]++
	}
	keptMap := make(map[string]int)
	lastKept := make(map[string]*report.Result)
	rtnResults := make([]*report.Result, 0)
	for _, currentResult := range allResults.Results {
		rule, err := GetRuleNameFromErrorMessage(currentResult.ErrorMessage)
		if err != nil {
			glog.Errorf("GetRuleNameFromErrorMessage: %v", err)
			rtnResults = append(rtnResults, currentResult)
			continue
		}
		max := maxFor(rule)
		if max <= 0 {
			// a non-positive max-report-num disables the cap
			rtnResults = append(rtnResults, currentResult)
			continue
		}
		if keptMap[rule] < max {
			keptMap[rule]++
			lastKept[rule] = currentResult
			rtnResults = append(rtnResults, currentResult)
		}
	}
	printer := i18n.GetPrinter(lang)
	for rule, total := range totalMap {
		kept := keptMap[rule]
		if total > kept && lastKept[rule] != nil {
			lastKept[rule].ErrorMessage += "\n" +
				printer.Sprintf("showing the first %d of %d issues, %d omitted", kept, total, total-kept)
		}
	}
	allResults.Results = rtnResults
	return allResults
}

func DeleteResultsWithCertainSuffixs(allResults *report.ResultsList, suffix []string) *report.ResultsList {
	rtnResults := make([]*report.Result, 0)
	suffixs := make(map[string]struct{})

	for _, str := range suffix {
		suffixs[str] = struct{}{}
	}

	for _, currentResult := range allResults.Results {
		if _, ok := suffixs[filepath.Ext(currentResult.Path)]; !ok {
			rtnResults = append(rtnResults, currentResult)
		}
	}
	allResults.Results = rtnResults
	return allResults
}
