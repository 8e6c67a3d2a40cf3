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

package options

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strconv"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/analyzerinterface"
	"shieldci.dev/analyzer/checker_integration"
	"shieldci.dev/analyzer/checklib/basic"
	"shieldci.dev/analyzer/checklib/i18n"
	"shieldci.dev/analyzer/checklib/stats"
	"shieldci.dev/analyzer/cpumem"
)

func ParseCheckerConfig(sharedOptions *SharedOptions, numWorkers int32) *checker_integration.CheckerConfiguration {
	parsedCheckerConfig := &checker_integration.CheckerConfiguration{}
	err := json.Unmarshal([]byte(sharedOptions.GetCheckerConfig()), parsedCheckerConfig)
	if err != nil {
		glog.Fatal("parsing checker config: ", err)
	}
	// replace parsedCheckerConfig if some field set by standalone options
	if sharedOptions.GetPhpstanBin() != "" {
		parsedCheckerConfig.PhpstanBin = sharedOptions.GetPhpstanBin()
	}
	if sharedOptions.GetPhpBin() != "" {
		parsedCheckerConfig.PhpBin = sharedOptions.GetPhpBin()
	}
	if sharedOptions.GetComposerBin() != "" {
		parsedCheckerConfig.ComposerBin = sharedOptions.GetComposerBin()
	}
	if sharedOptions.GetPhpstanArgs() != "" {
		parsedCheckerConfig.PhpstanExtraArgs = sharedOptions.GetPhpstanArgs()
	}
	if parsedCheckerConfig.PhpBin == "" {
		parsedCheckerConfig.PhpBin = "php"
	}
	if parsedCheckerConfig.ComposerBin == "" {
		parsedCheckerConfig.ComposerBin = "composer"
	}
	parsedCheckerConfig.NumWorkers = numWorkers
	return parsedCheckerConfig
}

// CheckCodeLines counts the project's PHP and Blade lines, enforces the
// lines limit and records the count in the results dir.
func CheckCodeLines(sharedOptions *SharedOptions, linesLimitStr string) (int, int, error) {
	printer := i18n.GetPrinter(sharedOptions.GetLang())
	phplines, err := analyzerinterface.CountLinesUnderDir([]string{sharedOptions.GetSrcDir()}, []string{"PHP"}, sharedOptions.GetIgnoreDirPatterns())
	if err != nil {
		return phplines, 0, fmt.Errorf("failed to check php lines: %v", err)
	}
	bladelines, err := analyzerinterface.CountLinesUnderDir([]string{sharedOptions.GetSrcDir()}, []string{"Blade"}, sharedOptions.GetIgnoreDirPatterns())
	if err != nil {
		return phplines, bladelines, fmt.Errorf("failed to check blade lines: %v", err)
	}
	if phplines == 0 && bladelines == 0 {
		basic.PrintfWithTimeStamp(printer.Sprintf("%d lines of PHP code", phplines))
		basic.PrintfWithTimeStamp(printer.Sprintf("%d lines of Blade templates", bladelines))
		return phplines, bladelines, fmt.Errorf("nothing to analyze, please check %s", sharedOptions.GetSrcDir())
	}
	linesLimit, err := strconv.Atoi(linesLimitStr)
	if err != nil {
		return phplines, bladelines, fmt.Errorf("invalid lines limit: %v", err)
	}
	if linesLimit != 0 && (phplines+bladelines) > linesLimit {
		basic.PrintfWithTimeStamp(printer.Sprintf("%d lines of PHP code", phplines))
		basic.PrintfWithTimeStamp(printer.Sprintf("%d lines of Blade templates", bladelines))
		return phplines, bladelines, fmt.Errorf("exceed maximum limit %d", linesLimit)
	}
	if sharedOptions.GetCheckProgress() && sharedOptions.GetShowLineNumber() {
		basic.PrintfWithTimeStamp(printer.Sprintf("%d lines of PHP code", phplines))
		basic.PrintfWithTimeStamp(printer.Sprintf("%d lines of Blade templates", bladelines))
	}
	stats.WriteLOC(sharedOptions.GetResultsDir(), phplines+bladelines)
	return phplines, bladelines, nil
}

func ParseLimitMemory(sharedOptions *SharedOptions, numWorkersStr string) (int32, error) {
	num_workers, err := strconv.ParseInt(numWorkersStr, 10, 32)
	if err != nil {
		return int32(num_workers), fmt.Errorf("invalid number of workers: %v", err)
	}
	numWorkers := int32(num_workers)
	if numWorkers == 0 {
		numWorkers = int32(runtime.NumCPU())
	}
	if sharedOptions.GetLimitMemory() && sharedOptions.GetAvailMemRatio() >= 0 {
		err := basic.InitCgroup()
		if err != nil {
			return numWorkers, fmt.Errorf("failed to create cgroup for the analyzer: %v", err)
		}
		totalAvailMem, err := basic.GetTotalAvailMem()
		if err != nil {
			return numWorkers, fmt.Errorf("failed to get available memory: %v", err)
		}
		cpumem.Init(int(numWorkers), int(float64(totalAvailMem)*sharedOptions.GetAvailMemRatio()))
	} else {
		cpumem.Init(int(numWorkers), 0)
		sharedOptions.SetLimitMemory(false)
	}
	return numWorkers, nil
}
