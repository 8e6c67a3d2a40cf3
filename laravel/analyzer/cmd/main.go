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

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/analyzerinterface"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration"
	"shieldci.dev/analyzer/checker_integration/checkrule"
	"shieldci.dev/analyzer/checklib/baseline"
	"shieldci.dev/analyzer/checklib/basic"
	"shieldci.dev/analyzer/checklib/filter"
	"shieldci.dev/analyzer/checklib/i18n"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/stats"
	laravel "shieldci.dev/analyzer/laravel/analyzer"
	"shieldci.dev/analyzer/telemetry/client/sender"
)

var linesLimitStr string = "0"
var numWorkersStr string = "0"

func main() {
	sharedOptions := options.NewSharedOptions()
	flag.Parse()
	defer glog.Flush()

	// Do not call any logging functions of glog before this part.
	printer := i18n.GetPrinter(sharedOptions.GetLang())

	logDir := flag.Lookup("log_dir")
	if logDir.Value.String() == "" {
		err := flag.Set("log_dir", filepath.Join(sharedOptions.GetResultsDir(), "logs"))
		if err != nil {
			glog.Fatalf("failed to set default log_dir: %v", err)
		}
	}
	err := analyzerinterface.CreateLogDir(logDir.Value.String())
	if err != nil {
		glog.Fatalf("failed to create log dir: %v", err)
	}

	if !sharedOptions.GetDebugMode() {
		err := flag.Set("stderrthreshold", "FATAL")
		if err != nil {
			glog.Fatalf("failed to set default stderrthreshold: %v", err)
		}
	}

	fmt.Println("(c) 2026 ShieldCI Ltd.")

	start := time.Now()

	numWorkers, err := options.ParseLimitMemory(sharedOptions, numWorkersStr)
	if err != nil {
		glog.Fatalf("options.ParseLimitMemory: %v", err)
	}

	glog.Info("numWorkers: ", numWorkers)
	glog.Info("configDir: ", sharedOptions.GetConfigDir())
	glog.Info("checkerConfig: ", sharedOptions.GetCheckerConfig())

	err = analyzerinterface.CreateResultDir(sharedOptions.GetResultsDir())
	if err != nil {
		glog.Fatalf("failed to create result dir: %v", err)
	}

	resultsWithSuffixPath := filepath.Join(sharedOptions.GetResultsDir(), "results.sca_results")
	resultsJsonPath := filepath.Join(sharedOptions.GetResultsDir(), "sca_results.json")
	if !filepath.IsAbs(sharedOptions.GetConfigDir()) {
		glog.Fatal("configDir must be an absolute path")
	}

	if sharedOptions.GetSrcDir() != "/src" {
		sharedOptions.SetSrcDir(filepath.Join("/src", sharedOptions.GetSrcDir()))
	}

	if sharedOptions.GetCheckProgress() {
		basic.PrintfWithTimeStamp(printer.Sprintf("Start detecting the project"))
		stats.WriteProgress(sharedOptions.GetResultsDir(), stats.PD, "0%", start)
	}
	err = analyzerinterface.DetectLaravelProject(sharedOptions.GetSrcDir())
	if err != nil {
		glog.Fatalf("analyzerinterface.DetectLaravelProject: %v", err)
	}

	sender.Send(sender.EventRunStarted, sender.Fields{
		"project_name": sharedOptions.GetProjectName(),
		"lang":         sharedOptions.GetLang(),
	})

	if sharedOptions.GetCheckProgress() {
		basic.PrintfWithTimeStamp(printer.Sprintf("Start counting lines of code"))
		stats.WriteProgress(sharedOptions.GetResultsDir(), stats.LC, "0%", time.Now())
	}
	// It will report a fatal error, when:
	// 1) if there is neither PHP nor Blade lines.
	// 2) if the number of code lines exceed the maximum limit.
	phplines, bladelines, err := options.CheckCodeLines(sharedOptions, linesLimitStr)
	if err != nil {
		glog.Fatalf("options.CheckCodeLines: %v", err)
	}

	parsedCheckerConfig := options.ParseCheckerConfig(sharedOptions, numWorkers)
	glog.Info("parsedCheckerConfig: ", parsedCheckerConfig)

	checkRulesPath := filepath.Join(sharedOptions.GetConfigDir(), "check_rules")
	checkRules, err := analyzerinterface.ReadCheckRules(checkRulesPath)
	if err != nil {
		glog.Errorf("failed to read check rules from %s: %v", checkRulesPath, err)
	}

	err = analyzerinterface.CleanResultDir(sharedOptions.GetResultsDir())
	if err != nil {
		glog.Errorf("failed to clean log and result dir: %v", err)
	}

	// phpstan runs once for the whole analysis, fed by the merged options of
	// the enabled phpstan rules.
	var phpstanOptions *checkrule.JSONOption
	phpstanRules := analyzerinterface.FilterCheckRules(checkRules, "phpstan")
	if len(phpstanRules) > 0 {
		merged := checkrule.JSONOption{}
		for _, rule := range phpstanRules {
			merged.Update(rule.JSONOptions)
		}
		phpstanOptions = &merged
	}

	if sharedOptions.GetCheckProgress() {
		basic.PrintfWithTimeStamp(printer.Sprintf("Start running PHPStan"))
		stats.WriteProgress(sharedOptions.GetResultsDir(), stats.PS, "0%", time.Now())
	}
	phpstanStart := time.Now()
	envOptions := options.NewEnvOptionsFromShared(
		phpstanOptions,
		logDir.Value.String(),
		sharedOptions,
		parsedCheckerConfig,
		numWorkers,
	)
	if sharedOptions.GetCheckProgress() {
		timeUsed := basic.FormatTimeDuration(time.Since(phpstanStart))
		basic.PrintfWithTimeStamp(printer.Sprintf("PHPStan execution completed [%s]", timeUsed))
	}

	if sharedOptions.GetCheckProgress() {
		basic.PrintfWithTimeStamp(printer.Sprintf("Start analyzing the project"))
		stats.WriteProgress(sharedOptions.GetResultsDir(), stats.AC, "0%", time.Now())
	}
	allResults, errors := laravel.Run(checkRules, sharedOptions.GetSrcDir(), envOptions)
	for _, err := range errors {
		if err != nil {
			glog.Errorf("errors occur while analyzing: %v", err)
		}
	}
	if allResults == nil {
		glog.Warning("No code can be analyzed with the chosen rules.")
		allResults = &report.ResultsList{}
	}

	allResults = analyzerinterface.FormatResultPath(allResults, sharedOptions.GetSrcDir())
	allResults = analyzerinterface.ProcessIgnoreDir(allResults, &sharedOptions.IgnoreDirPatterns)

	i18n.LocalizeResultMessages(allResults, sharedOptions.GetLang())

	err = checker_integration.DeleteRepeatedResults(allResults)
	if err != nil {
		glog.Fatal(err)
	}

	// truncation runs after deduplication so the omitted counts are honest
	allResults = filter.DeleteExceedResults(allResults, checkRules, sharedOptions.GetLang())

	allResults = baseline.RemoveDuplicatedResults(
		allResults,
		sharedOptions.GetSrcDir(),
		sharedOptions.GetConfigDir(),
		sharedOptions.GetResultsDir())
	baseline.SortResults(allResults)

	suppressionDir := filepath.Join(sharedOptions.GetConfigDir(), "suppression")
	stat, err := os.Stat(suppressionDir)
	if err == nil && stat.IsDir() {
		allResults, err = analyzerinterface.ProcessSuppression(allResults, suppressionDir)
		if err != nil {
			glog.Errorf("ProcessSuppression: %v", err)
		}
	}

	if sharedOptions.GetAddLineHash() {
		analyzerinterface.AddCodeLineHash(allResults)
	}

	analyzerinterface.AddID(allResults)

	// write results
	err = analyzerinterface.WriteJsonResults(allResults, resultsWithSuffixPath)
	if err != nil {
		glog.Fatal(err)
	}
	if sharedOptions.GetShowJsonResults() {
		err = analyzerinterface.WriteJsonResults(allResults, resultsJsonPath)
		if err != nil {
			glog.Fatal(err)
		}
	}

	// count results by severity and save stats to severity_stats.sca_metadata
	stats.CountSeverityAndWrite(allResults, sharedOptions.GetResultsDir())

	err = analyzerinterface.GenerateReport(allResults, sharedOptions.GetSrcDir(), filepath.Join(sharedOptions.GetResultsDir(), "report.json"), sharedOptions.GetLang())
	if err != nil {
		glog.Errorf("failed to generate report: %v", err)
	}

	glog.Infof("All results have been written to %s (%d in total), exit. ", resultsWithSuffixPath, len(allResults.Results))
	if sharedOptions.GetShowResults() {
		analyzerinterface.PrintResults(allResults, sharedOptions.GetShowResultsCount())
	}

	elapsed := time.Since(start)
	if sharedOptions.GetCheckProgress() {
		stats.WriteProgress(sharedOptions.GetResultsDir(), stats.END, "100%", start)
		timeUsed := basic.FormatTimeDuration(elapsed)
		basic.PrintfWithTimeStamp(printer.Sprintf("Total time for analysis: %s", timeUsed))
	}

	sender.Send(sender.EventRunFinished, sender.Fields{
		"results":     len(allResults.Results),
		"php_lines":   phplines,
		"blade_lines": bladelines,
		"duration":    elapsed.String(),
	})
	sender.Wait()

	// tar logs folder
	err = basic.TarFile(logDir.Value.String(), filepath.Join(sharedOptions.GetResultsDir(), "logs.tar.gz"))
	if err != nil {
		glog.Errorf("failed to compress log files: %v", err)
	}
	glog.Flush()
}
