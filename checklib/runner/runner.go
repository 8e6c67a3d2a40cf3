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

package runner

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/golang/glog"
	"golang.org/x/text/message"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/artisan"
	"shieldci.dev/analyzer/checker_integration/phpstan"
	"shieldci.dev/analyzer/checklib/basic"
	"shieldci.dev/analyzer/checklib/i18n"
	"shieldci.dev/analyzer/checklib/issuecode"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/severity"
	"shieldci.dev/analyzer/checklib/stats"
)

// The task for Runner to run in parallels
type AnalyzerTask struct {
	Id      int
	Srcdir  string
	Opts    *options.CheckOptions
	Analyze func(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error)
	Rule    string
}

type analyzerResult struct {
	id             int
	rule           string
	srcdir         string
	resultsList    *report.ResultsList
	customSeverity string
	err            error
}

// A goroutine workgroup to run analyzers in parallel.
type ParaTaskRunner struct {
	showProgress   bool
	workerWg       sync.WaitGroup
	collectorWg    sync.WaitGroup
	jobs_chan      chan AnalyzerTask
	results_chan   chan analyzerResult
	sigs_exiting   chan bool
	results        *report.ResultsList
	errors         []error
	processPrinter basic.CheckingProcessPrinter
}

// modify the analyzer result.
// eg. add rule name prefix to the report message.
// env/rule_example_sync -> [L1101][env-example.sync]
// phpstan/rule_dead_code -> [L1501][phpstan-dead.code]
func modifyResult(result *analyzerResult) {
	for _, r := range result.resultsList.Results {
		ruleset := strings.Split(result.rule, "/")[0]
		ruleName := strings.Split(result.rule, "/")[1]
		ruleStr := strings.Join(strings.Split(ruleName, "_")[1:], ".")
		issueCode := issuecode.GetIssueCode(ruleset, ruleName)
		if issueCode == "" {
			glog.Warning("There is no available issue code for ", result.rule)
			// mock for the issue code parsing of the report viewer
			issueCode = "-"
		}
		r.ErrorMessage = "[" + issueCode + "][" + ruleset + "-" + ruleStr + "]: " + r.ErrorMessage
		r.Ruleset = ruleset
		r.RuleId = ruleName
	}
}

func (pt *ParaTaskRunner) worker(jobs <-chan AnalyzerTask, results chan<- analyzerResult, printer *message.Printer) {
	for j := range jobs {
		if pt.showProgress {
			pt.processPrinter.StartAnalyzeTask(j.Rule, printer)
			j.Opts.EnvOption.CheckProgress = false
		}
		func() {
			defer func() {
				// recover from possible panic
				if r := recover(); r != nil {
					glog.Error("Recovered in analyze: ", r, string(debug.Stack()))
					results <- analyzerResult{id: j.Id, err: errors.New("panic in analyze rule"), resultsList: nil, rule: j.Rule, srcdir: j.Srcdir}
					if pt.showProgress {
						j.Opts.EnvOption.CheckProgress = true
						pt.processPrinter.FinishAnalyzeTask(j.Rule, printer)
					}
				}
			}()
			resultList, err := j.Analyze(j.Srcdir, j.Opts)
			customSeverity := ""
			if j.Opts.JsonOption.Severity != nil {
				customSeverity = *j.Opts.JsonOption.Severity
			}
			results <- analyzerResult{id: j.Id, err: err, resultsList: resultList, rule: j.Rule, srcdir: j.Srcdir, customSeverity: customSeverity}
			if pt.showProgress {
				j.Opts.EnvOption.CheckProgress = true
				pt.processPrinter.FinishAnalyzeTask(j.Rule, printer)
				stats.WriteProgress(j.Opts.EnvOption.ResultsDir, stats.AC, pt.processPrinter.GetPercentString(), pt.processPrinter.GetStartedAt())
			}
		}()
	}
	pt.workerWg.Done()
}

// Create a new task runner and results collectors.
func NewParaTaskRunner(numWorkers int32, taskNums int, showProgress bool, lang string) *ParaTaskRunner {
	printer := i18n.GetPrinter(lang)
	if numWorkers == 0 {
		numWorkers = int32(runtime.NumCPU())
		if showProgress {
			basic.PrintfWithTimeStamp(printer.Sprintf("Use %d CPU(s)", numWorkers))
		}
	}
	paraRunner := &ParaTaskRunner{
		showProgress:   showProgress,
		jobs_chan:      make(chan AnalyzerTask, numWorkers),
		results_chan:   make(chan analyzerResult, numWorkers),
		sigs_exiting:   make(chan bool, 1),
		results:        &report.ResultsList{},
		errors:         make([]error, taskNums),
		processPrinter: basic.NewCheckingProcessPrinter(taskNums),
	}
	for w := 0; w < int(numWorkers); w++ {
		paraRunner.workerWg.Add(1)
		go paraRunner.worker(paraRunner.jobs_chan, paraRunner.results_chan, printer)
	}

	sigs := make(chan os.Signal, 1)
	// if a signal is received, notify the loop to stop sending new workers
	signal.Notify(sigs, syscall.SIGINT)
	// collect results
	paraRunner.collectorWg.Add(1)
	go func() {
		for job_result := range paraRunner.results_chan {
			select {
			case <-sigs:
				// if recived a SIGINT, stop collector and analyze rule loop
				if paraRunner.showProgress {
					basic.PrintfWithTimeStamp("Ctrl C Pressed. Stop analysis")
				}
				// notifie the 'for i, rule := range rules' loop to exit
				paraRunner.sigs_exiting <- true
				paraRunner.collectorWg.Done()
				return
			default:
			}
			if job_result.err == nil {
				modifyResult(&job_result)
				resultsWithSeverity := severity.AddSeverity(job_result.resultsList, job_result.rule, job_result.customSeverity)
				paraRunner.results.Results = append(paraRunner.results.Results, resultsWithSeverity.Results...)
			} else {
				glog.Errorf("Analyze %v got error %v", job_result.rule, job_result.err)
			}
			paraRunner.errors[job_result.id] = job_result.err
		}
		paraRunner.collectorWg.Done()
	}()
	return paraRunner
}

// check for the SIGINT existing signal
// If the existing signal is received, it will return results and errors.
// results will never be nil if the existing signal is received.
// If the existing signal is not received, it will return nil for results and nil for errors.
func (pt *ParaTaskRunner) CheckSignalExiting() (results *report.ResultsList, errors []error) {
	select {
	// if recived a SIGINT, stop analyze rule loop
	case <-pt.sigs_exiting:
		// close the jobs_chan to let worker end
		close(pt.jobs_chan)
		pt.collectorWg.Wait()
		// return results and errors directly because collector has stop.
		return pt.results, pt.errors
	default:
		return nil, nil
	}
}

// Add a task to the task runner and start running the task.
// The rule name will be added to the report message.
func (pt *ParaTaskRunner) AddTask(task AnalyzerTask) {
	pt.jobs_chan <- task
}

// Wait until all the tasks workers and collectors are finished and all results are collected.
// Return the results and errors.
func (pt *ParaTaskRunner) CollectResultsAndErrors() (results *report.ResultsList, errors []error) {
	go func() {
		pt.workerWg.Wait()
		close(pt.results_chan)
	}()
	close(pt.jobs_chan)
	pt.collectorWg.Wait()
	return pt.results, pt.errors
}

// RunPhpstan hands out the analysis report prepared during option parsing.
// The binary runs once for the whole analysis, not once per rule.
func RunPhpstan(srcdir string, opts *options.CheckOptions) (*phpstan.Report, error) {
	envOptions := opts.EnvOption
	if envOptions.PhpstanReport != nil {
		return envOptions.PhpstanReport, nil
	}
	if envOptions.PhpstanError != "" {
		return nil, fmt.Errorf("phpstan did not produce a report: %v", envOptions.PhpstanError)
	}
	return nil, errors.New("phpstan did not run")
}

// RunArtisanAbout reads the runtime view of the application config. It is
// best effort, callers fall back to parsing files when artisan cannot run.
func RunArtisanAbout(srcdir string, opts *options.CheckOptions) (map[string]map[string]string, error) {
	envOptions := opts.EnvOption
	if !artisan.HasArtisan(srcdir) {
		return nil, errors.New("artisan script not found")
	}
	return artisan.About(
		srcdir,
		opts.RuleSpecificOption.RuleSpecificResultDir,
		envOptions.CheckerConfig.PhpBin,
		envOptions.LimitMemory,
		envOptions.TimeoutNormal,
		envOptions.TimeoutOom,
	)
}
