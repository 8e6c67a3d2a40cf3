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

package testlib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/analyzerinterface"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration"
	"shieldci.dev/analyzer/checker_integration/checkrule"
	"shieldci.dev/analyzer/checker_integration/phpstan"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/cpumem"
)

func getCheckerConfig() *checker_integration.CheckerConfiguration {
	return &checker_integration.CheckerConfiguration{
		PhpstanBin:      "vendor/bin/phpstan",
		PhpBin:          "php",
		ComposerBin:     "composer",
		PhpstanMemLimit: "1G",
	}
}

var ignoreDirPatterns = analyzerinterface.ArrayFlags{}

func GetProjectBaseDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		glog.Fatal("can not get caller information")
	}
	projectBase := filepath.Join(filepath.Dir(filename), "..", "..")

	return projectBase
}

func NewOption(srcdir string, appEnv string) (*options.CheckOptions, error) {
	outputPath := filepath.Join(srcdir, "output")
	if err := os.MkdirAll(outputPath, os.ModePerm); err != nil {
		return nil, err
	}
	logDir := ""
	numWorkers := int32(runtime.NumCPU())
	cpumem.Init(int(numWorkers), 0)

	jsonOptions := &checkrule.JSONOption{}
	// read json options from ${srcdir}/options.json if the file exists
	jsonOptionsPath := filepath.Join(srcdir, "options.json")
	jsonOptionsContent, err := os.ReadFile(jsonOptionsPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	} else if err == nil {
		err = json.Unmarshal(jsonOptionsContent, &jsonOptions)
		if err != nil {
			return nil, err
		}
	}

	envOptions := options.NewEnvOptions(
		/*phpstanOptions=*/ nil,
		outputPath,
		srcdir,
		logDir,
		getCheckerConfig(),
		ignoreDirPatterns,
		/*checkProgress=*/ false,
		/*debug=*/ true,
		/*limitMemory=*/ false,
		0.9,
		numWorkers,
		/*isDev=*/ true,
		90,
		30,
		"en",
		appEnv,
		/*skipProbes=*/ true,
	)

	ruleOptions := options.NewRuleSpecificOptions("test_run", outputPath)

	checkOptions := options.MakeCheckOptions(jsonOptions, envOptions, ruleOptions)

	return &checkOptions, nil
}

func MakeTestOption(srcdir string) (*options.CheckOptions, error) {
	return NewOption(srcdir, "")
}

// MakeTestOptionWithAppEnv pins the application environment regardless of
// what the fixture .env says.
func MakeTestOptionWithAppEnv(srcdir string, appEnv string) (*options.CheckOptions, error) {
	return NewOption(srcdir, appEnv)
}

// SetPhpstanReport injects a canned analyzer report, the tests never run the
// phpstan binary.
func SetPhpstanReport(opts *options.CheckOptions, rep *phpstan.Report, phpstanErr string) {
	opts.EnvOption.PhpstanReport = rep
	opts.EnvOption.PhpstanError = phpstanErr
}

func ToTestResult(results *report.ResultsList, err error) (*report.ResultsList, error) {
	if err == nil && results != nil {
		for _, result := range results.Results {
			result.ErrorKind = 0
			result.ExternalMessage = ""
			result.Locations = nil
			result.Severity = 0
			result.Recommendation = ""
		}
	}

	return results, err
}

func ToRelPath(srcdir string, results *report.ResultsList) error {
	for _, result := range results.Results {
		if result.Path == "" {
			continue
		}
		if rel, err := filepath.Rel(srcdir, result.Path); err != nil {
			return err
		} else {
			result.Path = rel
		}
	}
	return nil
}
