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
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/analyzerinterface"
	"shieldci.dev/analyzer/checker_integration"
	"shieldci.dev/analyzer/checker_integration/checkrule"
	"shieldci.dev/analyzer/checker_integration/envfile"
	"shieldci.dev/analyzer/checker_integration/phpstan"
)

type CheckOptions struct {
	JsonOption         checkrule.JSONOption
	EnvOption          EnvOptions
	RuleSpecificOption RuleSpecificOptions
}

// EnvOptions carries everything prepared once per run and shared by all
// rules: the parsed env files and the PHPStan report.
type EnvOptions struct {
	ResultsDir string
	SrcDir     string

	// Env and ExampleEnv are nil when the file does not exist.
	Env        map[string]string
	ExampleEnv map[string]string
	// AppEnv is the resolved application environment, -app_env flag over
	// APP_ENV over the Laravel default.
	AppEnv string

	// PhpstanReport is nil when phpstan did not run, PhpstanError then
	// tells why.
	PhpstanReport *phpstan.Report
	PhpstanError  string

	CheckerConfig     *checker_integration.CheckerConfiguration
	IgnoreDirPatterns analyzerinterface.ArrayFlags
	CheckProgress     bool
	Debug             bool
	AvailMemRatio     float64
	LimitMemory       bool
	NumWorkers        int32
	IsDev             bool
	TimeoutNormal     int
	TimeoutOom        int
	Lang              string
	SkipProbes        bool

	LogDir string
}

type RuleSpecificOptions struct {
	RuleSpecificResultDir string
}

func NewRuleSpecificOptions(ruleName string, generalResultsDir string) *RuleSpecificOptions {
	options := &RuleSpecificOptions{}

	ruleset, rule, found := strings.Cut(ruleName, "/")
	if !found {
		rule = ruleName
	}
	tmpResultsDir := filepath.Join(generalResultsDir, "tmp", ruleset)
	err := os.MkdirAll(tmpResultsDir, os.ModePerm)
	if err != nil {
		glog.Fatalf("failed to create tmp dir: %v", err)
	}
	resultsDir, err := os.MkdirTemp(tmpResultsDir, rule+"-*")
	if err != nil {
		glog.Fatalf("failed to create result dir: %v", err)
	}
	options.RuleSpecificResultDir = resultsDir

	return options
}

func NewEnvOptions(
	phpstanOptions *checkrule.JSONOption,
	resultsDir string, srcdir string,
	logDir string,
	checkerConfig *checker_integration.CheckerConfiguration,
	ignoreDirPatterns analyzerinterface.ArrayFlags,
	checkProgress bool,
	debug bool,
	limitMemory bool,
	availMemRatio float64,
	numWorkers int32,
	isDev bool,
	timeoutNormal int,
	timeoutOom int,
	lang string,
	appEnvOverride string,
	skipProbes bool,
) *EnvOptions {
	envOptions := &EnvOptions{}
	envOptions.ResultsDir = resultsDir
	envOptions.SrcDir = srcdir
	envOptions.CheckerConfig = checkerConfig
	envOptions.CheckProgress = checkProgress
	envOptions.IgnoreDirPatterns = ignoreDirPatterns
	envOptions.Debug = debug
	envOptions.LogDir = logDir
	envOptions.LimitMemory = limitMemory
	envOptions.AvailMemRatio = availMemRatio
	envOptions.NumWorkers = numWorkers
	envOptions.IsDev = isDev
	envOptions.TimeoutNormal = timeoutNormal
	envOptions.TimeoutOom = timeoutOom
	envOptions.Lang = lang
	envOptions.SkipProbes = skipProbes

	env, err := envfile.Parse(filepath.Join(srcdir, ".env"))
	if err != nil {
		glog.Warningf("failed to read project .env: %v", err)
	} else {
		envOptions.Env = env
	}
	exampleEnv, err := envfile.Parse(filepath.Join(srcdir, ".env.example"))
	if err != nil {
		glog.Warningf("failed to read project .env.example: %v", err)
	} else {
		envOptions.ExampleEnv = exampleEnv
	}

	envOptions.AppEnv = appEnvOverride
	if envOptions.AppEnv == "" {
		// Laravel falls back to production when APP_ENV is unset.
		envOptions.AppEnv = envfile.Lookup(envOptions.Env, "APP_ENV", "production")
	}

	if phpstanOptions != nil {
		runPhpstan(envOptions, phpstanOptions, srcdir)
	}

	return envOptions
}

// runPhpstan produces the report shared by all phpstan rules. A failed run
// is recorded, never fatal, the rules downgrade it to a warning result.
func runPhpstan(envOptions *EnvOptions, phpstanOptions *checkrule.JSONOption, srcdir string) {
	config := envOptions.CheckerConfig
	if config.PhpstanBin == "" {
		envOptions.PhpstanError = "phpstan binary is not configured"
		return
	}
	phpstanDir := filepath.Join(envOptions.ResultsDir, "phpstan")
	err := os.MkdirAll(phpstanDir, os.ModePerm)
	if err != nil {
		glog.Errorf("failed to create phpstan result dir: %v", err)
		envOptions.PhpstanError = err.Error()
		return
	}
	confPath := config.PhpstanConfigPath
	if confPath == "" {
		confPath, err = phpstanOptions.GeneratePhpstanConf(phpstanDir, "phpstan-conf.neon")
		if err != nil {
			glog.Errorf("failed to generate phpstan conf: %v", err)
			envOptions.PhpstanError = err.Error()
			return
		}
	}
	memoryLimit := config.PhpstanMemLimit
	if phpstanOptions.PhpstanMemoryLimit != nil {
		memoryLimit = *phpstanOptions.PhpstanMemoryLimit
	}
	report, err := phpstan.ExecPhpstanBinary(
		srcdir,
		phpstanDir,
		config.PhpstanBin,
		config.PhpBin,
		config.PhpstanExtraArgs,
		confPath,
		memoryLimit,
		envOptions.LimitMemory,
		envOptions.TimeoutNormal,
		envOptions.TimeoutOom)
	if err != nil {
		glog.Errorf("phpstan.ExecPhpstanBinary: %v", err)
		envOptions.PhpstanError = err.Error()
		return
	}
	envOptions.PhpstanReport = report
}

func NewEnvOptionsFromShared(
	phpstanOptions *checkrule.JSONOption,
	logDir string,
	sharedOptions *SharedOptions,
	checkerConfig *checker_integration.CheckerConfiguration,
	numWorkers int32,
) *EnvOptions {
	return NewEnvOptions(
		phpstanOptions,
		sharedOptions.GetResultsDir(),
		sharedOptions.GetSrcDir(),
		logDir,
		checkerConfig,
		sharedOptions.GetIgnoreDirPatterns(),
		sharedOptions.GetCheckProgress(),
		sharedOptions.GetDebugMode(),
		sharedOptions.GetLimitMemory(),
		sharedOptions.GetAvailMemRatio(),
		numWorkers,
		/*isDev=*/ false,
		sharedOptions.GetTimeoutNormal(),
		sharedOptions.GetTimeoutOom(),
		sharedOptions.GetLang(),
		sharedOptions.GetAppEnv(),
		sharedOptions.GetSkipProbes(),
	)
}

func MakeCheckOptions(jsonOption *checkrule.JSONOption, envOption *EnvOptions, ruleOption *RuleSpecificOptions) CheckOptions {
	return CheckOptions{
		JsonOption:         *jsonOption,
		EnvOption:          *envOption,
		RuleSpecificOption: *ruleOption,
	}
}

// IsProduction reports whether the resolved APP_ENV counts as production.
// The rule options can widen the default set.
func (e *EnvOptions) IsProduction(productionEnvs []string) bool {
	envs := productionEnvs
	if len(envs) == 0 {
		envs = []string{"production", "prod"}
	}
	for _, env := range envs {
		if strings.EqualFold(e.AppEnv, env) {
			return true
		}
	}
	return false
}
