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
	"flag"

	"shieldci.dev/analyzer/analyzer/analyzerinterface"
)

type SharedOptions struct {
	AddLineHash       *bool
	AppEnv            *string
	AvailMemRatio     *float64
	CheckProgress     *bool
	CheckerConfig     *string
	ComposerBin       *string
	ConfigDir         *string
	DebugMode         *bool
	IgnoreDirPatterns analyzerinterface.ArrayFlags
	Lang              *string
	LimitMemory       *bool
	PhpBin            *string
	PhpstanArgs       *string
	PhpstanBin        *string
	ProjectName       *string
	ResultsDir        *string
	ShowJsonResults   *bool
	ShowLineNumber    *bool
	ShowResults       *bool
	ShowResultsCount  *bool
	SkipProbes        *bool
	SrcDir            *string
	TimeoutNormal     *int
	TimeoutOom        *int
}

func (s SharedOptions) GetAddLineHash() bool {
	return *s.AddLineHash
}

func (s SharedOptions) GetAppEnv() string {
	return *s.AppEnv
}

func (s SharedOptions) GetAvailMemRatio() float64 {
	return *s.AvailMemRatio
}

func (s SharedOptions) GetCheckProgress() bool {
	return *s.CheckProgress
}

func (s SharedOptions) GetCheckerConfig() string {
	return *s.CheckerConfig
}

func (s SharedOptions) GetComposerBin() string {
	return *s.ComposerBin
}

func (s SharedOptions) GetConfigDir() string {
	return *s.ConfigDir
}

func (s SharedOptions) GetDebugMode() bool {
	return *s.DebugMode
}

func (s SharedOptions) GetIgnoreDirPatterns() analyzerinterface.ArrayFlags {
	return s.IgnoreDirPatterns
}

func (s SharedOptions) GetLang() string {
	return *s.Lang
}

func (s SharedOptions) GetLimitMemory() bool {
	return *s.LimitMemory
}

func (s SharedOptions) GetPhpBin() string {
	return *s.PhpBin
}

func (s SharedOptions) GetPhpstanArgs() string {
	return *s.PhpstanArgs
}

func (s SharedOptions) GetPhpstanBin() string {
	return *s.PhpstanBin
}

func (s SharedOptions) GetProjectName() string {
	return *s.ProjectName
}

func (s SharedOptions) GetResultsDir() string {
	return *s.ResultsDir
}

func (s SharedOptions) GetShowJsonResults() bool {
	return *s.ShowJsonResults
}

func (s SharedOptions) GetShowLineNumber() bool {
	return *s.ShowLineNumber
}

func (s SharedOptions) GetShowResults() bool {
	return *s.ShowResults
}

func (s SharedOptions) GetShowResultsCount() bool {
	return *s.ShowResultsCount
}

func (s SharedOptions) GetSkipProbes() bool {
	return *s.SkipProbes
}

func (s SharedOptions) GetSrcDir() string {
	return *s.SrcDir
}

func (s SharedOptions) GetTimeoutNormal() int {
	return *s.TimeoutNormal
}

func (s SharedOptions) GetTimeoutOom() int {
	return *s.TimeoutOom
}

func (s SharedOptions) SetLang(lang string) {
	*s.Lang = lang
}

func (s SharedOptions) SetLimitMemory(limit bool) {
	*s.LimitMemory = limit
}

func (s SharedOptions) SetSrcDir(srcdir string) {
	*s.SrcDir = srcdir
}

type DefaultOptionValues struct {
	AddLineHash       bool
	AppEnv            string
	AvailMemRatio     float64
	CheckProgress     bool
	CheckerConfig     string
	ComposerBin       string
	ConfigDir         string
	DebugMode         bool
	IgnoreDirPatterns analyzerinterface.ArrayFlags
	Lang              string
	LimitMemory       bool
	PhpBin            string
	PhpstanArgs       string
	PhpstanBin        string
	ProjectName       string
	ResultsDir        string
	ShowJsonResults   bool
	ShowLineNumber    bool
	ShowResults       bool
	ShowResultsCount  bool
	SkipProbes        bool
	SrcDir            string
	TimeoutNormal     int
	TimeoutOom        int
}

var Defaults = DefaultOptionValues{
	AddLineHash:   false,
	AppEnv:        "",
	AvailMemRatio: 0.9,
	CheckProgress: true,
	CheckerConfig: `{"phpstan_bin":"vendor/bin/phpstan",
		"php_bin":"php",
		"composer_bin":"composer",
		"phpstan_memory_limit":"1G"}`,
	ComposerBin:       "",
	ConfigDir:         "/config",
	DebugMode:         false,
	IgnoreDirPatterns: []string{"/src/vendor/**", "/src/node_modules/**", "/src/storage/framework/**"},
	Lang:              "en",
	LimitMemory:       false,
	PhpBin:            "",
	PhpstanArgs:       "",
	PhpstanBin:        "",
	ProjectName:       "",
	ResultsDir:        "/output",
	ShowJsonResults:   true,
	ShowLineNumber:    true,
	ShowResults:       false,
	ShowResultsCount:  false,
	SkipProbes:        false,
	SrcDir:            "/src",
	TimeoutNormal:     30,
	TimeoutOom:        10,
}

func NewSharedOptions() *SharedOptions {
	option := &SharedOptions{}

	option.AddLineHash = flag.Bool("add_line_hash", Defaults.AddLineHash, "Whether to add code line hash into results")
	option.AppEnv = flag.String("app_env", Defaults.AppEnv, "Override the APP_ENV read from the project .env file")
	option.AvailMemRatio = flag.Float64("avail_mem_ratio", Defaults.AvailMemRatio, "The ratio of available memory to be used. Negative value means no limitation")
	option.CheckProgress = flag.Bool("check_progress", Defaults.CheckProgress, "Show the checking progress")
	option.CheckerConfig = flag.String("checker_config", Defaults.CheckerConfig,
		"Checker configuration in JSON format")
	option.ComposerBin = flag.String("composer_bin", Defaults.ComposerBin, "Composer binary location")
	option.ConfigDir = flag.String("config_dir", Defaults.ConfigDir, "Absolute path to a directory containing all configuration files")
	option.DebugMode = flag.Bool("debug_mode", Defaults.DebugMode, "Whether to display error information")
	option.Lang = flag.String("lang", Defaults.Lang, "Language of the report. Support en and zh")
	option.LimitMemory = flag.Bool("limit_memory", Defaults.LimitMemory, "Whether to limit the usage of memory")
	option.PhpBin = flag.String("php_bin", Defaults.PhpBin, "PHP binary location")
	option.PhpstanArgs = flag.String("phpstan_args", Defaults.PhpstanArgs, "Extra arguments passed to phpstan analyse")
	option.PhpstanBin = flag.String("phpstan_bin", Defaults.PhpstanBin, "PHPStan binary location")
	option.ProjectName = flag.String("project_name", Defaults.ProjectName, "Name of the checked project.")
	option.ResultsDir = flag.String("results_dir", Defaults.ResultsDir, "Absolute path to the directory of results files")
	option.ShowJsonResults = flag.Bool("json_results", Defaults.ShowJsonResults, "Whether to output results in JSON format")
	option.ShowLineNumber = flag.Bool("show_line_number", Defaults.ShowLineNumber, "Show line count infomation")
	option.ShowResults = flag.Bool("show_results", Defaults.ShowResults, "Show results after the analysis")
	option.ShowResultsCount = flag.Bool("show_results_count", Defaults.ShowResultsCount, "Show results count group by rules after the analysis")
	option.SkipProbes = flag.Bool("skip_probes", Defaults.SkipProbes, "Skip database and cache connectivity probes")
	option.SrcDir = flag.String("src_dir", Defaults.SrcDir, "Absolute path to the directory of the Laravel project")
	option.TimeoutNormal = flag.Int("timeout_normal", Defaults.TimeoutNormal, "Minutes of timeout for checking single rule. Default value is 30")
	option.TimeoutOom = flag.Int("timeout_oom", Defaults.TimeoutOom, "Minutes of timeout for specific checkers when limit memory enabled. Default value is 10")

	flag.Var(&option.IgnoreDirPatterns, "ignore_dir", "Shell file name pattern to a directory that will be ignored")

	return option
}
