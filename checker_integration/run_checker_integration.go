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

package checker_integration

import (
	"fmt"
	"strconv"

	"shieldci.dev/analyzer/analyzer/report"
)

type Checker int

const (
	Phpstan Checker = iota
	EnvFile
	Artisan
	Composer
	FileSystem
	NetProbe
	EmptyChecker // A placeholder for unimplemented checker.
)

func (e Checker) String() string {
	switch e {
	case Phpstan:
		return "Phpstan"
	case EnvFile:
		return "EnvFile"
	case Artisan:
		return "Artisan"
	case Composer:
		return "Composer"
	case FileSystem:
		return "FileSystem"
	case NetProbe:
		return "NetProbe"
	case EmptyChecker:
		return "EmptyChecker"
	default:
		return fmt.Sprintf("%d", e)
	}
}

var RuleCheckerMap = map[string][]Checker{
	// env
	"env/rule_example_sync":    {EnvFile},
	"env/rule_debug_mode":      {EnvFile, Artisan},
	"env/rule_app_key":         {EnvFile},
	"env/rule_example_secrets": {EnvFile},
	// config
	"config/rule_cache_prefix":   {EnvFile, Artisan},
	"config/rule_env_usage":      {FileSystem},
	"config/rule_config_cached":  {EnvFile, FileSystem},
	"config/rule_session_secure": {EnvFile},
	// storage
	"storage/rule_writable_dirs": {FileSystem},
	"storage/rule_storage_link":  {FileSystem},
	// service
	"service/rule_db_connectivity":    {EnvFile, NetProbe},
	"service/rule_cache_connectivity": {EnvFile, NetProbe},
	"service/rule_composer_lock":      {Composer},
	// phpstan
	"phpstan/rule_dead_code":        {Phpstan},
	"phpstan/rule_deprecation":      {Phpstan},
	"phpstan/rule_invalid_import":   {Phpstan},
	"phpstan/rule_missing_relation": {Phpstan},
	"phpstan/rule_type_error":       {Phpstan},
}

// CheckerConfiguration locates the external binaries the analyzer drives and
// carries the knobs they share. It is parsed from the -checker_config flag.
type CheckerConfiguration struct {
	PhpstanBin        string `json:"phpstan_bin,omitempty"`
	PhpBin            string `json:"php_bin,omitempty"`
	ComposerBin       string `json:"composer_bin,omitempty"`
	PhpstanExtraArgs  string `json:"phpstan_extra_args,omitempty"`
	PhpstanMemLimit   string `json:"phpstan_memory_limit,omitempty"`
	PhpstanConfigPath string `json:"phpstan_config_path,omitempty"`
	NumWorkers        int32  `json:"num_workers,omitempty"`
}

// Delete repeated errors in results and return a cutted results
func DeleteRepeatedResults(allResults *report.ResultsList) error {
	errHashMap := make(map[string]*report.Result)
	rtnResults := make([]*report.Result, 0)
	for _, currentResult := range allResults.Results {
		if !CheckAndCreateErrHashMap(&errHashMap, currentResult) {
			rtnResults = append(rtnResults, currentResult)
		}
	}
	allResults.Results = rtnResults
	return nil
}

// Check if an error message is in the Hash map, if not add it
func CheckAndCreateErrHashMap(errHashMap *map[string]*report.Result, currentResult *report.Result) bool {
	currentStr := currentResult.Path + strconv.Itoa(int(currentResult.LineNumber)) + currentResult.ErrorMessage
	if _, ok := (*errHashMap)[currentStr]; !ok {
		(*errHashMap)[currentStr] = currentResult
		return false
	}
	return true
}
