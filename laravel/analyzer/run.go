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

package analyzer

import (
	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/checkrule"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/runner"
	"shieldci.dev/analyzer/laravel/config/rule_cache_prefix"
	"shieldci.dev/analyzer/laravel/config/rule_config_cached"
	"shieldci.dev/analyzer/laravel/config/rule_env_usage"
	"shieldci.dev/analyzer/laravel/config/rule_session_secure"
	"shieldci.dev/analyzer/laravel/env/rule_app_key"
	"shieldci.dev/analyzer/laravel/env/rule_debug_mode"
	"shieldci.dev/analyzer/laravel/env/rule_example_secrets"
	"shieldci.dev/analyzer/laravel/env/rule_example_sync"
	"shieldci.dev/analyzer/laravel/phpstan/rule_dead_code"
	"shieldci.dev/analyzer/laravel/phpstan/rule_deprecation"
	"shieldci.dev/analyzer/laravel/phpstan/rule_invalid_import"
	"shieldci.dev/analyzer/laravel/phpstan/rule_missing_relation"
	"shieldci.dev/analyzer/laravel/phpstan/rule_type_error"
	"shieldci.dev/analyzer/laravel/service/rule_cache_connectivity"
	"shieldci.dev/analyzer/laravel/service/rule_composer_lock"
	"shieldci.dev/analyzer/laravel/service/rule_db_connectivity"
	"shieldci.dev/analyzer/laravel/storage/rule_storage_link"
	"shieldci.dev/analyzer/laravel/storage/rule_writable_dirs"
)

func Run(rules []checkrule.CheckRule, srcdir string, envOpts *options.EnvOptions) (*report.ResultsList, []error) {
	taskNums := len(rules)
	numWorkers := envOpts.NumWorkers
	paraTaskRunner := runner.NewParaTaskRunner(numWorkers, taskNums, envOpts.CheckProgress, envOpts.Lang)

	for i, rule := range rules {
		exiting_results, exiting_errors := paraTaskRunner.CheckSignalExiting()
		if exiting_results != nil {
			return exiting_results, exiting_errors
		}

		ruleSpecific := options.NewRuleSpecificOptions(rule.Name, envOpts.ResultsDir)
		ruleOptions := options.MakeCheckOptions(&rule.JSONOptions, envOpts, ruleSpecific)
		x := func(analyze func(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error)) {
			paraTaskRunner.AddTask(runner.AnalyzerTask{Id: i, Srcdir: srcdir, Opts: &ruleOptions, Rule: rule.Name, Analyze: analyze})
		}
		switch rule.Name {
		case "env/rule_example_sync":
			x(rule_example_sync.Analyze)
		case "env/rule_debug_mode":
			x(rule_debug_mode.Analyze)
		case "env/rule_app_key":
			x(rule_app_key.Analyze)
		case "env/rule_example_secrets":
			x(rule_example_secrets.Analyze)
		case "config/rule_cache_prefix":
			x(rule_cache_prefix.Analyze)
		case "config/rule_env_usage":
			x(rule_env_usage.Analyze)
		case "config/rule_config_cached":
			x(rule_config_cached.Analyze)
		case "config/rule_session_secure":
			x(rule_session_secure.Analyze)
		case "storage/rule_writable_dirs":
			x(rule_writable_dirs.Analyze)
		case "storage/rule_storage_link":
			x(rule_storage_link.Analyze)
		case "service/rule_db_connectivity":
			x(rule_db_connectivity.Analyze)
		case "service/rule_cache_connectivity":
			x(rule_cache_connectivity.Analyze)
		case "service/rule_composer_lock":
			x(rule_composer_lock.Analyze)
		case "phpstan/rule_dead_code":
			x(rule_dead_code.Analyze)
		case "phpstan/rule_deprecation":
			x(rule_deprecation.Analyze)
		case "phpstan/rule_invalid_import":
			x(rule_invalid_import.Analyze)
		case "phpstan/rule_missing_relation":
			x(rule_missing_relation.Analyze)
		case "phpstan/rule_type_error":
			x(rule_type_error.Analyze)
		default:
			glog.Errorf("unknown rule name: %s", rule.Name)
		}
	}
	return paraTaskRunner.CollectResultsAndErrors()
}
