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

package issuecode

// Issue codes shown in error message prefixes, e.g. [L1101][env-example.sync].
// The second digit groups codes by ruleset.
var issueCodeMap = map[string]map[string]string{
	"env": {
		"rule_example_sync":    "L1101",
		"rule_debug_mode":      "L1102",
		"rule_app_key":         "L1103",
		"rule_example_secrets": "L1104",
	},
	"config": {
		"rule_cache_prefix":   "L1201",
		"rule_env_usage":      "L1202",
		"rule_config_cached":  "L1203",
		"rule_session_secure": "L1204",
	},
	"storage": {
		"rule_writable_dirs": "L1301",
		"rule_storage_link":  "L1302",
	},
	"service": {
		"rule_db_connectivity":    "L1401",
		"rule_cache_connectivity": "L1402",
		"rule_composer_lock":      "L1403",
	},
	"phpstan": {
		"rule_dead_code":        "L1501",
		"rule_deprecation":      "L1502",
		"rule_invalid_import":   "L1503",
		"rule_missing_relation": "L1504",
		"rule_type_error":       "L1505",
	},
}

// GetIssueCode returns the issue code for a rule, or "" when the rule has
// none assigned.
func GetIssueCode(ruleset, ruleName string) string {
	rules, ok := issueCodeMap[ruleset]
	if !ok {
		return ""
	}
	return rules[ruleName]
}
