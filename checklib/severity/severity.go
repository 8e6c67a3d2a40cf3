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

package severity

import (
	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/report"
)

const (
	Unknown int32 = iota
	Highest
	High
	Medium
	Low
	Lowest
)

var severityNameMap = map[string]int32{
	"Unknown": Unknown,
	"Highest": Highest,
	"High":    High,
	"Medium":  Medium,
	"Low":     Low,
	"Lowest":  Lowest,
}

// Default severity per rule. Rules not listed here report Medium.
var ruleSeverityMap = map[string]int32{
	"env/rule_example_sync":           High,
	"env/rule_debug_mode":             Highest,
	"env/rule_app_key":                Highest,
	"env/rule_example_secrets":        Highest,
	"config/rule_cache_prefix":        Medium,
	"config/rule_env_usage":           High,
	"config/rule_config_cached":       Medium,
	"config/rule_session_secure":      High,
	"storage/rule_writable_dirs":      Highest,
	"storage/rule_storage_link":       Medium,
	"service/rule_db_connectivity":    High,
	"service/rule_cache_connectivity": High,
	"service/rule_composer_lock":      Medium,
	"phpstan/rule_dead_code":          Low,
	"phpstan/rule_deprecation":        Medium,
	"phpstan/rule_invalid_import":     High,
	"phpstan/rule_missing_relation":   High,
	"phpstan/rule_type_error":         Medium,
}

func GetRuleSeverity(rule string) int32 {
	if s, ok := ruleSeverityMap[rule]; ok {
		return s
	}
	return Medium
}

// AddSeverity fills in the severity of every result of a rule. A non-empty
// customSeverity from the rule options overrides the default table.
func AddSeverity(results *report.ResultsList, rule string, customSeverity string) *report.ResultsList {
	s := GetRuleSeverity(rule)
	if customSeverity != "" {
		custom, ok := severityNameMap[customSeverity]
		if !ok {
			glog.Warningf("unknown custom severity %q for %s", customSeverity, rule)
		} else {
			s = custom
		}
	}
	for _, result := range results.Results {
		if result.Severity == Unknown {
			result.Severity = s
		}
	}
	return results
}
