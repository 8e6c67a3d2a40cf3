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

package rule_example_secrets

import (
	"path/filepath"
	"regexp"
	"sort"

	"github.com/golang/glog"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/envfile"
	"shieldci.dev/analyzer/checklib/options"
)

// Keys whose value must never be a real credential in .env.example.
var defaultSecretKeyPatterns = []string{
	`SECRET`,
	`PASSWORD`,
	`_KEY$`,
	`TOKEN`,
	`PRIVATE`,
}

var defaultPlaceholderValues = []string{
	"null",
	"secret",
	"password",
	"changeme",
	"your-secret-here",
	"xxx",
}

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption
	if envOptions.ExampleEnv == nil {
		return results, nil
	}

	patterns := opts.JsonOption.SecretKeyPatterns
	if len(patterns) == 0 {
		patterns = defaultSecretKeyPatterns
	}
	placeholders := opts.JsonOption.PlaceholderValues
	if len(placeholders) == 0 {
		placeholders = defaultPlaceholderValues
	}
	matchers := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		matcher, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			glog.Errorf("invalid secret-key-pattern %q: %v", pattern, err)
			continue
		}
		matchers = append(matchers, matcher)
	}

	keys := make([]string, 0, len(envOptions.ExampleEnv))
	for key := range envOptions.ExampleEnv {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	examplePath := filepath.Join(srcdir, ".env.example")
	for _, key := range keys {
		value := envOptions.ExampleEnv[key]
		matched := false
		for _, matcher := range matchers {
			if matcher.MatchString(key) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if envfile.IsPlaceholder(value, placeholders) {
			continue
		}
		results.Results = append(results.Results, &report.Result{
			Path:            examplePath,
			LineNumber:      0,
			ErrorMessage:    ".env.example shall not contain real secret values\nKey: " + key,
			ExternalMessage: key,
			ErrorKind:       report.EnvSecretInExample,
			Recommendation:  "Blank the value of " + key + " in .env.example and rotate the leaked credential.",
		})
	}
	return results, nil
}
