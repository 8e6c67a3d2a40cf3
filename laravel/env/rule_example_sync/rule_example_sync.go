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

package rule_example_sync

import (
	"path/filepath"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/envfile"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/severity"
)

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption

	if envOptions.ExampleEnv == nil {
		// nothing to compare against
		return results, nil
	}
	if envOptions.Env == nil {
		results.Results = append(results.Results, &report.Result{
			Path:            "",
			LineNumber:      0,
			ErrorMessage:    "Environment file does not exist\n.env",
			ExternalMessage: ".env",
			ErrorKind:       report.EnvFileMissing,
		})
		return results, nil
	}

	env := envOptions.Env
	example := make(map[string]string, len(envOptions.ExampleEnv))
	for key, value := range envOptions.ExampleEnv {
		example[key] = value
	}
	// required-keys widens the example, the keys must exist in .env even
	// when the example does not declare them
	for _, key := range opts.JsonOption.RequiredKeys {
		if _, ok := example[key]; !ok {
			example[key] = ""
		}
	}

	missing, extra := envfile.Diff(env, example)
	envPath := filepath.Join(srcdir, ".env")
	for _, key := range missing {
		results.Results = append(results.Results, &report.Result{
			Path:            envPath,
			LineNumber:      0,
			ErrorMessage:    "Environment key declared in .env.example is missing from .env\nKey: " + key,
			ExternalMessage: key,
			ErrorKind:       report.EnvMissingKey,
			Recommendation:  "Add " + key + " to .env, or remove it from .env.example when it is obsolete.",
		})
	}
	for _, key := range extra {
		results.Results = append(results.Results, &report.Result{
			Path:            envPath,
			LineNumber:      0,
			ErrorMessage:    "Environment key is not declared in .env.example\nKey: " + key,
			ExternalMessage: key,
			ErrorKind:       report.EnvExtraKey,
			Recommendation:  "Declare " + key + " in .env.example with a placeholder value so deployments know it exists.",
			// undeclared keys are a notice, not a sync failure
			Severity: severity.Low,
		})
	}
	return results, nil
}
