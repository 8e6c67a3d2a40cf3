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

package rule_db_connectivity

import (
	"os"
	"path/filepath"
	"time"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/envfile"
	"shieldci.dev/analyzer/checker_integration/probe"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/severity"
)

const defaultDbTimeoutSeconds = 5

func unreachableResult(detail, recommendation string) *report.Result {
	return &report.Result{
		Path:            "",
		LineNumber:      0,
		ErrorMessage:    "Database is unreachable with the configured connection\n" + detail,
		ExternalMessage: detail,
		ErrorKind:       report.ServiceDbUnreachable,
		Recommendation:  recommendation,
	}
}

func skippedResult(detail string) *report.Result {
	return &report.Result{
		Path:            "",
		LineNumber:      0,
		ErrorMessage:    "Database connectivity was not verified\n" + detail,
		ExternalMessage: detail,
		ErrorKind:       report.ServiceDbSkipped,
		Recommendation:  "Verify the database connection manually.",
		Severity:        severity.Low,
	}
}

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption
	if envOptions.Env == nil {
		return results, nil
	}

	connection := envfile.Lookup(envOptions.Env, "DB_CONNECTION", "mysql")
	if connection == "sqlite" {
		database := envfile.Lookup(envOptions.Env, "DB_DATABASE", filepath.Join("database", "database.sqlite"))
		if !filepath.IsAbs(database) {
			database = filepath.Join(srcdir, database)
		}
		if _, err := os.Stat(database); err != nil {
			results.Results = append(results.Results, unreachableResult(
				"sqlite database file does not exist: "+database,
				"Create the sqlite database file or fix DB_DATABASE."))
		}
		return results, nil
	}

	if envOptions.SkipProbes {
		results.Results = append(results.Results, skippedResult("network probes are disabled"))
		return results, nil
	}

	timeoutSeconds := defaultDbTimeoutSeconds
	if opts.JsonOption.DbTimeoutSeconds != nil {
		timeoutSeconds = *opts.JsonOption.DbTimeoutSeconds
	}
	timeout := time.Duration(timeoutSeconds) * time.Second

	host := envfile.Lookup(envOptions.Env, "DB_HOST", "127.0.0.1")
	port := envfile.Lookup(envOptions.Env, "DB_PORT", probe.DefaultPort(connection))

	switch connection {
	case "pgsql":
		config := probe.DbConfig{
			Connection: connection,
			Host:       host,
			Port:       port,
			Database:   envfile.Lookup(envOptions.Env, "DB_DATABASE", "postgres"),
			Username:   envfile.Lookup(envOptions.Env, "DB_USERNAME", ""),
			Password:   envfile.Lookup(envOptions.Env, "DB_PASSWORD", ""),
			SslMode:    envfile.Lookup(envOptions.Env, "DB_SSLMODE", ""),
		}
		if err := probe.ProbePostgres(config, timeout); err != nil {
			results.Results = append(results.Results, unreachableResult(
				err.Error(),
				"Check the DB_* settings and that the PostgreSQL server accepts connections."))
		}
	case "mysql", "mariadb", "sqlsrv":
		if err := probe.ProbeTCP(host, port, timeout); err != nil {
			results.Results = append(results.Results, unreachableResult(
				err.Error(),
				"Check the DB_* settings and that the database server accepts connections."))
		}
	default:
		if port == "" {
			results.Results = append(results.Results, skippedResult(
				"no probe for driver "+connection))
			return results, nil
		}
		// unknown driver, a TCP dial is the best that can be checked
		if err := probe.ProbeTCP(host, port, timeout); err != nil {
			results.Results = append(results.Results, unreachableResult(
				err.Error(),
				"Check the DB_* settings and that the database server accepts connections."))
		}
	}
	return results, nil
}
