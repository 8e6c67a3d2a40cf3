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

package rule_cache_connectivity

import (
	"os"
	"path/filepath"
	"time"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/envfile"
	"shieldci.dev/analyzer/checker_integration/probe"
	"shieldci.dev/analyzer/checklib/options"
)

const cacheProbeTimeout = 5 * time.Second

func unreachableResult(detail, recommendation string) *report.Result {
	return &report.Result{
		Path:            "",
		LineNumber:      0,
		ErrorMessage:    "Cache backend is unreachable\n" + detail,
		ExternalMessage: detail,
		ErrorKind:       report.ServiceCacheUnreachable,
		Recommendation:  recommendation,
	}
}

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption
	if envOptions.Env == nil {
		return results, nil
	}

	store := envfile.Lookup(envOptions.Env, "CACHE_STORE",
		envfile.Lookup(envOptions.Env, "CACHE_DRIVER", "file"))
	switch store {
	case "redis":
		if envOptions.SkipProbes {
			return results, nil
		}
		host := envfile.Lookup(envOptions.Env, "REDIS_HOST", "127.0.0.1")
		port := envfile.Lookup(envOptions.Env, "REDIS_PORT", probe.DefaultPort("redis"))
		if err := probe.ProbeTCP(host, port, cacheProbeTimeout); err != nil {
			results.Results = append(results.Results, unreachableResult(
				err.Error(),
				"Check REDIS_HOST and REDIS_PORT and that the redis server is running."))
		}
	case "memcached":
		if envOptions.SkipProbes {
			return results, nil
		}
		host := envfile.Lookup(envOptions.Env, "MEMCACHED_HOST", "127.0.0.1")
		port := envfile.Lookup(envOptions.Env, "MEMCACHED_PORT", probe.DefaultPort("memcached"))
		if err := probe.ProbeTCP(host, port, cacheProbeTimeout); err != nil {
			results.Results = append(results.Results, unreachableResult(
				err.Error(),
				"Check MEMCACHED_HOST and MEMCACHED_PORT and that memcached is running."))
		}
	case "file":
		cacheDir := filepath.Join(srcdir, "storage", "framework", "cache")
		f, err := os.CreateTemp(cacheDir, ".sca_write_check-*")
		if err != nil {
			results.Results = append(results.Results, unreachableResult(
				"cache directory is not writable: "+err.Error(),
				"Make storage/framework/cache writable by the application user."))
			return results, nil
		}
		name := f.Name()
		f.Close()
		os.Remove(name)
	}
	return results, nil
}
