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

package rule_cache_prefix

import (
	"path/filepath"
	"strings"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checker_integration/envfile"
	"shieldci.dev/analyzer/checklib/options"
	"shieldci.dev/analyzer/checklib/runner"
)

// Prefixes Laravel ships with. Two applications sharing a redis or memcached
// instance under one of these overwrite each other's entries.
var defaultCachePrefixes = []string{
	"",
	"laravel",
	"laravel_cache",
	"laravel_cache_",
	"laravel-cache-",
}

func sharedStore(store string) bool {
	switch store {
	case "redis", "memcached", "dynamodb":
		return true
	}
	return false
}

// cacheDriver reads the effective cache driver out of `artisan about`, which
// sees cached config the dotenv file does not. Falls back to the dotenv value
// when artisan did not report one.
func cacheDriver(about map[string]map[string]string, fallback string) string {
	cache, ok := about["cache"]
	if !ok {
		return fallback
	}
	v, ok := cache["driver"]
	if !ok || v == "" {
		return fallback
	}
	return strings.ToLower(v)
}

func Analyze(srcdir string, opts *options.CheckOptions) (*report.ResultsList, error) {
	results := &report.ResultsList{}
	envOptions := opts.EnvOption
	if envOptions.Env == nil {
		return results, nil
	}
	// CACHE_STORE since Laravel 11, CACHE_DRIVER before
	store := envfile.Lookup(envOptions.Env, "CACHE_STORE",
		envfile.Lookup(envOptions.Env, "CACHE_DRIVER", "file"))
	if about, err := runner.RunArtisanAbout(srcdir, opts); err == nil {
		store = cacheDriver(about, store)
	}
	if !sharedStore(store) {
		return results, nil
	}

	defaults := opts.JsonOption.DefaultPrefixes
	if len(defaults) == 0 {
		defaults = defaultCachePrefixes
	}
	prefix := envfile.Lookup(envOptions.Env, "CACHE_PREFIX", "")
	for _, def := range defaults {
		if strings.EqualFold(prefix, def) {
			results.Results = append(results.Results, &report.Result{
				Path:            filepath.Join(srcdir, ".env"),
				LineNumber:      0,
				ErrorMessage:    "Shared cache store uses the default cache prefix",
				ExternalMessage: store,
				ErrorKind:       report.ConfigCachePrefixDefault,
				Recommendation:  "Set CACHE_PREFIX to a value unique to this application before sharing the " + store + " instance.",
			})
			break
		}
	}
	return results, nil
}
