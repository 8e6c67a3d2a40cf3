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

//go:generate gotext -srclang=en update -out=catalog.go -lang=en,zh shieldci.dev/analyzer/checklib/i18n

package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/issuecode"
)

var languageMap = map[string]language.Tag{"en": language.English, "zh": language.Chinese}

func GetPrinter(lang string) *message.Printer {
	tag, ok := languageMap[lang]
	if !ok {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// ruleTag renders the message tag of a rule, e.g. phpstan/rule_dead_code
// becomes phpstan-dead.code.
func ruleTag(ruleset, ruleId string) string {
	ruleStr := strings.Join(strings.Split(ruleId, "_")[1:], ".")
	return ruleset + "-" + ruleStr
}

func localizeErrorMessage(result *report.Result, p *message.Printer) string {
	switch result.ErrorKind {
	case report.PhpstanDeadCode:
		return p.Sprintf("Dead code shall be removed\n%s", result.ExternalMessage)
	case report.PhpstanDeprecation:
		return p.Sprintf("Deprecated symbols shall not be used\n%s", result.ExternalMessage)
	case report.PhpstanInvalidImport:
		return p.Sprintf("Referenced class or function cannot be resolved\n%s", result.ExternalMessage)
	case report.PhpstanMissingRelation:
		return p.Sprintf("Eloquent relation is not defined on the model\n%s", result.ExternalMessage)
	case report.PhpstanTypeError:
		return p.Sprintf("Static analysis reported a type error\n%s", result.ExternalMessage)
	case report.PhpstanInternalError:
		return p.Sprintf("The static analyzer did not finish cleanly\n%s", result.ExternalMessage)
	case report.EnvMissingKey:
		return p.Sprintf("Environment key declared in .env.example is missing from .env\nKey: %s", result.ExternalMessage)
	case report.EnvExtraKey:
		return p.Sprintf("Environment key is not declared in .env.example\nKey: %s", result.ExternalMessage)
	case report.EnvFileMissing:
		return p.Sprintf("Environment file does not exist\n%s", result.ExternalMessage)
	case report.EnvDebugEnabled:
		return p.Sprintf("APP_DEBUG shall be disabled in production")
	case report.EnvAppKeyMissing:
		return p.Sprintf("APP_KEY is not set, sessions and encrypted data are unprotected")
	case report.EnvAppKeyInvalid:
		return p.Sprintf("APP_KEY is not a valid application key\n%s", result.ExternalMessage)
	case report.EnvSecretInExample:
		return p.Sprintf(".env.example shall not contain real secret values\nKey: %s", result.ExternalMessage)
	case report.ConfigCachePrefixDefault:
		return p.Sprintf("Shared cache store uses the default cache prefix")
	case report.ConfigEnvCallOutsideConfig:
		return p.Sprintf("env() calls outside the config directory break config caching\n%s", result.ExternalMessage)
	case report.ConfigNotCached:
		return p.Sprintf("Configuration is not cached in production")
	case report.ConfigCachedInDev:
		return p.Sprintf("Cached configuration shadows .env changes outside production")
	case report.ConfigSessionInsecure:
		return p.Sprintf("Session cookies shall be secure in production")
	case report.StorageDirMissing:
		return p.Sprintf("Required directory does not exist")
	case report.StorageDirNotWritable:
		return p.Sprintf("Directory is not writable by the application")
	case report.StorageLinkMissing:
		return p.Sprintf("public/storage link is missing, run `php artisan storage:link`")
	case report.StorageLinkDangling:
		return p.Sprintf("public/storage does not point at storage/app/public\n%s", result.ExternalMessage)
	case report.ServiceDbUnreachable:
		return p.Sprintf("Database is unreachable with the configured connection\n%s", result.ExternalMessage)
	case report.ServiceDbSkipped:
		return p.Sprintf("Database connectivity was not verified\n%s", result.ExternalMessage)
	case report.ServiceCacheUnreachable:
		return p.Sprintf("Cache backend is unreachable\n%s", result.ExternalMessage)
	case report.ComposerLockMissing:
		return p.Sprintf("composer.lock does not exist, dependency versions are unpinned")
	case report.ComposerLockStale:
		return p.Sprintf("composer.lock is older than composer.json, run `composer update`")
	case report.ComposerDevAutoload:
		return p.Sprintf("Development autoloader artifacts are present in a production environment\n%s", result.ExternalMessage)
	}
	return ""
}

// LocalizeResultMessages re-renders error messages in the requested language.
// Results without a known ErrorKind keep the message the rule produced.
func LocalizeResultMessages(results *report.ResultsList, lang string) {
	p := GetPrinter(lang)
	for _, result := range results.Results {
		text := localizeErrorMessage(result, p)
		if text == "" {
			continue
		}
		code := issuecode.GetIssueCode(result.Ruleset, result.RuleId)
		if code == "" {
			result.ErrorMessage = text
			continue
		}
		result.ErrorMessage = "[" + code + "][" + ruleTag(result.Ruleset, result.RuleId) + "]: " + text
	}
}
