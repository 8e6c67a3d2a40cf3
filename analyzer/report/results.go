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

package report

// ErrorKind identifies the concrete finding behind a result so that error
// messages can be relocalized after the analysis.
type ErrorKind int32

const (
	ErrorKindNone ErrorKind = iota

	// phpstan
	PhpstanDeadCode
	PhpstanDeprecation
	PhpstanInvalidImport
	PhpstanMissingRelation
	PhpstanTypeError
	PhpstanInternalError

	// env
	EnvMissingKey
	EnvExtraKey
	EnvFileMissing
	EnvDebugEnabled
	EnvAppKeyMissing
	EnvAppKeyInvalid
	EnvSecretInExample

	// config
	ConfigCachePrefixDefault
	ConfigEnvCallOutsideConfig
	ConfigNotCached
	ConfigCachedInDev
	ConfigSessionInsecure

	// storage
	StorageDirMissing
	StorageDirNotWritable
	StorageLinkMissing
	StorageLinkDangling

	// service
	ServiceDbUnreachable
	ServiceDbSkipped
	ServiceCacheUnreachable
	ComposerLockMissing
	ComposerLockStale
	ComposerDevAutoload
)

type Location struct {
	Path       string `json:"path"`
	LineNumber int32  `json:"line_number"`
}

// Result is one reported violation. Path and LineNumber locate the finding;
// line 0 means the finding is about the file or the project as a whole.
type Result struct {
	Id              string      `json:"id,omitempty"`
	Path            string      `json:"path"`
	LineNumber      int32       `json:"line_number"`
	ErrorMessage    string      `json:"error_message"`
	ExternalMessage string      `json:"external_message,omitempty"`
	ErrorKind       ErrorKind   `json:"error_kind,omitempty"`
	Ruleset         string      `json:"ruleset,omitempty"`
	RuleId          string      `json:"rule_id,omitempty"`
	Severity        int32       `json:"severity,omitempty"`
	Recommendation  string      `json:"recommendation,omitempty"`
	CodeLineHash    string      `json:"code_line_hash,omitempty"`
	Locations       []*Location `json:"locations,omitempty"`
}

type ResultsList struct {
	Results []*Result `json:"results"`
}

// Suppression mutes one finding: the issue code of the rule plus the hash of
// the offending source line.
type Suppression struct {
	RuleCode string `json:"rule_code"`
	Content  string `json:"content"`
}

type SuppressionsList struct {
	Suppressions []*Suppression `json:"suppressions"`
}
