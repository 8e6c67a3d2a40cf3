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

package checkrule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"gopkg.in/yaml.v2"
)

const emptyString = ""

type CheckRule struct {
	Name        string
	JSONOptions JSONOption
}

type JSONOption struct {
	MaxReportNum *int    `json:"max-report-num,omitempty" yaml:"-"`
	Severity     *string `json:"severity" yaml:"-"`
	// AppEnv overrides the APP_ENV read from the project .env file.
	AppEnv *string `json:"app-env,omitempty" yaml:"-"`
	// ProductionEnvs lists the APP_ENV values treated as production.
	// Defaults to ["production", "prod"].
	ProductionEnvs    []string `json:"production-envs,omitempty" yaml:"-"`
	RequiredKeys      []string `json:"required-keys,omitempty" yaml:"-"`       //env/rule_example_sync
	SecretKeyPatterns []string `json:"secret-key-patterns,omitempty" yaml:"-"` //env/rule_example_secrets
	PlaceholderValues []string `json:"placeholder-values,omitempty" yaml:"-"`  //env/rule_example_secrets
	WritableDirs      []string `json:"writable-dirs,omitempty" yaml:"-"`       //storage/rule_writable_dirs
	DefaultPrefixes   []string `json:"default-prefixes,omitempty" yaml:"-"`    //config/rule_cache_prefix
	DbTimeoutSeconds  *int     `json:"db-timeout-seconds,omitempty" yaml:"-"`  //service/rule_db_connectivity
	// PhpstanLevel and PhpstanPaths feed the generated phpstan config.
	PhpstanLevel       *int     `json:"phpstan-level,omitempty" yaml:"level,omitempty"`
	PhpstanPaths       []string `json:"phpstan-paths,omitempty" yaml:"paths,omitempty"`
	PhpstanMemoryLimit *string  `json:"phpstan-memory-limit,omitempty" yaml:"-"`
}

var ValidAppEnv = map[string]bool{
	"production": true,
	"prod":       true,
	"staging":    true,
	"testing":    true,
	"local":      true,
}

func verifyAppEnv(appEnv string) bool {
	if _, ok := ValidAppEnv[appEnv]; !ok {
		return false
	}
	return true
}

func readAppEnv(input *string) (*string, error) {
	if input == nil {
		return nil, nil
	}
	appEnv := strings.ToLower(*input)
	if appEnv == emptyString {
		return nil, nil
	}
	if !verifyAppEnv(appEnv) {
		return nil, fmt.Errorf("invalid app-env: %s", appEnv)
	}
	return &appEnv, nil
}

func MakeCheckRule(name string, jsonOptions string) (*CheckRule, error) {
	checkRule := &CheckRule{}

	checkRule.Name = name
	err := json.Unmarshal([]byte(jsonOptions), &checkRule.JSONOptions)
	if err != nil {
		return nil, err
	}

	appEnv, err := readAppEnv(checkRule.JSONOptions.AppEnv)
	if err != nil {
		return nil, err
	}
	checkRule.JSONOptions.AppEnv = appEnv

	return checkRule, nil
}

func MakeCheckRuleWithoutError(name string, jsonOptions string) *CheckRule {
	checkRule, err := MakeCheckRule(name, jsonOptions)
	if err != nil {
		glog.Fatalf("can not make CheckRule without error: error: %v", err)
	}
	return checkRule
}

type phpstanConf struct {
	Parameters JSONOption `yaml:"parameters"`
}

// GeneratePhpstanConf writes a phpstan config file under reportDir when the
// rule options carry phpstan parameters, and returns its path. NEON accepts
// the YAML subset emitted here.
func (jsonOption JSONOption) GeneratePhpstanConf(reportDir string, confFileName string) (string, error) {
	if jsonOption.PhpstanLevel == nil && jsonOption.PhpstanPaths == nil {
		return emptyString, nil
	}

	yamlData, err := yaml.Marshal(&phpstanConf{Parameters: jsonOption})
	if err != nil {
		return emptyString, fmt.Errorf("parse struct to yaml: %v", err)
	}
	confPath := filepath.Join(reportDir, confFileName)
	err = os.WriteFile(confPath, yamlData, os.ModePerm)
	if err != nil {
		return emptyString, fmt.Errorf("write yaml data to file: %v", err)
	}
	return confPath, nil
}

func (jsonOption *JSONOption) Update(newOption JSONOption) {
	if newOption.MaxReportNum != nil {
		jsonOption.MaxReportNum = newOption.MaxReportNum
	}
	if newOption.Severity != nil {
		jsonOption.Severity = newOption.Severity
	}
	if newOption.AppEnv != nil {
		jsonOption.AppEnv = newOption.AppEnv
	}
	if newOption.ProductionEnvs != nil {
		jsonOption.ProductionEnvs = newOption.ProductionEnvs
	}
	if newOption.RequiredKeys != nil {
		jsonOption.RequiredKeys = newOption.RequiredKeys
	}
	if newOption.SecretKeyPatterns != nil {
		jsonOption.SecretKeyPatterns = newOption.SecretKeyPatterns
	}
	if newOption.PlaceholderValues != nil {
		jsonOption.PlaceholderValues = newOption.PlaceholderValues
	}
	if newOption.WritableDirs != nil {
		jsonOption.WritableDirs = newOption.WritableDirs
	}
	if newOption.DefaultPrefixes != nil {
		jsonOption.DefaultPrefixes = newOption.DefaultPrefixes
	}
	if newOption.DbTimeoutSeconds != nil {
		jsonOption.DbTimeoutSeconds = newOption.DbTimeoutSeconds
	}
	if newOption.PhpstanLevel != nil {
		jsonOption.PhpstanLevel = newOption.PhpstanLevel
	}
	if newOption.PhpstanPaths != nil {
		jsonOption.PhpstanPaths = newOption.PhpstanPaths
	}
	if newOption.PhpstanMemoryLimit != nil {
		jsonOption.PhpstanMemoryLimit = newOption.PhpstanMemoryLimit
	}
}

func (jsonOption JSONOption) ToString() string {
	res, err := json.Marshal(jsonOption)
	if err != nil {
		glog.Errorf("failed to marshal json option: %v", jsonOption)
	}
	return string(res)
}

func UpdateOptions(checkRules []CheckRule, newOption JSONOption) *[]CheckRule {
	for idx := range checkRules {
		checkRules[idx].JSONOptions.Update(newOption)
	}
	return &checkRules
}
