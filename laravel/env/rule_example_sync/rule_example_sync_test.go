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
	"os"
	"path/filepath"
	"testing"

	"shieldci.dev/analyzer/analyzer/report"
	"shieldci.dev/analyzer/checklib/testlib"
)

func makeProject(t *testing.T, env, example string) string {
	t.Helper()
	dir := t.TempDir()
	if env != "" {
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ".env.example"), []byte(example), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestMissingAndExtraKeys(t *testing.T) {
	dir := makeProject(t,
		"APP_NAME=shop\nAPP_KEY=abc\nLEFTOVER=1\n",
		"APP_NAME=\nAPP_KEY=\nMAIL_HOST=\n")
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var missing, extra []string
	for _, result := range results.Results {
		switch result.ErrorKind {
		case report.EnvMissingKey:
			missing = append(missing, result.ExternalMessage)
		case report.EnvExtraKey:
			extra = append(extra, result.ExternalMessage)
		default:
			t.Errorf("unexpected error kind %v", result.ErrorKind)
		}
	}
	if len(missing) != 1 || missing[0] != "MAIL_HOST" {
		t.Errorf("unexpected missing keys: %v", missing)
	}
	if len(extra) != 1 || extra[0] != "LEFTOVER" {
		t.Errorf("unexpected extra keys: %v", extra)
	}
}

func TestRequiredKeysWidenTheExample(t *testing.T) {
	dir := makeProject(t, "APP_NAME=shop\n", "APP_NAME=\n")
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	opts.JsonOption.RequiredKeys = []string{"APP_KEY"}
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results.Results) != 1 || results.Results[0].ExternalMessage != "APP_KEY" {
		t.Errorf("required key shall be reported as missing, got %v", results.Results)
	}
}

func TestMissingEnvFile(t *testing.T) {
	dir := makeProject(t, "", "APP_NAME=\n")
	opts, err := testlib.MakeTestOption(dir)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Analyze(dir, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results.Results) != 1 || results.Results[0].ErrorKind != report.EnvFileMissing {
		t.Errorf("missing .env shall be reported, got %v", results.Results)
	}
}
