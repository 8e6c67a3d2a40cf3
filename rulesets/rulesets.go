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

package rulesets

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// The rulesets of the analyzer keyed by display name, values are the tags
// used in message prefixes, e.g. [L1101][env-example.sync].
var GUIDELINES = map[string]string{
	"Environment":   "env",
	"Configuration": "config",
	"Storage":       "storage",
	"Services":      "service",
	"PHPStan":       "phpstan",
}

// to fix the sequence in GUIDELINES map
var GUIDELINE_NAMES = []string{"Environment", "Configuration", "Storage", "Services", "PHPStan"}

// GetRuleFullName recovers the rule name from a prefixed error message,
// e.g. "[L1101][env-example.sync]: ..." becomes "env/rule_example_sync".
func GetRuleFullName(errorMessage string) string {
	re := regexp.MustCompile(`\[L\d+\]\[([a-z]+)-([a-z\.]+)\]`)
	matches := re.FindStringSubmatch(errorMessage)
	if len(matches) != 3 {
		return ""
	}
	ruleset := matches[1]
	rule := "rule_" + strings.ReplaceAll(matches[2], ".", "_")
	return ruleset + "/" + rule
}

func convertCharset(b []byte, charset string) string {
	/*
		The function aims at detecting the encoding and convert it to UTF-8,
		but charset.DetermineEncoding() may not always able to detect the source
		text right.
	*/
	byteReader := bytes.NewReader(b)
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		glog.Warning("ianaindex.MIME.Encoding err, the charset is considered as UTF-8 by default")
		return string(b)
	}
	if e == nil {
		glog.Warning("charset not found, the charset is considered as UTF-8 by default")
		return string(b)
	}
	reader := transform.NewReader(byteReader, e.NewDecoder())
	bytes, err := io.ReadAll(reader)
	if err != nil {
		glog.Warning("ioutil.ReadAll err, the charset is considered as UTF-8 by default")
		return string(b)
	}
	return string(bytes)
}

func GetCode(path string, lineNumber int32, charset string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lower := lineNumber - 2
	upper := lineNumber + 2
	var lineCount int32 = 0
	var output string = ""
	for scanner.Scan() {
		lineCount++
		if lineCount < lower {
			continue
		} else if lineCount > upper {
			break
		}
		var text string
		if charset == "utf8" {
			text = scanner.Text()
		} else {
			text = convertCharset(scanner.Bytes(), charset)
		}
		if lineCount == lineNumber {
			output = output + fmt.Sprintf("> %d| %s\n", lineCount, text)
		} else {
			output = output + fmt.Sprintf("%d| %s\n", lineCount, text)
		}
	}
	if err = scanner.Err(); err != nil {
		return "", err
	}
	return output, err
}
