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

package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Hunk struct {
	OldPos, OldLines, NewPos, NewLines int
}

type File struct {
	NewName string
	OldName string
	Hunks   []*Hunk
}

type Patch struct {
	Files []*File
}

// FindNewFile returns the entry whose post-image name is name, or nil.
func (p *Patch) FindNewFile(name string) *File {
	for _, f := range p.Files {
		if f.NewName == name {
			return f
		}
	}
	return nil
}

/*
Parse parses a unified diff, as produced by `git diff`, into a patch struct.

It goes over the lines in the diff and maintains an implicit state machine. It
only cares about lines that start with "--- ", "+++ ", or "@@ -", and ignores
everything else.

For a particular file in the diff, there are three cases to consider:

1. File modification

It usually looks like this:

	diff --git a/app/Models/User.php b/app/Models/User.php
	index 602565a30b39..9ff7b4d33b07 100644
	--- a/app/Models/User.php
	+++ b/app/Models/User.php
	@@ -2,12 +2,11 @@ class User extends Authenticatable
	 		use HasFactory;

	 	protected $fillable = [
	-		'name',
	-		'email',
	+		'name', 'email',
	 		'password',
	 	];

Lines starting with "diff" or "index" are ignored.

2. File addition

Example:

	diff --git a/routes/console.php b/routes/console.php
	new file mode 100644
	index 000000000000..dad6695563d6
	--- /dev/null
	+++ b/routes/console.php
	@@ -0,0 +1,7 @@
	+<?php
	+
	+use Illuminate\Support\Facades\Artisan;
	+

OldName is set to the empty string in this case.

3. File deletion

Example:

	diff --git a/.env.testing b/.env.testing
	deleted file mode 100644
	index a603bb50a29e..000000000000
	--- a/.env.testing
	+++ /dev/null
	@@ -1 +0,0 @@
	-APP_ENV=testing

NewName is set to the empty string in this case.
*/
func Parse(diff string) (*Patch, error) {
	re := regexp.MustCompile(`@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
	lines := strings.Split(diff, "\n")
	var p Patch
	var f *File
	for i, line := range lines {
		if strings.HasPrefix(line, "--- ") {
			f = &File{}
			if line == "--- /dev/null" {
				// file addition
				f.OldName = ""
			} else if strings.HasPrefix(line, "--- a/") {
				f.OldName = strings.TrimPrefix(line, "--- a/")
			} else {
				return nil, fmt.Errorf("invalid line %d '%s'", i, line)
			}
			p.Files = append(p.Files, f)
		} else if strings.HasPrefix(line, "+++ ") {
			if f == nil || len(f.Hunks) > 0 {
				return nil, fmt.Errorf("unexpected line %d '%s'", i, line)
			}
			if line == "+++ /dev/null" {
				// file deletion
				f.NewName = ""
			} else if strings.HasPrefix(line, "+++ b/") {
				f.NewName = strings.TrimPrefix(line, "+++ b/")
			} else {
				return nil, fmt.Errorf("invalid line %d '%s'", i, line)
			}
		} else if strings.HasPrefix(line, "@@ -") {
			match := re.FindStringSubmatch(line)
			if match == nil {
				return nil, fmt.Errorf("could not extract hunk info from line '%s'", line)
			}
			oldpos, err := strconv.Atoi(match[1])
			if err != nil {
				return nil, fmt.Errorf("error converting oldpos to integer in '%s': %v", line, err)
			}
			oldlines := 1
			if match[2] != "" {
				oldlines, err = strconv.Atoi(match[2])
				if err != nil {
					return nil, fmt.Errorf("error converting oldlines to integer in '%s': %v", line, err)
				}
			}
			newpos, err := strconv.Atoi(match[3])
			if err != nil {
				return nil, fmt.Errorf("error converting newpos to integer in '%s': %v", line, err)
			}
			newlines := 1
			if match[4] != "" {
				newlines, err = strconv.Atoi(match[4])
				if err != nil {
					return nil, fmt.Errorf("error converting newlines to integer in '%s': %v", line, err)
				}
			}
			if f == nil {
				return nil, fmt.Errorf("f is nil but line %d is '%s'", i, line)
			}
			f.Hunks = append(f.Hunks, &Hunk{oldpos, oldlines, newpos, newlines})
		}
	}
	return &p, nil
}
