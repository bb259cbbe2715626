// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package version_test

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/edwardmeng/wheatech/version"
)

func expectedRelation(t *testing.T, op string) int {
	t.Helper()
	switch op {
	case "<":
		return -1
	case "=":
		return 0
	case ">":
		return 1
	default:
		t.Fatalf("unknown comparison operator %q", op)
		return -999
	}
}

// TestCompare_Fixture runs Compare against testdata/compare.txt, one
// "a OP b" triple per line, under version.ModeDefault.
func TestCompare_Fixture(t *testing.T) {
	file, err := os.Open("testdata/compare.txt")
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	defer file.Close()

	total, failed := 0, 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pieces := strings.Fields(line)
		if len(pieces) != 3 {
			t.Fatalf("malformed fixture line %q: want 3 fields", line)
		}
		total++

		a := version.MustParse(pieces[0])
		b := version.MustParse(pieces[2])
		want := expectedRelation(t, pieces[1])

		if got := sign(version.Compare(a, b, version.ModeDefault)); got != want {
			t.Errorf("Compare(%s, %s) = %d, want %s relation (%d)", pieces[0], pieces[2], got, pieces[1], want)
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	if failed > 0 {
		t.Errorf("%d of %d fixture comparisons failed", failed, total)
	}
}
