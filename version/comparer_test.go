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
	"testing"

	"github.com/edwardmeng/wheatech/version"
)

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestCompare_Default(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.3", "1.2.4", -1},
		{"1.2.4", "1.2.3", 1},
		{"1.2.3-alpha", "1.2.3", -1},
		{"1.2.3", "1.2.3-alpha", 1},
		{"1.2.3-alpha", "1.2.3-beta", -1},
		{"1.2.3-alpha.1", "1.2.3-alpha.beta", -1},
		{"1.2.3-alpha.beta", "1.2.3-beta", -1},
		{"1.2.3-alpha", "1.2.3-alpha.1", -1},
		{"1.2.3-alpha.1", "1.2.3-alpha.2", -1},
		{"1.2.3-ALPHA", "1.2.3-alpha", 0},
		{"1.2.3+build1", "1.2.3+build2", 0},
	}
	for _, tt := range tests {
		a, b := version.MustParse(tt.a), version.MustParse(tt.b)
		if got := sign(version.Compare(a, b, version.ModeDefault)); got != tt.want {
			t.Errorf("Compare(%q, %q, Default) sign = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompare_ModeVersion_IgnoresRelease(t *testing.T) {
	a := version.MustParse("1.2.3-alpha")
	b := version.MustParse("1.2.3")
	if got := version.Compare(a, b, version.ModeVersion); got != 0 {
		t.Errorf("Compare(%v, %v, ModeVersion) = %d, want 0", a, b, got)
	}
}

func TestCompare_ModeVersionReleaseMetadata_UsesMetadata(t *testing.T) {
	a := version.MustParse("1.2.3+build1")
	b := version.MustParse("1.2.3+build2")
	if version.Compare(a, b, version.ModeVersionReleaseMetadata) == 0 {
		t.Errorf("Compare(%v, %v, ModeVersionReleaseMetadata) = 0, want nonzero", a, b)
	}
	c := version.MustParse("1.2.3+BUILD")
	d := version.MustParse("1.2.3+build")
	if got := version.Compare(c, d, version.ModeVersionReleaseMetadata); got != 0 {
		t.Errorf("Compare(%v, %v, ModeVersionReleaseMetadata) = %d, want 0 (case-insensitive)", c, d, got)
	}
}

func TestComparer_Equals(t *testing.T) {
	c := version.NewComparer(version.ModeDefault)
	a := version.MustParse("1.0.0")
	b := version.MustParse("1.0.0+build")
	if !c.Equals(a, b) {
		t.Errorf("Equals(%v, %v) = false, want true (metadata ignored by default)", a, b)
	}
}

func TestComparer_Hash_ConsistentWithEquals(t *testing.T) {
	c := version.NewComparer(version.ModeDefault)
	a := version.MustParse("1.0.0-RC.1")
	b := version.MustParse("1.0.0-rc.1")
	if !c.Equals(a, b) {
		t.Fatalf("Equals(%v, %v) = false, want true", a, b)
	}
	if c.Hash(a) != c.Hash(b) {
		t.Errorf("Hash(%v) != Hash(%v), want equal for equal values", a, b)
	}
}

func TestCompare_Antisymmetry(t *testing.T) {
	versions := []string{"1.0.0", "1.0.0-alpha", "1.0.0-alpha.1", "1.0.0-beta", "2.0.0", "1.2.3.4"}
	for _, sa := range versions {
		for _, sb := range versions {
			a, b := version.MustParse(sa), version.MustParse(sb)
			ab := sign(version.Compare(a, b, version.ModeDefault))
			ba := sign(version.Compare(b, a, version.ModeDefault))
			if ab != -ba {
				t.Errorf("Compare(%q,%q) and Compare(%q,%q) not antisymmetric: %d vs %d", sa, sb, sb, sa, ab, ba)
			}
		}
	}
}
