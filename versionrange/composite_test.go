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

package versionrange_test

import (
	"testing"

	"github.com/edwardmeng/wheatech/versionrange"
)

func mustComposite(t *testing.T, s string) *versionrange.CompositeComparator {
	t.Helper()
	expr := versionrange.MustParse(s)
	c, ok := expr.(*versionrange.CompositeComparator)
	if !ok {
		t.Fatalf("MustParse(%q) is not a *CompositeComparator: %T", s, expr)
	}
	return c
}

func TestComparator_Equal(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.2.3", "1.2.3", true},
		{"1.2.3", "1.2.3+build", false}, // Equal compares metadata too
		{">=1.2.3", "1.2.3", false},     // different operator
		{"1.2.3", "1.2.4", false},
	}
	for _, tt := range tests {
		a := versionrange.MustParseComparator(tt.a)
		b := versionrange.MustParseComparator(tt.b)
		if got := a.Equal(b); got != tt.want {
			t.Errorf("Comparator(%q).Equal(%q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompositeComparator_Equal_TopLevelReordering(t *testing.T) {
	a := mustComposite(t, "1.2.3 || 4.5.6")
	b := mustComposite(t, "4.5.6 || 1.2.3")
	if !a.Equal(b) {
		t.Errorf("Equal() = false for top-level reordering, want true")
	}
}

func TestCompositeComparator_Equal_NestedReordering(t *testing.T) {
	// OR[AND[X,Y], Z] vs OR[AND[Y,X], Z] must compare equal: the
	// multiset equality of §4.D holds at every depth of the tree, not
	// just the top.
	a := mustComposite(t, "(>=1.0.0 && <2.0.0) || 3.0.0")
	b := mustComposite(t, "(<2.0.0 && >=1.0.0) || 3.0.0")
	if !a.Equal(b) {
		t.Errorf("Equal() = false for nested reordering, want true")
	}
}

func TestCompositeComparator_Equal_NestedDifference(t *testing.T) {
	a := mustComposite(t, "(>=1.0.0 && <2.0.0) || 3.0.0")
	b := mustComposite(t, "(>=1.0.0 && <2.5.0) || 3.0.0")
	if a.Equal(b) {
		t.Errorf("Equal() = true for genuinely different nested children, want false")
	}
}

func TestCompositeComparator_Equal_DifferentCompositor(t *testing.T) {
	a := mustComposite(t, ">=1.0.0 && <2.0.0")
	b := mustComposite(t, ">=1.0.0 || <2.0.0")
	if a.Equal(b) {
		t.Errorf("Equal() = true for AND vs OR, want false")
	}
}

func TestCompositeComparator_Equal_Nil(t *testing.T) {
	a := mustComposite(t, "1.2.3 || 4.5.6")
	if a.Equal(nil) {
		t.Errorf("Equal(nil) = true, want false")
	}
}
