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

	"github.com/edwardmeng/wheatech/version"
	"github.com/edwardmeng/wheatech/versionrange"
)

func TestParseComparator_Operators(t *testing.T) {
	tests := []struct {
		expr      string
		candidate string
		want      bool
	}{
		{"1.2.3", "1.2.3", true},
		{"1.2.3", "1.2.4", false},
		{"==1.2.3", "1.2.3", true},
		{"!=1.2.3", "1.2.4", true},
		{"!=1.2.3", "1.2.3", false},
		{"<>1.2.3", "1.2.4", true},
		{">=1.2.3", "1.2.3", true},
		{">=1.2.3", "1.2.4", true},
		{">=1.2.3", "1.2.2", false},
		{"<=1.2.3", "1.2.3", true},
		{"<=1.2.3", "1.2.2", true},
		{"<=1.2.3", "1.2.4", false},
		{">1.2.3", "1.2.4", true},
		{">1.2.3", "1.2.3", false},
		{"<1.2.3", "1.2.2", true},
		{"1.2.3+", "1.2.4", true},
		{"1.2.3+", "1.2.2", false},
		{"1.2.3-", "1.2.2", true},
		{"1.2.3-", "1.2.4", false},
		{"v1.2.3", "1.2.3", true},
		{">=V1.2.3", "1.2.4", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr+"_"+tt.candidate, func(t *testing.T) {
			c, err := versionrange.ParseComparator(tt.expr)
			if err != nil {
				t.Fatalf("ParseComparator(%q) failed: %v", tt.expr, err)
			}
			v := version.MustParse(tt.candidate)
			if got := c.Match(v); got != tt.want {
				t.Errorf("%q.Match(%q) = %v, want %v", tt.expr, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestParseComparator_FloatBehaviors(t *testing.T) {
	tests := []struct {
		expr      string
		candidate string
		want      bool
	}{
		{"*", "1.2.3", true},
		{"*", "1.2.3-alpha", false},
		{"1.*", "1.9.9", true},
		{"1.*", "2.0.0", false},
		{"1.*", "1.0.0-alpha", false},
		{"1.2.*", "1.2.9", true},
		{"1.2.*", "1.3.0", false},
		{"1.2.3.*", "1.2.3.9", true},
		{"1.2.3.*", "1.2.4.0", false},
		{"1.2.3-alpha*", "1.2.3-alpha.1", true},
		{"1.2.3-alpha*", "1.2.3-beta", false},
		{"1.2.3-alpha*", "1.2.3", false},
		{"1.2.3-*", "1.2.3-anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr+"_"+tt.candidate, func(t *testing.T) {
			c, err := versionrange.ParseComparator(tt.expr)
			if err != nil {
				t.Fatalf("ParseComparator(%q) failed: %v", tt.expr, err)
			}
			v := version.MustParse(tt.candidate)
			if got := c.Match(v); got != tt.want {
				t.Errorf("%q.Match(%q) = %v, want %v", tt.expr, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestComparator_String_RoundTrips(t *testing.T) {
	exprs := []string{"*", "1.*", "1.2.*", "1.2.3.*", ">=1.2.3", "<=1.2.3", "!=1.2.3", "1.2.3"}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			c, err := versionrange.ParseComparator(expr)
			if err != nil {
				t.Fatalf("ParseComparator(%q) failed: %v", expr, err)
			}
			again, err := versionrange.ParseComparator(c.String())
			if err != nil {
				t.Fatalf("ParseComparator(%q) [round trip] failed: %v", c.String(), err)
			}
			if again.String() != c.String() {
				t.Errorf("round trip mismatch: %q formatted to %q, reparsed to %q", expr, c.String(), again.String())
			}
		})
	}
}
