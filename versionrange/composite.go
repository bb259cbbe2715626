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

package versionrange

import (
	"strings"

	"github.com/edwardmeng/wheatech/version"
)

// LogicalOp combines the children of a CompositeComparator.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
)

// CompositeComparator is a tree of Expr children combined with a single
// logical operator; nested operators are represented by nesting
// CompositeComparators (an OR nested inside an AND, for example).
type CompositeComparator struct {
	Children   []Expr
	Compositor LogicalOp
}

// Match reports whether v satisfies every child (Compositor == And) or
// at least one child (Compositor == Or).
func (c *CompositeComparator) Match(v version.Version) bool {
	switch c.Compositor {
	case And:
		for _, child := range c.Children {
			if !child.Match(v) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range c.Children {
			if child.Match(v) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// String joins each child's own String() with " && " or " || ", per
// c.Compositor, parenthesizing an OR child nested directly inside an
// AND so the text round-trips through Parse unambiguously.
func (c *CompositeComparator) String() string {
	sep := " && "
	if c.Compositor == Or {
		sep = " || "
	}
	parts := make([]string, len(c.Children))
	for i, child := range c.Children {
		s := child.String()
		if inner, ok := child.(*CompositeComparator); ok && c.Compositor == And && inner.Compositor == Or {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

// Equal reports whether c and other are structurally equal: the same
// compositor over the same multiset of children (order-independent),
// recursing into nested CompositeComparators so that reordering at any
// depth of the tree (not just the top) does not affect equality.
func (c *CompositeComparator) Equal(other *CompositeComparator) bool {
	if other == nil || c.Compositor != other.Compositor || len(c.Children) != len(other.Children) {
		return false
	}
	remaining := make([]Expr, len(other.Children))
	copy(remaining, other.Children)
	for _, child := range c.Children {
		matched := false
		for i, candidate := range remaining {
			if candidate == nil {
				continue
			}
			if equalExpr(child, candidate) {
				remaining[i] = nil
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// equalExpr reports whether two Expr values are structurally equal: the
// same concrete type (Comparator or *CompositeComparator), compared with
// that type's own Equal method.
func equalExpr(a, b Expr) bool {
	switch av := a.(type) {
	case Comparator:
		bv, ok := b.(Comparator)
		return ok && av.Equal(bv)
	case *CompositeComparator:
		bv, ok := b.(*CompositeComparator)
		return ok && av.Equal(bv)
	default:
		return false
	}
}

// Bounds reports the lower and upper bound comparators of a simple
// two-sided range: an AND of exactly two Comparators, one a lower bound
// (> or >=) and the other an upper bound (< or <=). This is the
// Go-idiomatic analogue of NuGet's VersionRange.MinVersion/MaxVersion.
// ok is false when c is not shaped like a simple range.
func (c *CompositeComparator) Bounds() (lower, upper Comparator, ok bool) {
	if c.Compositor != And || len(c.Children) != 2 {
		return Comparator{}, Comparator{}, false
	}
	first, ok1 := c.Children[0].(Comparator)
	second, ok2 := c.Children[1].(Comparator)
	if !ok1 || !ok2 {
		return Comparator{}, Comparator{}, false
	}
	if isLowerOp(first.Op) && isUpperOp(second.Op) {
		return first, second, true
	}
	if isLowerOp(second.Op) && isUpperOp(first.Op) {
		return second, first, true
	}
	return Comparator{}, Comparator{}, false
}

// StartVersion returns the reference version of c's lower bound, if c
// is shaped like a simple range.
func (c *CompositeComparator) StartVersion() (version.Version, bool) {
	if lower, _, ok := c.Bounds(); ok {
		return lower.Reference, true
	}
	return version.Version{}, false
}

// EndVersion returns the reference version of c's upper bound, if c is
// shaped like a simple range.
func (c *CompositeComparator) EndVersion() (version.Version, bool) {
	if _, upper, ok := c.Bounds(); ok {
		return upper.Reference, true
	}
	return version.Version{}, false
}

func isLowerOp(op Operator) bool {
	return op == OpGreaterThan || op == OpGreaterThanOrEqual
}

func isUpperOp(op Operator) bool {
	return op == OpLessThan || op == OpLessThanOrEqual
}
