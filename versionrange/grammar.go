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
	"fmt"
	"strconv"
	"strings"

	"github.com/edwardmeng/wheatech/version"
)

// TryParse parses s as a full range expression, reporting success
// instead of returning an error.
func TryParse(s string) (Expr, bool) {
	e, err := Parse(s)
	if err != nil {
		return nil, false
	}
	return e, true
}

// MustParse parses s, panicking on failure.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// Parse parses a full range expression: atoms (bracket ranges, hyphen
// ranges, tilde/caret sugar, or single comparators) combined with
// infix && and ||, with parenthesized grouping. && binds tighter than
// ||, matching the grammar in §4.D.
func Parse(s string) (Expr, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty range", ErrInvalidRange)
	}
	return parseOrExpr(trimmed)
}

func parseOrExpr(s string) (Expr, error) {
	parts := splitTopLevel(s, "||")
	if len(parts) == 1 {
		return parseAndExpr(parts[0])
	}
	children := make([]Expr, 0, len(parts))
	for _, p := range parts {
		child, err := parseAndExpr(p)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &CompositeComparator{Children: children, Compositor: Or}, nil
}

func parseAndExpr(s string) (Expr, error) {
	parts := splitTopLevel(s, "&&")
	if len(parts) == 1 {
		return parseAtom(parts[0])
	}
	children := make([]Expr, 0, len(parts))
	for _, p := range parts {
		child, err := parseAtom(p)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &CompositeComparator{Children: children, Compositor: And}, nil
}

// splitTopLevel splits s on sep, but only where a running depth counter
// (incremented on '(' or '[', decremented on ')' or ']') is zero. If the
// brackets in s never balance, it falls back to an ordinary depth-blind
// split so a malformed-but-still-splittable expression is not silently
// treated as a single atom.
func splitTopLevel(s, sep string) []string {
	depth := 0
	valid := true
	var parts []string
	last := 0
	for i := 0; i < len(s); {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				valid = false
			}
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[last:i])
			i += len(sep)
			last = i
			continue
		}
		i++
	}
	parts = append(parts, s[last:])
	if depth != 0 {
		valid = false
	}
	if !valid {
		return strings.Split(s, sep)
	}
	return parts
}

// parseAtom parses one atom of the grammar, trying bracketed ranges,
// hyphen ranges, tilde sugar, caret sugar, and finally a single
// comparator, in that order.
func parseAtom(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidRange)
	}
	if isBracketWrapped(s) {
		if rng, err := parseBracketRange(s); err == nil {
			return rng, nil
		}
		// Not a well-formed range: treat as a parenthesized sub-expression.
		return parseOrExpr(s[1 : len(s)-1])
	}
	if rng, err := parseHyphenRange(s); err == nil {
		return rng, nil
	}
	if strings.HasPrefix(s, "~") {
		return parseTilde(s)
	}
	if strings.HasPrefix(s, "^") {
		return parseCaret(s)
	}
	c, err := ParseComparator(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return c, nil
}

func isBracketWrapped(s string) bool {
	if len(s) < 2 {
		return false
	}
	open, closeCh := s[0], s[len(s)-1]
	return (open == '[' || open == '(') && (closeCh == ']' || closeCh == ')')
}

// parseBracketRange parses "[lo,hi]"-shaped ranges, where either bracket
// character may be square (inclusive) or round (exclusive) and either
// bound may be omitted (unbounded on that side). A single value with no
// comma is used as both bounds.
func parseBracketRange(s string) (Expr, error) {
	openIncl := s[0] == '['
	closeIncl := s[len(s)-1] == ']'
	inner := s[1 : len(s)-1]

	var loText, hiText string
	if idx := strings.IndexByte(inner, ','); idx >= 0 {
		loText = strings.TrimSpace(inner[:idx])
		hiText = strings.TrimSpace(inner[idx+1:])
	} else {
		loText = strings.TrimSpace(inner)
		hiText = loText
	}

	lowerOp := OpGreaterThanOrEqual
	if !openIncl {
		lowerOp = OpGreaterThan
	}
	upperOp := OpLessThanOrEqual
	if !closeIncl {
		upperOp = OpLessThan
	}

	lower, hasLower, err := parseBoundComparator(loText, lowerOp)
	if err != nil {
		return nil, err
	}
	upper, hasUpper, err := parseBoundComparator(hiText, upperOp)
	if err != nil {
		return nil, err
	}
	return combineBounds(lower, hasLower, upper, hasUpper)
}

// parseHyphenRange parses "lo - hi" ranges. The preferred separator is
// " - " (space-hyphen-space); failing that, a bare '-' at the very start
// or end of s means "missing lower bound" or "missing upper bound"
// respectively. A bare '-' anywhere else (e.g. inside a prerelease
// label like "1.0.0-rc-1") does not trigger hyphen-range parsing.
func parseHyphenRange(s string) (Expr, error) {
	if idx := strings.Index(s, " - "); idx >= 0 {
		return buildHyphenRange(strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+3:]))
	}
	if strings.HasPrefix(s, "-") {
		return buildHyphenRange("", s[1:])
	}
	if strings.HasSuffix(s, "-") {
		return buildHyphenRange(s[:len(s)-1], "")
	}
	return nil, fmt.Errorf("%w: %q is not a hyphen range", ErrInvalidRange, s)
}

func buildHyphenRange(loText, hiText string) (Expr, error) {
	lower, hasLower, err := parseBoundComparator(loText, OpGreaterThanOrEqual)
	if err != nil {
		return nil, err
	}
	upper, hasUpper, err := parseBoundComparator(hiText, OpLessThanOrEqual)
	if err != nil {
		return nil, err
	}
	return combineBounds(lower, hasLower, upper, hasUpper)
}

func combineBounds(lower Comparator, hasLower bool, upper Comparator, hasUpper bool) (Expr, error) {
	switch {
	case hasLower && hasUpper:
		return &CompositeComparator{Children: []Expr{lower, upper}, Compositor: And}, nil
	case hasLower:
		return lower, nil
	case hasUpper:
		return upper, nil
	default:
		return nil, fmt.Errorf("%w: range has no bounds", ErrInvalidRange)
	}
}

// parseBoundComparator parses one side of a bracket or hyphen range. An
// empty text means "unbounded on this side" (ok == false). A trailing
// wildcard component (e.g. "2.9.x") produces a floating Comparator so
// that, combined with the opposite bound, the pair restricts exactly to
// the wildcard's implied numeric range.
func parseBoundComparator(text string, op Operator) (Comparator, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comparator{}, false, nil
	}
	text = strings.TrimPrefix(text, "v")
	text = strings.TrimPrefix(text, "V")

	if ref, float, ok, err := parseWildcardCore(text); ok {
		if err != nil {
			return Comparator{}, false, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}
		return Comparator{Reference: ref, Float: float, Op: op}, true, nil
	}
	ref, err := version.Parse(text)
	if err != nil {
		return Comparator{}, false, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return Comparator{Reference: ref, Float: FloatNone, Op: op}, true, nil
}

// parseTilde expands "~X", "~X.Y", "~X.Y.Z", and "~X.Y.Z-pre" per §4.D.4:
//
//	~X       -> X.x                          (Minor float)
//	~X.Y     -> X.Y.x                        (Patch float)
//	~X.Y.Z   -> [X.Y.Z, X.Y.x]
//	~X.Y.Z-pre -> (>=X.Y.Z-pre && <X.Y.Z) || ~X.Y.Z
func parseTilde(s string) (Expr, error) {
	rest := strings.TrimPrefix(s, "~")
	rest = strings.TrimPrefix(rest, "v")
	rest = strings.TrimPrefix(rest, "V")
	if rest == "" {
		return nil, fmt.Errorf("%w: %q has no version", ErrInvalidRange, s)
	}

	core, release, hasRelease := splitCoreRelease(rest)
	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return nil, fmt.Errorf("%w: %q is not a valid tilde range", ErrInvalidRange, s)
	}
	nums, err := parseUpToThreeUints(parts)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
	}

	if hasRelease {
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: %q: a tilde prerelease range requires a full X.Y.Z core", ErrInvalidRange, s)
		}
		preRef, err := version.Parse(core + "-" + release)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
		}
		lowUpper := &CompositeComparator{
			Compositor: And,
			Children: []Expr{
				Comparator{Reference: preRef, Op: OpGreaterThanOrEqual, Float: FloatNone},
				Comparator{Reference: version.New(nums[0], nums[1], nums[2], 0), Op: OpLessThan, Float: FloatNone},
			},
		}
		plain, err := tildeExpandCore(nums, len(parts))
		if err != nil {
			return nil, err
		}
		return &CompositeComparator{Children: []Expr{lowUpper, plain}, Compositor: Or}, nil
	}

	return tildeExpandCore(nums, len(parts))
}

func tildeExpandCore(nums [3]uint64, n int) (Expr, error) {
	switch n {
	case 1:
		return Comparator{Reference: version.New(nums[0], 0, 0, 0), Float: FloatMinor, Op: OpEqual}, nil
	case 2:
		return Comparator{Reference: version.New(nums[0], nums[1], 0, 0), Float: FloatPatch, Op: OpEqual}, nil
	case 3:
		lower := Comparator{Reference: version.New(nums[0], nums[1], nums[2], 0), Op: OpGreaterThanOrEqual, Float: FloatNone}
		upper := Comparator{Reference: version.New(nums[0], nums[1], 0, 0), Op: OpLessThanOrEqual, Float: FloatPatch}
		return &CompositeComparator{Children: []Expr{lower, upper}, Compositor: And}, nil
	default:
		return nil, fmt.Errorf("%w: tilde range must have 1 to 3 numeric components", ErrInvalidRange)
	}
}

// parseCaret expands "^X[.Y[.Z[.R]]]" and its prerelease-core variant
// per §4.D.5: the ceiling floats every component to the right of the
// leftmost non-zero given component, one float behavior "shallower"
// than that component (major nonzero -> ceiling floats at Minor, and so
// on). If every given component is zero, the last given component is
// the pinned one. When revision is the pinned component there is no
// room left to float and the range collapses to an exact equality
// comparator.
func parseCaret(s string) (Expr, error) {
	rest := strings.TrimPrefix(s, "^")
	rest = strings.TrimPrefix(rest, "v")
	rest = strings.TrimPrefix(rest, "V")
	if rest == "" {
		return nil, fmt.Errorf("%w: %q has no version", ErrInvalidRange, s)
	}

	core, release, hasRelease := splitCoreRelease(rest)
	parts := strings.Split(core, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return nil, fmt.Errorf("%w: %q is not a valid caret range", ErrInvalidRange, s)
	}
	var given [4]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: invalid numeric component %q", ErrInvalidRange, s, p)
		}
		given[i] = n
	}

	if hasRelease {
		preRef, err := version.Parse(core + "-" + release)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
		}
		lowUpper := &CompositeComparator{
			Compositor: And,
			Children: []Expr{
				Comparator{Reference: preRef, Op: OpGreaterThanOrEqual, Float: FloatNone},
				Comparator{Reference: version.New(given[0], given[1], given[2], given[3]), Op: OpLessThan, Float: FloatNone},
			},
		}
		plain, err := caretExpandCore(given, len(parts))
		if err != nil {
			return nil, err
		}
		return &CompositeComparator{Children: []Expr{lowUpper, plain}, Compositor: Or}, nil
	}

	return caretExpandCore(given, len(parts))
}

func caretExpandCore(given [4]uint64, n int) (Expr, error) {
	idx := -1
	for i := 0; i < n; i++ {
		if given[i] != 0 {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = n - 1
	}

	full := version.New(given[0], given[1], given[2], given[3])
	floor := Comparator{Reference: full, Op: OpGreaterThanOrEqual, Float: FloatNone}

	switch idx {
	case 0:
		ceil := Comparator{Reference: version.New(given[0], 0, 0, 0), Op: OpLessThanOrEqual, Float: FloatMinor}
		return &CompositeComparator{Children: []Expr{floor, ceil}, Compositor: And}, nil
	case 1:
		ceil := Comparator{Reference: version.New(given[0], given[1], 0, 0), Op: OpLessThanOrEqual, Float: FloatPatch}
		return &CompositeComparator{Children: []Expr{floor, ceil}, Compositor: And}, nil
	case 2:
		ceil := Comparator{Reference: version.New(given[0], given[1], given[2], 0), Op: OpLessThanOrEqual, Float: FloatRevision}
		return &CompositeComparator{Children: []Expr{floor, ceil}, Compositor: And}, nil
	default: // idx == 3: revision is the pinned (or only) component, nothing left to float.
		return Comparator{Reference: full, Op: OpEqual, Float: FloatNone}, nil
	}
}

func splitCoreRelease(rest string) (core, release string, has bool) {
	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		return rest[:idx], rest[idx+1:], true
	}
	return rest, "", false
}

func parseUpToThreeUints(parts []string) ([3]uint64, error) {
	var nums [3]uint64
	if len(parts) > 3 {
		return nums, fmt.Errorf("too many numeric components")
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nums, fmt.Errorf("invalid numeric component %q", p)
		}
		nums[i] = n
	}
	return nums, nil
}
