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

// Package versionrange parses and evaluates single relational version
// comparators and the composite AND/OR range grammar built on top of
// them (bracket ranges, hyphen ranges, tilde and caret sugar, and
// infix || / &&).
package versionrange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/edwardmeng/wheatech/version"
)

// ErrInvalidComparator is returned when a single relational comparator
// string does not conform to the grammar.
var ErrInvalidComparator = errors.New("not a valid version comparator")

// ErrInvalidRange is returned when a composite range expression does not
// conform to the grammar.
var ErrInvalidRange = errors.New("not a valid version range")

// Operator is a relational operator applied between a candidate and a
// reference version.
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
)

// String renders the canonical two-or-fewer-character spelling of op.
func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLessThan:
		return "<"
	case OpLessThanOrEqual:
		return "<="
	default:
		return "?"
	}
}

// FloatBehavior controls which components of the reference version are
// pinned and which are allowed to "float" when matching a candidate.
type FloatBehavior int

const (
	// FloatNone requires an exact relational comparison against the
	// reference, including prerelease labels.
	FloatNone FloatBehavior = iota
	// FloatPrerelease pins the numeric core and matches any prerelease
	// whose release labels start with a configured prefix.
	FloatPrerelease
	// FloatRevision pins major.minor.patch and requires a stable candidate.
	FloatRevision
	// FloatPatch pins major.minor and requires a stable candidate.
	FloatPatch
	// FloatMinor pins major and requires a stable candidate.
	FloatMinor
	// FloatMajor matches any stable candidate.
	FloatMajor
)

// Expr is satisfied by both Comparator and *CompositeComparator: a
// parsed range expression that can be evaluated against a candidate
// version and rendered back to text.
type Expr interface {
	Match(v version.Version) bool
	String() string
}

// Comparator is a single relational comparator: a reference version, an
// operator, and an optional float behavior that loosens which
// components of the reference must match exactly.
type Comparator struct {
	Reference     version.Version
	Op            Operator
	Float         FloatBehavior
	ReleasePrefix string // only meaningful when Float == FloatPrerelease
}

// Match reports whether v satisfies c.
//
// The comparison mode depends on c.Float:
//   - FloatNone compares candidate and reference under
//     version.ModeVersionRelease.
//   - FloatPrerelease compares numerics only; if they're equal, a stable
//     candidate never matches, and a prerelease candidate matches
//     exactly when its release labels start with ReleasePrefix
//     (case-insensitively) — otherwise the prefix and the candidate's
//     release are compared case-insensitively to produce the result.
//   - FloatRevision/FloatPatch/FloatMinor require a stable candidate and
//     compare a numeric prefix of the reference (major.minor.patch,
//     major.minor, or major respectively).
//   - FloatMajor requires a stable candidate and always compares equal.
//
// In every branch the signed result is computed as "reference relative
// to candidate": a candidate greater than the reference yields a
// negative result. Operators are then applied uniformly against that
// result.
func (c Comparator) Match(v version.Version) bool {
	switch c.Float {
	case FloatNone:
		return applyOp(c.Op, version.Compare(c.Reference, v, version.ModeVersionRelease))
	case FloatPrerelease:
		result := compareCore(c.Reference, v, 4)
		if result == 0 {
			switch {
			case !v.IsPrerelease():
				// A stable candidate with matching numerics never
				// matches, whatever the operator.
				return false
			case hasFoldPrefix(strings.Join(v.ReleaseLabels(), "."), c.ReleasePrefix):
				result = 0
			default:
				result = strings.Compare(strings.ToLower(c.ReleasePrefix), strings.ToLower(strings.Join(v.ReleaseLabels(), ".")))
			}
		}
		return applyOp(c.Op, result)
	case FloatRevision:
		if v.IsPrerelease() {
			return false
		}
		return applyOp(c.Op, compareCore(c.Reference, v, 3))
	case FloatPatch:
		if v.IsPrerelease() {
			return false
		}
		return applyOp(c.Op, compareCore(c.Reference, v, 2))
	case FloatMinor:
		if v.IsPrerelease() {
			return false
		}
		return applyOp(c.Op, compareCore(c.Reference, v, 1))
	case FloatMajor:
		if v.IsPrerelease() {
			return false
		}
		return applyOp(c.Op, 0)
	default:
		return false
	}
}

// String renders c back to its comparator text: an operator prefix
// (omitted for OpEqual) followed by the reference version, rendered
// with the wildcard suffix appropriate to c.Float.
func (c Comparator) String() string {
	prefix := ""
	if c.Op != OpEqual {
		prefix = c.Op.String()
	}
	switch c.Float {
	case FloatMajor:
		return prefix + "*"
	case FloatMinor:
		return fmt.Sprintf("%s%d.*", prefix, c.Reference.Major())
	case FloatPatch:
		return fmt.Sprintf("%s%d.%d.*", prefix, c.Reference.Major(), c.Reference.Minor())
	case FloatRevision:
		return fmt.Sprintf("%s%d.%d.%d.*", prefix, c.Reference.Major(), c.Reference.Minor(), c.Reference.Patch())
	case FloatPrerelease:
		return fmt.Sprintf("%s%d.%d.%d-%s*", prefix, c.Reference.Major(), c.Reference.Minor(), c.Reference.Patch(), c.ReleasePrefix)
	default:
		return prefix + c.Reference.Format("N")
	}
}

// Equal reports whether c and other are structurally equal: the same
// operator and float behavior over the same reference version (compared
// under version.ModeVersionReleaseMetadata, ignoring only the original
// input text) and, for FloatPrerelease, the same release prefix.
func (c Comparator) Equal(other Comparator) bool {
	return c.Op == other.Op &&
		c.Float == other.Float &&
		strings.EqualFold(c.ReleasePrefix, other.ReleasePrefix) &&
		version.Compare(c.Reference, other.Reference, version.ModeVersionReleaseMetadata) == 0
}

// TryParseComparator parses s as a single comparator, reporting success
// instead of returning an error.
func TryParseComparator(s string) (Comparator, bool) {
	c, err := ParseComparator(s)
	if err != nil {
		return Comparator{}, false
	}
	return c, true
}

// MustParseComparator parses s, panicking on failure.
func MustParseComparator(s string) Comparator {
	c, err := ParseComparator(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseComparator parses a single relational comparator: an optional
// operator prefix (==, !=, <>, >=, <=, =, >, <) or suffix (+ for >=, -
// for <=) applied to a version, which may itself use the *, X.*, X.Y.*,
// X.Y.Z.*, or X.Y.Z-prefix* wildcard sugar described by FloatBehavior.
func ParseComparator(s string) (Comparator, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Comparator{}, fmt.Errorf("%w: empty comparator", ErrInvalidComparator)
	}

	op, rest := extractOperator(trimmed)
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "v")
	rest = strings.TrimPrefix(rest, "V")
	if rest == "" {
		return Comparator{}, fmt.Errorf("%w: %q has no version", ErrInvalidComparator, s)
	}

	if rest == "*" {
		return Comparator{Reference: version.Zero(), Float: FloatMajor, Op: op}, nil
	}

	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		releasePart := rest[idx+1:]
		if strings.HasSuffix(releasePart, "*") {
			ref, err := version.Parse(rest[:idx])
			if err != nil {
				return Comparator{}, fmt.Errorf("%w: %q: %v", ErrInvalidComparator, s, err)
			}
			return Comparator{
				Reference:     ref,
				Float:         FloatPrerelease,
				ReleasePrefix: strings.TrimSuffix(releasePart, "*"),
				Op:            op,
			}, nil
		}
	}

	if ref, float, ok, err := parseWildcardCore(rest); ok {
		if err != nil {
			return Comparator{}, fmt.Errorf("%w: %q: %v", ErrInvalidComparator, s, err)
		}
		return Comparator{Reference: ref, Float: float, Op: op}, nil
	}

	ref, err := version.Parse(rest)
	if err != nil {
		return Comparator{}, fmt.Errorf("%w: %q: %v", ErrInvalidComparator, s, err)
	}
	return Comparator{Reference: ref, Float: FloatNone, Op: op}, nil
}

func applyOp(op Operator, result int) bool {
	switch op {
	case OpEqual:
		return result == 0
	case OpNotEqual:
		return result != 0
	case OpGreaterThan:
		return result < 0
	case OpGreaterThanOrEqual:
		return result <= 0
	case OpLessThan:
		return result > 0
	case OpLessThanOrEqual:
		return result >= 0
	default:
		return false
	}
}

// compareCore compares a and b over their first `fields` numeric
// components (1=major, 2=+minor, 3=+patch, 4=+revision), the same
// "reference relative to candidate" direction as Match's result.
func compareCore(a, b version.Version, fields int) int {
	if d := compareUint(a.Major(), b.Major()); d != 0 || fields == 1 {
		return d
	}
	if d := compareUint(a.Minor(), b.Minor()); d != 0 || fields == 2 {
		return d
	}
	if d := compareUint(a.Patch(), b.Patch()); d != 0 || fields == 3 {
		return d
	}
	return compareUint(a.Revision(), b.Revision())
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func hasFoldPrefix(s, prefix string) bool {
	if len(prefix) > len(s) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

func extractOperator(s string) (Operator, string) {
	prefixes := []struct {
		tok string
		op  Operator
	}{
		{"==", OpEqual}, {"!=", OpNotEqual}, {"<>", OpNotEqual},
		{">=", OpGreaterThanOrEqual}, {"<=", OpLessThanOrEqual},
		{"=", OpEqual}, {">", OpGreaterThan}, {"<", OpLessThan},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p.tok) {
			return p.op, s[len(p.tok):]
		}
	}
	switch {
	case strings.HasSuffix(s, "+"):
		return OpGreaterThanOrEqual, strings.TrimSuffix(s, "+")
	case strings.HasSuffix(s, "-"):
		return OpLessThanOrEqual, strings.TrimSuffix(s, "-")
	}
	return OpEqual, s
}

// parseWildcardCore recognizes a numeric core with a trailing "x"/"X"/"*"
// wildcard component (e.g. "1.2.*"), returning the reference built from
// the components before the wildcard and the FloatBehavior it implies.
// ok is false when s has no trailing wildcard component at all.
func parseWildcardCore(s string) (version.Version, FloatBehavior, bool, error) {
	parts := strings.Split(s, ".")
	if !isWildcardToken(parts[len(parts)-1]) {
		return version.Version{}, 0, false, nil
	}
	parts = parts[:len(parts)-1]

	var float FloatBehavior
	switch len(parts) {
	case 0:
		float = FloatMajor
	case 1:
		float = FloatMinor
	case 2:
		float = FloatPatch
	case 3:
		float = FloatRevision
	default:
		return version.Version{}, 0, true, fmt.Errorf("too many components before wildcard in %q", s)
	}

	var nums [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return version.Version{}, 0, true, fmt.Errorf("invalid numeric component %q", p)
		}
		nums[i] = n
	}
	return version.New(nums[0], nums[1], nums[2], 0), float, true, nil
}

func isWildcardToken(s string) bool {
	return s == "*" || strings.EqualFold(s, "x")
}
