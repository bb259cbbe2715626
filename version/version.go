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

// Package version parses and formats four-component version strings
// (major.minor.patch.revision, with optional prerelease labels and build
// metadata) in the style NuGet extends SemVer 2.0 with.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned when a version string does not conform to
// the version grammar.
var ErrInvalidVersion = errors.New("not a valid version string")

// ErrEmptyInput is returned when a version string is empty or all whitespace.
var ErrEmptyInput = errors.New("version string is empty")

// Version is an immutable major.minor.patch.revision value with optional
// prerelease labels and build metadata.
type Version struct {
	major, minor, patch, revision uint64
	release                       []string
	metadata                      []string
	original                      string
}

// New builds a Version from its four numeric components, with no
// prerelease labels or build metadata.
func New(major, minor, patch, revision uint64) Version {
	return Version{major: major, minor: minor, patch: patch, revision: revision}
}

// Zero is the version 0.0.0.
func Zero() Version {
	return Version{}
}

// Major returns the major component.
func (v Version) Major() uint64 { return v.major }

// Minor returns the minor component.
func (v Version) Minor() uint64 { return v.minor }

// Patch returns the patch component.
func (v Version) Patch() uint64 { return v.patch }

// Revision returns the revision component.
func (v Version) Revision() uint64 { return v.revision }

// ReleaseLabels returns the dot-separated prerelease identifiers, or nil
// if the version is not a prerelease.
func (v Version) ReleaseLabels() []string {
	if len(v.release) == 0 {
		return nil
	}
	out := make([]string, len(v.release))
	copy(out, v.release)
	return out
}

// Metadata returns the dot-joined build metadata identifiers, or the
// empty string if none are present.
func (v Version) Metadata() string {
	return strings.Join(v.metadata, ".")
}

// IsPrerelease reports whether the version carries any release labels.
func (v Version) IsPrerelease() bool {
	return len(v.release) > 0
}

// HasMetadata reports whether the version carries build metadata.
func (v Version) HasMetadata() bool {
	return len(v.metadata) > 0
}

// Original returns the exact text a version was parsed from. It is empty
// for values built with New or Zero.
func (v Version) Original() string {
	return v.original
}

// TryParse parses s, reporting success instead of returning an error.
func TryParse(s string) (Version, bool) {
	v, err := Parse(s)
	if err != nil {
		return Version{}, false
	}
	return v, true
}

// MustParse parses s, panicking if it is not a valid version.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Parse parses a version string of the form
//
//	MAJOR[.MINOR[.PATCH[.REVISION]]][-RELEASE][+METADATA]
//
// A single-integer core is padded with an implied ".0" minor component.
// Numeric core components and numeric release identifiers reject leading
// zeros (other than the literal "0"); metadata identifiers do not.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, ErrEmptyInput
	}

	rest := trimmed
	core := rest
	var release, metadata string
	hasRelease, hasMetadata := false, false

	if i := strings.IndexByte(rest, '-'); i >= 0 {
		hasRelease = true
		core = rest[:i]
		rest = rest[i+1:]
		if j := strings.IndexByte(rest, '+'); j >= 0 {
			hasMetadata = true
			release = rest[:j]
			metadata = rest[j+1:]
		} else {
			release = rest
		}
	} else if i := strings.IndexByte(rest, '+'); i >= 0 {
		hasMetadata = true
		core = rest[:i]
		metadata = rest[i+1:]
	}

	if hasRelease && release == "" {
		return Version{}, fmt.Errorf("%w: %q has an empty prerelease section", ErrInvalidVersion, s)
	}
	if hasMetadata && metadata == "" {
		return Version{}, fmt.Errorf("%w: %q has empty build metadata", ErrInvalidVersion, s)
	}
	if core == "" {
		return Version{}, fmt.Errorf("%w: %q has no version core", ErrInvalidVersion, s)
	}

	coreParts := strings.Split(core, ".")
	if len(coreParts) == 1 {
		coreParts = append(coreParts, "0")
	}
	if len(coreParts) > 4 {
		return Version{}, fmt.Errorf("%w: %q has too many numeric components", ErrInvalidVersion, s)
	}

	var nums [4]uint64
	for i, p := range coreParts {
		n, err := parseNonNegativeInt(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
		}
		nums[i] = n
	}

	var releaseLabels []string
	if hasRelease {
		releaseLabels = strings.Split(release, ".")
		for _, id := range releaseLabels {
			if err := validateIdentifier(id, true); err != nil {
				return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
			}
		}
	}

	var metadataParts []string
	if hasMetadata {
		metadataParts = strings.Split(metadata, ".")
		for _, id := range metadataParts {
			if err := validateIdentifier(id, false); err != nil {
				return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
			}
		}
	}

	return Version{
		major: nums[0], minor: nums[1], patch: nums[2], revision: nums[3],
		release: releaseLabels, metadata: metadataParts, original: s,
	}, nil
}

func parseNonNegativeInt(p string) (uint64, error) {
	if p == "" {
		return 0, errors.New("empty numeric component")
	}
	if len(p) > 1 && p[0] == '0' {
		return 0, fmt.Errorf("numeric component %q has a leading zero", p)
	}
	for _, c := range p {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("numeric component %q is not a non-negative integer", p)
		}
	}
	n, err := strconv.ParseUint(p, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("numeric component %q: %v", p, err)
	}
	return n, nil
}

// validateIdentifier checks a single dot-separated release or metadata
// identifier. Release identifiers additionally reject a leading zero on
// an all-numeric identifier longer than one character; metadata
// identifiers allow leading zeros.
func validateIdentifier(id string, isRelease bool) error {
	if id == "" {
		return errors.New("empty identifier")
	}
	allDigits := true
	for _, c := range id {
		if c > 127 {
			return fmt.Errorf("identifier %q contains a non-ASCII character", id)
		}
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '-':
			allDigits = false
		default:
			return fmt.Errorf("identifier %q contains an invalid character %q", id, c)
		}
	}
	if isRelease && allDigits && len(id) > 1 && id[0] == '0' {
		return fmt.Errorf("numeric release identifier %q has a leading zero", id)
	}
	return nil
}

// Format renders v according to a small format-string mini-language:
//
//	N  normalized string: core[-release][+metadata]
//	V  numeric core only (revision omitted unless positive)
//	R  dot-joined release labels
//	M  dot-joined metadata identifiers
//	x  major, y minor, z patch, r revision
//
// Any other character is copied through literally.
func (v Version) Format(layout string) string {
	var b strings.Builder
	for i := 0; i < len(layout); i++ {
		switch layout[i] {
		case 'N':
			b.WriteString(v.normalized())
		case 'V':
			b.WriteString(v.core())
		case 'R':
			b.WriteString(strings.Join(v.release, "."))
		case 'M':
			b.WriteString(strings.Join(v.metadata, "."))
		case 'x':
			fmt.Fprintf(&b, "%d", v.major)
		case 'y':
			fmt.Fprintf(&b, "%d", v.minor)
		case 'z':
			fmt.Fprintf(&b, "%d", v.patch)
		case 'r':
			fmt.Fprintf(&b, "%d", v.revision)
		default:
			b.WriteByte(layout[i])
		}
	}
	return b.String()
}

// core formats major.minor.patch, appending the revision component only
// when it is positive.
func (v Version) core() string {
	if v.revision > 0 {
		return fmt.Sprintf("%d.%d.%d.%d", v.major, v.minor, v.patch, v.revision)
	}
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v Version) normalized() string {
	s := v.core()
	if v.IsPrerelease() {
		s += "-" + strings.Join(v.release, ".")
	}
	if v.HasMetadata() {
		s += "+" + strings.Join(v.metadata, ".")
	}
	return s
}

// String returns the same text as Format("N").
func (v Version) String() string {
	return v.Format("N")
}
