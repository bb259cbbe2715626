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

// Package assemblyidentity parses and formats .NET-style assembly
// identity strings: a short name plus comma-separated Version, Culture,
// PublicKeyToken, and processorArchitecture attributes.
package assemblyidentity

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/edwardmeng/wheatech/version"
)

// foldCaser normalizes attribute keys and enum-like values (Culture's
// "neutral", PublicKeyToken's "null", processorArchitecture spellings)
// before comparison, the same case-folding style the teacher uses for
// package-manager field names in extractor/filesystem/os/pacman.
var foldCaser = cases.Fold()

// ErrInvalidIdentity is returned when an assembly identity string does
// not conform to the grammar.
var ErrInvalidIdentity = errors.New("not a valid assembly identity string")

// ErrEmptyInput is returned when an assembly identity string is empty or
// all whitespace.
var ErrEmptyInput = errors.New("assembly identity string is empty")

// Architecture is the processorArchitecture attribute of an assembly
// identity.
type Architecture int

const (
	ArchitectureNone Architecture = iota
	ArchitectureMSIL
	ArchitectureX86
	ArchitectureIA64
	ArchitectureAmd64
	ArchitectureArm
)

// String reproduces the exact processorArchitecture= token casing used
// when formatting an AssemblyIdentity.
func (a Architecture) String() string {
	switch a {
	case ArchitectureMSIL:
		return "MSIL"
	case ArchitectureX86:
		return "X86"
	case ArchitectureIA64:
		return "IA64"
	case ArchitectureAmd64:
		return "AMD64"
	case ArchitectureArm:
		return "ARM"
	default:
		return "None"
	}
}

// ParseArchitecture parses a processorArchitecture value.
func ParseArchitecture(s string) (Architecture, error) {
	switch foldCaser.String(strings.TrimSpace(s)) {
	case "", "none":
		return ArchitectureNone, nil
	case "msil":
		return ArchitectureMSIL, nil
	case "x86":
		return ArchitectureX86, nil
	case "ia64":
		return ArchitectureIA64, nil
	case "amd64":
		return ArchitectureAmd64, nil
	case "arm":
		return ArchitectureArm, nil
	default:
		return ArchitectureNone, fmt.Errorf("%w: unrecognized processor architecture %q", ErrInvalidIdentity, s)
	}
}

// PublicKeyToken is an 8-byte assembly strong-name token.
type PublicKeyToken [8]byte

// AssemblyIdentity is a parsed .NET-style assembly identity: a short
// name plus optional Version, Culture, PublicKeyToken, and
// processorArchitecture attributes.
type AssemblyIdentity struct {
	shortName    string
	version      version.Version
	hasVersion   bool
	culture      string // BCP-47 tag; empty means neutral
	hasCulture   bool
	token        PublicKeyToken
	hasToken     bool
	architecture Architecture
	original     string
}

// ShortName returns the assembly's simple name.
func (id AssemblyIdentity) ShortName() string { return id.shortName }

// Version returns the assembly's version and whether one was present.
func (id AssemblyIdentity) Version() (version.Version, bool) { return id.version, id.hasVersion }

// Culture returns the assembly's BCP-47 culture tag and whether it is
// present (as opposed to "neutral").
func (id AssemblyIdentity) Culture() (string, bool) { return id.culture, id.hasCulture }

// PublicKeyToken returns the assembly's strong-name token and whether
// one is present (as opposed to "null").
func (id AssemblyIdentity) PublicKeyToken() (PublicKeyToken, bool) { return id.token, id.hasToken }

// Architecture returns the assembly's processor architecture.
func (id AssemblyIdentity) Architecture() Architecture { return id.architecture }

// Original returns the exact text an identity was parsed from.
func (id AssemblyIdentity) Original() string { return id.original }

// TryParse parses s, reporting success instead of returning an error.
func TryParse(s string) (AssemblyIdentity, bool) {
	id, err := Parse(s)
	if err != nil {
		return AssemblyIdentity{}, false
	}
	return id, true
}

// MustParse parses s, panicking on failure.
func MustParse(s string) AssemblyIdentity {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Parse parses an assembly identity string:
//
//	short-name (',' key '=' value)*
//
// Recognized keys (case-insensitive): Version, Culture, PublicKeyToken,
// processorArchitecture. "Culture=neutral" and "PublicKeyToken=null"
// are the canonical spellings of "absent".
func Parse(s string) (AssemblyIdentity, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return AssemblyIdentity{}, ErrEmptyInput
	}

	parts := strings.Split(trimmed, ",")
	shortName := strings.TrimSpace(parts[0])
	if shortName == "" || strings.Contains(shortName, "=") {
		return AssemblyIdentity{}, fmt.Errorf("%w: %q has no short name", ErrInvalidIdentity, s)
	}

	id := AssemblyIdentity{shortName: shortName, original: s}

	for _, raw := range parts[1:] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return AssemblyIdentity{}, fmt.Errorf("%w: %q has an empty attribute", ErrInvalidIdentity, s)
		}
		eq := strings.IndexByte(raw, '=')
		if eq < 0 {
			return AssemblyIdentity{}, fmt.Errorf("%w: %q: attribute %q has no value", ErrInvalidIdentity, s, raw)
		}
		key := strings.TrimSpace(raw[:eq])
		value := strings.TrimSpace(raw[eq+1:])

		switch foldCaser.String(key) {
		case "version":
			v, err := version.Parse(value)
			if err != nil || v.IsPrerelease() || v.HasMetadata() {
				return AssemblyIdentity{}, fmt.Errorf("%w: %q: Version must be a numeric X.Y[.Z[.R]] value, got %q", ErrInvalidIdentity, s, value)
			}
			id.version, id.hasVersion = v, true
		case "culture":
			if foldCaser.String(value) == "neutral" {
				id.hasCulture, id.culture = false, ""
				continue
			}
			tag, err := language.Parse(value)
			if err != nil {
				return AssemblyIdentity{}, fmt.Errorf("%w: %q: invalid culture %q", ErrInvalidIdentity, s, value)
			}
			id.hasCulture, id.culture = true, tag.String()
		case "publickeytoken":
			if foldCaser.String(value) == "null" {
				id.hasToken = false
				continue
			}
			token, err := parsePublicKeyToken(value)
			if err != nil {
				return AssemblyIdentity{}, fmt.Errorf("%w: %q: %v", ErrInvalidIdentity, s, err)
			}
			id.token, id.hasToken = token, true
		case "processorarchitecture":
			arch, err := ParseArchitecture(value)
			if err != nil {
				return AssemblyIdentity{}, fmt.Errorf("%w: %q: %v", ErrInvalidIdentity, s, err)
			}
			id.architecture = arch
		default:
			return AssemblyIdentity{}, fmt.Errorf("%w: %q: unknown attribute %q", ErrInvalidIdentity, s, key)
		}
	}

	return id, nil
}

func parsePublicKeyToken(value string) (PublicKeyToken, error) {
	var token PublicKeyToken
	if len(value) != 16 {
		return token, fmt.Errorf("public key token must be 16 hex digits, got %d characters", len(value))
	}
	decoded, err := hex.DecodeString(value)
	if err != nil {
		return token, errors.New("public key token contains non-hex characters")
	}
	copy(token[:], decoded)
	return token, nil
}

// Format renders id canonically: short-name, then ", Version=M.m.p.r,
// Culture=tag|neutral, PublicKeyToken=HEX|null" when a version or token
// is present, then ", processorArchitecture=ARCH" when one is set.
// Unlike Version.Format, this is not a template mini-language: an
// assembly identity always has exactly this shape.
func (id AssemblyIdentity) Format() string {
	var b strings.Builder
	b.WriteString(id.shortName)

	if id.hasVersion || id.hasToken {
		v := id.version
		fmt.Fprintf(&b, ", Version=%d.%d.%d.%d", v.Major(), v.Minor(), v.Patch(), v.Revision())
		if id.hasCulture {
			fmt.Fprintf(&b, ", Culture=%s", id.culture)
		} else {
			b.WriteString(", Culture=neutral")
		}
		if id.hasToken {
			fmt.Fprintf(&b, ", PublicKeyToken=%s", strings.ToUpper(hex.EncodeToString(id.token[:])))
		} else {
			b.WriteString(", PublicKeyToken=null")
		}
	}
	if id.architecture != ArchitectureNone {
		fmt.Fprintf(&b, ", processorArchitecture=%s", id.architecture.String())
	}
	return b.String()
}

// String is an alias for Format.
func (id AssemblyIdentity) String() string {
	return id.Format()
}
