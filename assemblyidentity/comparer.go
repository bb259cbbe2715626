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

package assemblyidentity

import (
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/edwardmeng/wheatech/version"
)

// Mode selects how much of an AssemblyIdentity participates in equality
// and hashing. Each mode subsumes the fields compared by the previous
// one, the same ladder shape as version.Mode.
type Mode int

const (
	// ModeShortName compares only the short name, case-insensitively.
	ModeShortName Mode = iota
	// ModeVersion additionally compares the assembly version under
	// version.ModeVersion (numerics only).
	ModeVersion
	// ModeCulture additionally compares the culture tag, case-insensitively.
	ModeCulture
	// ModePublicKeyToken additionally compares the public key token.
	ModePublicKeyToken
	// ModeArchitecture additionally compares the processor architecture.
	ModeArchitecture
)

// ModeDefault is the strictest comparison: every attribute participates.
const ModeDefault = ModeArchitecture

// Comparer compares AssemblyIdentity values under a fixed Mode.
type Comparer struct {
	Mode Mode
}

// NewComparer returns a Comparer bound to mode.
func NewComparer(mode Mode) Comparer {
	return Comparer{Mode: mode}
}

// Equal reports whether a and b compare equal under mode, without
// needing a Comparer value.
func Equal(a, b AssemblyIdentity, mode Mode) bool {
	return Comparer{Mode: mode}.Equals(a, b)
}

// Equals reports whether a and b are equal under c.Mode. Comparison
// proceeds down the ladder short name, version, culture, public key
// token, architecture, stopping as soon as c.Mode says to.
func (c Comparer) Equals(a, b AssemblyIdentity) bool {
	if !strings.EqualFold(a.shortName, b.shortName) {
		return false
	}
	if c.Mode == ModeShortName {
		return true
	}

	if !versionsEqual(a, b) {
		return false
	}
	if c.Mode == ModeVersion {
		return true
	}

	if !culturesEqual(a, b) {
		return false
	}
	if c.Mode == ModeCulture {
		return true
	}

	if !tokensEqual(a, b) {
		return false
	}
	if c.Mode == ModePublicKeyToken {
		return true
	}

	return a.architecture == b.architecture
}

// Hash returns a hash code consistent with Equals: a.Equals(b) under
// c.Mode implies a and b hash the same under c.Mode.
func (c Comparer) Hash(id AssemblyIdentity) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s", strings.ToLower(id.shortName))
	if c.Mode == ModeShortName {
		return h.Sum64()
	}

	if id.hasVersion {
		v := id.version
		fmt.Fprintf(h, "|%d.%d.%d.%d", v.Major(), v.Minor(), v.Patch(), v.Revision())
	} else {
		fmt.Fprint(h, "|novers")
	}
	if c.Mode == ModeVersion {
		return h.Sum64()
	}

	if id.hasCulture {
		fmt.Fprintf(h, "|%s", strings.ToLower(id.culture))
	} else {
		fmt.Fprint(h, "|neutral")
	}
	if c.Mode == ModeCulture {
		return h.Sum64()
	}

	if id.hasToken {
		fmt.Fprintf(h, "|%s", hex.EncodeToString(id.token[:]))
	} else {
		fmt.Fprint(h, "|null")
	}
	if c.Mode == ModePublicKeyToken {
		return h.Sum64()
	}

	fmt.Fprintf(h, "|%d", id.architecture)
	return h.Sum64()
}

func versionsEqual(a, b AssemblyIdentity) bool {
	if a.hasVersion != b.hasVersion {
		return false
	}
	if !a.hasVersion {
		return true
	}
	return version.Compare(a.version, b.version, version.ModeVersion) == 0
}

func culturesEqual(a, b AssemblyIdentity) bool {
	if a.hasCulture != b.hasCulture {
		return false
	}
	if !a.hasCulture {
		return true
	}
	return strings.EqualFold(a.culture, b.culture)
}

func tokensEqual(a, b AssemblyIdentity) bool {
	if a.hasToken != b.hasToken {
		return false
	}
	if !a.hasToken {
		return true
	}
	return a.token == b.token
}
