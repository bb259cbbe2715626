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

package version

import (
	"fmt"
	"hash/fnv"
	"math/big"
	"strings"
)

// Mode selects how much of a Version participates in ordering and
// equality. Each mode subsumes the fields compared by the previous one.
type Mode int

const (
	// ModeVersion compares only major.minor.patch.revision.
	ModeVersion Mode = iota
	// ModeVersionRelease additionally compares prerelease labels.
	ModeVersionRelease
	// ModeVersionReleaseMetadata additionally compares build metadata,
	// case-insensitively.
	ModeVersionReleaseMetadata
)

// ModeDefault is the ordering NuGet uses by default: numerics plus
// prerelease labels, ignoring build metadata.
const ModeDefault = ModeVersionRelease

// Comparer orders and hashes Versions under a fixed Mode.
type Comparer struct {
	Mode Mode
}

// NewComparer returns a Comparer bound to mode.
func NewComparer(mode Mode) Comparer {
	return Comparer{Mode: mode}
}

// Compare orders a and b under mode, without needing a Comparer value.
func Compare(a, b Version, mode Mode) int {
	return Comparer{Mode: mode}.Compare(a, b)
}

// Compare returns a negative number if a orders before b, zero if they
// are equal under c.Mode, and a positive number if a orders after b.
//
// Numerics always compare first; if they differ the comparison ends
// there regardless of mode. A version with prerelease labels orders
// before an otherwise-identical version without them. When both are
// prerelease, labels compare pairwise: numeric identifiers (parsed as
// non-negative integers) order before non-numeric ones, two numeric
// identifiers compare by magnitude, and two non-numeric identifiers
// compare case-insensitively. If one label list is a prefix of the
// other, the shorter list orders first.
func (c Comparer) Compare(a, b Version) int {
	if d := compareUint(a.major, b.major); d != 0 {
		return d
	}
	if d := compareUint(a.minor, b.minor); d != 0 {
		return d
	}
	if d := compareUint(a.patch, b.patch); d != 0 {
		return d
	}
	if d := compareUint(a.revision, b.revision); d != 0 {
		return d
	}
	if c.Mode == ModeVersion {
		return 0
	}

	if d := compareRelease(a.release, b.release); d != 0 {
		return d
	}
	if c.Mode == ModeVersionReleaseMetadata {
		return strings.Compare(strings.ToLower(a.Metadata()), strings.ToLower(b.Metadata()))
	}
	return 0
}

// Equals reports whether a and b compare equal under c.Mode.
func (c Comparer) Equals(a, b Version) bool {
	return c.Compare(a, b) == 0
}

// Hash returns a hash code consistent with Equals: a.Equals(b) implies
// a and b hash the same under the same Mode.
func (c Comparer) Hash(v Version) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d.%d.%d.%d", v.major, v.minor, v.patch, v.revision)
	if c.Mode != ModeVersion {
		for _, label := range v.release {
			fmt.Fprintf(h, "|%s", strings.ToLower(label))
		}
		if c.Mode == ModeVersionReleaseMetadata {
			fmt.Fprintf(h, "|%s", strings.ToLower(v.Metadata()))
		}
	}
	return h.Sum64()
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

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareRelease implements the prerelease-before-stable rule and the
// label-by-label comparison described on Comparer.Compare.
func compareRelease(a, b []string) int {
	aPre, bPre := len(a) > 0, len(b) > 0
	switch {
	case aPre && !bPre:
		return -1
	case !aPre && bPre:
		return 1
	case !aPre && !bPre:
		return 0
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if d := compareReleaseLabel(a[i], b[i]); d != 0 {
			return d
		}
	}
	return compareInt(len(a), len(b))
}

func compareReleaseLabel(a, b string) int {
	aNum, aIsNum := asNonNegativeInt(a)
	bNum, bIsNum := asNonNegativeInt(b)
	switch {
	case aIsNum && bIsNum:
		return aNum.Cmp(bNum)
	case aIsNum && !bIsNum:
		return -1
	case !aIsNum && bIsNum:
		return 1
	default:
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
}

func asNonNegativeInt(s string) (*big.Int, bool) {
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, false
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return n, true
}
