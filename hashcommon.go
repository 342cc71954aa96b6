// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fastutil

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultLoadFactor is the load factor used when WithLoadFactor is not
	// supplied.
	DefaultLoadFactor = 0.75
	// DefaultInitialSize is the table size used by NewDefault. It is also the
	// floor below which removals never shrink a table.
	DefaultInitialSize = 16

	minTableSize = DefaultInitialSize
	maxTableSize = 1 << 30

	// 2^64 divided by the golden ratio.
	phi = 0x9e3779b97f4a7c15
)

// mix scrambles the bits of a hash code so that masking off the low bits
// produces a usable table index. Raw hash codes (e.g. small integers used as
// their own hash) cluster badly under a power-of-two mask.
func mix(x uint64) uint64 {
	h := x * phi
	h ^= h >> 32
	return h ^ (h >> 16)
}

// slotOf returns the natural probe start of key in a table with the given
// mask.
func slotOf[K any](s Strategy[K], key K, mask int) int {
	return int(mix(s.Hash(key)) & uint64(mask))
}

// nextPowerOfTwo returns the least power of two greater than or equal to x,
// and 1 for x <= 1.
func nextPowerOfTwo(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x-1))
}

// maxFill returns the maximum number of entries a table of size n can hold
// at load factor f. At least one slot is always left empty so that probes
// terminate.
func maxFill(n int, f float32) int {
	return min(int(math.Ceil(float64(n)*float64(f))), n-1)
}

// arraySize returns the least power of two, at least 2, whose maxFill at
// load factor f is at least expected.
func arraySize(expected int, f float32) (int, error) {
	s := math.Ceil(float64(expected) / float64(f))
	if s > maxTableSize {
		return 0, errors.Wrapf(ErrInvalidArgument,
			"too large (%d expected elements with load factor %v)", expected, f)
	}
	return max(2, nextPowerOfTwo(int(s))), nil
}
