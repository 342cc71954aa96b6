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
	"hash/maphash"
	"math"

	"golang.org/x/exp/constraints"
)

// Strategy supplies the hash and equality used by a Map for its keys. Equal
// must be an equivalence relation and Hash must agree with it: Equal(a, b)
// implies Hash(a) == Hash(b).
//
// The zero value of K plays a special role: a Map treats any key k with
// Equal(k, zero) as the sentinel key and stores it outside the probed part of
// the table. Every other key must therefore compare unequal to the zero
// value, which is how the table recognizes empty slots.
type Strategy[K any] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

// IntegerStrategy is the natural strategy for integer keys. The key is its
// own hash code; the table's mixing step spreads it.
type IntegerStrategy[K constraints.Integer] struct{}

// Hash implements Strategy.
func (IntegerStrategy[K]) Hash(key K) uint64 { return uint64(key) }

// Equal implements Strategy.
func (IntegerStrategy[K]) Equal(a, b K) bool { return a == b }

// FloatStrategy compares floating point keys by their bit patterns, with all
// NaNs collapsed into one. Unlike ==, it distinguishes -0 from +0 and finds
// NaN keys.
type FloatStrategy[K constraints.Float] struct{}

// Hash implements Strategy.
func (FloatStrategy[K]) Hash(key K) uint64 { return floatBits(key) }

// Equal implements Strategy.
func (FloatStrategy[K]) Equal(a, b K) bool { return floatBits(a) == floatBits(b) }

const canonicalNaN = 0x7ff8000000000000

func floatBits[K constraints.Float](v K) uint64 {
	f := float64(v)
	if f != f {
		return canonicalNaN
	}
	return math.Float64bits(f)
}

// ComparableStrategy uses Go equality and a seeded runtime hash. It is the
// default strategy of a Map.
type ComparableStrategy[K comparable] struct {
	seed maphash.Seed
}

// NewComparableStrategy returns a ComparableStrategy with a random seed.
func NewComparableStrategy[K comparable]() ComparableStrategy[K] {
	return ComparableStrategy[K]{seed: maphash.MakeSeed()}
}

// Hash implements Strategy.
func (s ComparableStrategy[K]) Hash(key K) uint64 { return maphash.Comparable(s.seed, key) }

// Equal implements Strategy.
func (ComparableStrategy[K]) Equal(a, b K) bool { return a == b }

// FuncStrategy adapts a pair of functions to a Strategy, for custom
// equivalences such as case-insensitive strings. A nil EqualFunc means ==.
type FuncStrategy[K comparable] struct {
	HashFunc  func(key K) uint64
	EqualFunc func(a, b K) bool
}

// Hash implements Strategy.
func (s FuncStrategy[K]) Hash(key K) uint64 { return s.HashFunc(key) }

// Equal implements Strategy.
func (s FuncStrategy[K]) Equal(a, b K) bool {
	if s.EqualFunc == nil {
		return a == b
	}
	return s.EqualFunc(a, b)
}
