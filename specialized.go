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

// Named instantiations for common key/value pairs. They are ordinary Maps;
// the constructors install the natural strategy for the key type, which
// callers may still override with WithStrategy.
type (
	Long2ShortMap   = Map[int64, int16]
	Long2BooleanMap = Map[int64, bool]
	Long2DoubleMap  = Map[int64, float64]
	Long2LongMap    = Map[int64, int64]
	Int2IntMap      = Map[int32, int32]
	Double2LongMap  = Map[float64, int64]
)

func withIntegerKeys[K interface{ ~int32 | ~int64 }, V any](options []Option[K, V]) []Option[K, V] {
	return append([]Option[K, V]{WithStrategy[K, V](IntegerStrategy[K]{})}, options...)
}

// NewLong2ShortMap returns a Long2ShortMap sized for expected entries.
func NewLong2ShortMap(expected int, options ...Option[int64, int16]) (*Long2ShortMap, error) {
	return New[int64, int16](expected, withIntegerKeys(options)...)
}

// NewLong2BooleanMap returns a Long2BooleanMap sized for expected entries.
func NewLong2BooleanMap(expected int, options ...Option[int64, bool]) (*Long2BooleanMap, error) {
	return New[int64, bool](expected, withIntegerKeys(options)...)
}

// NewLong2DoubleMap returns a Long2DoubleMap sized for expected entries.
func NewLong2DoubleMap(expected int, options ...Option[int64, float64]) (*Long2DoubleMap, error) {
	return New[int64, float64](expected, withIntegerKeys(options)...)
}

// NewLong2LongMap returns a Long2LongMap sized for expected entries.
func NewLong2LongMap(expected int, options ...Option[int64, int64]) (*Long2LongMap, error) {
	return New[int64, int64](expected, withIntegerKeys(options)...)
}

// NewInt2IntMap returns an Int2IntMap sized for expected entries.
func NewInt2IntMap(expected int, options ...Option[int32, int32]) (*Int2IntMap, error) {
	return New[int32, int32](expected, withIntegerKeys(options)...)
}

// NewDouble2LongMap returns a Double2LongMap sized for expected entries.
// Keys are compared by bit pattern, so -0 and +0 are distinct keys and NaN
// can be stored and found.
func NewDouble2LongMap(expected int, options ...Option[float64, int64]) (*Double2LongMap, error) {
	return New[float64, int64](expected,
		append([]Option[float64, int64]{WithStrategy[float64, int64](FloatStrategy[float64]{})}, options...)...)
}

// NewLong2ObjectMap returns a map from int64 keys to values of type V sized
// for expected entries.
func NewLong2ObjectMap[V any](expected int, options ...Option[int64, V]) (*Map[int64, V], error) {
	return New[int64, V](expected, withIntegerKeys(options)...)
}
