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

// Package fastutil provides open-addressing hash maps specialized by key and
// value type, together with segmented big arrays (see package bigarrays).
//
// # Hash tables
//
// A Map stores its entries in two parallel slices, keys and values, of
// length n+1 where n is a power of two. Collisions are resolved with linear
// probing: a key is looked up by computing mix(hash(key)) & (n-1) and
// scanning forward, wrapping around at n, until either the key or an empty
// slot is found. An empty slot is one holding the zero value of K (as judged
// by the map's Strategy). Because the zero value marks emptiness it cannot be
// stored in the probed part of the table; a key equal to the zero value
// lives in the extra slot n and its presence is tracked by a flag.
//
// The table never fills completely: it grows once the number of entries
// exceeds maxFill = min(ceil(n*f), n-1), so every probe sequence ends at an
// empty slot.
//
// # Deletion
//
// Deletion does not leave tombstones. After vacating slot i, every entry
// further along the same run of occupied slots whose probe sequence passes
// through i is moved back into the gap, and the process repeats for the slot
// it left behind, until an empty slot is reached (Knuth, TAOCP vol. 3,
// algorithm 6.4R). Lookups can therefore keep stopping at the first empty
// slot. See shiftKeys.
//
// Removing entries while iterating needs care: shifting can carry an entry
// the iterator has not visited yet into the region it has already scanned.
// Iterators scan the table from the end towards the start so that ordinary
// shifts only move visited entries, and keep a small list of the entries
// that wrapped around the end of the table, which they yield at the end.
// See Iterator.
//
// # Sizing
//
// Growth is anticipatory: the insertion that crosses maxFill rehashes into
// the smallest table that can hold one more entry than the new size.
// Shrinking is lazy: a removal that leaves fewer than maxFill/4 entries
// halves the table, but never below the size the table was created with nor
// below DefaultInitialSize. Trim and TrimTo shrink explicitly.
//
// A Map is NOT goroutine-safe. See Synchronized.
package fastutil

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Map is an unordered map from keys to values, implemented as an
// open-addressing hash table with linear probing. By default keys are hashed
// with the runtime hash used by Go's builtin map and compared with ==; a
// different policy can be supplied with WithStrategy.
//
// Lookups of absent keys return the map's default return value (the zero
// value of V unless configured with WithDefaultReturnValue) together with
// ok=false.
type Map[K comparable, V any] struct {
	// keys and values are n+1 in length. keys[n] and values[n] hold the entry
	// for the zero key when containsZeroKey is set.
	keys   []K
	values []V
	// The hash strategy for keys of type K.
	strategy Strategy[K]
	// The allocator to use for the keys and values slices.
	allocator Allocator[K, V]
	logger    *zap.Logger
	// The number of slots in the probed part of the table (always 2^N).
	n int
	// n-1, used to quickly compute i%n using a bitwise & operation.
	mask int
	// The number of entries at which the next insertion rehashes.
	maxFill int
	// The table size at construction time. Removals never shrink below it.
	minN int
	// The number of entries, including the zero key.
	size            int
	containsZeroKey bool
	loadFactor      float32
	defRetValue     V
}

// New constructs a new Map able to hold expected entries without rehashing.
// An error wrapping ErrInvalidArgument is returned if expected is negative or
// the load factor is not in (0,1).
func New[K comparable, V any](expected int, options ...Option[K, V]) (*Map[K, V], error) {
	m := &Map[K, V]{}
	if err := m.Init(expected, options...); err != nil {
		return nil, err
	}
	return m, nil
}

// NewDefault constructs a new Map with DefaultInitialSize expected entries.
func NewDefault[K comparable, V any](options ...Option[K, V]) (*Map[K, V], error) {
	return New[K, V](DefaultInitialSize, options...)
}

// NewFromSlices constructs a new Map holding keys[i] => values[i] for every
// i. Later duplicates of a key overwrite earlier ones. An error wrapping
// ErrInvalidArgument is returned if the slices differ in length.
func NewFromSlices[K comparable, V any](
	keys []K, values []V, options ...Option[K, V],
) (*Map[K, V], error) {
	if len(keys) != len(values) {
		return nil, errors.Wrapf(ErrInvalidArgument,
			"the key slice and the value slice have different lengths (%d and %d)", len(keys), len(values))
	}
	m, err := New[K, V](len(keys), options...)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		m.Put(keys[i], values[i])
	}
	return m, nil
}

// Init (re)initializes a Map, discarding its current contents. It is
// equivalent to New but allows reusing a Map value.
func (m *Map[K, V]) Init(expected int, options ...Option[K, V]) error {
	*m = Map[K, V]{
		allocator:  defaultAllocator[K, V]{},
		logger:     zap.NewNop(),
		loadFactor: DefaultLoadFactor,
	}
	for _, op := range options {
		op.apply(m)
	}
	if m.strategy == nil {
		m.strategy = NewComparableStrategy[K]()
	}

	if !(m.loadFactor > 0 && m.loadFactor < 1) {
		return errors.Wrapf(ErrInvalidArgument,
			"load factor must be greater than 0 and smaller than 1: %v", m.loadFactor)
	}
	if expected < 0 {
		return errors.Wrapf(ErrInvalidArgument,
			"the expected number of elements must be nonnegative: %d", expected)
	}

	n, err := arraySize(expected, m.loadFactor)
	if err != nil {
		return err
	}
	keys, values, err := m.alloc(n + 1)
	if err != nil {
		return err
	}
	m.keys, m.values = keys, values
	m.n, m.mask, m.minN = n, n-1, n
	m.maxFill = maxFill(n, m.loadFactor)

	m.checkInvariants()
	return nil
}

// Close closes the map, releasing any memory back to its configured
// allocator. It is unnecessary to close a map using the default allocator. It
// is invalid to use a Map after it has been closed, though Close itself is
// idempotent.
func (m *Map[K, V]) Close() {
	if m.keys != nil {
		m.allocator.FreeKeys(m.keys)
		m.allocator.FreeValues(m.values)
	}
	m.keys, m.values = nil, nil
	m.n, m.mask, m.maxFill, m.size = 0, 0, 0, 0
	m.containsZeroKey = false
}

// Put associates value with key, returning the previous value and true if
// the key was already present, or the default return value and false
// otherwise.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	pos := m.find(key)
	if pos < 0 {
		m.insert(-pos-1, key, value)
		m.checkInvariants()
		return m.defRetValue, false
	}
	old := m.values[pos]
	m.values[pos] = value
	return old, true
}

// Get retrieves the value for key, returning ok=false and the default return
// value if the key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	pos := m.find(key)
	if pos < 0 {
		return m.defRetValue, false
	}
	return m.values[pos], true
}

// GetOrDefault returns the value for key, or def if the key is not present.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	pos := m.find(key)
	if pos < 0 {
		return def
	}
	return m.values[pos]
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.find(key) >= 0
}

// ContainsValueFunc reports whether some value satisfies pred. It scans the
// whole table.
func (m *Map[K, V]) ContainsValueFunc(pred func(value V) bool) bool {
	if m.containsZeroKey && pred(m.values[m.n]) {
		return true
	}
	for i := m.n - 1; i >= 0; i-- {
		if !m.isZero(m.keys[i]) && pred(m.values[i]) {
			return true
		}
	}
	return false
}

// ContainsValue reports whether some key of m maps to value.
func ContainsValue[K comparable, V comparable](m *Map[K, V], value V) bool {
	return m.ContainsValueFunc(func(v V) bool { return v == value })
}

// Remove deletes the entry for key, returning its value and true, or the
// default return value and false if the key was not present.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	pos := m.find(key)
	if pos < 0 {
		return m.defRetValue, false
	}
	return m.removeAt(pos, true), true
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.size
}

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.size == 0
}

// DefaultReturnValue returns the value reported for absent keys.
func (m *Map[K, V]) DefaultReturnValue() V {
	return m.defRetValue
}

// SetDefaultReturnValue changes the value reported for absent keys.
func (m *Map[K, V]) SetDefaultReturnValue(v V) {
	m.defRetValue = v
}

// Clear removes all entries. The table keeps its current size; use Trim to
// release memory.
func (m *Map[K, V]) Clear() {
	if m.size == 0 {
		return
	}
	m.size = 0
	m.containsZeroKey = false
	clear(m.keys)
	clear(m.values)
}

// Trim shrinks the table to the smallest size able to hold the current
// entries. It returns false if the smaller table could not be allocated, in
// which case the map is unchanged.
func (m *Map[K, V]) Trim() bool {
	return m.TrimTo(m.size)
}

// TrimTo shrinks the table to the smallest size able to hold n entries. It
// is a no-op, returning true, if the table is already that small or if that
// size could not hold the current entries; use Trim to fit them exactly. It
// returns false if the smaller table could not be allocated, in which case
// the map is unchanged.
func (m *Map[K, V]) TrimTo(n int) bool {
	l := max(2, nextPowerOfTwo(int(math.Ceil(float64(n)/float64(m.loadFactor)))))
	if l >= m.n || m.size > maxFill(l, m.loadFactor) {
		return true
	}
	if err := m.rehash(l); err != nil {
		m.logger.Warn("trim failed", zap.Int("from", m.n), zap.Int("to", l), zap.Error(err))
		return false
	}
	m.checkInvariants()
	return true
}

// EnsureCapacity grows the table, if needed, so that it can hold expected
// entries without further rehashing.
func (m *Map[K, V]) EnsureCapacity(expected int) error {
	needed, err := arraySize(expected, m.loadFactor)
	if err != nil {
		return err
	}
	if needed > m.n {
		if err := m.rehash(needed); err != nil {
			return err
		}
	}
	return nil
}

// tryCapacity is a best-effort EnsureCapacity, clamping the request to the
// largest supported table.
func (m *Map[K, V]) tryCapacity(expected int) error {
	s := math.Ceil(float64(expected) / float64(m.loadFactor))
	needed := maxTableSize
	if s < maxTableSize {
		needed = max(2, nextPowerOfTwo(int(s)))
	}
	if needed > m.n {
		return m.rehash(needed)
	}
	return nil
}

// PutAll copies every entry of other into m, sizing the table for the union
// up front.
func (m *Map[K, V]) PutAll(other *Map[K, V]) error {
	var err error
	if m.loadFactor <= .5 {
		err = m.EnsureCapacity(other.Len())
	} else {
		err = m.tryCapacity(m.Len() + other.Len())
	}
	if err != nil {
		return err
	}
	other.ForEach(func(k K, v V) {
		m.Put(k, v)
	})
	return nil
}

// Clone returns a copy of the map sharing its strategy, allocator, logger
// and configuration.
func (m *Map[K, V]) Clone() (*Map[K, V], error) {
	c := *m
	keys, values, err := m.alloc(len(m.keys))
	if err != nil {
		return nil, err
	}
	copy(keys, m.keys)
	copy(values, m.values)
	c.keys, c.values = keys, values
	return &c, nil
}

// ForEach calls fn for each entry of the map. fn must not modify the map.
func (m *Map[K, V]) ForEach(fn func(key K, value V)) {
	if m.containsZeroKey {
		fn(m.keys[m.n], m.values[m.n])
	}
	for i := m.n - 1; i >= 0; i-- {
		if !m.isZero(m.keys[i]) {
			fn(m.keys[i], m.values[i])
		}
	}
}

// All returns an iterator over the entries of the map, yielding copies of
// each key and value. If the map is rehashed during iteration, iteration
// continues over the table as it was; other mutations made during iteration
// may or may not be observed, and entries may be missed or repeated. Use
// Iterator to remove entries while iterating.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		// Snapshot the slices so that iteration remains valid if the map is
		// resized during iteration.
		n, keys, values := m.n, m.keys, m.values
		if m.containsZeroKey && !yield(keys[n], values[n]) {
			return
		}
		for i := n - 1; i >= 0; i-- {
			if !m.isZero(keys[i]) {
				if !yield(keys[i], values[i]) {
					return
				}
			}
		}
	}
}

// Keys returns an iterator over the keys of the map. See All.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values of the map. See All.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// EqualFunc reports whether m and other hold the same keys, with values
// compared by eq. Keys are looked up in other using other's strategy.
func (m *Map[K, V]) EqualFunc(other *Map[K, V], eq func(a, b V) bool) bool {
	if m.Len() != other.Len() {
		return false
	}
	for k, v := range m.All() {
		if ov, ok := other.Get(k); !ok || !eq(v, ov) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b hold the same mappings.
func Equal[K comparable, V comparable](a, b *Map[K, V]) bool {
	return a.EqualFunc(b, func(x, y V) bool { return x == y })
}

// String renders the map as {k1=>v1, k2=>v2}.
func (m *Map[K, V]) String() string {
	var buf strings.Builder
	buf.WriteString("{")
	first := true
	for k, v := range m.All() {
		if !first {
			buf.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&buf, "%v=>%v", k, v)
	}
	buf.WriteString("}")
	return buf.String()
}

// capacity returns the number of slots in the probed part of the table.
func (m *Map[K, V]) capacity() int {
	return m.n
}

// isZero reports whether k is the sentinel key, which is also the content of
// an empty slot.
func (m *Map[K, V]) isZero(k K) bool {
	var zero K
	return m.strategy.Equal(k, zero)
}

// realSize returns the number of entries stored in the probed part of the
// table.
func (m *Map[K, V]) realSize() int {
	if m.containsZeroKey {
		return m.size - 1
	}
	return m.size
}

// find returns the slot holding key, or -(p+1) where p is the slot at which
// key would be inserted. The sentinel key resolves to slot n.
func (m *Map[K, V]) find(key K) int {
	if m.isZero(key) {
		if m.containsZeroKey {
			return m.n
		}
		return -(m.n + 1)
	}

	// The table always has at least one empty slot, so this terminates.
	keys := m.keys
	pos := slotOf(m.strategy, key, m.mask)
	for {
		curr := keys[pos]
		if m.isZero(curr) {
			return -(pos + 1)
		}
		if m.strategy.Equal(key, curr) {
			return pos
		}
		pos = (pos + 1) & m.mask
	}
}

// insert stores an entry known not to be in the table at pos, as returned
// (negated) by find, growing the table if the insertion crossed maxFill.
func (m *Map[K, V]) insert(pos int, key K, value V) {
	if pos == m.n {
		m.containsZeroKey = true
	}
	m.keys[pos] = key
	m.values[pos] = value
	m.size++
	if m.size > m.maxFill {
		m.grow(m.size + 1)
	}
}

// grow rehashes into a table able to hold expected entries. There is no
// smaller table to fall back to, so allocation failures panic.
func (m *Map[K, V]) grow(expected int) {
	newN, err := arraySize(expected, m.loadFactor)
	if err == nil {
		err = m.rehash(newN)
	}
	if err != nil {
		panic(errors.Wrapf(err, "growing table to hold %d entries", expected))
	}
}

// removeAt removes the entry at pos and returns its value. Only removals
// through the map itself pass shrink=true; iterators never shrink the table
// underneath themselves.
func (m *Map[K, V]) removeAt(pos int, shrink bool) V {
	old := m.values[pos]
	if pos == m.n {
		var zeroK K
		var zeroV V
		m.containsZeroKey = false
		m.keys[pos], m.values[pos] = zeroK, zeroV
	} else {
		shiftKeys(m.keys, m.values, m.mask, pos, m.strategy, nil)
	}
	m.size--
	if shrink {
		m.maybeShrink()
	}
	m.checkInvariants()
	return old
}

// maybeShrink halves the table once it has become sparse. A failed
// allocation just leaves the table at its current size.
func (m *Map[K, V]) maybeShrink() {
	if m.n > m.minN && m.size < m.maxFill/4 && m.n > minTableSize {
		if err := m.rehash(m.n / 2); err != nil {
			m.logger.Debug("shrink skipped", zap.Int("capacity", m.n), zap.Error(err))
		}
	}
}

// alloc allocates a keys and a values slice of length n.
func (m *Map[K, V]) alloc(n int) ([]K, []V, error) {
	keys, err := m.allocator.AllocKeys(n)
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrapf(err, "allocating %d keys", n), ErrAllocation)
	}
	values, err := m.allocator.AllocValues(n)
	if err != nil {
		m.allocator.FreeKeys(keys)
		return nil, nil, errors.Mark(errors.Wrapf(err, "allocating %d values", n), ErrAllocation)
	}
	return keys, values, nil
}

// rehash moves every entry into a new table of size newN. The map's fields
// are only updated once the new table is fully built, so a failed
// allocation leaves the map as it was.
func (m *Map[K, V]) rehash(newN int) error {
	keys, values, err := m.alloc(newN + 1)
	if err != nil {
		return err
	}
	mask := newN - 1
	oldKeys, oldValues := m.keys, m.values

	// Walk the old table from the end. Entries are reinserted at the first
	// empty slot of their probe sequence; no key can already be present.
	i := m.n
	for j := m.realSize(); j > 0; j-- {
		i--
		for m.isZero(oldKeys[i]) {
			i--
		}
		pos := slotOf(m.strategy, oldKeys[i], mask)
		for !m.isZero(keys[pos]) {
			pos = (pos + 1) & mask
		}
		keys[pos] = oldKeys[i]
		values[pos] = oldValues[i]
	}
	// The zero key always lives in the last slot.
	keys[newN], values[newN] = oldKeys[m.n], oldValues[m.n]

	m.logger.Debug("rehash",
		zap.Int("from", m.n), zap.Int("to", newN), zap.Int("size", m.size))

	m.allocator.FreeKeys(oldKeys)
	m.allocator.FreeValues(oldValues)
	m.keys, m.values = keys, values
	m.n, m.mask = newN, mask
	m.maxFill = maxFill(newN, m.loadFactor)
	return nil
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		if m.n != len(m.keys)-1 || m.n != len(m.values)-1 || m.n&m.mask != 0 || m.mask != m.n-1 {
			panic(errors.AssertionFailedf("invariant failed: n=%d mask=%d len(keys)=%d len(values)=%d\n%s",
				m.n, m.mask, len(m.keys), len(m.values), m.debugString()))
		}
		// Slot n only ever holds the zero key or, when unused, the zero value.
		if !m.isZero(m.keys[m.n]) {
			panic(errors.AssertionFailedf("invariant failed: slot(%d): non-zero key %v\n%s",
				m.n, m.keys[m.n], m.debugString()))
		}

		// For every non-empty slot, verify we can retrieve the key using
		// find. Count the number of used and empty slots.
		var used, empty int
		for i := 0; i < m.n; i++ {
			k := m.keys[i]
			if m.isZero(k) {
				empty++
				continue
			}
			used++
			if !m.strategy.Equal(k, k) {
				// Keys that are not equal to themselves (e.g. NaN under ==)
				// can be stored but never found.
				continue
			}
			if pos := m.find(k); pos != i {
				panic(errors.AssertionFailedf("invariant failed: slot(%d): %v found at %d [natural slot %d]\n%s",
					i, k, pos, slotOf(m.strategy, k, m.mask), m.debugString()))
			}
		}
		if m.containsZeroKey {
			used++
		}
		if used != m.size {
			panic(errors.AssertionFailedf("invariant failed: found %d used slots, but size is %d\n%s",
				used, m.size, m.debugString()))
		}
		if empty == 0 {
			panic(errors.AssertionFailedf("invariant failed: no empty slot\n%s", m.debugString()))
		}
		if m.size > m.maxFill {
			panic(errors.AssertionFailedf("invariant failed: size %d exceeds maxFill %d\n%s",
				m.size, m.maxFill, m.debugString()))
		}
	}
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  size=%d  max-fill=%d  min-capacity=%d\n", m.n, m.size, m.maxFill, m.minN)
	for i := 0; i < m.n; i++ {
		k := m.keys[i]
		if m.isZero(k) {
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
			continue
		}
		fmt.Fprintf(&buf, "  %4d: %v => %v [natural=%d]\n", i, k, m.values[i], slotOf(m.strategy, k, m.mask))
	}
	if m.containsZeroKey {
		fmt.Fprintf(&buf, "  %4d: %v => %v [zero key]\n", m.n, m.keys[m.n], m.values[m.n])
	}
	return buf.String()
}
