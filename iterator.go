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

	"github.com/cockroachdb/errors"
)

const (
	// noLast is Iterator.last when there is nothing to remove.
	noLast = -1
	// lastWrapped is Iterator.last when the last entry came from the wrapped
	// list.
	lastWrapped = math.MinInt
)

// Iterator walks the entries of a Map and supports removing them as it goes.
// Removal through Iterator.Remove keeps the iteration exact: every entry
// present when the iterator was created and not yet removed is returned
// exactly once. Modifying the map by any other means while an Iterator is in
// use leaves the iteration undefined.
//
// The table is scanned from slot n-1 down to slot 0, after the zero key.
// Removing an entry shifts later entries of its run backwards into the gap.
// Moving backwards over the scan direction only ever lands in visited slots
// being vacated, except when a run wraps around the end of the table: then an
// entry from the unvisited low slots moves to a visited high slot. Such
// entries are recorded in wrapped and returned, looked up by key, once the
// scan has reached slot 0. A wrapped key that is not equal to itself under
// the map's strategy (NaN under ==) cannot be looked up: it is still
// returned, from the copy in wrapped, but can no longer be removed or
// viewed through a MapEntry.
type Iterator[K comparable, V any] struct {
	m *Map[K, V]
	// The slot being scanned. It counts down from n; once negative, -pos-1
	// indexes wrapped.
	pos int
	// The slot of the entry most recently returned, noLast or lastWrapped.
	last int
	// The number of entries still to return.
	c                 int
	mustReturnZeroKey bool
	// Entries carried from unvisited slots into visited ones by Remove.
	wrapped []wrappedEntry[K, V]
	// The entry most recently returned by NextEntry, invalidated by Remove.
	entry *MapEntry[K, V]
	key   K
	value V
}

type wrappedEntry[K comparable, V any] struct {
	key   K
	value V
}

// Iterator returns an Iterator positioned before the first entry.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{
		m:                 m,
		pos:               m.n,
		last:              noLast,
		c:                 m.size,
		mustReturnZeroKey: m.containsZeroKey,
	}
}

// HasNext reports whether another entry remains.
func (it *Iterator[K, V]) HasNext() bool {
	return it.c != 0
}

// Next advances to the next entry, returning false when there are none
// left. The entry is available from Key and Value.
func (it *Iterator[K, V]) Next() bool {
	if !it.HasNext() {
		return false
	}
	it.entry = nil
	it.advance()
	return true
}

// Key returns the key of the current entry.
func (it *Iterator[K, V]) Key() K {
	return it.key
}

// Value returns the value of the current entry, as of the call to Next.
func (it *Iterator[K, V]) Value() V {
	return it.value
}

// NextEntry advances to the next entry and returns a live view of it. An
// error wrapping ErrNoSuchElement is returned when the iterator is
// exhausted, and one wrapping ErrIllegalState when the entry cannot be
// located in the table (see Iterator); the iterator advances past it either
// way and Key and Value still report it.
func (it *Iterator[K, V]) NextEntry() (*MapEntry[K, V], error) {
	if !it.HasNext() {
		return nil, errors.Wrap(ErrNoSuchElement, "iterator exhausted")
	}
	it.entry = nil
	slot := it.advance()
	if slot < 0 {
		return nil, errors.Wrapf(ErrIllegalState, "entry for key %v cannot be located", it.key)
	}
	it.entry = &MapEntry[K, V]{m: it.m, index: slot}
	return it.entry, nil
}

// advance moves to the next entry, recording it in key and value, and
// returns its slot or -1 if it is a wrapped entry that cannot be located.
func (it *Iterator[K, V]) advance() int {
	slot := it.nextSlot()
	if slot < 0 {
		w := it.wrapped[-it.pos-1]
		it.key, it.value = w.key, w.value
		return slot
	}
	it.key, it.value = it.m.keys[slot], it.m.values[slot]
	return slot
}

// nextSlot returns the slot of the next entry, or -1 for a wrapped entry
// whose key no longer matches itself. The caller has checked HasNext.
func (it *Iterator[K, V]) nextSlot() int {
	it.c--
	m := it.m
	if it.mustReturnZeroKey {
		it.mustReturnZeroKey = false
		it.last = m.n
		return it.last
	}

	keys := m.keys
	for {
		it.pos--
		if it.pos < 0 {
			// The scan is over; return the wrapped entries. They may have
			// been shifted again since they were recorded, so look them up.
			it.last = lastWrapped
			k := it.wrapped[-it.pos-1].key
			p := slotOf(m.strategy, k, m.mask)
			for !m.strategy.Equal(k, keys[p]) {
				if m.isZero(keys[p]) {
					return -1
				}
				p = (p + 1) & m.mask
			}
			return p
		}
		if !m.isZero(keys[it.pos]) {
			it.last = it.pos
			return it.last
		}
	}
}

// Remove removes the entry most recently returned by Next or NextEntry. An
// error wrapping ErrIllegalState is returned if there is no such entry, it
// has already been removed, or it cannot be located (see Iterator). Remove
// never shrinks the table.
func (it *Iterator[K, V]) Remove() error {
	if it.last == noLast {
		return errors.Wrap(ErrIllegalState, "remove without a preceding call to next")
	}
	m := it.m
	switch {
	case it.last == m.n:
		var zeroK K
		var zeroV V
		m.containsZeroKey = false
		m.keys[m.n], m.values[m.n] = zeroK, zeroV
		m.size--
	case it.pos >= 0:
		shiftKeys(m.keys, m.values, m.mask, it.last, m.strategy, func(k K, v V) {
			it.wrapped = append(it.wrapped, wrappedEntry[K, V]{k, v})
		})
		m.size--
	default:
		// Removing a wrapped entry: the scan is over, so shifting can no
		// longer hide anything from us.
		i := -it.pos - 1
		pos := m.find(it.wrapped[i].key)
		if pos < 0 {
			it.last = noLast
			return errors.Wrapf(ErrIllegalState, "entry for key %v cannot be located", it.wrapped[i].key)
		}
		it.wrapped[i] = wrappedEntry[K, V]{}
		m.removeAt(pos, false)
	}
	it.last = noLast
	if it.entry != nil {
		it.entry.index = -1
		it.entry = nil
	}
	m.checkInvariants()
	return nil
}

// MapEntry is a live view of one entry of a Map. It records only the slot
// of the entry: SetValue writes through to the map, and the view is only
// valid until that slot is vacated. Removing the entry through the Iterator
// that returned it invalidates the view; any later call panics with an error
// wrapping ErrIllegalState.
type MapEntry[K comparable, V any] struct {
	m     *Map[K, V]
	index int
}

// Key returns the key of the entry.
func (e *MapEntry[K, V]) Key() K {
	e.mustBeValid()
	return e.m.keys[e.index]
}

// Value returns the current value of the entry.
func (e *MapEntry[K, V]) Value() V {
	e.mustBeValid()
	return e.m.values[e.index]
}

// SetValue replaces the value of the entry in the map, returning the old
// value.
func (e *MapEntry[K, V]) SetValue(v V) V {
	e.mustBeValid()
	old := e.m.values[e.index]
	e.m.values[e.index] = v
	return old
}

// Valid reports whether the entry has not been removed through its
// iterator.
func (e *MapEntry[K, V]) Valid() bool {
	return e.index >= 0
}

func (e *MapEntry[K, V]) mustBeValid() {
	if e.index < 0 {
		panic(errors.Wrap(ErrIllegalState, "entry has been removed"))
	}
}
