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

import "golang.org/x/exp/constraints"

// PutIfAbsent associates value with key only if key is absent. It returns
// the existing value and true if key was present, and the default return
// value and false otherwise.
func (m *Map[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	pos := m.find(key)
	if pos >= 0 {
		return m.values[pos], true
	}
	m.insert(-pos-1, key, value)
	m.checkInvariants()
	return m.defRetValue, false
}

// RemoveIfFunc removes key only if its current value satisfies pred.
func (m *Map[K, V]) RemoveIfFunc(key K, pred func(value V) bool) bool {
	pos := m.find(key)
	if pos < 0 || !pred(m.values[pos]) {
		return false
	}
	m.removeAt(pos, true)
	return true
}

// RemoveIf removes key from m only if it is currently mapped to value.
func RemoveIf[K comparable, V comparable](m *Map[K, V], key K, value V) bool {
	return m.RemoveIfFunc(key, func(v V) bool { return v == value })
}

// Replace sets the value of key only if key is present, returning the
// previous value and true, or the default return value and false.
func (m *Map[K, V]) Replace(key K, value V) (V, bool) {
	pos := m.find(key)
	if pos < 0 {
		return m.defRetValue, false
	}
	old := m.values[pos]
	m.values[pos] = value
	return old, true
}

// ReplaceIfFunc sets the value of key to newValue only if its current value
// satisfies pred.
func (m *Map[K, V]) ReplaceIfFunc(key K, pred func(value V) bool, newValue V) bool {
	pos := m.find(key)
	if pos < 0 || !pred(m.values[pos]) {
		return false
	}
	m.values[pos] = newValue
	return true
}

// ReplaceIf sets the value of key in m to newValue only if it is currently
// mapped to oldValue.
func ReplaceIf[K comparable, V comparable](m *Map[K, V], key K, oldValue, newValue V) bool {
	return m.ReplaceIfFunc(key, func(v V) bool { return v == oldValue }, newValue)
}

// ComputeIfAbsent returns the value of key, first inserting fn(key) if key
// is absent.
func (m *Map[K, V]) ComputeIfAbsent(key K, fn func(key K) V) V {
	pos := m.find(key)
	if pos >= 0 {
		return m.values[pos]
	}
	v := fn(key)
	m.insert(-pos-1, key, v)
	m.checkInvariants()
	return v
}

// ComputeIfAbsentPartial is ComputeIfAbsent for a partial function: if key is
// absent and fn returns ok=false, nothing is inserted and the default return
// value and false are returned.
func (m *Map[K, V]) ComputeIfAbsentPartial(key K, fn func(key K) (V, bool)) (V, bool) {
	pos := m.find(key)
	if pos >= 0 {
		return m.values[pos], true
	}
	v, ok := fn(key)
	if !ok {
		return m.defRetValue, false
	}
	m.insert(-pos-1, key, v)
	m.checkInvariants()
	return v, true
}

// ComputeIfPresent replaces the value of a present key with fn(key, old). If
// fn returns ok=false the entry is removed. It returns the new value and
// true, or the default return value and false if key is absent or was
// removed.
func (m *Map[K, V]) ComputeIfPresent(key K, fn func(key K, old V) (V, bool)) (V, bool) {
	pos := m.find(key)
	if pos < 0 {
		return m.defRetValue, false
	}
	v, ok := fn(key, m.values[pos])
	if !ok {
		m.removeAt(pos, true)
		return m.defRetValue, false
	}
	m.values[pos] = v
	return v, true
}

// Compute sets the value of key to fn(key, old, present), where old is the
// zero value when present is false. If fn returns ok=false the key ends up
// absent. It returns the new value and true, or the default return value and
// false if the key is absent afterwards.
func (m *Map[K, V]) Compute(key K, fn func(key K, old V, present bool) (V, bool)) (V, bool) {
	pos := m.find(key)
	var old V
	if pos >= 0 {
		old = m.values[pos]
	}
	v, ok := fn(key, old, pos >= 0)
	if !ok {
		if pos >= 0 {
			m.removeAt(pos, true)
		}
		return m.defRetValue, false
	}
	if pos < 0 {
		m.insert(-pos-1, key, v)
		m.checkInvariants()
		return v, true
	}
	m.values[pos] = v
	return v, true
}

// Merge inserts value for an absent key, and otherwise replaces the current
// value with fn(old, value), removing the entry if fn returns ok=false. It
// returns the resulting value and true, or the default return value and
// false if the entry was removed.
func (m *Map[K, V]) Merge(key K, value V, fn func(old, value V) (V, bool)) (V, bool) {
	pos := m.find(key)
	if pos < 0 {
		m.insert(-pos-1, key, value)
		m.checkInvariants()
		return value, true
	}
	v, ok := fn(m.values[pos], value)
	if !ok {
		m.removeAt(pos, true)
		return m.defRetValue, false
	}
	m.values[pos] = v
	return v, true
}

// Number is the set of value types supported by AddTo.
type Number interface {
	constraints.Integer | constraints.Float
}

// AddTo adds incr to the value of key, returning the previous value. An
// absent key is treated as mapped to the default return value.
func AddTo[K comparable, V Number](m *Map[K, V], key K, incr V) V {
	pos := m.find(key)
	if pos >= 0 {
		old := m.values[pos]
		m.values[pos] += incr
		return old
	}
	m.insert(-pos-1, key, m.defRetValue+incr)
	m.checkInvariants()
	return m.defRetValue
}
