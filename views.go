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

import "iter"

// KeySetView is a live view of the keys of a Map. It holds no state of its
// own.
type KeySetView[K comparable, V any] struct {
	m *Map[K, V]
}

// KeySet returns a view of the keys of m.
func (m *Map[K, V]) KeySet() KeySetView[K, V] {
	return KeySetView[K, V]{m}
}

// Len returns the number of keys.
func (s KeySetView[K, V]) Len() int { return s.m.Len() }

// Contains reports whether key is present.
func (s KeySetView[K, V]) Contains(key K) bool { return s.m.ContainsKey(key) }

// Remove removes key and its value, reporting whether it was present.
func (s KeySetView[K, V]) Remove(key K) bool {
	_, ok := s.m.Remove(key)
	return ok
}

// Clear removes every entry of the backing map.
func (s KeySetView[K, V]) Clear() { s.m.Clear() }

// Iterator returns an Iterator over the backing map; use its Key method.
func (s KeySetView[K, V]) Iterator() *Iterator[K, V] { return s.m.Iterator() }

// All returns an iterator over the keys.
func (s KeySetView[K, V]) All() iter.Seq[K] { return s.m.Keys() }

// ValuesView is a live view of the values of a Map. It holds no state of its
// own.
type ValuesView[K comparable, V any] struct {
	m *Map[K, V]
}

// ValueCollection returns a view of the values of m.
func (m *Map[K, V]) ValueCollection() ValuesView[K, V] {
	return ValuesView[K, V]{m}
}

// Len returns the number of values, counting duplicates.
func (c ValuesView[K, V]) Len() int { return c.m.Len() }

// ContainsFunc reports whether some value satisfies pred.
func (c ValuesView[K, V]) ContainsFunc(pred func(value V) bool) bool {
	return c.m.ContainsValueFunc(pred)
}

// Clear removes every entry of the backing map.
func (c ValuesView[K, V]) Clear() { c.m.Clear() }

// Iterator returns an Iterator over the backing map; use its Value method.
func (c ValuesView[K, V]) Iterator() *Iterator[K, V] { return c.m.Iterator() }

// All returns an iterator over the values.
func (c ValuesView[K, V]) All() iter.Seq[V] { return c.m.Values() }

// EntrySetView is a live view of the entries of a Map. It holds no state of
// its own.
type EntrySetView[K comparable, V any] struct {
	m *Map[K, V]
}

// EntrySet returns a view of the entries of m.
func (m *Map[K, V]) EntrySet() EntrySetView[K, V] {
	return EntrySetView[K, V]{m}
}

// Len returns the number of entries.
func (s EntrySetView[K, V]) Len() int { return s.m.Len() }

// ContainsFunc reports whether key is present with a value satisfying pred.
func (s EntrySetView[K, V]) ContainsFunc(key K, pred func(value V) bool) bool {
	pos := s.m.find(key)
	return pos >= 0 && pred(s.m.values[pos])
}

// RemoveFunc removes key if its value satisfies pred.
func (s EntrySetView[K, V]) RemoveFunc(key K, pred func(value V) bool) bool {
	return s.m.RemoveIfFunc(key, pred)
}

// Clear removes every entry of the backing map.
func (s EntrySetView[K, V]) Clear() { s.m.Clear() }

// Iterator returns an Iterator over the backing map; use its NextEntry
// method.
func (s EntrySetView[K, V]) Iterator() *Iterator[K, V] { return s.m.Iterator() }

// All returns an iterator over the entries.
func (s EntrySetView[K, V]) All() iter.Seq2[K, V] { return s.m.All() }
