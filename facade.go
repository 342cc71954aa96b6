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
	"sync"

	"github.com/cockroachdb/errors"
)

// Synchronized serializes every operation on a Map through a single mutex.
// Callbacks passed to its methods run with the lock held and must not call
// back into the Synchronized map.
type Synchronized[K comparable, V any] struct {
	mu sync.Mutex
	m  *Map[K, V]
}

// NewSynchronized wraps m. The caller must not use m directly afterwards.
func NewSynchronized[K comparable, V any](m *Map[K, V]) *Synchronized[K, V] {
	return &Synchronized[K, V]{m: m}
}

// Put is Map.Put under the lock.
func (s *Synchronized[K, V]) Put(key K, value V) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Put(key, value)
}

// Get is Map.Get under the lock.
func (s *Synchronized[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Get(key)
}

// GetOrDefault is Map.GetOrDefault under the lock.
func (s *Synchronized[K, V]) GetOrDefault(key K, def V) V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.GetOrDefault(key, def)
}

// ContainsKey is Map.ContainsKey under the lock.
func (s *Synchronized[K, V]) ContainsKey(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ContainsKey(key)
}

// Remove is Map.Remove under the lock.
func (s *Synchronized[K, V]) Remove(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Remove(key)
}

// PutIfAbsent is Map.PutIfAbsent under the lock.
func (s *Synchronized[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.PutIfAbsent(key, value)
}

// ComputeIfAbsent is Map.ComputeIfAbsent under the lock.
func (s *Synchronized[K, V]) ComputeIfAbsent(key K, fn func(key K) V) V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ComputeIfAbsent(key, fn)
}

// ComputeIfAbsentPartial is Map.ComputeIfAbsentPartial under the lock.
func (s *Synchronized[K, V]) ComputeIfAbsentPartial(key K, fn func(key K) (V, bool)) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ComputeIfAbsentPartial(key, fn)
}

// ComputeIfPresent is Map.ComputeIfPresent under the lock.
func (s *Synchronized[K, V]) ComputeIfPresent(key K, fn func(key K, old V) (V, bool)) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ComputeIfPresent(key, fn)
}

// Compute is Map.Compute under the lock.
func (s *Synchronized[K, V]) Compute(key K, fn func(key K, old V, present bool) (V, bool)) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Compute(key, fn)
}

// Replace is Map.Replace under the lock.
func (s *Synchronized[K, V]) Replace(key K, value V) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Replace(key, value)
}

// ReplaceIfFunc is Map.ReplaceIfFunc under the lock.
func (s *Synchronized[K, V]) ReplaceIfFunc(key K, pred func(value V) bool, newValue V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ReplaceIfFunc(key, pred, newValue)
}

// RemoveIfFunc is Map.RemoveIfFunc under the lock.
func (s *Synchronized[K, V]) RemoveIfFunc(key K, pred func(value V) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.RemoveIfFunc(key, pred)
}

// ContainsValueFunc is Map.ContainsValueFunc under the lock.
func (s *Synchronized[K, V]) ContainsValueFunc(pred func(value V) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ContainsValueFunc(pred)
}

// Merge is Map.Merge under the lock.
func (s *Synchronized[K, V]) Merge(key K, value V, fn func(old, value V) (V, bool)) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Merge(key, value, fn)
}

// Len is Map.Len under the lock.
func (s *Synchronized[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Len()
}

// Clear is Map.Clear under the lock.
func (s *Synchronized[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Clear()
}

// Trim is Map.Trim under the lock.
func (s *Synchronized[K, V]) Trim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Trim()
}

// ForEach is Map.ForEach with the lock held for the whole iteration.
func (s *Synchronized[K, V]) ForEach(fn func(key K, value V)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.ForEach(fn)
}

// Unmodifiable is a read-only view of a Map. Every mutating method returns
// an error wrapping ErrUnsupportedOperation and leaves the map untouched.
type Unmodifiable[K comparable, V any] struct {
	m *Map[K, V]
}

// NewUnmodifiable returns a read-only view of m.
func NewUnmodifiable[K comparable, V any](m *Map[K, V]) Unmodifiable[K, V] {
	return Unmodifiable[K, V]{m}
}

func unsupported(op string) error {
	return errors.Wrapf(ErrUnsupportedOperation, "%s on an unmodifiable map", op)
}

// Get is Map.Get.
func (u Unmodifiable[K, V]) Get(key K) (V, bool) { return u.m.Get(key) }

// GetOrDefault is Map.GetOrDefault.
func (u Unmodifiable[K, V]) GetOrDefault(key K, def V) V { return u.m.GetOrDefault(key, def) }

// ContainsKey is Map.ContainsKey.
func (u Unmodifiable[K, V]) ContainsKey(key K) bool { return u.m.ContainsKey(key) }

// ContainsValueFunc is Map.ContainsValueFunc.
func (u Unmodifiable[K, V]) ContainsValueFunc(pred func(value V) bool) bool {
	return u.m.ContainsValueFunc(pred)
}

// Len is Map.Len.
func (u Unmodifiable[K, V]) Len() int { return u.m.Len() }

// ForEach is Map.ForEach.
func (u Unmodifiable[K, V]) ForEach(fn func(key K, value V)) { u.m.ForEach(fn) }

// Put always fails.
func (u Unmodifiable[K, V]) Put(K, V) (V, bool, error) {
	return u.m.defRetValue, false, unsupported("put")
}

// Remove always fails.
func (u Unmodifiable[K, V]) Remove(K) (V, bool, error) {
	return u.m.defRetValue, false, unsupported("remove")
}

// PutIfAbsent always fails.
func (u Unmodifiable[K, V]) PutIfAbsent(K, V) (V, bool, error) {
	return u.m.defRetValue, false, unsupported("putIfAbsent")
}

// Merge always fails.
func (u Unmodifiable[K, V]) Merge(K, V, func(old, value V) (V, bool)) (V, bool, error) {
	return u.m.defRetValue, false, unsupported("merge")
}

// Clear always fails.
func (u Unmodifiable[K, V]) Clear() error {
	return unsupported("clear")
}

// Trim always fails.
func (u Unmodifiable[K, V]) Trim() error {
	return unsupported("trim")
}
