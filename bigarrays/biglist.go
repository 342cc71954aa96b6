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

package bigarrays

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// BigList is a growable list of T addressed by int64 indices, backed by a
// BigArray.
type BigList[T any] struct {
	a    *BigArray[T]
	size int64
}

// NewList returns an empty BigList with room for capacity elements.
func NewList[T any](capacity int64) (*BigList[T], error) {
	return newList[T](capacity, SegmentShift)
}

func newList[T any](capacity int64, shift uint) (*BigList[T], error) {
	a, err := newBigArray[T](capacity, shift)
	if err != nil {
		return nil, err
	}
	return &BigList[T]{a: a}, nil
}

// Len returns the number of elements.
func (l *BigList[T]) Len() int64 {
	return l.size
}

// Add appends v, growing the backing array by half again when full.
func (l *BigList[T]) Add(v T) {
	if l.size == l.a.Len() {
		l.a.Grow(max(l.size+l.size/2, l.size+1, 10))
	}
	l.a.Set(l.size, v)
	l.size++
}

// Get returns the element at index. It panics if index is out of range.
func (l *BigList[T]) Get(index int64) T {
	l.checkIndex(index)
	return l.a.Get(index)
}

// Set replaces the element at index, returning the old element. It panics if
// index is out of range.
func (l *BigList[T]) Set(index int64, v T) T {
	l.checkIndex(index)
	old := l.a.Get(index)
	l.a.Set(index, v)
	return old
}

// RemoveLast removes and returns the last element, or returns ok=false if the
// list is empty.
func (l *BigList[T]) RemoveLast() (v T, ok bool) {
	if l.size == 0 {
		return v, false
	}
	l.size--
	v = l.a.Get(l.size)
	var zero T
	l.a.Set(l.size, zero)
	return v, true
}

// Clear removes every element, keeping the backing array.
func (l *BigList[T]) Clear() {
	var zero T
	if l.size > 0 {
		_ = l.a.Fill(0, l.size, zero)
	}
	l.size = 0
}

// All returns an iterator over the indices and elements of the list.
func (l *BigList[T]) All() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		for i, v := range l.a.All() {
			if i >= l.size || !yield(i, v) {
				return
			}
		}
	}
}

func (l *BigList[T]) checkIndex(index int64) {
	if index < 0 || index >= l.size {
		panic(errors.Wrapf(ErrIndexOutOfRange, "index %d, size %d", index, l.size))
	}
}
