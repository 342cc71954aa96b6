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

// Package bigarrays represents arrays longer than a single Go slice may
// conveniently be as slices of segments. A big index is split into a
// segment number (the high bits) and a displacement within the segment (the
// low SegmentShift bits). All segments are full except possibly the last.
package bigarrays

import (
	"iter"

	"github.com/cockroachdb/errors"
)

const (
	// SegmentShift is the number of index bits addressing a position within
	// a segment.
	SegmentShift = 27
	// SegmentSize is the number of elements of a full segment.
	SegmentSize = 1 << SegmentShift
	// SegmentMask extracts the displacement from a big index.
	SegmentMask = SegmentSize - 1
)

// ErrIndexOutOfRange is wrapped by errors reporting an invalid big index or
// length.
var ErrIndexOutOfRange = errors.New("index out of range")

// Segment returns the segment of a big index.
func Segment(index int64) int {
	return int(index >> SegmentShift)
}

// Displacement returns the position of a big index within its segment.
func Displacement(index int64) int {
	return int(index & SegmentMask)
}

// Index returns the big index of the given segment and displacement.
func Index(segment, displacement int) int64 {
	return int64(segment)<<SegmentShift + int64(displacement)
}

// BigArray is a fixed-length array of T addressed by int64 indices.
type BigArray[T any] struct {
	segments [][]T
	length   int64
	shift    uint
}

// New returns a zeroed BigArray of the given length.
func New[T any](length int64) (*BigArray[T], error) {
	return newBigArray[T](length, SegmentShift)
}

func newBigArray[T any](length int64, shift uint) (*BigArray[T], error) {
	if length < 0 {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "negative length %d", length)
	}
	a := &BigArray[T]{shift: shift}
	a.grow(length)
	return a, nil
}

func (a *BigArray[T]) segmentSize() int64 {
	return int64(1) << a.shift
}

func (a *BigArray[T]) locate(index int64) (int, int) {
	return int(index >> a.shift), int(index & (a.segmentSize() - 1))
}

// Len returns the length of the array.
func (a *BigArray[T]) Len() int64 {
	return a.length
}

// Get returns the element at index. It panics if index is out of range.
func (a *BigArray[T]) Get(index int64) T {
	a.checkIndex(index)
	s, d := a.locate(index)
	return a.segments[s][d]
}

// Set replaces the element at index. It panics if index is out of range.
func (a *BigArray[T]) Set(index int64, v T) {
	a.checkIndex(index)
	s, d := a.locate(index)
	a.segments[s][d] = v
}

// Swap exchanges the elements at i and j.
func (a *BigArray[T]) Swap(i, j int64) {
	a.checkIndex(i)
	a.checkIndex(j)
	si, di := a.locate(i)
	sj, dj := a.locate(j)
	a.segments[si][di], a.segments[sj][dj] = a.segments[sj][dj], a.segments[si][di]
}

// Fill sets every element in [from, to) to v.
func (a *BigArray[T]) Fill(from, to int64, v T) error {
	if err := a.checkRange(from, to); err != nil {
		return err
	}
	for from < to {
		s, d := a.locate(from)
		seg := a.segments[s]
		n := min(int64(len(seg)-d), to-from)
		for i := range seg[d : d+int(n)] {
			seg[d+i] = v
		}
		from += n
	}
	return nil
}

// Grow extends the array to at least length elements, preserving its
// contents. New elements are zero.
func (a *BigArray[T]) Grow(length int64) {
	if length > a.length {
		a.grow(length)
	}
}

func (a *BigArray[T]) grow(length int64) {
	size := a.segmentSize()
	need := int((length + size - 1) >> a.shift)
	// Complete the current last segment, then append new ones.
	if n := len(a.segments); n > 0 && n <= need {
		last := a.segments[n-1]
		want := size
		if n == need {
			want = length - int64(n-1)*size
		}
		if int64(len(last)) < want {
			grown := make([]T, want)
			copy(grown, last)
			a.segments[n-1] = grown
		}
	}
	for len(a.segments) < need {
		want := size
		if len(a.segments) == need-1 {
			want = length - int64(need-1)*size
		}
		a.segments = append(a.segments, make([]T, want))
	}
	a.length = length
}

// Copy copies length elements from src starting at srcPos into dst starting
// at dstPos. Overlapping ranges within one array are handled.
func Copy[T any](src *BigArray[T], srcPos int64, dst *BigArray[T], dstPos int64, length int64) error {
	if err := src.checkRange(srcPos, srcPos+length); err != nil {
		return err
	}
	if err := dst.checkRange(dstPos, dstPos+length); err != nil {
		return err
	}
	if src == dst && srcPos < dstPos && dstPos < srcPos+length {
		// Copy backwards, one run at a time.
		for length > 0 {
			ss, sd := src.locate(srcPos + length - 1)
			ds, dd := dst.locate(dstPos + length - 1)
			n := min(int64(sd+1), int64(dd+1), length)
			copy(dst.segments[ds][dd+1-int(n):dd+1], src.segments[ss][sd+1-int(n):sd+1])
			length -= n
		}
		return nil
	}
	for length > 0 {
		ss, sd := src.locate(srcPos)
		ds, dd := dst.locate(dstPos)
		n := min(int64(len(src.segments[ss])-sd), int64(len(dst.segments[ds])-dd), length)
		copy(dst.segments[ds][dd:dd+int(n)], src.segments[ss][sd:sd+int(n)])
		srcPos += n
		dstPos += n
		length -= n
	}
	return nil
}

// All returns an iterator over the indices and elements of the array.
func (a *BigArray[T]) All() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		var index int64
		for _, seg := range a.segments {
			for _, v := range seg {
				if index >= a.length {
					return
				}
				if !yield(index, v) {
					return
				}
				index++
			}
		}
	}
}

func (a *BigArray[T]) checkIndex(index int64) {
	if index < 0 || index >= a.length {
		panic(errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", index, a.length))
	}
}

func (a *BigArray[T]) checkRange(from, to int64) error {
	if from < 0 || to > a.length || from > to {
		return errors.Wrapf(ErrIndexOutOfRange, "range [%d, %d), length %d", from, to, a.length)
	}
	return nil
}
