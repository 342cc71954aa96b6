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
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/pierrec/lz4"
)

// readPresize bounds the table Read allocates before decoding any entry, so
// that a corrupt size cannot force a huge allocation. Larger streams grow the
// table as their entries arrive.
var readPresize = 1 << 20

// Serializer writes a Map as a flat stream and reads it back. The stream is
// the number of entries as 8 big-endian bytes followed by that many
// key/value pairs in iteration order, optionally wrapped in an LZ4 frame.
type Serializer[K comparable, V any] struct {
	keys     Codec[K]
	values   Codec[V]
	compress bool
}

// SerializerOption configures a Serializer.
type SerializerOption func(o *serializerOptions)

type serializerOptions struct {
	compress bool
}

// WithCompression wraps the stream in an LZ4 frame.
func WithCompression() SerializerOption {
	return func(o *serializerOptions) {
		o.compress = true
	}
}

// NewSerializer returns a Serializer using the given codecs.
func NewSerializer[K comparable, V any](
	keys Codec[K], values Codec[V], opts ...SerializerOption,
) *Serializer[K, V] {
	var o serializerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Serializer[K, V]{keys: keys, values: values, compress: o.compress}
}

// Write writes the entries of m to w.
func (s *Serializer[K, V]) Write(w io.Writer, m *Map[K, V]) (err error) {
	if s.compress {
		zw := lz4.NewWriter(w)
		defer func() {
			err = errors.CombineErrors(err, zw.Close())
		}()
		w = zw
	}
	bw := bufio.NewWriter(w)

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(m.Len()))
	if _, err := bw.Write(buf[:]); err != nil {
		return errors.Wrap(err, "writing size")
	}
	for k, v := range m.All() {
		if err := s.keys.Encode(bw, k); err != nil {
			return errors.Wrapf(err, "writing key %v", k)
		}
		if err := s.values.Encode(bw, v); err != nil {
			return errors.Wrapf(err, "writing value of key %v", k)
		}
	}
	return errors.Wrap(bw.Flush(), "flushing")
}

// Read reads a stream written by Write and rebuilds the map in a table sized
// for its entries, up to readPresize of them. The layout of the new table
// does not depend on the order of the stream.
func (s *Serializer[K, V]) Read(r io.Reader, options ...Option[K, V]) (*Map[K, V], error) {
	if s.compress {
		r = lz4.NewReader(r)
	}
	br := bufio.NewReader(r)

	var buf [8]byte
	if _, err := io.ReadFull(br, buf[:]); err != nil {
		return nil, errors.Wrap(err, "reading size")
	}
	size := binary.BigEndian.Uint64(buf[:])
	if size > math.MaxInt32 {
		return nil, errors.Wrapf(ErrInvalidArgument, "stream declares %d entries", size)
	}

	m, err := New[K, V](min(int(size), readPresize), options...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(size); i++ {
		k, err := s.keys.Decode(br)
		if err != nil {
			return nil, errors.Wrapf(err, "reading key %d of %d", i, size)
		}
		v, err := s.values.Decode(br)
		if err != nil {
			return nil, errors.Wrapf(err, "reading value %d of %d", i, size)
		}
		pos := m.find(k)
		if pos >= 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "duplicate key %v in stream", k)
		}
		m.insert(-pos-1, k, v)
	}
	m.checkInvariants()
	return m, nil
}
