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
	"encoding/binary"
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// Codec writes and reads single values of type T in a flat binary stream.
type Codec[T any] interface {
	Encode(w io.Writer, v T) error
	Decode(r ByteReader) (T, error)
}

// ByteReader is the reader handed to Codec.Decode.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// IntegerCodec encodes integers as 8 big-endian bytes.
type IntegerCodec[T constraints.Integer] struct{}

// Encode implements Codec.
func (IntegerCodec[T]) Encode(w io.Writer, v T) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

// Decode implements Codec.
func (IntegerCodec[T]) Decode(r ByteReader) (T, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return T(binary.BigEndian.Uint64(buf[:])), nil
}

// FloatCodec encodes floating point numbers as the 8 big-endian bytes of
// their float64 representation.
type FloatCodec[T constraints.Float] struct{}

// Encode implements Codec.
func (FloatCodec[T]) Encode(w io.Writer, v T) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(float64(v)))
	_, err := w.Write(buf[:])
	return err
}

// Decode implements Codec.
func (FloatCodec[T]) Decode(r ByteReader) (T, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return T(math.Float64frombits(binary.BigEndian.Uint64(buf[:]))), nil
}

// BoolCodec encodes booleans as a single 0 or 1 byte.
type BoolCodec struct{}

// Encode implements Codec.
func (BoolCodec) Encode(w io.Writer, v bool) error {
	b := []byte{0}
	if v {
		b[0] = 1
	}
	_, err := w.Write(b)
	return err
}

// Decode implements Codec.
func (BoolCodec) Decode(r ByteReader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Newf("invalid boolean byte %#x", b)
	}
}

// StringCodec encodes strings as a uvarint length followed by the bytes.
type StringCodec struct{}

// Encode implements Codec.
func (StringCodec) Encode(w io.Writer, v string) error {
	buf := binary.AppendUvarint(make([]byte, 0, binary.MaxVarintLen64+len(v)), uint64(len(v)))
	buf = append(buf, v...)
	_, err := w.Write(buf)
	return err
}

// Decode implements Codec.
func (StringCodec) Decode(r ByteReader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n > math.MaxInt32 {
		return "", errors.Newf("string length %d too large", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
