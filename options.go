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

import "go.uber.org/zap"

// Option configures a Map while it is being created.
type Option[K comparable, V any] interface {
	apply(m *Map[K, V])
}

type strategyOption[K comparable, V any] struct {
	strategy Strategy[K]
}

func (op strategyOption[K, V]) apply(m *Map[K, V]) {
	m.strategy = op.strategy
}

// WithStrategy is an option to specify the hash strategy to use for a
// Map[K,V].
func WithStrategy[K comparable, V any](strategy Strategy[K]) Option[K, V] {
	return strategyOption[K, V]{strategy}
}

// WithHash is an option to specify the hash function to use for a Map[K,V].
// Keys are compared with ==.
func WithHash[K comparable, V any](hash func(key K) uint64) Option[K, V] {
	return strategyOption[K, V]{FuncStrategy[K]{HashFunc: hash}}
}

type loadFactorOption[K comparable, V any] struct {
	f float32
}

func (op loadFactorOption[K, V]) apply(m *Map[K, V]) {
	m.loadFactor = op.f
}

// WithLoadFactor is an option to specify the load factor of a Map[K,V]. It
// must lie strictly between 0 and 1.
func WithLoadFactor[K comparable, V any](f float32) Option[K, V] {
	return loadFactorOption[K, V]{f}
}

type defaultReturnValueOption[K comparable, V any] struct {
	v V
}

func (op defaultReturnValueOption[K, V]) apply(m *Map[K, V]) {
	m.defRetValue = op.v
}

// WithDefaultReturnValue is an option to specify the value returned by Get,
// Put, Remove and friends when there is no mapping for a key.
func WithDefaultReturnValue[K comparable, V any](v V) Option[K, V] {
	return defaultReturnValueOption[K, V]{v}
}

type loggerOption[K comparable, V any] struct {
	logger *zap.Logger
}

func (op loggerOption[K, V]) apply(m *Map[K, V]) {
	m.logger = op.logger
}

// WithLogger is an option to specify a logger that receives Debug records
// for rehashes and Warn records for failed trims. The default is a no-op
// logger.
func WithLogger[K comparable, V any](logger *zap.Logger) Option[K, V] {
	return loggerOption[K, V]{logger}
}

// Allocator specifies an interface for allocating and releasing the key and
// value slices used by a Map. The default allocator utilizes Go's builtin
// make() and allows the GC to reclaim memory.
//
// Allocation may fail. A failure while growing on insert is fatal and
// panics; a failure while trimming or shrinking leaves the table untouched.
//
// If the allocator is manually managing memory and requires that slices be
// freed then Map.Close must be called in order to ensure FreeKeys and
// FreeValues are called.
type Allocator[K comparable, V any] interface {
	// AllocKeys should return a slice equivalent to make([]K, n).
	AllocKeys(n int) ([]K, error)

	// AllocValues should return a slice equivalent to make([]V, n).
	AllocValues(n int) ([]V, error)

	// FreeKeys can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by AllocKeys.
	FreeKeys(v []K)

	// FreeValues can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocValues.
	FreeValues(v []V)
}

type defaultAllocator[K comparable, V any] struct{}

func (defaultAllocator[K, V]) AllocKeys(n int) ([]K, error) {
	return make([]K, n), nil
}

func (defaultAllocator[K, V]) AllocValues(n int) ([]V, error) {
	return make([]V, n), nil
}

func (defaultAllocator[K, V]) FreeKeys(v []K) {
}

func (defaultAllocator[K, V]) FreeValues(v []V) {
}

type allocatorOption[K comparable, V any] struct {
	allocator Allocator[K, V]
}

func (op allocatorOption[K, V]) apply(m *Map[K, V]) {
	m.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a Map[K,V].
func WithAllocator[K comparable, V any](allocator Allocator[K, V]) Option[K, V] {
	return allocatorOption[K, V]{allocator}
}
