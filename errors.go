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

import "github.com/cockroachdb/errors"

// Errors returned by this package. Callers should test for them with
// errors.Is as they are usually wrapped with additional context.
var (
	// ErrInvalidArgument is returned when a constructor or sizing request is
	// given an argument it cannot honor (load factor outside (0,1), negative
	// capacity, mismatched slice lengths, capacity overflow).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedOperation is returned by read-only facades for every
	// mutating operation.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrNoSuchElement is returned when advancing an exhausted iterator.
	ErrNoSuchElement = errors.New("no such element")
	// ErrIllegalState is returned when an iterator or entry is used out of
	// order, e.g. Remove without a preceding call to NextEntry.
	ErrIllegalState = errors.New("illegal state")
	// ErrAllocation marks errors returned by an Allocator.
	ErrAllocation = errors.New("allocation failed")
)
