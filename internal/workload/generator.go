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

package workload

import (
	"math/rand"

	"github.com/MCPositron/fastutil-positron-sub003/bigarrays"
)

// OpKind is the kind of a generated operation.
type OpKind uint8

const (
	OpPut OpKind = iota
	OpGet
	OpRemove
	// OpIterRemove removes, through an iterator, every entry whose key is a
	// multiple of Op.Key.
	OpIterRemove
)

func (k OpKind) String() string {
	switch k {
	case OpPut:
		return "put"
	case OpGet:
		return "get"
	case OpRemove:
		return "remove"
	case OpIterRemove:
		return "iter-remove"
	default:
		return "unknown"
	}
}

// Op is a single generated operation.
type Op struct {
	Kind  OpKind
	Key   int64
	Value int64
}

// Generate returns the operation sequence of the given worker. The sequence
// depends only on cfg and worker.
func Generate(cfg Config, worker int) (*bigarrays.BigList[Op], error) {
	ops, err := bigarrays.NewList[Op](int64(cfg.Ops))
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed + int64(worker)))
	total := cfg.Mix.total()
	for i := 0; i < cfg.Ops; i++ {
		var op Op
		switch r := rng.Float64() * total; {
		case r < cfg.Mix.Put:
			op = Op{Kind: OpPut, Key: rng.Int63n(int64(cfg.Keys)), Value: rng.Int63()}
		case r < cfg.Mix.Put+cfg.Mix.Get:
			op = Op{Kind: OpGet, Key: rng.Int63n(int64(cfg.Keys))}
		case r < cfg.Mix.Put+cfg.Mix.Get+cfg.Mix.Remove:
			op = Op{Kind: OpRemove, Key: rng.Int63n(int64(cfg.Keys))}
		default:
			op = Op{Kind: OpIterRemove, Key: 2 + rng.Int63n(9)}
		}
		ops.Add(op)
	}
	return ops, nil
}
