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
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	fastutil "github.com/MCPositron/fastutil-positron-sub003"
	"github.com/MCPositron/fastutil-positron-sub003/bigarrays"
)

// ErrMismatch marks a disagreement between a fastutil map and the builtin
// map replaying the same operations.
var ErrMismatch = errors.New("result mismatch")

// checkEvery is the number of operations between context checks.
const checkEvery = 4096

// Runner executes a workload on a pool of workers.
type Runner struct {
	cfg    Config
	logger *zap.Logger
}

// NewRunner returns a Runner for cfg. A nil logger disables logging.
func NewRunner(cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the workload, one task per worker on an ants pool, and
// returns the merged report. It fails if any worker observes a mismatch,
// panics, or if ctx is canceled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	cfg := r.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = errors.CombineErrors(errs, err)
	}

	// A panicking task never reaches wg.Done; the panic handler accounts
	// for it instead.
	pool, err := ants.NewPool(cfg.Workers, ants.WithPanicHandler(func(v interface{}) {
		r.logger.Error("worker panicked", zap.Any("panic", v))
		record(errors.Newf("worker panicked: %v", v))
		wg.Done()
	}))
	if err != nil {
		return nil, errors.Wrap(err, "creating worker pool")
	}
	defer pool.Release()

	touchMap, err := fastutil.NewLong2LongMap(cfg.Keys)
	if err != nil {
		return nil, err
	}
	touches := fastutil.NewSynchronized(touchMap)

	start := time.Now()
	workers := make([]WorkerReport, cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		task := func() {
			if err := r.runWorker(ctx, w, touches, &workers[w]); err != nil {
				record(errors.Wrapf(err, "worker %d", w))
			}
			wg.Done()
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			record(errors.Wrapf(err, "submitting worker %d", w))
		}
	}
	wg.Wait()
	if errs != nil {
		return nil, errs
	}

	rep := &Report{
		Config:  cfg,
		Workers: workers,
		Elapsed: time.Since(start).String(),
	}
	rep.DistinctKeys = touches.Len()
	touches.ForEach(func(k, n int64) {
		if n > rep.HottestTouches || (n == rep.HottestTouches && k < rep.HottestKey) {
			rep.HottestKey, rep.HottestTouches = k, n
		}
	})
	r.logger.Info("workload finished",
		zap.Int("workers", cfg.Workers),
		zap.Int("distinct-keys", rep.DistinctKeys),
		zap.String("elapsed", rep.Elapsed))
	return rep, nil
}

func (r *Runner) runWorker(
	ctx context.Context, w int, touches *fastutil.Synchronized[int64, int64], wr *WorkerReport,
) error {
	start := time.Now()
	logger := r.logger.With(zap.Int("worker", w))
	ops, err := Generate(r.cfg, w)
	if err != nil {
		return err
	}
	m, err := newMap(r.cfg, logger)
	if err != nil {
		return err
	}
	wr.Worker = w
	if _, err := replay(ctx, ops, m, touches, wr); err != nil {
		return err
	}
	wr.Elapsed = time.Since(start).String()
	logger.Debug("worker finished", zap.Int64("ops", wr.Ops), zap.Int("size", wr.FinalSize))

	if w == 0 && r.cfg.Dump != "" {
		if err := writeDump(r.cfg.Dump, m, r.cfg.Compress); err != nil {
			return err
		}
		logger.Info("dumped map", zap.String("path", r.cfg.Dump), zap.Int("entries", m.Len()))
	}
	return nil
}

func newMap(cfg Config, logger *zap.Logger) (*fastutil.Long2LongMap, error) {
	return fastutil.NewLong2LongMap(cfg.InitialCapacity,
		fastutil.WithLoadFactor[int64, int64](cfg.LoadFactor),
		fastutil.WithLogger[int64, int64](logger))
}

func sum(old, v int64) (int64, bool) {
	return old + v, true
}

// replay applies ops to m and to a builtin map, returning the builtin map.
// Every result is compared, as is the final content. touches may be nil.
func replay(
	ctx context.Context,
	ops *bigarrays.BigList[Op],
	m *fastutil.Long2LongMap,
	touches *fastutil.Synchronized[int64, int64],
	wr *WorkerReport,
) (map[int64]int64, error) {
	e := make(map[int64]int64)
	for i, op := range ops.All() {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrapf(err, "after %d ops", i)
			}
		}
		wr.Ops++
		switch op.Kind {
		case OpPut:
			wr.Puts++
			prev, existed := m.Put(op.Key, op.Value)
			ePrev, eExisted := e[op.Key]
			if existed != eExisted || prev != ePrev {
				return nil, mismatch(i, op, fmt.Sprintf("got (%d, %t), expected (%d, %t)", prev, existed, ePrev, eExisted))
			}
			e[op.Key] = op.Value
		case OpGet:
			wr.Gets++
			v, ok := m.Get(op.Key)
			ev, eok := e[op.Key]
			if ok != eok || v != ev {
				return nil, mismatch(i, op, fmt.Sprintf("got (%d, %t), expected (%d, %t)", v, ok, ev, eok))
			}
			if ok {
				wr.Hits++
			}
		case OpRemove:
			wr.Removes++
			v, ok := m.Remove(op.Key)
			ev, eok := e[op.Key]
			if ok != eok || v != ev {
				return nil, mismatch(i, op, fmt.Sprintf("got (%d, %t), expected (%d, %t)", v, ok, ev, eok))
			}
			delete(e, op.Key)
		case OpIterRemove:
			wr.IterRemoves++
			var removed, expected int
			it := m.Iterator()
			for it.Next() {
				if it.Key()%op.Key == 0 {
					if err := it.Remove(); err != nil {
						return nil, errors.Wrapf(err, "op %d", i)
					}
					removed++
				}
			}
			for k := range e {
				if k%op.Key == 0 {
					delete(e, k)
					expected++
				}
			}
			if removed != expected || m.Len() != len(e) {
				return nil, mismatch(i, op, fmt.Sprintf("removed %d leaving %d, expected %d leaving %d",
					removed, m.Len(), expected, len(e)))
			}
			wr.IterRemoved += int64(removed)
		default:
			return nil, errors.AssertionFailedf("unknown op kind %d", op.Kind)
		}
		if touches != nil && op.Kind != OpIterRemove {
			touches.Merge(op.Key, 1, sum)
		}
	}

	if diff := cmp.Diff(e, toBuiltinMap(m)); diff != "" {
		return nil, errors.Mark(errors.Newf("final contents differ (-expected +got):\n%s", diff), ErrMismatch)
	}
	wr.FinalSize = m.Len()
	return e, nil
}

func mismatch(i int64, op Op, detail string) error {
	return errors.Mark(errors.Newf("op %d: %s(%d): %s", i, op.Kind, op.Key, detail), ErrMismatch)
}

func toBuiltinMap(m *fastutil.Long2LongMap) map[int64]int64 {
	r := make(map[int64]int64, m.Len())
	for k, v := range m.All() {
		r[k] = v
	}
	return r
}

func serializer(compress bool) *fastutil.Serializer[int64, int64] {
	var opts []fastutil.SerializerOption
	if compress {
		opts = append(opts, fastutil.WithCompression())
	}
	return fastutil.NewSerializer[int64, int64](fastutil.IntegerCodec[int64]{}, fastutil.IntegerCodec[int64]{}, opts...)
}

func writeDump(path string, m *fastutil.Long2LongMap, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating dump")
	}
	defer func() {
		err = errors.CombineErrors(err, f.Close())
	}()
	return errors.Wrapf(serializer(compress).Write(f, m), "writing %s", path)
}

// Verify reloads the dump written by worker 0 of a run with cfg and checks
// it against a fresh replay of that worker's operations.
func Verify(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Dump == "" {
		return errors.New("no dump file configured")
	}

	ops, err := Generate(cfg, 0)
	if err != nil {
		return err
	}
	m, err := newMap(cfg, logger)
	if err != nil {
		return err
	}
	var wr WorkerReport
	expected, err := replay(ctx, ops, m, nil, &wr)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.Dump)
	if err != nil {
		return errors.Wrap(err, "opening dump")
	}
	defer f.Close()
	loaded, err := serializer(cfg.Compress).Read(f,
		fastutil.WithStrategy[int64, int64](fastutil.IntegerStrategy[int64]{}))
	if err != nil {
		return errors.Wrapf(err, "reading %s", cfg.Dump)
	}
	if diff := cmp.Diff(expected, toBuiltinMap(loaded)); diff != "" {
		return errors.Mark(errors.Newf("%s differs from replay (-expected +got):\n%s", cfg.Dump, diff), ErrMismatch)
	}
	logger.Info("dump verified", zap.String("path", cfg.Dump), zap.Int("entries", loaded.Len()))
	return nil
}
