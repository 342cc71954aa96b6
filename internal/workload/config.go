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

// Package workload drives randomized operation mixes against fastutil maps,
// cross-checking every result against Go's builtin map.
package workload

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Mix gives the relative weights of the operation kinds. The weights need
// not sum to one.
type Mix struct {
	Put        float64 `toml:"put" yaml:"put"`
	Get        float64 `toml:"get" yaml:"get"`
	Remove     float64 `toml:"remove" yaml:"remove"`
	IterRemove float64 `toml:"iter_remove" yaml:"iter_remove"`
}

func (m Mix) total() float64 {
	return m.Put + m.Get + m.Remove + m.IterRemove
}

// Config describes a workload run.
type Config struct {
	// Seed makes runs reproducible. Worker i uses Seed+i.
	Seed int64 `toml:"seed" yaml:"seed"`
	// Ops is the number of operations per worker.
	Ops int `toml:"ops" yaml:"ops"`
	// Keys bounds the key space: keys are drawn from [0, Keys).
	Keys            int     `toml:"keys" yaml:"keys"`
	LoadFactor      float32 `toml:"load_factor" yaml:"load_factor"`
	InitialCapacity int     `toml:"initial_capacity" yaml:"initial_capacity"`
	Workers         int     `toml:"workers" yaml:"workers"`
	Mix             Mix     `toml:"mix" yaml:"mix"`
	// Dump, if set, is the file worker 0 writes its final map to.
	Dump     string `toml:"dump" yaml:"dump,omitempty"`
	Compress bool   `toml:"compress" yaml:"compress"`
}

// DefaultConfig returns the configuration used for fields a config file
// leaves out.
func DefaultConfig() Config {
	return Config{
		Seed:            1,
		Ops:             100000,
		Keys:            10000,
		LoadFactor:      0.75,
		InitialCapacity: 16,
		Workers:         4,
		Mix: Mix{
			Put:        0.45,
			Get:        0.35,
			Remove:     0.19,
			IterRemove: 0.01,
		},
	}
}

// LoadConfig reads a TOML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Newf("%s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch {
	case c.Ops < 0:
		return errors.Newf("ops must be nonnegative: %d", c.Ops)
	case c.Keys <= 0:
		return errors.Newf("keys must be positive: %d", c.Keys)
	case !(c.LoadFactor > 0 && c.LoadFactor < 1):
		return errors.Newf("load factor must lie in (0,1): %v", c.LoadFactor)
	case c.InitialCapacity < 0:
		return errors.Newf("initial capacity must be nonnegative: %d", c.InitialCapacity)
	case c.Workers <= 0:
		return errors.Newf("workers must be positive: %d", c.Workers)
	case c.Mix.Put < 0 || c.Mix.Get < 0 || c.Mix.Remove < 0 || c.Mix.IterRemove < 0:
		return errors.Newf("mix weights must be nonnegative: %+v", c.Mix)
	case c.Mix.total() <= 0:
		return errors.New("mix weights sum to zero")
	}
	return nil
}
