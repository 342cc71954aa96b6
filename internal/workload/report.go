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
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// WorkerReport counts what one worker did.
type WorkerReport struct {
	Worker      int    `yaml:"worker"`
	Ops         int64  `yaml:"ops"`
	Puts        int64  `yaml:"puts"`
	Gets        int64  `yaml:"gets"`
	Hits        int64  `yaml:"hits"`
	Removes     int64  `yaml:"removes"`
	IterRemoves int64  `yaml:"iter_removes"`
	IterRemoved int64  `yaml:"iter_removed"`
	FinalSize   int    `yaml:"final_size"`
	Elapsed     string `yaml:"elapsed"`
}

// Report is the outcome of a successful run.
type Report struct {
	Config  Config         `yaml:"config"`
	Workers []WorkerReport `yaml:"workers"`
	// DistinctKeys is the number of keys touched by any worker.
	DistinctKeys   int    `yaml:"distinct_keys"`
	HottestKey     int64  `yaml:"hottest_key"`
	HottestTouches int64  `yaml:"hottest_touches"`
	Elapsed        string `yaml:"elapsed"`
}

// TotalOps returns the number of operations across all workers.
func (r *Report) TotalOps() int64 {
	var n int64
	for _, w := range r.Workers {
		n += w.Ops
	}
	return n
}

// Write encodes the report as YAML.
func (r *Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encoding report")
	}
	return errors.Wrap(enc.Close(), "encoding report")
}

// ReadReport decodes a report written by Write.
func ReadReport(rd io.Reader) (*Report, error) {
	var r Report
	if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
		return nil, errors.Wrap(err, "decoding report")
	}
	return &r, nil
}
