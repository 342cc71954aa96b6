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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MCPositron/fastutil-positron-sub003/internal/workload"
)

func runMain(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestRunReport(t *testing.T) {
	stdout, stderr, code := runMain(t, "run", "--ops", "2000", "--keys", "100", "-w", "3", "--seed", "7")
	require.Equal(t, 0, code, stderr)

	rep, err := workload.ReadReport(strings.NewReader(stdout))
	require.NoError(t, err)
	require.Len(t, rep.Workers, 3)
	require.EqualValues(t, 6000, rep.TotalOps())
	require.EqualValues(t, 7, rep.Config.Seed)
	require.Contains(t, stderr, "workload finished")
}

func TestRunDumpVerify(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "workload.toml")
	require.NoError(t, os.WriteFile(config, []byte(`
ops = 3000
keys = 200
workers = 2
compress = true
dump = "`+filepath.ToSlash(filepath.Join(dir, "map.lz4"))+`"
`), 0o644))
	report := filepath.Join(dir, "report.yaml")

	_, stderr, code := runMain(t, "run", "-c", config, "-o", report)
	require.Equal(t, 0, code, stderr)
	f, err := os.Open(report)
	require.NoError(t, err)
	defer f.Close()
	rep, err := workload.ReadReport(f)
	require.NoError(t, err)
	require.True(t, rep.Config.Compress)
	require.EqualValues(t, 3000, rep.Config.Ops)

	stdout, stderr, code := runMain(t, "verify", "-c", config)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "ok")

	// Flags override the file.
	_, stderr, code = runMain(t, "verify", "-c", config, "--seed", "99")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "differs")
}

func TestFlagErrors(t *testing.T) {
	_, stderr, code := runMain(t, "run", "--load-factor", "1.5")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "load factor")

	_, _, code = runMain(t, "run", "--no-such-flag")
	require.Equal(t, 1, code)

	_, stderr, code = runMain(t, "run", "-c", filepath.Join(t.TempDir(), "missing.toml"))
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "missing.toml")

	_, stderr, code = runMain(t, "verify")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "no dump file")
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, code := runMain(t, "run", "-v", "--ops", "200", "--keys", "50", "-w", "1")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stderr, "DEBUG")
	require.Contains(t, stderr, "worker finished")
}
