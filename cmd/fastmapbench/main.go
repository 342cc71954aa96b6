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

// Command fastmapbench runs randomized workloads against fastutil maps,
// checking every result against Go's builtin map.
//
//	fastmapbench run --config workload.toml --report report.yaml
//	fastmapbench verify --config workload.toml
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MCPositron/fastutil-positron-sub003/internal/workload"
)

func main() {
	os.Exit(Main(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Main runs the command and returns the code for passing to os.Exit.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

type globalOptions struct {
	config  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var opts globalOptions
	cmd := &cobra.Command{
		Use:   "fastmapbench",
		Short: "fastmapbench exercises fastutil maps with randomized workloads.",
		Long: `fastmapbench runs a mix of put, get, remove and iterator-remove operations
against fastutil maps on a pool of workers, comparing every result with Go's
builtin map.

Workloads are described by a TOML file (--config); flags override the values
it sets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.config, "config", "c", "", "TOML workload file")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level in a human readable format")

	cmd.AddCommand(newRunCmd(&opts), newVerifyCmd(&opts))
	return cmd
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	var report string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a workload and print a YAML report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config, cmd.Flags())
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			defer func() { _ = logger.Sync() }()

			rep, err := workload.NewRunner(cfg, logger).Run(cmd.Context())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, rep)
		},
	}
	addWorkloadFlags(cmd.Flags())
	cmd.Flags().StringVarP(&report, "report", "o", "-", "file to write the report to, - for stdout")
	return cmd
}

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "check a dump written by run against a replay of its workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config, cmd.Flags())
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			defer func() { _ = logger.Sync() }()

			if err := workload.Verify(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", cfg.Dump)
			return nil
		},
	}
	addWorkloadFlags(cmd.Flags())
	return cmd
}

func addWorkloadFlags(fs *pflag.FlagSet) {
	d := workload.DefaultConfig()
	fs.Int64("seed", d.Seed, "random seed; worker i uses seed+i")
	fs.Int("ops", d.Ops, "operations per worker")
	fs.Int("keys", d.Keys, "size of the key space")
	fs.Float32("load-factor", d.LoadFactor, "load factor of the maps under test")
	fs.Int("initial-capacity", d.InitialCapacity, "expected size the maps are created with")
	fs.IntP("workers", "w", d.Workers, "number of concurrent workers")
	fs.Float64("put", d.Mix.Put, "weight of put operations")
	fs.Float64("get", d.Mix.Get, "weight of get operations")
	fs.Float64("remove", d.Mix.Remove, "weight of remove operations")
	fs.Float64("iter-remove", d.Mix.IterRemove, "weight of iterator sweeps removing multiples of a small modulus")
	fs.String("dump", d.Dump, "file worker 0 dumps its final map to")
	fs.Bool("compress", d.Compress, "LZ4-compress the dump")
}

// loadConfig reads the config file, if any, and applies the flags the user
// set on top of it.
func loadConfig(path string, fs *pflag.FlagSet) (workload.Config, error) {
	cfg := workload.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = workload.LoadConfig(path); err != nil {
			return workload.Config{}, err
		}
	}

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "seed":
			cfg.Seed, err = fs.GetInt64(f.Name)
		case "ops":
			cfg.Ops, err = fs.GetInt(f.Name)
		case "keys":
			cfg.Keys, err = fs.GetInt(f.Name)
		case "load-factor":
			cfg.LoadFactor, err = fs.GetFloat32(f.Name)
		case "initial-capacity":
			cfg.InitialCapacity, err = fs.GetInt(f.Name)
		case "workers":
			cfg.Workers, err = fs.GetInt(f.Name)
		case "put":
			cfg.Mix.Put, err = fs.GetFloat64(f.Name)
		case "get":
			cfg.Mix.Get, err = fs.GetFloat64(f.Name)
		case "remove":
			cfg.Mix.Remove, err = fs.GetFloat64(f.Name)
		case "iter-remove":
			cfg.Mix.IterRemove, err = fs.GetFloat64(f.Name)
		case "dump":
			cfg.Dump, err = fs.GetString(f.Name)
		case "compress":
			cfg.Compress, err = fs.GetBool(f.Name)
		}
		err = errors.Wrapf(err, "--%s", f.Name)
	})
	if err != nil {
		return workload.Config{}, err
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zap.DebugLevel))
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zap.InfoLevel))
}

func writeReport(stdout io.Writer, path string, rep *workload.Report) (err error) {
	if path == "-" {
		return rep.Write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating report")
	}
	defer func() {
		err = errors.CombineErrors(err, f.Close())
	}()
	return rep.Write(f)
}
