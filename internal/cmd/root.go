// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cmd provides the ownstress command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"code.hybscloud.com/own"
	"code.hybscloud.com/own/internal/config"
	"code.hybscloud.com/own/internal/stress"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// NewRootCommand returns the ownstress command bound to a fresh viper
// instance.
func NewRootCommand() *cobra.Command {
	v := config.New()
	var file string

	root := &cobra.Command{
		Use:   "ownstress",
		Short: "Stress ownership handles",
		Long: `ownstress races clones, releases and weak promotions of shared
resources across goroutines, then verifies that every resource was torn
down exactly once and that no control block or budget reservation leaked.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), v, file)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.Flags()
	flags.StringVarP(&file, "config", "c", "", "config file (yaml, toml or json)")
	flags.IntP("workers", "w", 8, "goroutines per resource")
	flags.IntP("iterations", "n", 10000, "iterations per goroutine")
	flags.IntP("resources", "r", 4, "resources under test")
	flags.Int("array-len", 0, "use array resources of this length")
	flags.Uint64("budget", 0, "allocation budget in bytes, 0 for unbounded")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	if err := bindFlags(v, flags, flagKeys); err != nil {
		panic(err)
	}
	return root
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"stress.workers":    "workers",
	"stress.iterations": "iterations",
	"stress.resources":  "resources",
	"stress.array_len":  "array-len",
	"stress.budget":     "budget",
	"log_level":         "log-level",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	var err error
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			err = multierr.Append(err, fmt.Errorf("bind %s: no flag --%s", key, name))
			continue
		}
		err = multierr.Append(err, v.BindPFlag(key, f))
	}
	return err
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, v *viper.Viper, file string) error {
	cfg, err := config.Load(v, file)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	own.SetLogger(log)
	defer own.SetLogger(nil)

	rep, err := stress.Run(ctx, cfg.Stress, log)
	printReport(out, rep)
	return err
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func printReport(w io.Writer, rep stress.Report) {
	fmt.Fprintf(w, "resources:          %d\n", rep.Resources)
	fmt.Fprintf(w, "clones:             %d\n", rep.Clones)
	fmt.Fprintf(w, "promotions:         %d\n", rep.Promotions)
	fmt.Fprintf(w, "failed promotions:  %d\n", rep.FailedPromotions)
	fmt.Fprintf(w, "deletions:          %d\n", rep.Deletions)
	if rep.PeakBytes > 0 {
		fmt.Fprintf(w, "peak bytes:         %d\n", rep.PeakBytes)
	}
	fmt.Fprintf(w, "elapsed:            %s\n", rep.Elapsed)
}
