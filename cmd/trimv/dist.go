// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-trimv/trimv/contrib/bench"
	"github.com/ajroetker/go-trimv/trimv/contrib/distrib"
	"github.com/ajroetker/go-trimv/trimv/contrib/mp"
)

// Environment protocol between the launcher and its worker processes.
const (
	envRank = "TRIMV_RANK"
	envSize = "TRIMV_SIZE"
	envAddr = "TRIMV_ADDR"
)

const (
	transportTCP   = "tcp"
	transportLocal = "local"
)

var (
	errWorkerEnv        = errors.New("worker environment incomplete")
	errUnknownTransport = errors.New("unknown transport")
)

// transportOptions select how the ranks of a dist benchmark are started.
type transportOptions struct {
	transport string
	addr      string
}

func addTransportFlags(fs *pflag.FlagSet, t *transportOptions, def string) {
	fs.StringVar(&t.transport, "transport", def, "tcp: one process per rank; local: one goroutine per rank")
	fs.StringVar(&t.addr, "addr", "127.0.0.1:0", "coordinator listen address for the tcp transport")
}

// distFunc runs one dist benchmark over p ranks.
type distFunc func(ctx context.Context, cfg distrib.Config, p int) (outcome, error)

// runner returns the distFunc for the selected transport. The tcp runner
// re-executes this binary once per worker rank.
func (t *transportOptions) runner(cmd *cobra.Command, o *globalOptions) (distFunc, error) {
	switch t.transport {
	case transportLocal:
		return runDistLocal, nil
	case transportTCP:
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate own binary: %w", err)
		}
		return func(ctx context.Context, cfg distrib.Config, p int) (outcome, error) {
			l := &launcher{exe: exe, args: workerArgs(cmd, o, cfg), addr: t.addr, stderr: cmd.ErrOrStderr()}
			return l.run(ctx, cfg, p)
		}, nil
	}
	return nil, fmt.Errorf("%w %q (want %s or %s)", errUnknownTransport, t.transport, transportTCP, transportLocal)
}

// distConfig parses the [N] [strategy] arguments shared by dist and worker.
func (o *globalOptions) distConfig(args []string) (distrib.Config, error) {
	n, err := sizeArg(args, 0)
	if err != nil {
		return distrib.Config{}, err
	}
	s, err := distrib.ParseStrategy(stringArg(args, 1, distrib.Contiguous.String()))
	if err != nil {
		return distrib.Config{}, err
	}
	w, err := o.parseWorkload()
	if err != nil {
		return distrib.Config{}, err
	}
	return distrib.Config{N: n, Strategy: s, Workload: w, Bench: o.bench()}, nil
}

func distOutcome(cfg distrib.Config, p int, res *distrib.Result) outcome {
	return outcome{
		record:   bench.Record{Metric: distMetric(cfg.Strategy), N: cfg.N, Workers: p, Stats: res.Stats},
		y:        res.Y,
		workload: cfg.Workload,
	}
}

// runDistLocal runs all p ranks as goroutines of this process.
func runDistLocal(ctx context.Context, cfg distrib.Config, p int) (outcome, error) {
	results, err := distrib.RunLocal(ctx, p, cfg)
	if err != nil {
		return outcome{}, err
	}
	for rank, res := range results {
		klog.V(1).Infof("rank %d: %d rows, local min %v", rank, len(res.Rows), res.Local.Min)
	}
	return distOutcome(cfg, p, results[mp.Root]), nil
}

// launcher starts the worker processes of a TCP world and runs rank 0
// itself.
type launcher struct {
	exe    string   // binary to run for each worker
	args   []string // worker subcommand and its arguments
	addr   string
	stderr io.Writer
}

func (l *launcher) run(ctx context.Context, cfg distrib.Config, p int) (outcome, error) {
	ln, err := mp.Listen(l.addr, p)
	if err != nil {
		return outcome{}, err
	}
	addr := ln.Addr().String()
	klog.V(1).Infof("coordinator listening on %s for %d workers", addr, p-1)

	g, gctx := errgroup.WithContext(ctx)
	for rank := 1; rank < p; rank++ {
		cmd := exec.CommandContext(gctx, l.exe, l.args...)
		cmd.Env = append(os.Environ(),
			envRank+"="+strconv.Itoa(rank),
			envSize+"="+strconv.Itoa(p),
			envAddr+"="+addr,
		)
		cmd.Stderr = l.stderr
		g.Go(func() error {
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("worker %d: %w", rank, err)
			}
			return nil
		})
	}

	var res *distrib.Result
	g.Go(func() error {
		c, err := ln.Accept(gctx)
		if err != nil {
			return err
		}
		defer c.Close()
		res, err = distrib.Run(gctx, c, cfg)
		return err
	})
	if err := g.Wait(); err != nil {
		return outcome{}, err
	}
	return distOutcome(cfg, p, res), nil
}

// workerArgs rebuilds the command line a worker needs to run the same
// benchmark as the launcher.
func workerArgs(cmd *cobra.Command, o *globalOptions, cfg distrib.Config) []string {
	args := []string{
		"worker", strconv.Itoa(cfg.N), cfg.Strategy.String(),
		"--warmup=" + strconv.Itoa(o.warmup),
		"--trials=" + strconv.Itoa(o.trials),
		"--workload=" + cfg.Workload.String(),
	}
	if v := cmd.Flag("v"); v != nil && v.Changed {
		args = append(args, "-v="+v.Value.String())
	}
	return args
}

func newDistCmd(o *globalOptions) *cobra.Command {
	var (
		np int
		t  transportOptions
	)
	cmd := &cobra.Command{
		Use:   "dist [N] [strategy]",
		Short: "Message-passing product over np ranks; strategy is contiguous (default) or cyclic",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.distConfig(args)
			if err != nil {
				return err
			}
			if err := checkWorkers(np); err != nil {
				return err
			}
			run, err := t.runner(cmd, o)
			if err != nil {
				return err
			}
			r, err := run(cmd.Context(), cfg, np)
			if err != nil {
				return err
			}
			return o.emit(cmd, r)
		},
	}
	f := cmd.Flags()
	f.IntVar(&np, "np", defaultWorkers, "number of ranks, including the coordinator")
	addTransportFlags(f, &t, transportTCP)
	return cmd
}

func newWorkerCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:    "worker [N] [strategy]",
		Short:  "Run one rank of a dist benchmark (started by dist)",
		Hidden: true,
		Args:   cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.distConfig(args)
			if err != nil {
				return err
			}
			rank, err := envInt(envRank, -1)
			if err != nil {
				return err
			}
			size, err := envInt(envSize, -1)
			if err != nil {
				return err
			}
			addr := os.Getenv(envAddr)
			if rank < 0 || size < 0 || addr == "" {
				return fmt.Errorf("%w: need %s, %s and %s", errWorkerEnv, envRank, envSize, envAddr)
			}

			c, err := mp.Dial(cmd.Context(), addr, rank, size)
			if err != nil {
				return err
			}
			defer c.Close()
			res, err := distrib.Run(cmd.Context(), c, cfg)
			if err != nil {
				return fmt.Errorf("rank %d: %w", rank, err)
			}
			klog.V(1).Infof("rank %d: %d rows, local min %v", rank, len(res.Rows), res.Local.Min)
			return nil
		},
	}
}
