// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/bench"
	"github.com/ajroetker/go-trimv/trimv/contrib/parallel"
	"github.com/ajroetker/go-trimv/trimv/contrib/workerpool"
)

// runThreads times atomic work stealing. By default every trial spawns and
// joins its own goroutines; persistent reuses one pool for all trials and
// reports under a separate metric.
func runThreads(cfg bench.Config, n, workers int, persistent bool, w trimv.Workload) (outcome, error) {
	if err := checkWorkers(workers); err != nil {
		return outcome{}, err
	}
	p, err := newProblem(n)
	if err != nil {
		return outcome{}, err
	}

	trial := func() error { return parallel.MatVecAtomic(p.m, p.x, p.y, w, workers) }
	if persistent {
		pool := workerpool.New(workers)
		defer pool.Close()
		trial = func() error {
			parallel.MatVecPersistent(pool, p.m, p.x, p.y, w)
			return nil
		}
	}

	stats, err := bench.Measure(cfg, trial)
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		record:   bench.Record{Metric: threadsMetric(persistent), N: n, Workers: workers, Stats: stats},
		y:        p.y,
		workload: w,
	}, nil
}

func newThreadsCmd(o *globalOptions) *cobra.Command {
	var persistent bool
	cmd := &cobra.Command{
		Use:   "threads [N] [num_threads]",
		Short: "Atomic work stealing over a shared row counter",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := sizeArg(args, 0)
			if err != nil {
				return err
			}
			workers, err := workersArg(args, 1, defaultWorkers)
			if err != nil {
				return err
			}
			w, err := o.parseWorkload()
			if err != nil {
				return err
			}
			r, err := runThreads(o.bench(), n, workers, persistent, w)
			if err != nil {
				return err
			}
			return o.emit(cmd, r)
		},
	}
	cmd.Flags().BoolVar(&persistent, "persistent", false,
		"reuse one worker pool across trials instead of spawning goroutines per trial")
	return cmd
}
