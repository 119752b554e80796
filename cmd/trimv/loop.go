// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/bench"
	"github.com/ajroetker/go-trimv/trimv/contrib/parallel"
)

func runLoop(cfg bench.Config, n, workers int, s parallel.Schedule, w trimv.Workload) (outcome, error) {
	p, err := newProblem(n)
	if err != nil {
		return outcome{}, err
	}
	loop, err := parallel.NewLoop(workers)
	if err != nil {
		return outcome{}, err
	}
	defer loop.Close()

	stats, err := bench.Measure(cfg, func() error {
		loop.MatVec(s, p.m, p.x, p.y, w)
		return nil
	})
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		record:   bench.Record{Metric: loopMetric(s), N: n, Workers: workers, Stats: stats},
		y:        p.y,
		workload: w,
	}, nil
}

func newLoopCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "loop [N] [num_threads] [schedule] [chunk_size]",
		Short: "Scheduled parallel loop; schedule is static (default), dynamic or guided",
		Args:  cobra.MaximumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := sizeArg(args, 0)
			if err != nil {
				return err
			}
			workers, err := workersArg(args, 1, defaultWorkers)
			if err != nil {
				return err
			}
			chunk, err := intArg(args, 3, "chunk size", defaultChunk)
			if err != nil {
				return err
			}
			s, err := parallel.ParseSchedule(stringArg(args, 2, parallel.Static.String()), chunk)
			if err != nil {
				return err
			}
			w, err := o.parseWorkload()
			if err != nil {
				return err
			}
			r, err := runLoop(o.bench(), n, workers, s, w)
			if err != nil {
				return err
			}
			return o.emit(cmd, r)
		},
	}
}
