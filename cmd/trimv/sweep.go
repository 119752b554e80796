// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/bench"
	"github.com/ajroetker/go-trimv/trimv/contrib/distrib"
	"github.com/ajroetker/go-trimv/trimv/contrib/parallel"
)

const (
	suiteSerial = "serial"
	suiteShared = "shared"
	suiteDist   = "dist"
)

var errUnknownSuite = errors.New("unknown suite")

// step is one configuration of a sweep.
type step func() (outcome, error)

// sweepPlan expands a suite over the size and worker lists, in the order the
// records are printed. The dist suite runs each configuration through dist.
func sweepPlan(ctx context.Context, suite string, cfg bench.Config, w trimv.Workload, sizes, workers []int, dist distFunc) ([]step, error) {
	var plan []step
	switch suite {
	case suiteSerial:
		for _, n := range sizes {
			for _, v := range []trimv.Version{trimv.Original, trimv.RowMajor, trimv.ColMajor} {
				plan = append(plan, func() (outcome, error) { return runSerial(cfg, n, v, w) })
			}
		}
	case suiteShared:
		policies := []parallel.Policy{parallel.Static, parallel.Dynamic, parallel.Guided}
		for _, n := range sizes {
			for _, p := range workers {
				for _, policy := range policies {
					s := parallel.Schedule{Policy: policy, Chunk: defaultChunk}
					plan = append(plan, func() (outcome, error) { return runLoop(cfg, n, p, s, w) })
				}
				plan = append(plan,
					func() (outcome, error) { return runThreads(cfg, n, p, false, w) },
					func() (outcome, error) { return runThreads(cfg, n, p, true, w) },
				)
			}
		}
	case suiteDist:
		for _, n := range sizes {
			for _, p := range workers {
				for _, s := range []distrib.Strategy{distrib.Contiguous, distrib.Cyclic} {
					dcfg := distrib.Config{N: n, Strategy: s, Workload: w, Bench: cfg}
					plan = append(plan, func() (outcome, error) { return dist(ctx, dcfg, p) })
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w %q (want %s, %s or %s)", errUnknownSuite, suite, suiteSerial, suiteShared, suiteDist)
	}
	return plan, nil
}

func newSweepCmd(o *globalOptions) *cobra.Command {
	var (
		suite   string
		sizes   []int
		workers []int
		t       transportOptions
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a suite over lists of sizes and worker counts, printing a CSV table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if bad, found := lo.Find(sizes, func(n int) bool { return n <= 0 }); found {
				return fmt.Errorf("%w: N must be positive, got %d", trimv.ErrBadSize, bad)
			}
			if bad, found := lo.Find(workers, func(p int) bool { return p <= 0 }); found {
				return checkWorkers(bad)
			}
			w, err := o.parseWorkload()
			if err != nil {
				return err
			}
			dist, err := t.runner(cmd, o)
			if err != nil {
				return err
			}
			plan, err := sweepPlan(cmd.Context(), suite, o.bench(), w, lo.Uniq(sizes), lo.Uniq(workers), dist)
			if err != nil {
				return err
			}

			out := bench.NewWriter(cmd.OutOrStdout())
			if err := out.WriteHeader(); err != nil {
				return err
			}
			// A failed verification is reported but does not stop the sweep.
			var failures []error
			for _, run := range plan {
				r, err := run()
				if err != nil {
					return err
				}
				if err := out.Write(r.record); err != nil {
					return err
				}
				if err := r.verify(); err != nil {
					failures = append(failures, fmt.Errorf("%s N=%d workers=%d: %w",
						r.record.Metric, r.record.N, r.record.Workers, err))
				}
			}
			klog.V(1).Infof("sweep %s: %d runs, %d failed verification", suite, len(plan), len(failures))
			return errors.Join(failures...)
		},
	}
	f := cmd.Flags()
	f.StringVar(&suite, "suite", suiteSerial, "serial, shared (loop schedules and threads) or dist")
	f.IntSliceVar(&sizes, "sizes", []int{256, 512, 1024, 2048, 4096, 8192, 16384}, "matrix sizes")
	f.IntSliceVar(&workers, "workers", []int{1, 2, 4, 8}, "worker or rank counts (ignored by the serial suite)")
	addTransportFlags(f, &t, transportTCP)
	return cmd
}
