// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/bench"
)

// problem is the all-ones input every benchmark multiplies.
type problem struct {
	m *trimv.Matrix
	x []float64
	y []float64
}

func newProblem(n int) (*problem, error) {
	m, err := trimv.NewOnes(n)
	if err != nil {
		return nil, err
	}
	return &problem{m: m, x: trimv.NewVectorOnes(n), y: make([]float64, n)}, nil
}

func runSerial(cfg bench.Config, n int, v trimv.Version, w trimv.Workload) (outcome, error) {
	p, err := newProblem(n)
	if err != nil {
		return outcome{}, err
	}
	s := trimv.NewSerial(v, p.m)
	stats, err := bench.Measure(cfg, func() error {
		s.MatVec(p.x, p.y, w)
		return nil
	})
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		record:   bench.Record{Metric: serialMetric(v), N: n, Workers: 1, Stats: stats},
		y:        p.y,
		workload: w,
	}, nil
}

func newSerialCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serial [N] [version]",
		Short: "Single-goroutine product; version is original, row_major (default) or col_major",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := sizeArg(args, 0)
			if err != nil {
				return err
			}
			v, err := trimv.ParseVersion(stringArg(args, 1, trimv.RowMajor.String()))
			if err != nil {
				return err
			}
			w, err := o.parseWorkload()
			if err != nil {
				return err
			}
			r, err := runSerial(o.bench(), n, v, w)
			if err != nil {
				return err
			}
			return o.emit(cmd, r)
		},
	}
}
