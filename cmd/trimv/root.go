// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/bench"
)

// globalOptions are the flags shared by every benchmark subcommand.
type globalOptions struct {
	warmup   int
	trials   int
	header   bool
	workload string
}

// addGlobalFlags registers the globalOptions flags on fs.
func addGlobalFlags(fs *pflag.FlagSet, o *globalOptions) {
	fs.IntVar(&o.warmup, "warmup", bench.DefaultWarmup, "untimed runs before the timed trials")
	fs.IntVar(&o.trials, "trials", bench.DefaultTrials, "timed trials per benchmark")
	fs.BoolVar(&o.header, "header", false, "print the CSV header before the record")
	fs.StringVar(&o.workload, "workload", trimv.Triangular.String(), "row workload: triangular or full")
}

func (o *globalOptions) bench() bench.Config {
	return bench.Config{Warmup: o.warmup, Trials: o.trials}
}

func (o *globalOptions) parseWorkload() (trimv.Workload, error) {
	return trimv.ParseWorkload(o.workload)
}

// outcome is one finished benchmark: the record to print and the result
// vector to check.
type outcome struct {
	record   bench.Record
	y        []float64
	workload trimv.Workload
}

// verify checks the result vector and logs the first mismatches.
func (r outcome) verify() error {
	report := trimv.Verify(r.y, r.workload, r.record.N)
	if report.OK() {
		return nil
	}
	for _, m := range report.Mismatches {
		klog.Errorf("%s: y[%d] = %g, want %g", r.record.Metric, m.Row, m.Got, m.Want)
	}
	return report.Err()
}

// emit prints the outcome and then verifies it, so a failing run still
// leaves its timing on stdout.
func (o *globalOptions) emit(cmd *cobra.Command, r outcome) error {
	w := bench.NewWriter(cmd.OutOrStdout())
	if o.header {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	if err := w.Write(r.record); err != nil {
		return err
	}
	return r.verify()
}

func newRootCmd() *cobra.Command {
	o := &globalOptions{}
	root := &cobra.Command{
		Use:           "trimv",
		Short:         "Triangular matrix-vector multiplication benchmarks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root.PersistentFlags(), o)

	root.AddCommand(
		newSerialCmd(o),
		newThreadsCmd(o),
		newLoopCmd(o),
		newDistCmd(o),
		newWorkerCmd(o),
		newSweepCmd(o),
		newInfoCmd(),
	)
	return root
}
