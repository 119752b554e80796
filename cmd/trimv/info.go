// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-trimv/trimv"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the host features the benchmarks run with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			level := trimv.HostName()
			if trimv.NoSimdEnv() {
				level += " (disabled by TRIMV_NO_SIMD)"
			}
			_, err := fmt.Fprintf(out, "arch:        %s/%s\nsimd:        %s\ncache line:  %d bytes\ngomaxprocs:  %d\nnum cpu:     %d\n",
				runtime.GOOS, runtime.GOARCH, level, trimv.CacheLineSize(), runtime.GOMAXPROCS(0), runtime.NumCPU())
			return err
		},
	}
}
