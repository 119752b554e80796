// Copyright 2025 The go-trimv Authors
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

// Command trimv benchmarks a triangular matrix-vector product under several
// execution models and prints one CSV record per run.
//
// Usage:
//
//	trimv serial 4096 col_major                  # serial, column-major
//	trimv threads 8192 16                        # atomic work stealing, 16 goroutines
//	trimv loop 8192 16 guided 4                  # scheduled loop
//	trimv dist 8192 cyclic --np 4                # 4 processes over loopback TCP
//	trimv sweep --suite shared --sizes 8192 --workers 1,2,4,8
//
// Records have the form Metric,N,Threads,Min,Avg,StdDev with times in
// milliseconds. The process exits with status 1 if the result vector fails
// verification or the arguments are invalid. Diagnostics go to stderr; use -v
// to raise their verbosity.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"k8s.io/klog/v2"
)

func main() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)

	root := newRootCmd()
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		klog.Errorf("%v", err)
	}
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
