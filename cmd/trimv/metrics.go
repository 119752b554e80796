// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/distrib"
	"github.com/ajroetker/go-trimv/trimv/contrib/parallel"
)

// Metric names, as printed in the first CSV column. Plotting selects rows by
// family prefix, so no family name may occur inside another family's names.
const (
	metricSerial  = "Serial_"
	metricThreads = "Threads"
	metricPool    = "Pool_atomic"
	metricLoop    = "Loop_"
	metricDist    = "Dist_"
)

func serialMetric(v trimv.Version) string { return metricSerial + v.String() }

func threadsMetric(persistent bool) string {
	if persistent {
		return metricPool
	}
	return metricThreads
}

func loopMetric(s parallel.Schedule) string { return metricLoop + s.String() }

func distMetric(s distrib.Strategy) string { return metricDist + s.String() }
