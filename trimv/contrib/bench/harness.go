// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

// Package bench is the timing harness shared by every strategy: a fixed
// number of discarded warm-up runs, then timed trials summarized as minimum,
// mean and population standard deviation.
package bench

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultWarmup is the number of discarded runs before timing starts.
	DefaultWarmup = 2

	// DefaultTrials is the number of timed runs.
	DefaultTrials = 10
)

// ErrBadConfig is returned for a negative warm-up count or fewer than one trial.
var ErrBadConfig = errors.New("bench: invalid harness configuration")

// Config sets how many times a trial runs.
type Config struct {
	Warmup int
	Trials int
}

// DefaultConfig returns DefaultWarmup warm-ups and DefaultTrials trials.
func DefaultConfig() Config {
	return Config{Warmup: DefaultWarmup, Trials: DefaultTrials}
}

// Validate reports a configuration the harness cannot run.
func (c Config) Validate() error {
	if c.Warmup < 0 || c.Trials < 1 {
		return fmt.Errorf("%w: warmup=%d trials=%d", ErrBadConfig, c.Warmup, c.Trials)
	}
	return nil
}

// Stats summarizes the timed trials of one benchmark.
type Stats struct {
	Min     time.Duration
	Mean    time.Duration
	StdDev  time.Duration // population standard deviation
	Samples []time.Duration
}

// Summarize computes Stats over samples. An empty slice gives zero Stats.
func Summarize(samples []time.Duration) Stats {
	s := Stats{Samples: samples}
	if len(samples) == 0 {
		return s
	}
	xs := lo.Map(samples, func(d time.Duration, _ int) float64 { return float64(d) })
	mean, std := stat.PopMeanStdDev(xs, nil)
	s.Min = time.Duration(floats.Min(xs))
	s.Mean = time.Duration(math.Round(mean))
	s.StdDev = time.Duration(math.Round(std))
	return s
}

// Measure runs fn cfg.Warmup times untimed, then cfg.Trials times timing
// each call with the wall clock. The first error aborts the run.
func Measure(cfg Config, fn func() error) (Stats, error) {
	return MeasureReported(cfg, func() (time.Duration, error) {
		start := time.Now()
		err := fn()
		return time.Since(start), err
	})
}

// MeasureReported is Measure for trials that report their own duration,
// such as a distributed trial whose time is the slowest rank's.
func MeasureReported(cfg Config, fn func() (time.Duration, error)) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	for i := range cfg.Warmup {
		if _, err := fn(); err != nil {
			return Stats{}, fmt.Errorf("bench: warm-up %d: %w", i, err)
		}
	}
	samples := make([]time.Duration, 0, cfg.Trials)
	for i := range cfg.Trials {
		d, err := fn()
		if err != nil {
			return Stats{}, fmt.Errorf("bench: trial %d: %w", i, err)
		}
		samples = append(samples, d)
	}
	return Summarize(samples), nil
}
