// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond,
		5 * time.Millisecond, 5 * time.Millisecond, 7 * time.Millisecond, 9 * time.Millisecond})

	assert.Equal(t, 2*time.Millisecond, s.Min)
	assert.Equal(t, 5*time.Millisecond, s.Mean)
	assert.Equal(t, 2*time.Millisecond, s.StdDev, "population standard deviation")
	assert.Len(t, s.Samples, 8)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]time.Duration{3 * time.Microsecond})
	assert.Equal(t, 3*time.Microsecond, s.Min)
	assert.Equal(t, 3*time.Microsecond, s.Mean)
	assert.Zero(t, s.StdDev)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, Config{Warmup: 0, Trials: 1}.Validate())
	require.ErrorIs(t, Config{Warmup: -1, Trials: 1}.Validate(), ErrBadConfig)
	require.ErrorIs(t, Config{Warmup: 0, Trials: 0}.Validate(), ErrBadConfig)
}

func TestMeasureCountsCalls(t *testing.T) {
	calls := 0
	s, err := Measure(Config{Warmup: 3, Trials: 5}, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 8, calls)
	assert.Len(t, s.Samples, 5, "warm-up runs are discarded")
	assert.LessOrEqual(t, s.Min, s.Mean)
}

func TestMeasureReportedUsesReturnedDurations(t *testing.T) {
	next := 0
	durations := []time.Duration{100, 200, 1, 2, 3}
	s, err := MeasureReported(Config{Warmup: 2, Trials: 3}, func() (time.Duration, error) {
		d := durations[next]
		next++
		return d, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{1, 2, 3}, s.Samples)
	assert.Equal(t, time.Duration(1), s.Min)
	assert.Equal(t, time.Duration(2), s.Mean)
}

func TestMeasureStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := Measure(DefaultConfig(), func() error {
		calls++
		if calls == 4 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "trial 1")
	assert.Equal(t, 4, calls)
}

func TestMeasureRejectsBadConfig(t *testing.T) {
	_, err := Measure(Config{Trials: 0}, func() error {
		t.Error("fn must not run")
		return nil
	})
	require.ErrorIs(t, err, ErrBadConfig)
}
