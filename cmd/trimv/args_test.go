// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/bench"
	"github.com/ajroetker/go-trimv/trimv/contrib/distrib"
)

func TestIntArg(t *testing.T) {
	v, err := intArg([]string{"12", "7"}, 1, "count", 3)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = intArg([]string{"12"}, 1, "count", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v, "absent argument takes the default")

	_, err = intArg([]string{"twelve"}, 0, "count", 3)
	assert.ErrorContains(t, err, `invalid count "twelve"`)
}

func TestStringArg(t *testing.T) {
	assert.Equal(t, "cyclic", stringArg([]string{"8", "cyclic"}, 1, "contiguous"))
	assert.Equal(t, "contiguous", stringArg([]string{"8"}, 1, "contiguous"))
}

func TestSizeArg(t *testing.T) {
	t.Setenv(envN, "")
	n, err := sizeArg(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultSize, n)

	t.Setenv(envN, "300")
	n, err = sizeArg(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 300, n, "environment overrides the built-in default")

	n, err = sizeArg([]string{"40"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 40, n, "argument overrides the environment")

	_, err = sizeArg([]string{"0"}, 0)
	assert.ErrorIs(t, err, trimv.ErrBadSize)

	t.Setenv(envN, "lots")
	_, err = sizeArg(nil, 0)
	assert.ErrorContains(t, err, envN)
}

func TestWorkersArg(t *testing.T) {
	p, err := workersArg(nil, 1, defaultWorkers)
	require.NoError(t, err)
	assert.Equal(t, defaultWorkers, p)

	for _, bad := range []string{"0", "-2"} {
		_, err := workersArg([]string{"10", bad}, 1, defaultWorkers)
		assert.ErrorIs(t, err, trimv.ErrBadWorkers, bad)
	}
}

func TestAddGlobalFlags(t *testing.T) {
	var o globalOptions
	fs := pflag.NewFlagSet("trimv", pflag.ContinueOnError)
	addGlobalFlags(fs, &o)
	require.NoError(t, fs.Parse([]string{"--trials=7", "--header"}))

	assert.Equal(t, 7, o.trials)
	assert.True(t, o.header)
	assert.Equal(t, bench.DefaultWarmup, o.warmup, "unset flags keep their defaults")
	assert.Equal(t, trimv.Triangular.String(), o.workload)
}

func TestTransportRunner(t *testing.T) {
	o := &globalOptions{}
	cmd := newDistCmd(o)

	local := transportOptions{transport: transportLocal}
	run, err := local.runner(cmd, o)
	require.NoError(t, err)
	r, err := run(context.Background(), distrib.Config{N: 9, Strategy: distrib.Cyclic, Bench: bench.Config{Trials: 1}}, 2)
	require.NoError(t, err)
	assert.Equal(t, "Dist_cyclic", r.record.Metric)
	require.NoError(t, r.verify())

	bad := transportOptions{transport: "udp"}
	_, err = bad.runner(cmd, o)
	assert.ErrorIs(t, err, errUnknownTransport)
}
