// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "scalar", LevelScalar.String())
	assert.Equal(t, "avx2", LevelAVX2.String())
	assert.Equal(t, "sve", LevelSVE.String())
	assert.Equal(t, "unknown", Level(99).String())
	assert.Equal(t, HostLevel().String(), HostName())
}

func TestCacheLineSize(t *testing.T) {
	size := CacheLineSize()
	assert.GreaterOrEqual(t, size, 0)
	assert.Zero(t, size&(size-1), "cache line %d is not a power of two", size)
}

func TestNoSimdEnv(t *testing.T) {
	t.Setenv("TRIMV_NO_SIMD", "")
	assert.False(t, NoSimdEnv())
	t.Setenv("TRIMV_NO_SIMD", "false")
	assert.False(t, NoSimdEnv())
	t.Setenv("TRIMV_NO_SIMD", "1")
	assert.True(t, NoSimdEnv())
	t.Setenv("TRIMV_NO_SIMD", "yes")
	assert.True(t, NoSimdEnv())
}
