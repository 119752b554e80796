// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import (
	"os"
	"strconv"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Level is the widest SIMD instruction set the host reports. The kernels in
// this module are scalar Go; Level is recorded next to benchmark results so
// that runs on different machines can be told apart.
type Level int

const (
	// LevelScalar indicates no SIMD extension was detected (or it was disabled).
	LevelScalar Level = iota

	// LevelSSE2 is the x86-64 baseline.
	LevelSSE2

	// LevelAVX2 indicates 256-bit AVX2 with FMA.
	LevelAVX2

	// LevelAVX512 indicates AVX-512 Foundation.
	LevelAVX512

	// LevelNEON indicates ARM Advanced SIMD.
	LevelNEON

	// LevelSVE indicates ARM Scalable Vector Extension.
	LevelSVE
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2:
		return "sse2"
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	case LevelNEON:
		return "neon"
	case LevelSVE:
		return "sve"
	default:
		return "unknown"
	}
}

// hostLevel is set by init() in dispatch_*.go files.
var hostLevel Level

// HostLevel returns the detected SIMD level of this machine.
func HostLevel() Level { return hostLevel }

// HostName returns HostLevel().String().
func HostName() string { return hostLevel.String() }

// CacheLineSize returns the cache line size assumed by x/sys/cpu for this
// architecture, in bytes.
func CacheLineSize() int {
	return int(unsafe.Sizeof(cpu.CacheLinePad{}))
}

// NoSimdEnv checks if the TRIMV_NO_SIMD environment variable is set. When
// set, the host is reported as scalar regardless of CPU capabilities.
func NoSimdEnv() bool {
	val := os.Getenv("TRIMV_NO_SIMD")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
