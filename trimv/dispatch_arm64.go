// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

//go:build arm64

package trimv

import "golang.org/x/sys/cpu"

func init() {
	if NoSimdEnv() {
		hostLevel = LevelScalar
		return
	}

	// ASIMD is part of the ARMv8-A base architecture; the check is kept so a
	// misreporting kernel falls back to scalar.
	switch {
	case cpu.ARM64.HasSVE:
		hostLevel = LevelSVE
	case cpu.ARM64.HasASIMD:
		hostLevel = LevelNEON
	default:
		hostLevel = LevelScalar
	}
}
