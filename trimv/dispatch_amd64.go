// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

//go:build amd64

package trimv

import "golang.org/x/sys/cpu"

func init() {
	if NoSimdEnv() {
		hostLevel = LevelScalar
		return
	}

	switch {
	case cpu.X86.HasAVX512F:
		hostLevel = LevelAVX512
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		hostLevel = LevelAVX2
	case cpu.X86.HasSSE2:
		hostLevel = LevelSSE2
	default:
		hostLevel = LevelScalar
	}
}
