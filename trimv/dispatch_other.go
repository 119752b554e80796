// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

//go:build !amd64 && !arm64

package trimv

func init() {
	hostLevel = LevelScalar
}
