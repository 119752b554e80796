// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import "errors"

// Sentinel errors returned by the trimv package. Callers match them with
// errors.Is; wrapped forms carry the offending value.
var (
	// ErrBadSize is returned when a matrix dimension is negative, or zero where
	// a strategy needs at least one row.
	ErrBadSize = errors.New("trimv: invalid matrix size")

	// ErrBadWorkers is returned when a worker or process count is not positive.
	ErrBadWorkers = errors.New("trimv: worker count must be positive")

	// ErrUnknownVersion is returned by ParseVersion for an unrecognized name.
	ErrUnknownVersion = errors.New("trimv: unknown serial version")

	// ErrUnknownWorkload is returned by ParseWorkload for an unrecognized name.
	ErrUnknownWorkload = errors.New("trimv: unknown workload")

	// ErrVerify is returned by Report.Err when at least one element mismatched.
	ErrVerify = errors.New("trimv: verification failed")
)
