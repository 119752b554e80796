// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ajroetker/go-trimv/trimv"
)

const (
	// defaultSize is N when neither an argument nor TRIMV_N gives one.
	defaultSize = 2048

	// defaultWorkers is the thread or rank count when none is given.
	defaultWorkers = 4

	// defaultChunk is the loop chunk size when none is given.
	defaultChunk = 1

	envN = "TRIMV_N"
)

// intArg parses args[i] as an integer, or returns def if it is absent.
func intArg(args []string, i int, name string, def int) (int, error) {
	if i >= len(args) {
		return def, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, args[i], err)
	}
	return v, nil
}

// stringArg returns args[i], or def if it is absent.
func stringArg(args []string, i int, def string) string {
	if i >= len(args) {
		return def
	}
	return args[i]
}

// envInt parses the environment variable key, or returns def if it is unset.
func envInt(key string, def int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, s, err)
	}
	return v, nil
}

// sizeArg returns N from args[i], falling back to TRIMV_N and then
// defaultSize. N must be positive.
func sizeArg(args []string, i int) (int, error) {
	def, err := envInt(envN, defaultSize)
	if err != nil {
		return 0, err
	}
	n, err := intArg(args, i, "N", def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: N must be positive, got %d", trimv.ErrBadSize, n)
	}
	return n, nil
}

// workersArg returns a positive worker count from args[i] or def.
func workersArg(args []string, i int, def int) (int, error) {
	p, err := intArg(args, i, "worker count", def)
	if err != nil {
		return 0, err
	}
	return p, checkWorkers(p)
}

func checkWorkers(p int) error {
	if p <= 0 {
		return fmt.Errorf("%w: got %d", trimv.ErrBadWorkers, p)
	}
	return nil
}
