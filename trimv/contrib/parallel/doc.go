// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

// Package parallel computes the triangular product on shared memory with a
// team of goroutines.
//
// Two families are provided:
//   - Work stealing (MatVecAtomic): a fresh team per call claims rows one at a
//     time from an atomic counter. MatVecPersistent is the same claim loop on
//     a reused pool, kept as a separately labelled comparison.
//   - Scheduled loop (Loop.MatVec): a persistent team runs a parallel-for
//     under a Schedule: static, dynamic with a chunk size, or guided.
//
// Every strategy writes each y[i] from exactly one goroutine; the only
// synchronized state is the claim counter inside workerpool.
package parallel
