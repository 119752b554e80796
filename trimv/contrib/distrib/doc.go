// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

// Package distrib runs the triangular product across the ranks of an mp
// communicator.
//
// Only rank 0 materializes A and x. x is broadcast to every rank; rows of A
// are distributed by a Strategy:
//   - Contiguous: rank k owns [k*ceil(N/P), min((k+1)*ceil(N/P), N)),
//     delivered with one Scatterv. Cheap to set up, but for a triangular
//     workload the last block costs far more than the first.
//   - Cyclic: rank k owns {k, k+P, k+2P, ...}. Rank 0 packs each rank's rows
//     into one buffer and sends it point to point; every rank gets a mix of
//     cheap and expensive rows.
//
// Each timed trial starts with a Barrier; every rank times its own compute
// and the trial's parallel time is the maximum over ranks (ReduceMax).
// Results are gathered back on rank 0.
package distrib
