// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

// Package mp is a small message-passing runtime: a fixed group of ranks
// that share no memory and coordinate only through Send, Recv and the
// blocking collectives built on them (Bcast, Scatterv, Gatherv, Barrier,
// ReduceMax).
//
// # Transports
//
// NewLocalWorld runs every rank inside one process, each rank normally on its
// own goroutine; payloads are copied on Send so ranks never alias each
// other's buffers. Listen and Dial connect ranks living in separate processes
// over TCP in a star around rank 0, carrying gob-encoded frames. Only routes
// to or from rank 0 exist on TCP, which is all the collectives need.
//
// # Failure model
//
// There is no recovery. A broken connection fails every pending and future
// Recv from that peer, and the error is expected to abort the whole run.
// Collectives have no timeout beyond the context passed in; a rank that never
// arrives blocks the others.
package mp
