// Copyright 2025 go-trimv Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package trimv holds the data model and the single-row kernel shared by every
// execution strategy of the triangular matrix-vector benchmark.
//
// # Kernel
//
// The benchmark computes y = A * x where row i only uses its first k_i
// columns. With the Triangular workload k_i = i, so the cost of a row grows
// linearly with its index and equal-sized row partitions are unequal in work:
//
//	y[i] = sum_{j=0}^{k_i-1} A[i*N+j] * x[j]
//
// A and x are filled with 1.0, so the analytic answer is y[i] == k_i, which is
// what Verify checks.
//
// # Layout
//
// Matrix is a flat row-major buffer. The serial variants (Original, RowMajor,
// ColMajor) differ only in traversal order; the parallel strategies live in
// the contrib subpackages:
//   - contrib/workerpool: goroutine pools (static, atomic, batched, guided)
//   - contrib/parallel: shared-memory products built on those pools
//   - contrib/mp: message-passing runtime with local and TCP transports
//   - contrib/distrib: contiguous and cyclic row distribution over mp
//   - contrib/bench: warm-up + timed trials, CSV records
package trimv
