// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the hot paths of archsh, usable as
// input for profile-guided optimization:
//   - archive indexing for each container format
//   - tail on large members, with and without the member cache
//   - interpreter dispatch for ls and cd
//
// To collect a profile, run:
//
//	go test ./internal/benchmark -run '^$' -bench . -cpuprofile default.pgo
package benchmark
