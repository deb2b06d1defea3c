// SPDX-License-Identifier: MPL-2.0

// Package testutil provides shared test helpers: on-the-fly archives in every
// supported format (WriteArchive, MustWriteArchive, ArchiveFromDir), a
// manually driven clock for audit timestamps (FakeClock), and MustStop for
// servers.
package testutil
