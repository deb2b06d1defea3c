// SPDX-License-Identifier: MPL-2.0

// Package archive turns a pre-built archive into archsh's read-only virtual
// filesystem.
//
// Load scans the member list once and returns an Index of entry names in
// archive order. Reader re-opens the archive on demand to extract a single
// member and tail its text content.
//
// # Formats
//
// The container is detected from its leading bytes, not its file extension:
//
//   - plain tar
//   - gzip-compressed tar (.tar.gz, .tgz)
//   - zstd-compressed tar (.tar.zst)
//   - zip
//
// # Errors
//
// Every failure is typed so callers can tell kinds apart with errors.Is:
// ErrArchiveUnreadable, ErrMemberNotFound and ErrDecode.
package archive
