// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the archive shell over SSH using the Wish library.
//
// The server accepts a single interactive session at a time for the configured
// user. Each session gets its own shell state and audit identity while sharing
// one archive index. Sessions without a PTY are refused.
package sshserver
