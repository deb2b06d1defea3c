// SPDX-License-Identifier: MPL-2.0

// Package tui holds the presentation adapters for the archive shell.
//
// ShellModel is the Bubble Tea front end: a scrollback viewport above a single
// line input. Each submitted line is echoed after the session prompt and the
// command output follows. RunPlain offers the same exchange on plain readers
// and writers for pipes, scripts and tests.
package tui
