// SPDX-License-Identifier: MPL-2.0

// Package shell implements the command interpreter of the archive shell.
//
// An input line is split on whitespace; the first token selects a builtin
// from a Registry and the remaining tokens are its arguments.
//
// # Builtins
//
//   - ls: list the immediate children of the current path
//   - cd: change the current path to a literal or relative entry
//   - echo: print the arguments separated by single spaces
//   - tail: print the last 10 lines of a member under the current path
//   - exit: end the session
//
// # Error Format
//
// The interpreter never returns an error to its caller. Every failure is
// reported in Result.Output as display text, with the typed error kept in
// Result.Err:
//
//	Unknown command.
//	Directory not found.
//	cd: missing argument
//	filename 'Home/x.txt' not found
//
// # Auditing
//
// Every builtin except exit records one audit entry before it runs, whether
// or not it then succeeds. Unknown commands and blank lines are not recorded.
// An audit failure is logged as a warning and never changes the result.
package shell
