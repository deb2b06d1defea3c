// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the archsh command line: the interactive shell, its
// plain and one-shot variants, the SSH server and the operator commands
// (index, audit, config).
package cmd
