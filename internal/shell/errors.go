// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is returned for blank lines and unregistered actions.
	ErrUnknownCommand = errors.New("Unknown command.") //nolint:staticcheck // displayed verbatim
	// ErrDirectoryNotFound is returned by cd when no entry matches.
	ErrDirectoryNotFound = errors.New("Directory not found.") //nolint:staticcheck // displayed verbatim
	// ErrMissingArgument is the sentinel error wrapped by MissingArgumentError.
	ErrMissingArgument = errors.New("missing argument")
	// ErrExit is returned by the exit builtin to end the session.
	ErrExit = errors.New("exit")
)

type (
	// MissingArgumentError is returned when a builtin gets fewer arguments
	// than it needs.
	MissingArgumentError struct {
		Command string
		Want    int
		Got     int
	}

	// UnknownCommandError carries the action that did not match a builtin.
	UnknownCommandError struct {
		Action string
	}
)

// Error implements the error interface for MissingArgumentError.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing argument", e.Command)
}

// Unwrap returns ErrMissingArgument for errors.Is() compatibility.
func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }

// Error implements the error interface for UnknownCommandError.
func (e *UnknownCommandError) Error() string { return ErrUnknownCommand.Error() }

// Unwrap returns ErrUnknownCommand for errors.Is() compatibility.
func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// requireArgs checks that args (including args[0]) holds at least n operands.
func requireArgs(args []string, n int) error {
	if got := len(args) - 1; got < n {
		return &MissingArgumentError{Command: args[0], Want: n, Got: got}
	}
	return nil
}
