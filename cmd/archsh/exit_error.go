// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/archsh/archsh/internal/config"
)

const (
	// ExitRuntimeError is returned for archive, audit and server failures.
	ExitRuntimeError = 1
	// ExitConfigError is returned when the configuration is missing,
	// malformed or incomplete.
	ExitConfigError = 2
)

// ExitError signals a specific exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, config.ErrConfig) || errors.Is(err, config.ErrInvalidLoadOptions) {
		return ExitConfigError
	}
	return ExitRuntimeError
}
