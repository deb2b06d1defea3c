// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/archsh/archsh/pkg/types"
)

const (
	// DefaultHost is the loopback address the server binds to by default.
	DefaultHost HostAddress = "127.0.0.1"

	defaultStartupTimeout  = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

var (
	// ErrInvalidHostAddress is the sentinel error wrapped by InvalidHostAddressError.
	ErrInvalidHostAddress = errors.New("invalid host address")
	// ErrInvalidSSHConfig is the sentinel error wrapped by InvalidSSHConfigError.
	ErrInvalidSSHConfig = errors.New("invalid SSH server config")
	// ErrSessionBusy is reported to a client that connects while another
	// session is active.
	ErrSessionBusy = errors.New("another session is already active")
)

type (
	// HostAddress is a network host address (IP or hostname) for binding.
	HostAddress string

	// InvalidHostAddressError is returned when a HostAddress is blank.
	InvalidHostAddressError struct {
		Value HostAddress
	}

	// InvalidSSHConfigError collects field-level errors from Config.Validate.
	InvalidSSHConfigError struct {
		FieldErrors []error
	}

	// Config holds immutable configuration for the SSH server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host HostAddress
		// Port is the port to listen on (0 = auto-select).
		Port types.ListenPort
		// HostKeyPath is the server's private key; it is generated when missing.
		HostKeyPath types.FilesystemPath
		// Username is the only SSH user allowed to log in.
		Username string
		// StartupTimeout bounds Start (default: 5s).
		StartupTimeout time.Duration
		// ShutdownTimeout bounds graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
	}
)

// String returns the string representation of the HostAddress.
func (h HostAddress) String() string { return string(h) }

// Validate returns an error wrapping ErrInvalidHostAddress when h is blank.
func (h HostAddress) Validate() error {
	if strings.TrimSpace(string(h)) == "" {
		return &InvalidHostAddressError{Value: h}
	}
	return nil
}

// Error implements the error interface for InvalidHostAddressError.
func (e *InvalidHostAddressError) Error() string {
	return fmt.Sprintf("invalid host address %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidHostAddress for errors.Is() compatibility.
func (e *InvalidHostAddressError) Unwrap() error { return ErrInvalidHostAddress }

// Error implements the error interface for InvalidSSHConfigError.
func (e *InvalidSSHConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid SSH server config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidSSHConfig and the field errors.
func (e *InvalidSSHConfigError) Unwrap() []error {
	return append([]error{ErrInvalidSSHConfig}, e.FieldErrors...)
}

// withDefaults fills zero-valued optional fields.
func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = defaultStartupTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	return c
}

// Validate checks every field and returns an *InvalidSSHConfigError listing
// all problems, or nil.
func (c Config) Validate() error {
	var errs []error
	if err := c.Host.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Port.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.HostKeyPath.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("host key path: %w", err))
	}
	if strings.TrimSpace(c.Username) == "" {
		errs = append(errs, errors.New("username must be non-empty"))
	}
	if len(errs) > 0 {
		return &InvalidSSHConfigError{FieldErrors: errs}
	}
	return nil
}
