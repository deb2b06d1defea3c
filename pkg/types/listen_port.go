// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidListenPort is the sentinel error wrapped by InvalidListenPortError.
var ErrInvalidListenPort = errors.New("invalid listen port")

type (
	// ListenPort is the TCP port the SSH adapter binds to.
	// Zero asks the kernel for a free port.
	ListenPort int

	// InvalidListenPortError is returned when a ListenPort is outside 0-65535.
	InvalidListenPortError struct {
		Value ListenPort
	}
)

// String returns the decimal representation of the port.
func (p ListenPort) String() string { return strconv.Itoa(int(p)) }

// MaxListenPort is the highest TCP port number.
const MaxListenPort ListenPort = 65535

// Validate returns an error if the port is negative or above MaxListenPort.
func (p ListenPort) Validate() error {
	if p < 0 || p > MaxListenPort {
		return &InvalidListenPortError{Value: p}
	}
	return nil
}

// IsAuto reports whether the port asks the kernel to pick one.
func (p ListenPort) IsAuto() bool { return p == 0 }

func (e *InvalidListenPortError) Error() string {
	return fmt.Sprintf("ssh port %d out of range (0 picks a free port, otherwise 1-%d)", e.Value, MaxListenPort)
}

// Unwrap returns ErrInvalidListenPort for errors.Is() compatibility.
func (e *InvalidListenPortError) Unwrap() error { return ErrInvalidListenPort }
