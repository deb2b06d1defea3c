// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEntryName is the sentinel error wrapped by InvalidEntryNameError.
var ErrInvalidEntryName = errors.New("invalid entry name")

type (
	// EntryName is a slash-delimited archive member name such as "Home/docs/a.txt".
	// Names never start with "/" and never end with "/" once normalized.
	EntryName string

	// InvalidEntryNameError is returned when an EntryName is empty or absolute.
	InvalidEntryNameError struct {
		Value  EntryName
		Reason string
	}
)

// NormalizeEntryName converts a raw archive member name into the form kept in
// the index: a leading "./", leading "/" and trailing "/" are dropped.
func NormalizeEntryName(raw string) EntryName {
	name := strings.TrimPrefix(raw, "./")
	name = strings.Trim(name, "/")
	return EntryName(name)
}

// String returns the entry name as a plain string.
func (n EntryName) String() string { return string(n) }

// Depth returns the number of "/" separators in the name.
func (n EntryName) Depth() int { return strings.Count(string(n), "/") }

// Validate returns an error if the name is empty, "." or absolute.
func (n EntryName) Validate() error {
	switch {
	case n == "" || n == ".":
		return &InvalidEntryNameError{Value: n, Reason: "must be non-empty"}
	case strings.HasPrefix(string(n), "/"):
		return &InvalidEntryNameError{Value: n, Reason: "must not start with /"}
	}
	return nil
}

// Error implements the error interface for InvalidEntryNameError.
func (e *InvalidEntryNameError) Error() string {
	return fmt.Sprintf("invalid entry name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidEntryName for errors.Is() compatibility.
func (e *InvalidEntryNameError) Unwrap() error { return ErrInvalidEntryName }
