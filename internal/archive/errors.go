// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrArchiveUnreadable is wrapped by ArchiveUnreadableError.
	ErrArchiveUnreadable = errors.New("archive unreadable")
	// ErrMemberNotFound is wrapped by MemberNotFoundError.
	ErrMemberNotFound = errors.New("member not found")
	// ErrDecode is wrapped by DecodeError.
	ErrDecode = errors.New("invalid UTF-8 content")
)

type (
	// ArchiveUnreadableError is returned when the archive cannot be opened,
	// its format cannot be detected, or its stream is corrupt.
	ArchiveUnreadableError struct {
		Path string
		Err  error
	}

	// MemberNotFoundError is returned when no member matches a name exactly.
	MemberNotFoundError struct {
		Name string
	}

	// DecodeError is returned when member content is not valid UTF-8.
	// Offset is the byte position of the first invalid sequence.
	DecodeError struct {
		Name   string
		Offset int64
	}
)

// Error implements the error interface for ArchiveUnreadableError.
func (e *ArchiveUnreadableError) Error() string {
	return fmt.Sprintf("cannot read archive %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrArchiveUnreadable and the underlying cause.
func (e *ArchiveUnreadableError) Unwrap() []error {
	return []error{ErrArchiveUnreadable, e.Err}
}

// Error implements the error interface for MemberNotFoundError.
func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("filename '%s' not found", e.Name)
}

// Unwrap returns ErrMemberNotFound for errors.Is() compatibility.
func (e *MemberNotFoundError) Unwrap() error { return ErrMemberNotFound }

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: cannot decode byte at position %d as UTF-8", e.Name, e.Offset)
}

// Unwrap returns ErrDecode for errors.Is() compatibility.
func (e *DecodeError) Unwrap() error { return ErrDecode }

// unreadable wraps err for path unless it already is an ArchiveUnreadableError.
func unreadable(path string, err error) error {
	if err == nil {
		return nil
	}
	var ae *ArchiveUnreadableError
	if errors.As(err, &ae) {
		return err
	}
	return &ArchiveUnreadableError{Path: path, Err: err}
}
