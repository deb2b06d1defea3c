// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrSchema is wrapped by every error FormatError returns.
var ErrSchema = errors.New("schema validation failed")

// FormatError formats a CUE error with JSON path prefixes for clear error messages.
//
// Error format: <file-path>: <json-path>: <message>
//
// Example:
//
//	config.toml: ssh.port: invalid value 70000 (out of bound <=65535)
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes plain errors to a one-element list, so
	// non-CUE causes are wrapped here to keep them in the chain.
	if !errors.As(err, new(cueerrors.Error)) {
		return fmt.Errorf("%s: %w: %w", filePath, ErrSchema, err)
	}

	cueErrors := cueerrors.Errors(err)

	var lines []string
	for _, e := range cueErrors {
		// Get the path to the problematic field
		path := cueerrors.Path(e)
		pathStr := formatPath(path)
		msg := e.Error()

		// Remove redundant path prefix from message if present
		// CUE sometimes includes the path in the message itself
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}

		if pathStr != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%w: %s: %s", ErrSchema, filePath, lines[0])
	}
	return fmt.Errorf("%w: %s:\n  %s", ErrSchema, filePath, strings.Join(lines, "\n  "))
}

// formatPath joins a CUE error path with dots, rendering numeric elements as
// indices: ["ssh", "port"] becomes "ssh.port", ["a", "0", "b"] becomes "a[0].b".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		// Check if this looks like an array index (purely numeric)
		isIndex := true
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		if isIndex && i > 0 {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		} else {
			if i > 0 {
				result.WriteString(".")
			}
			result.WriteString(part)
		}
	}

	return result.String()
}

// CheckFileSize rejects data larger than maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
