// SPDX-License-Identifier: MPL-2.0

// Package fspath offers path/filepath operations typed on
// types.FilesystemPath, so host paths from configuration stay typed
// end to end.
package fspath

import (
	"fmt"
	"path/filepath"

	"github.com/archsh/archsh/pkg/types"
)

// JoinStr joins a typed base path with raw segments such as file names.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(append([]string{string(base)}, elem...)...))
}

// Dir returns all but the last element of p.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs resolves p against the working directory.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path of %q: %w", p, err)
	}
	return types.FilesystemPath(abs), nil
}
