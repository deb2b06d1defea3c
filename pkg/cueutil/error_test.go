// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "config.toml"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error keeps cause and file", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("boom")
		err := FormatError(cause, "config.toml")
		if !errors.Is(err, cause) || !errors.Is(err, ErrSchema) {
			t.Errorf("FormatError() = %v, want both cause and ErrSchema in chain", err)
		}
		if !strings.Contains(err.Error(), "config.toml") {
			t.Errorf("error should contain file name, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"username"}, "username"},
		{"nested", []string{"ssh", "port"}, "ssh.port"},
		{"index", []string{"hosts", "0", "name"}, "hosts[0].name"},
		{"leading digits are a name", []string{"0", "x"}, "0.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 100), 100, "config.toml"); err != nil {
		t.Errorf("at limit: expected nil, got %v", err)
	}

	err := CheckFileSize(make([]byte, 101), 100, "config.toml")
	if err == nil {
		t.Fatal("over limit: expected error")
	}
	for _, want := range []string{"config.toml", "101", "100"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should contain %q", err.Error(), want)
		}
	}
}
