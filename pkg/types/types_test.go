// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestNormalizeEntryName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want EntryName
	}{
		{"Home", "Home"},
		{"Home/", "Home"},
		{"./Home/a.txt", "Home/a.txt"},
		{"Home/sub//", "Home/sub"},
		{"./", ""},
		{"/etc/motd", "etc/motd"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeEntryName(tt.raw); got != tt.want {
				t.Errorf("NormalizeEntryName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEntryName_Depth(t *testing.T) {
	t.Parallel()

	if got := EntryName("Home").Depth(); got != 0 {
		t.Errorf("Depth() = %d, want 0", got)
	}
	if got := EntryName("Home/sub/c.txt").Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
}

func TestEntryName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   EntryName
		wantErr bool
	}{
		{"plain", "Home/a.txt", false},
		{"root alias", "Home", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"absolute", "/etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.value.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidEntryName) {
				t.Errorf("error should wrap ErrInvalidEntryName, got: %v", err)
			}
			var nameErr *InvalidEntryNameError
			if !errors.As(err, &nameErr) {
				t.Errorf("error should be *InvalidEntryNameError, got: %T", err)
			}
		})
	}
}

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    FilesystemPath
		wantErr bool
	}{
		{"relative", "fs.tar", false},
		{"absolute", "/var/lib/archsh/fs.tar", false},
		{"empty", "", true},
		{"whitespace", "  \t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidFilesystemPath) {
				t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
			}
		})
	}
}

func TestListenPort_IsAuto(t *testing.T) {
	t.Parallel()

	if !ListenPort(0).IsAuto() {
		t.Error("ListenPort(0).IsAuto() = false")
	}
	if ListenPort(2222).IsAuto() {
		t.Error("ListenPort(2222).IsAuto() = true")
	}
}

func TestListenPort_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		port    ListenPort
		wantErr bool
	}{
		{0, false},
		{22, false},
		{2222, false},
		{65535, false},
		{-1, true},
		{65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.port.String(), func(t *testing.T) {
			t.Parallel()
			err := tt.port.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListenPort(%d).Validate() error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var lpErr *InvalidListenPortError
			if !errors.As(err, &lpErr) {
				t.Errorf("error should be *InvalidListenPortError, got: %T", err)
			}
			if !errors.Is(err, ErrInvalidListenPort) {
				t.Errorf("error should wrap ErrInvalidListenPort, got: %v", err)
			}
		})
	}
}
