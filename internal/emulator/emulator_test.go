// SPDX-License-Identifier: MPL-2.0

package emulator

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/archsh/archsh/internal/archive"
	"github.com/archsh/archsh/internal/audit"
	"github.com/archsh/archsh/internal/config"
	"github.com/archsh/archsh/internal/issue"
	"github.com/archsh/archsh/internal/session"
	"github.com/archsh/archsh/internal/testutil"
	"github.com/archsh/archsh/pkg/types"
)

func testConfig(t *testing.T, kind testutil.ArchiveKind) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Username = "alice"
	cfg.Hostname = "box"
	cfg.FilesystemPath = types.FilesystemPath(testutil.MustWriteArchive(t, kind, testutil.SampleTree()))
	cfg.LogPath = types.FilesystemPath(filepath.Join(t.TempDir(), "log.json"))
	return cfg
}

func TestNew_SessionFlow(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, testutil.ArchiveTarGzip)
	clock := testutil.NewFakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	emu, err := New(t.Context(), cfg, WithClock(clock))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = emu.Close() })

	if emu.Session().CurrentPath() != session.RootAlias {
		t.Errorf("CurrentPath() = %q, want %q", emu.Session().CurrentPath(), session.RootAlias)
	}
	if emu.Prompt() != "alice@box: " {
		t.Errorf("Prompt() = %q", emu.Prompt())
	}
	if emu.ID() == "" || emu.Index().Len() != 6 {
		t.Errorf("ID() = %q, Index().Len() = %d", emu.ID(), emu.Index().Len())
	}

	steps := []struct {
		line string
		want string
	}{
		{"ls", "Home/a.txt\nHome/b.txt\nHome/sub\nHome/long.txt"},
		{"cd sub", "Changed directory to sub"},
		{"ls", "Home/sub/c.txt"},
		{"tail c.txt", "c\n"},
		{"echo done", "done"},
		{"bogus", "Unknown command."},
	}
	for _, s := range steps {
		clock.Advance(time.Second)
		if got := emu.Execute(t.Context(), s.line).Output; got != s.want {
			t.Errorf("Execute(%q) = %q, want %q", s.line, got, s.want)
		}
	}
	if res := emu.Execute(t.Context(), "exit"); !res.Exit {
		t.Error("exit did not end the session")
	}

	recs, err := audit.ReadLast(string(cfg.LogPath), 0)
	if err != nil {
		t.Fatalf("ReadLast() error: %v", err)
	}
	var commands []string
	for _, r := range recs {
		if r.User != "alice" {
			t.Errorf("record user = %q", r.User)
		}
		commands = append(commands, r.Command)
	}
	if got := strings.Join(commands, ","); got != "ls,cd,ls,tail,echo" {
		t.Errorf("audited commands = %s", got)
	}
	if recs[0].Timestamp != "2024-05-01T09:00:01.000000Z" {
		t.Errorf("first timestamp = %q", recs[0].Timestamp)
	}
}

func TestNew_RecordArguments(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, testutil.ArchiveZip)
	cfg.Audit.RecordArguments = true
	cfg.Archive.CacheMembers = true
	cfg.Archive.ReadTimeout = time.Minute

	emu, err := New(t.Context(), cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	emu.Execute(t.Context(), "tail a.txt")

	data, err := os.ReadFile(string(cfg.LogPath))
	if err != nil {
		t.Fatal(err)
	}
	var rec audit.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Command != "tail a.txt" {
		t.Errorf("Command = %q, want raw line", rec.Command)
	}
}

func TestNew_MissingSettings(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Username = "alice"
	_, err := New(t.Context(), cfg)
	if !errors.Is(err, config.ErrMissingSettings) {
		t.Fatalf("New() error = %v, want ErrMissingSettings", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue != issue.ConfigMissingSettingsId {
		t.Errorf("error = %v, want actionable config error", err)
	}
}

func TestNew_UnreadableArchive(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, testutil.ArchiveTar)
	cfg.FilesystemPath = types.FilesystemPath(filepath.Join(t.TempDir(), "missing.tar"))

	_, err := New(t.Context(), cfg)
	if !errors.Is(err, archive.ErrArchiveUnreadable) {
		t.Fatalf("New() error = %v, want ErrArchiveUnreadable", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue != issue.ArchiveUnreadableId {
		t.Errorf("error = %v, want actionable archive error", err)
	}
}

func TestNew_SharedIndex(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, testutil.ArchiveTarZstd)
	idx, err := LoadIndex(t.Context(), cfg)
	if err != nil {
		t.Fatalf("LoadIndex() error: %v", err)
	}

	first, err := New(t.Context(), cfg, WithIndex(idx))
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(t.Context(), cfg, WithIndex(idx))
	if err != nil {
		t.Fatal(err)
	}
	if first.Index() != second.Index() {
		t.Error("sessions should share the provided index")
	}
	if first.ID() == second.ID() {
		t.Error("sessions should get distinct ids")
	}

	first.Execute(t.Context(), "cd sub")
	if second.Session().CurrentPath() != session.RootAlias {
		t.Error("sessions must not share state")
	}
}
