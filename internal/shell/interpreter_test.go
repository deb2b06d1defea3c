// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/archsh/archsh/internal/archive"
	"github.com/archsh/archsh/internal/session"
	"github.com/archsh/archsh/internal/testutil"
	"github.com/archsh/archsh/pkg/types"
)

type (
	recordingAuditor struct {
		commands []string
		err      error
	}

	// countingReader fails the test if tail reaches the archive unexpectedly.
	countingReader struct {
		calls int
	}
)

func (a *recordingAuditor) Record(user, command string) error {
	a.commands = append(a.commands, user+" "+command)
	return a.err
}

func (r *countingReader) Tail(context.Context, types.EntryName, int) ([]string, error) {
	r.calls++
	return nil, nil
}

func newTestInterpreter(t *testing.T, opts ...Option) (*Interpreter, *session.State, *recordingAuditor) {
	t.Helper()

	path := testutil.MustWriteArchive(t, testutil.ArchiveTar, testutil.SampleTree())
	idx, err := archive.Load(t.Context(), path)
	if err != nil {
		t.Fatalf("archive.Load() error: %v", err)
	}
	state := session.New("alice", "box")
	aud := &recordingAuditor{}
	hc := HandlerContext{Session: state, Index: idx, Content: archive.NewReader(path)}
	return New(hc, aud, opts...), state, aud
}

func TestInterpreter_Ls(t *testing.T) {
	t.Parallel()

	in, _, aud := newTestInterpreter(t)
	res := in.Execute(t.Context(), "ls")
	want := "Home/a.txt\nHome/b.txt\nHome/sub\nHome/long.txt"
	if res.Output != want || res.Err != nil {
		t.Errorf("ls = %q (%v), want %q", res.Output, res.Err, want)
	}
	if len(aud.commands) != 1 || aud.commands[0] != "alice ls" {
		t.Errorf("audit = %v, want [alice ls]", aud.commands)
	}
}

func TestInterpreter_LsExcludesGrandchildren(t *testing.T) {
	t.Parallel()

	idx := archive.NewIndex("mem", []types.EntryName{"Home/a.txt", "Home/b.txt", "Home/sub/c.txt"})
	in := New(HandlerContext{Session: session.New("u", "h"), Index: idx}, nil)

	if got := in.Execute(t.Context(), "ls").Output; got != "Home/a.txt\nHome/b.txt" {
		t.Errorf("ls = %q, want %q", got, "Home/a.txt\nHome/b.txt")
	}
}

func TestInterpreter_Cd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lines    []string
		wantOut  string
		wantPath types.EntryName
		wantErr  error
	}{
		{"relative", []string{"cd sub"}, "Changed directory to sub", "Home/sub", nil},
		{"literal", []string{"cd Home/sub"}, "Changed directory to Home/sub", "Home/sub", nil},
		{"file entry accepted", []string{"cd a.txt"}, "Changed directory to a.txt", "Home/a.txt", nil},
		{"not found", []string{"cd nowhere"}, "Directory not found.", "Home", ErrDirectoryNotFound},
		{"root alias as literal entry", []string{"cd sub", "cd Home"}, "Changed directory to Home", "Home", nil},
		{"missing argument", []string{"cd"}, "cd: missing argument", "Home", ErrMissingArgument},
		{"extra operands ignored", []string{"cd sub extra"}, "Changed directory to sub", "Home/sub", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in, state, aud := newTestInterpreter(t)
			var res Result
			for _, line := range tt.lines {
				res = in.Execute(t.Context(), line)
			}
			if res.Output != tt.wantOut {
				t.Errorf("Output = %q, want %q", res.Output, tt.wantOut)
			}
			if !errors.Is(res.Err, tt.wantErr) || (tt.wantErr == nil && res.Err != nil) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if state.CurrentPath() != tt.wantPath {
				t.Errorf("CurrentPath() = %q, want %q", state.CurrentPath(), tt.wantPath)
			}
			if len(aud.commands) != len(tt.lines) {
				t.Errorf("audit records = %d, want %d", len(aud.commands), len(tt.lines))
			}
		})
	}
}

func TestInterpreter_CdRootAliasWithoutEntry(t *testing.T) {
	t.Parallel()

	state := session.New("u", "h")
	idx := archive.NewIndex("mem", []types.EntryName{"Home/sub", "Home/sub/c.txt"})
	aud := &recordingAuditor{}
	in := New(HandlerContext{Session: state, Index: idx}, aud)

	in.Execute(t.Context(), "cd sub")
	res := in.Execute(t.Context(), "cd Home")
	if res.Output != "Directory not found." || !errors.Is(res.Err, ErrDirectoryNotFound) {
		t.Errorf("cd Home = %q (%v), want %q", res.Output, res.Err, "Directory not found.")
	}
	if state.CurrentPath() != "Home/sub" {
		t.Errorf("CurrentPath() = %q, want %q", state.CurrentPath(), "Home/sub")
	}
	if len(aud.commands) != 2 {
		t.Errorf("audit records = %d, want 2", len(aud.commands))
	}
}

func TestInterpreter_Echo(t *testing.T) {
	t.Parallel()

	in, _, _ := newTestInterpreter(t)
	tests := []struct {
		line string
		want string
	}{
		{"echo Hello World", "Hello World"},
		{"echo", ""},
		{"  echo   spaced    out  ", "spaced out"},
	}
	for _, tt := range tests {
		if got := in.Execute(t.Context(), tt.line); got.Output != tt.want || got.Err != nil {
			t.Errorf("Execute(%q) = %+v, want %q", tt.line, got, tt.want)
		}
	}
}

func TestInterpreter_Tail(t *testing.T) {
	t.Parallel()

	in, _, aud := newTestInterpreter(t)

	if got := in.Execute(t.Context(), "tail a.txt").Output; got != "Line 1\nLine 2\nLine 3\n" {
		t.Errorf("tail a.txt = %q", got)
	}

	var want strings.Builder
	for i := 6; i <= 15; i++ {
		fmt.Fprintf(&want, "line %d\n", i)
	}
	if got := in.Execute(t.Context(), "tail long.txt").Output; got != want.String() {
		t.Errorf("tail long.txt = %q, want %q", got, want.String())
	}

	in.Execute(t.Context(), "cd sub")
	if got := in.Execute(t.Context(), "tail c.txt").Output; got != "c\n" {
		t.Errorf("tail c.txt in sub = %q, want %q", got, "c\n")
	}

	if len(aud.commands) != 4 {
		t.Errorf("audit records = %d, want 4", len(aud.commands))
	}
}

func TestInterpreter_TailErrors(t *testing.T) {
	t.Parallel()

	in, _, aud := newTestInterpreter(t)

	res := in.Execute(t.Context(), "tail missing.txt")
	if !errors.Is(res.Err, archive.ErrMemberNotFound) {
		t.Errorf("Err = %v, want ErrMemberNotFound", res.Err)
	}
	if res.Output != "filename 'Home/missing.txt' not found" {
		t.Errorf("Output = %q", res.Output)
	}

	res = in.Execute(t.Context(), "tail")
	if !errors.Is(res.Err, ErrMissingArgument) || res.Output != "tail: missing argument" {
		t.Errorf("bare tail = %+v, want missing argument", res)
	}

	if len(aud.commands) != 2 {
		t.Errorf("failed commands must still be audited, got %d records", len(aud.commands))
	}
}

func TestInterpreter_UnknownAndBlank(t *testing.T) {
	t.Parallel()

	idx := archive.NewIndex("mem", []types.EntryName{"Home/a.txt"})
	state := session.New("u", "h")
	reader := &countingReader{}
	aud := &recordingAuditor{}
	in := New(HandlerContext{Session: state, Index: idx, Content: reader}, aud)

	for _, line := range []string{"foo", "foo a.txt", "", "   \t "} {
		res := in.Execute(t.Context(), line)
		if res.Output != "Unknown command." || !errors.Is(res.Err, ErrUnknownCommand) {
			t.Errorf("Execute(%q) = %+v, want Unknown command.", line, res)
		}
	}
	if state.CurrentPath() != session.RootAlias {
		t.Errorf("CurrentPath() = %q, want unchanged", state.CurrentPath())
	}
	if reader.calls != 0 || len(aud.commands) != 0 {
		t.Errorf("unknown commands had side effects: reads=%d audits=%d", reader.calls, len(aud.commands))
	}
}

func TestInterpreter_Exit(t *testing.T) {
	t.Parallel()

	in, _, aud := newTestInterpreter(t)
	res := in.Execute(t.Context(), "exit")
	if !res.Exit || res.Err != nil || res.Output != "" {
		t.Errorf("exit = %+v, want Exit only", res)
	}
	if len(aud.commands) != 0 {
		t.Errorf("exit was audited: %v", aud.commands)
	}
}

func TestInterpreter_AuditFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	in, _, aud := newTestInterpreter(t)
	aud.err = errors.New("disk full")

	if res := in.Execute(t.Context(), "echo still works"); res.Output != "still works" || res.Err != nil {
		t.Errorf("echo = %+v, want output despite audit failure", res)
	}
}

func TestInterpreter_RawAuditCommands(t *testing.T) {
	t.Parallel()

	in, _, aud := newTestInterpreter(t, WithRawAuditCommands(true))
	in.Execute(t.Context(), "echo a  b")
	if len(aud.commands) != 1 || aud.commands[0] != "alice echo a  b" {
		t.Errorf("audit = %v, want raw line", aud.commands)
	}
}

func TestInterpreter_Prompt(t *testing.T) {
	t.Parallel()

	in, _, _ := newTestInterpreter(t)
	if got := in.Prompt(); got != "alice@box: " {
		t.Errorf("Prompt() = %q", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cmd, err := Parse("  tail   notes.txt  ")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cmd.Action != "tail" || len(cmd.Args) != 1 || cmd.Args[0] != "notes.txt" {
		t.Errorf("Parse() = %+v", cmd)
	}

	if _, err := Parse(" \n"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Parse(blank) error = %v, want ErrUnknownCommand", err)
	}
}

func TestGetHandlerContext_Default(t *testing.T) {
	t.Parallel()

	if hc := GetHandlerContext(context.Background()); hc == nil || hc.Stdout == nil {
		t.Error("GetHandlerContext() without value must return a usable context")
	}
}
