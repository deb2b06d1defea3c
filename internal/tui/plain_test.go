// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunPlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "echo and output",
			input: "ls\nbad\n",
			want:  "alice@box: ls\nHome/notes.txt\nHome/docs\nalice@box: bad\nUnknown command.\n",
		},
		{
			name:  "stops at exit",
			input: "ls\nexit\nls\n",
			want:  "alice@box: ls\nHome/notes.txt\nHome/docs\nalice@box: exit\n",
		},
		{
			name:  "empty output prints empty line",
			input: "none\n",
			want:  "alice@box: none\n\n",
		},
		{
			name:  "no input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			if err := RunPlain(t.Context(), newFakeExecutor(), strings.NewReader(tt.input), &out); err != nil {
				t.Fatalf("RunPlain() error = %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunPlain_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	exec := newFakeExecutor()
	var out bytes.Buffer
	err := RunPlain(ctx, exec, strings.NewReader("ls\n"), &out)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunPlain() error = %v, want context.Canceled", err)
	}
	if len(exec.executed()) != 0 {
		t.Errorf("executed = %v, want none", exec.executed())
	}
}

func TestRunLines(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor()
	var out bytes.Buffer
	if err := RunLines(t.Context(), exec, []string{"ls", "exit", "bad"}, &out); err != nil {
		t.Fatalf("RunLines() error = %v", err)
	}
	if got, want := out.String(), "Home/notes.txt\nHome/docs\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if got := strings.Join(exec.executed(), ","); got != "ls,exit" {
		t.Errorf("executed = %q", got)
	}
}
