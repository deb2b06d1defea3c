// SPDX-License-Identifier: MPL-2.0

package session

import "testing"

func TestNew(t *testing.T) {
	t.Parallel()

	s := New("alice", "box")
	if s.CurrentPath() != RootAlias {
		t.Errorf("CurrentPath() = %q, want %q", s.CurrentPath(), RootAlias)
	}
	if s.Username() != "alice" || s.Hostname() != "box" {
		t.Errorf("identity = %s@%s, want alice@box", s.Username(), s.Hostname())
	}
	if got := s.Prompt(); got != "alice@box: " {
		t.Errorf("Prompt() = %q, want %q", got, "alice@box: ")
	}
}

func TestState_SetCurrentPathAndJoin(t *testing.T) {
	t.Parallel()

	s := New("u", "h")
	if got := s.Join("a.txt"); got != "Home/a.txt" {
		t.Errorf("Join() = %q, want %q", got, "Home/a.txt")
	}

	s.SetCurrentPath("Home/sub")
	if got := s.Join("c.txt"); got != "Home/sub/c.txt" {
		t.Errorf("Join() = %q, want %q", got, "Home/sub/c.txt")
	}

	s.Reset()
	if s.CurrentPath() != RootAlias {
		t.Errorf("after Reset CurrentPath() = %q, want %q", s.CurrentPath(), RootAlias)
	}
}
