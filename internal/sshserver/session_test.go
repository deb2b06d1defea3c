// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/ssh"
)

// fakeContext implements the ssh.Context methods the middleware uses; the
// rest stay nil through the embedded interface.
type fakeContext struct {
	ssh.Context

	parent context.Context
	mu     sync.Mutex
	values map[any]any
}

func newFakeContext(ctx context.Context) *fakeContext {
	return &fakeContext{parent: ctx, values: map[any]any{}}
}

func (c *fakeContext) SetValue(key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *fakeContext) Value(key any) any {
	c.mu.Lock()
	v, ok := c.values[key]
	c.mu.Unlock()
	if ok {
		return v
	}
	return c.parent.Value(key)
}

func (c *fakeContext) Deadline() (deadline time.Time, ok bool) { return c.parent.Deadline() }
func (c *fakeContext) Done() <-chan struct{}                   { return c.parent.Done() }
func (c *fakeContext) Err() error                              { return c.parent.Err() }
func (c *fakeContext) User() string                            { return "alice" }

type fakeSSHSession struct {
	ssh.Session

	ctx    *fakeContext
	stderr bytes.Buffer
	exit   int
}

func newFakeSSHSession(t *testing.T) *fakeSSHSession {
	t.Helper()
	return &fakeSSHSession{ctx: newFakeContext(t.Context()), exit: -1}
}

func (s *fakeSSHSession) Context() ssh.Context        { return s.ctx }
func (s *fakeSSHSession) User() string                { return "alice" }
func (s *fakeSSHSession) RemoteAddr() net.Addr        { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4242} }
func (s *fakeSSHSession) Stderr() io.ReadWriter       { return &s.stderr }
func (s *fakeSSHSession) Exit(code int) error         { s.exit = code; return nil }
func (s *fakeSSHSession) Close() error                { return nil }
func (s *fakeSSHSession) Write(p []byte) (int, error) { return s.stderr.Write(p) }

func TestSessionMiddleware_SingleSession(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		sessions []*stubSession
	)
	factory := func(context.Context) (Session, error) {
		mu.Lock()
		defer mu.Unlock()
		s := newStubSession()
		sessions = append(sessions, s)
		return s, nil
	}

	srv, err := New(testConfig(t), factory)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	var attached Session
	blocking := srv.sessionMiddleware()(func(sess ssh.Session) {
		attached, _ = sess.Context().Value(sessionKey{}).(Session)
		close(entered)
		<-release
	})

	first := newFakeSSHSession(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		blocking(first)
	}()
	<-entered

	second := newFakeSSHSession(t)
	srv.sessionMiddleware()(func(ssh.Session) {
		t.Error("second session reached the shell")
	})(second)
	if second.exit != 1 {
		t.Errorf("second session exit = %d, want 1", second.exit)
	}
	if !strings.Contains(second.stderr.String(), ErrSessionBusy.Error()) {
		t.Errorf("second session stderr = %q", second.stderr.String())
	}

	close(release)
	<-done

	mu.Lock()
	if len(sessions) != 1 {
		t.Fatalf("factory calls = %d, want 1", len(sessions))
	}
	if attached != sessions[0] {
		t.Error("handler did not see the created session")
	}
	select {
	case <-sessions[0].closed:
	default:
		t.Error("session not closed after the handler returned")
	}
	mu.Unlock()

	third := newFakeSSHSession(t)
	ran := false
	srv.sessionMiddleware()(func(ssh.Session) { ran = true })(third)
	if !ran {
		t.Error("slot not released after the first session ended")
	}
}

func TestSessionMiddleware_FactoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("archive unreadable")
	srv, err := New(testConfig(t), func(context.Context) (Session, error) { return nil, boom })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sess := newFakeSSHSession(t)
	srv.sessionMiddleware()(func(ssh.Session) {
		t.Error("handler ran without a session")
	})(sess)

	if sess.exit != 1 || !strings.Contains(sess.stderr.String(), "archive unreadable") {
		t.Errorf("exit = %d, stderr = %q", sess.exit, sess.stderr.String())
	}
	if srv.active.Load() {
		t.Error("slot still held after factory error")
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	srv := mustNew(t, testConfig(t))
	if !srv.authorize("alice") {
		t.Error("configured user rejected")
	}
	if srv.authorize("bob") || srv.authorize("") {
		t.Error("other users accepted")
	}
}
