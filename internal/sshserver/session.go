// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"fmt"

	"github.com/archsh/archsh/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bm "github.com/charmbracelet/wish/bubbletea"
	gossh "golang.org/x/crypto/ssh"
)

// publicKeyHandler accepts any key presented for the configured user.
func (s *Server) publicKeyHandler(ctx ssh.Context, _ ssh.PublicKey) bool {
	return s.authorize(ctx.User())
}

// keyboardInteractiveHandler lets the configured user in without a key.
// The server binds to loopback by default.
func (s *Server) keyboardInteractiveHandler(ctx ssh.Context, _ gossh.KeyboardInteractiveChallenge) bool {
	return s.authorize(ctx.User())
}

func (s *Server) authorize(user string) bool {
	if user != s.cfg.Username {
		s.logger.Warn("rejected SSH login", "user", user)
		return false
	}
	return true
}

// sessionMiddleware holds the single session slot for the lifetime of the
// connection and attaches a fresh shell session to its context.
func (s *Server) sessionMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			if !s.active.CompareAndSwap(false, true) {
				s.logger.Warn("refused concurrent SSH session", "user", sess.User(), "remote", sess.RemoteAddr())
				wish.Fatalln(sess, fmt.Sprintf("archsh: %v", ErrSessionBusy))
				return
			}
			defer s.active.Store(false)

			shellSession, err := s.newSession(sess.Context())
			if err != nil {
				s.logger.Error("failed to create session", "error", err)
				wish.Fatalln(sess, fmt.Sprintf("archsh: %v", err))
				return
			}
			defer func() {
				if err := shellSession.Close(); err != nil {
					s.logger.Warn("failed to close session", "error", err)
				}
			}()

			sess.Context().SetValue(sessionKey{}, shellSession)
			next(sess)
		}
	}
}

// teaHandler builds the shell model for a session prepared by
// sessionMiddleware.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	shellSession, ok := sess.Context().Value(sessionKey{}).(Session)
	if !ok {
		wish.Fatalln(sess, "archsh: session not initialized")
		return nil, nil
	}
	model := tui.NewShellModel(sess.Context(), shellSession, tui.ShellOptions{
		Title:    "archsh",
		Renderer: bm.MakeRenderer(sess),
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}
