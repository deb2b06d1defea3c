// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/archsh/archsh/internal/tui"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

type (
	// Session is one shell session served to a client.
	// *emulator.Emulator satisfies it.
	Session interface {
		tui.Executor
		Close() error
	}

	// SessionFactory creates the session for a newly accepted connection.
	SessionFactory func(ctx context.Context) (Session, error)

	// Option configures a Server.
	Option func(*Server)

	// Server serves the archive shell over SSH.
	// A Server instance is single-use: once stopped or failed, create a new instance.
	Server struct {
		*lifecycle

		// Immutable configuration (set at creation, never modified)
		cfg        Config
		newSession SessionFactory
		logger     *log.Logger

		// Initialized during Start()
		srvMu    sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string

		// Set while a session holds the single slot.
		active atomic.Bool
	}

	sessionKey struct{}
)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server that hands each accepted session to factory.
// The server is not started; call Start() to begin accepting connections.
func New(cfg Config, factory SessionFactory, opts ...Option) (*Server, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, errors.New("session factory is required")
	}

	s := &Server{
		lifecycle:  newLifecycle(),
		cfg:        cfg,
		newSession: factory,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start binds the listener and blocks until either:
//   - The server is ready to accept connections (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled or the startup timeout passes (returns error)
//
// After Start() returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	if err := s.begin(ctx); err != nil {
		return err
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := net.JoinHostPort(s.cfg.Host.String(), s.cfg.Port.String())
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		return s.fail(fmt.Errorf("failed to listen on %s: %w", addr, err))
	}

	srv, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(s.cfg.HostKeyPath.String()),
		wish.WithPublicKeyAuth(s.publicKeyHandler),
		wish.WithKeyboardInteractiveAuth(s.keyboardInteractiveHandler),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			s.sessionMiddleware(),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(s.logger),
		),
	)
	if err != nil {
		_ = listener.Close() // Best-effort cleanup on error
		return s.fail(fmt.Errorf("failed to create SSH server: %w", err))
	}

	s.srvMu.Lock()
	s.srv = srv
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srvMu.Unlock()

	if s.cfg.Port.IsAuto() {
		s.logger.Debug("picked free port", "address", listener.Addr().String())
	}

	s.goTracked(s.serve)

	select {
	case <-s.started:
		s.logger.Info("SSH server started", "address", s.Address())
		return nil
	case err := <-s.errCh:
		_ = srv.Close() //nolint:errcheck // Best-effort cleanup on error
		return s.fail(err)
	case <-startupCtx.Done():
		_ = srv.Close() //nolint:errcheck // Best-effort cleanup on error
		return s.fail(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
	}
}

// Stop gracefully stops the server. It blocks until open sessions end or the
// shutdown timeout is reached. Safe to call multiple times.
func (s *Server) Stop() error {
	if !s.beginStop() {
		s.waitGoroutines()
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.srvMu.Lock()
	if s.srv != nil {
		if err := s.srv.Shutdown(shutdownCtx); err != nil && !isClosedConnError(err) {
			s.logger.Error("shutdown error", "error", err)
			shutdownErr = err
		}
	}
	if s.listener != nil {
		_ = s.listener.Close() //nolint:errcheck // Best-effort cleanup during shutdown
	}
	s.srvMu.Unlock()

	s.waitGoroutines()
	s.markStopped()
	s.logger.Info("SSH server stopped")

	return shutdownErr
}

// serve blocks accepting connections until the server is shut down.
func (s *Server) serve() {
	s.srvMu.Lock()
	srv, listener := s.srv, s.listener
	s.srvMu.Unlock()

	s.markRunning()

	err := srv.Serve(listener)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	s.report(fmt.Errorf("serve error: %w", err))
}

// Address returns the bound address (host:port), or "" before Start succeeds.
func (s *Server) Address() string {
	s.srvMu.Lock()
	defer s.srvMu.Unlock()
	return s.addr
}

// Port returns the bound port, or 0 before Start succeeds.
func (s *Server) Port() int {
	_, portStr, err := net.SplitHostPort(s.Address())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// Wait blocks until the server stops or fails. It returns the failure cause
// when the server ended in StateFailed.
func (s *Server) Wait() error {
	<-s.done
	if s.State() == StateFailed {
		return s.LastError()
	}
	return nil
}

// isClosedConnError checks if the error is a "use of closed network connection" error.
func isClosedConnError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return errors.Is(err, net.ErrClosed)
}
