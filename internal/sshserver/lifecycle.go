// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// lifecycle is the state machine behind Server. A lifecycle is single-use:
// once it reaches a terminal state the server must be recreated.
type lifecycle struct {
	state atomic.Int32

	mu      sync.Mutex
	lastErr error

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started chan struct{}
	done    chan struct{}
	endOnce sync.Once
	errCh   chan error
}

func newLifecycle() *lifecycle {
	l := &lifecycle{
		started: make(chan struct{}),
		done:    make(chan struct{}),
		errCh:   make(chan error, 1),
	}
	l.state.Store(int32(StateCreated))
	return l
}

// State returns the current server state.
func (l *lifecycle) State() State {
	return State(l.state.Load())
}

// IsRunning reports whether the server is accepting connections.
func (l *lifecycle) IsRunning() bool {
	return l.State() == StateRunning
}

// Err returns a channel that receives fatal errors after Start returns.
// It is closed once the server has stopped.
func (l *lifecycle) Err() <-chan error {
	return l.errCh
}

// LastError returns the error that moved the server to StateFailed.
func (l *lifecycle) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// begin moves Created -> Starting. A context that is already done fails the
// server before any goroutine can observe StateRunning.
func (l *lifecycle) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return l.fail(fmt.Errorf("context cancelled before start: %w", err))
	}
	if !l.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", l.State())
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	return nil
}

// markRunning moves Starting -> Running and releases waiters.
func (l *lifecycle) markRunning() {
	if l.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(l.started)
	}
}

// fail records err, moves to Failed and returns err.
func (l *lifecycle) fail(err error) error {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()

	l.state.Store(int32(StateFailed))
	if l.cancel != nil {
		l.cancel()
	}
	l.report(err)
	l.end()
	return err
}

// end releases Wait callers once a terminal state is reached.
func (l *lifecycle) end() {
	l.endOnce.Do(func() { close(l.done) })
}

// report forwards err to Err() consumers without blocking.
func (l *lifecycle) report(err error) {
	select {
	case l.errCh <- err:
	default:
	}
}

// beginStop moves Starting/Running -> Stopping and reports whether the caller
// owns the shutdown. A server that never started goes straight to Stopped.
func (l *lifecycle) beginStop() bool {
	for {
		current := l.State()
		switch current {
		case StateCreated:
			if l.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				l.end()
				return false
			}
		case StateStarting, StateRunning:
			if l.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				if l.cancel != nil {
					l.cancel()
				}
				return true
			}
		default:
			return false
		}
	}
}

// markStopped is the final transition once every goroutine has exited.
func (l *lifecycle) markStopped() {
	l.state.Store(int32(StateStopped))
	close(l.errCh)
	l.end()
}

// goTracked runs fn as a tracked goroutine.
func (l *lifecycle) goTracked(fn func()) {
	l.wg.Go(fn)
}

func (l *lifecycle) waitGoroutines() {
	l.wg.Wait()
}
