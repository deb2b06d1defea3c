// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"io"

	"github.com/archsh/archsh/internal/session"
	"github.com/archsh/archsh/pkg/types"
)

type (
	// Builtin is one command understood by the interpreter.
	Builtin interface {
		// Name returns the action that selects this builtin (e.g. "ls").
		Name() string

		// Run executes the builtin. args[0] is the action, args[1:] the
		// operands. Output goes to the HandlerContext's Stdout.
		Run(ctx context.Context, args []string) error

		// Usage returns a one-line synopsis such as "tail FILE".
		Usage() string
	}

	// unaudited marks builtins that do not produce an audit record.
	unaudited interface {
		unaudited()
	}

	// EntryIndex is the read-only view of the archive listing used by builtins.
	EntryIndex interface {
		Contains(name types.EntryName) bool
		Children(parent types.EntryName) []types.EntryName
	}

	// ContentReader extracts the tail of a member's content.
	ContentReader interface {
		Tail(ctx context.Context, name types.EntryName, maxLines int) ([]string, error)
	}

	// HandlerContext provides what a builtin needs for one invocation.
	HandlerContext struct {
		// Stdout receives the builtin's output.
		Stdout io.Writer
		// Session is the mutable current path and identity.
		Session *session.State
		// Index lists the archive entries.
		Index EntryIndex
		// Content reads member content on demand.
		Content ContentReader
	}

	handlerContextKey struct{}
)

// WithHandlerContext stores a HandlerContext in the context.
func WithHandlerContext(ctx context.Context, hc *HandlerContext) context.Context {
	return context.WithValue(ctx, handlerContextKey{}, hc)
}

// GetHandlerContext retrieves the HandlerContext from the context.
// It returns an empty HandlerContext writing to io.Discard when none is set.
func GetHandlerContext(ctx context.Context) *HandlerContext {
	if hc, ok := ctx.Value(handlerContextKey{}).(*HandlerContext); ok {
		return hc
	}
	return &HandlerContext{Stdout: io.Discard}
}
