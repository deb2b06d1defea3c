// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

type (
	// Command is one parsed input line.
	Command struct {
		Action string
		Args   []string
	}

	// Result is the outcome of one Execute call. Output is always the text
	// to display; Err keeps the typed failure, if any.
	Result struct {
		Output string
		Exit   bool
		Err    error
	}

	// Auditor records executed commands.
	Auditor interface {
		Record(user, command string) error
	}

	// Interpreter dispatches input lines to builtins. It is driven by one
	// caller at a time.
	Interpreter struct {
		hc        HandlerContext
		auditor   Auditor
		registry  *Registry
		logger    *log.Logger
		recordRaw bool
	}

	// Option configures an Interpreter.
	Option func(*Interpreter)
)

// WithRegistry replaces DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(in *Interpreter) { in.registry = r }
}

// WithLogger sets the diagnostic logger. Audit failures are reported here.
func WithLogger(l *log.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithRawAuditCommands records the full input line in the audit log instead
// of the action name.
func WithRawAuditCommands(raw bool) Option {
	return func(in *Interpreter) { in.recordRaw = raw }
}

// New returns an Interpreter over hc. hc.Stdout is ignored; output is
// collected per call.
func New(hc HandlerContext, auditor Auditor, opts ...Option) *Interpreter {
	in := &Interpreter{
		hc:       hc,
		auditor:  auditor,
		registry: DefaultRegistry,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Parse splits line on whitespace. A blank line yields ErrUnknownCommand.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, &UnknownCommandError{}
	}
	return Command{Action: fields[0], Args: fields[1:]}, nil
}

// Execute runs one input line and never fails: errors are rendered into
// Result.Output.
func (in *Interpreter) Execute(ctx context.Context, line string) Result {
	cmd, err := Parse(line)
	if err != nil {
		return failed(err)
	}
	b, ok := in.registry.Lookup(cmd.Action)
	if !ok {
		in.logger.Debug("unknown command", "action", cmd.Action)
		return failed(&UnknownCommandError{Action: cmd.Action})
	}

	if _, quiet := b.(unaudited); !quiet {
		in.audit(cmd, line)
	}

	var out strings.Builder
	hc := in.hc
	hc.Stdout = &out
	argv := append([]string{cmd.Action}, cmd.Args...)
	err = b.Run(WithHandlerContext(ctx, &hc), argv)

	switch {
	case errors.Is(err, ErrExit):
		in.logger.Debug("exit requested")
		return Result{Exit: true}
	case err != nil:
		in.logger.Debug("command failed", "action", cmd.Action, "error", err)
		return failed(err)
	}
	in.logger.Debug("command ok", "action", cmd.Action, "cwd", in.hc.Session.CurrentPath())
	return Result{Output: out.String()}
}

// Prompt returns the "user@host: " echo prefix.
func (in *Interpreter) Prompt() string { return in.hc.Session.Prompt() }

// Registry returns the builtins this interpreter dispatches to.
func (in *Interpreter) Registry() *Registry { return in.registry }

func (in *Interpreter) audit(cmd Command, line string) {
	if in.auditor == nil {
		return
	}
	entry := cmd.Action
	if in.recordRaw {
		entry = line
	}
	if err := in.auditor.Record(in.hc.Session.Username(), entry); err != nil {
		in.logger.Warn("audit record dropped", "action", cmd.Action, "error", err)
	}
}

func failed(err error) Result {
	return Result{Output: err.Error(), Err: err}
}
