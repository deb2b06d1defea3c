// SPDX-License-Identifier: MPL-2.0

// Package emulator assembles one archive shell session: the archive index,
// the session state, the audit log and the interpreter.
package emulator

import (
	"context"
	"io"

	"github.com/archsh/archsh/internal/archive"
	"github.com/archsh/archsh/internal/audit"
	"github.com/archsh/archsh/internal/config"
	"github.com/archsh/archsh/internal/issue"
	"github.com/archsh/archsh/internal/session"
	"github.com/archsh/archsh/internal/shell"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type (
	// Emulator owns one session. It is driven by a single caller at a time.
	Emulator struct {
		id          string
		index       *archive.Index
		state       *session.State
		interpreter *shell.Interpreter
		logger      *log.Logger
	}

	// Option configures an Emulator.
	Option func(*options)

	options struct {
		logger *log.Logger
		clock  audit.Clock
		index  *archive.Index
	}
)

// WithLogger sets the diagnostic logger; the session id is attached to it.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the clock used for audit timestamps.
func WithClock(c audit.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIndex reuses an already loaded index instead of scanning the archive.
// Sessions served over SSH share one index this way.
func WithIndex(idx *archive.Index) Option {
	return func(o *options) { o.index = idx }
}

// New validates cfg, loads the archive index and returns a session positioned
// at the root alias. Configuration and archive failures are fatal.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Emulator, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("start session").
			WithResource(cfg.Source).
			WithIssue(issue.ConfigMissingSettingsId).
			WithSuggestion("Run 'archsh config init' to create a configuration file").
			Wrap(err).
			BuildError()
	}

	idx := o.index
	if idx == nil {
		var err error
		idx, err = LoadIndex(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	logger := o.logger.With("session", id)

	var auditOpts []audit.Option
	if o.clock != nil {
		auditOpts = append(auditOpts, audit.WithClock(o.clock))
	}

	var readerOpts []archive.ReaderOption
	if cfg.Archive.ReadTimeout > 0 {
		readerOpts = append(readerOpts, archive.WithReadTimeout(cfg.Archive.ReadTimeout))
	}
	if cfg.Archive.CacheMembers {
		readerOpts = append(readerOpts, archive.WithMemberCache())
	}

	state := session.New(cfg.Username, cfg.Hostname)
	hc := shell.HandlerContext{
		Session: state,
		Index:   idx,
		Content: archive.NewReader(string(cfg.FilesystemPath), readerOpts...),
	}
	interp := shell.New(hc, audit.New(string(cfg.LogPath), auditOpts...),
		shell.WithLogger(logger),
		shell.WithRawAuditCommands(cfg.Audit.RecordArguments),
	)

	logger.Debug("session started", "user", cfg.Username, "archive", cfg.FilesystemPath, "entries", idx.Len())

	return &Emulator{
		id:          id,
		index:       idx,
		state:       state,
		interpreter: interp,
		logger:      logger,
	}, nil
}

// LoadIndex scans the configured archive, bounded by archive.read_timeout.
func LoadIndex(ctx context.Context, cfg *config.Config) (*archive.Index, error) {
	if cfg.Archive.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Archive.ReadTimeout)
		defer cancel()
	}

	idx, err := archive.Load(ctx, string(cfg.FilesystemPath))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open archive").
			WithResource(string(cfg.FilesystemPath)).
			WithIssue(issue.ArchiveUnreadableId).
			WithSuggestion("Check filesystem_path in your configuration").
			WithSuggestion("Supported formats: tar, tar.gz, tar.zst, zip").
			Wrap(err).
			BuildError()
	}
	return idx, nil
}

// Execute runs one input line.
func (e *Emulator) Execute(ctx context.Context, line string) shell.Result {
	return e.interpreter.Execute(ctx, line)
}

// Prompt returns the "user@host: " echo prefix.
func (e *Emulator) Prompt() string { return e.state.Prompt() }

// Session returns the session state.
func (e *Emulator) Session() *session.State { return e.state }

// Index returns the archive index.
func (e *Emulator) Index() *archive.Index { return e.index }

// ID returns the session id used in diagnostics.
func (e *Emulator) ID() string { return e.id }

// Close ends the session. The audit log is opened per record, so nothing
// is held open.
func (e *Emulator) Close() error {
	e.logger.Debug("session closed", "cwd", e.state.CurrentPath())
	return nil
}
