// SPDX-License-Identifier: MPL-2.0

// Package audit appends one JSON record per executed command to an
// append-only log file and reads records back for the operator CLI.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// TimestampLayout is ISO-8601 with microseconds and a zone offset.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// ErrLogWrite is the sentinel error wrapped by LogWriteError.
var ErrLogWrite = errors.New("audit log write failed")

type (
	// Record is one line of the audit log.
	Record struct {
		Timestamp string `json:"timestamp"`
		User      string `json:"user"`
		Command   string `json:"command"`
	}

	// Clock supplies record timestamps.
	Clock interface {
		Now() time.Time
	}

	// Log appends records to a file. Each record is written with a single
	// write on a handle opened with O_APPEND, so concurrent writers in other
	// processes never interleave within a line.
	Log struct {
		path  string
		clock Clock
		mu    sync.Mutex
		last  time.Time
	}

	// Option configures a Log.
	Option func(*Log)

	// LogWriteError is returned when a record cannot be persisted.
	LogWriteError struct {
		Path string
		Err  error
	}

	systemClock struct{}
)

// WithClock replaces the wall clock used for timestamps.
func WithClock(c Clock) Option {
	return func(l *Log) { l.clock = c }
}

// New returns a Log writing to path. The file is created on first write.
func New(path string, opts ...Option) *Log {
	l := &Log{path: path, clock: systemClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the log file path.
func (l *Log) Path() string { return l.path }

// Record appends one record for user and command. Timestamps never go
// backwards within one Log even if the clock does.
func (l *Log) Record(user, command string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Before(l.last) {
		now = l.last
	}
	l.last = now

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	rec := Record{Timestamp: now.Format(TimestampLayout), User: user, Command: command}
	if err := enc.Encode(rec); err != nil {
		return &LogWriteError{Path: l.path, Err: err}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &LogWriteError{Path: l.path, Err: err}
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return &LogWriteError{Path: l.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &LogWriteError{Path: l.path, Err: err}
	}
	return nil
}

// ReadLast returns up to n of the most recent records in path, oldest first.
// A missing file yields no records.
func ReadLast(path string, n int) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		out = append(out, rec)
		if n > 0 && len(out) > n {
			out = out[1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Error implements the error interface for LogWriteError.
func (e *LogWriteError) Error() string {
	return fmt.Sprintf("cannot write audit log %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrLogWrite and the underlying cause.
func (e *LogWriteError) Unwrap() []error { return []error{ErrLogWrite, e.Err} }

func (systemClock) Now() time.Time { return time.Now() }
