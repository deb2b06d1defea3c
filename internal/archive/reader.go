// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/archsh/archsh/pkg/types"
)

const (
	// DefaultTailLines is the number of lines Tail returns when asked for
	// zero or fewer.
	DefaultTailLines = 10

	// maxCachedMemberSize bounds what WithMemberCache keeps in memory.
	maxCachedMemberSize = 1 << 20
)

type (
	// Reader extracts member content from an archive on demand. Every call
	// rescans the archive unless WithMemberCache is set.
	Reader struct {
		path    string
		timeout time.Duration
		cache   *memberCache
	}

	// ReaderOption configures a Reader.
	ReaderOption func(*Reader)

	memberCache struct {
		mu   sync.Mutex
		data map[types.EntryName][]byte
	}
)

// WithReadTimeout bounds each read operation. Zero disables the bound.
func WithReadTimeout(d time.Duration) ReaderOption {
	return func(r *Reader) { r.timeout = d }
}

// WithMemberCache keeps the bytes of members up to 1 MiB after their first read.
func WithMemberCache() ReaderOption {
	return func(r *Reader) {
		r.cache = &memberCache{data: make(map[types.EntryName][]byte)}
	}
}

// NewReader returns a Reader for the archive at path.
func NewReader(path string, opts ...ReaderOption) *Reader {
	r := &Reader{path: path}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the archive path.
func (r *Reader) Path() string { return r.path }

// Tail returns at most the last maxLines lines of the member named exactly
// name. Each line keeps its terminating "\n"; the final line may lack one.
// Directory members have no content and yield no lines.
func (r *Reader) Tail(ctx context.Context, name types.EntryName, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		maxLines = DefaultTailLines
	}
	if data, ok := r.cache.get(name); ok {
		return tailLines(name, bytes.NewReader(data), maxLines)
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	// A member name may repeat; the last copy wins, as on extraction.
	var (
		lines     []string
		content   []byte
		decodeErr error
		found     bool
	)
	_, err := walk(ctx, r.path, func(m member) (bool, error) {
		if m.name != name {
			return true, nil
		}
		found = true
		lines, content, decodeErr = nil, nil, nil
		if m.dir {
			return true, nil
		}
		rc, err := m.open()
		if err != nil {
			return false, unreadable(r.path, err)
		}
		defer func() { _ = rc.Close() }()

		var src io.Reader = rc
		if r.cache != nil {
			data, err := io.ReadAll(rc)
			if err != nil {
				return false, unreadable(r.path, err)
			}
			content = data
			src = bytes.NewReader(data)
		}

		lines, err = tailLines(name, src, maxLines)
		switch {
		case errors.Is(err, ErrDecode):
			decodeErr = err
		case err != nil:
			return false, unreadable(r.path, err)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &MemberNotFoundError{Name: string(name)}
	}
	r.cache.put(name, content)
	if decodeErr != nil {
		return nil, decodeErr
	}
	return lines, nil
}

func (r *Reader) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// tailLines keeps the last n lines of src in a ring buffer, validating UTF-8
// as it goes.
func tailLines(name types.EntryName, src io.Reader, n int) ([]string, error) {
	br := bufio.NewReader(src)
	ring := make([]string, n)
	next, count := 0, 0
	var offset int64

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if bad := invalidUTF8At(line); bad >= 0 {
				return nil, &DecodeError{Name: string(name), Offset: offset + int64(bad)}
			}
			offset += int64(len(line))
			ring[next] = line
			next = (next + 1) % n
			count++
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if count < n {
		return ring[:count], nil
	}
	out := make([]string, 0, n)
	for i := range n {
		out = append(out, ring[(next+i)%n])
	}
	return out, nil
}

// invalidUTF8At returns the byte index of the first invalid sequence in s, or -1.
func invalidUTF8At(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func (c *memberCache) get(name types.EntryName) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[name]
	return data, ok
}

func (c *memberCache) put(name types.EntryName, data []byte) {
	if c == nil || len(data) > maxCachedMemberSize {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[name] = data
}
