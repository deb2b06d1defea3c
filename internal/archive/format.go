// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/archsh/archsh/pkg/types"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// FormatUnknown means the leading bytes matched no supported container.
	FormatUnknown Format = iota
	// FormatTar is an uncompressed tar stream.
	FormatTar
	// FormatTarGzip is a gzip-compressed tar stream.
	FormatTarGzip
	// FormatTarZstd is a zstd-compressed tar stream.
	FormatTarZstd
	// FormatZip is a zip container.
	FormatZip

	// sniffLen covers one tar header block, enough for every magic below.
	sniffLen = 512
	// tarMagicOffset is where POSIX tar headers carry "ustar".
	tarMagicOffset = 257
)

var (
	gzipMagic     = []byte{0x1f, 0x8b}
	zstdMagic     = []byte{0x28, 0xb5, 0x2f, 0xfd}
	zipMagic      = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
	tarMagic      = []byte("ustar")

	errUnknownFormat = errors.New("unrecognized archive format")
)

type (
	// Format identifies an archive container.
	Format int

	// member is one archive entry as seen during a scan. open is only valid
	// inside the visit callback.
	member struct {
		name types.EntryName
		dir  bool
		open func() (io.ReadCloser, error)
	}

	// visitFunc is called for each member in stored order.
	// Returning false stops the scan.
	visitFunc func(m member) (bool, error)

	ctxReader struct {
		ctx context.Context
		r   io.Reader
	}

	ctxReaderAt struct {
		ctx context.Context
		r   io.ReaderAt
	}
)

// String returns a short name for the format.
func (f Format) String() string {
	switch f {
	case FormatTar:
		return "tar"
	case FormatTarGzip:
		return "tar.gz"
	case FormatTarZstd:
		return "tar.zst"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

// DetectFormat inspects the leading bytes of an archive.
func DetectFormat(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return FormatTarGzip
	case bytes.HasPrefix(header, zstdMagic):
		return FormatTarZstd
	case bytes.HasPrefix(header, zipMagic), bytes.HasPrefix(header, zipEmptyMagic):
		return FormatZip
	case len(header) >= tarMagicOffset+len(tarMagic) &&
		bytes.Equal(header[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic):
		return FormatTar
	case len(header) == sniffLen:
		// Old v7 tar headers have no magic; let the tar reader decide.
		return FormatTar
	default:
		return FormatUnknown
	}
}

// walk opens the archive at path and visits its members in stored order.
// Errors returned by fn are passed through unchanged; everything else is
// reported as an ArchiveUnreadableError.
func walk(ctx context.Context, path string, fn visitFunc) (format Format, err error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, unreadable(path, err)
	}
	defer func() { _ = f.Close() }() // Read-only handle; close error carries no information.

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return FormatUnknown, unreadable(path, err)
	}
	format = DetectFormat(header[:n])
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return format, unreadable(path, err)
	}

	src := ctxReader{ctx: ctx, r: f}
	switch format {
	case FormatTar:
		return format, walkTar(ctx, path, src, fn)
	case FormatTarGzip:
		zr, err := gzip.NewReader(src)
		if err != nil {
			return format, unreadable(path, err)
		}
		defer func() { _ = zr.Close() }()
		return format, walkTar(ctx, path, zr, fn)
	case FormatTarZstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			return format, unreadable(path, err)
		}
		defer zr.Close()
		return format, walkTar(ctx, path, zr, fn)
	case FormatZip:
		info, err := f.Stat()
		if err != nil {
			return format, unreadable(path, err)
		}
		return format, walkZip(ctx, path, ctxReaderAt{ctx: ctx, r: f}, info.Size(), fn)
	default:
		return format, unreadable(path, errUnknownFormat)
	}
}

func walkTar(ctx context.Context, path string, r io.Reader, fn visitFunc) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return unreadable(path, err)
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return unreadable(path, err)
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		name := types.NormalizeEntryName(hdr.Name)
		if name.Validate() != nil {
			continue
		}
		cont, err := fn(member{
			name: name,
			dir:  hdr.Typeflag == tar.TypeDir,
			open: func() (io.ReadCloser, error) { return io.NopCloser(tr), nil },
		})
		if err != nil || !cont {
			return err
		}
	}
}

func walkZip(ctx context.Context, path string, r io.ReaderAt, size int64, fn visitFunc) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return unreadable(path, err)
	}
	for _, zf := range zr.File {
		if err := ctx.Err(); err != nil {
			return unreadable(path, err)
		}
		name := types.NormalizeEntryName(zf.Name)
		if name.Validate() != nil {
			continue
		}
		cont, err := fn(member{
			name: name,
			dir:  zf.FileInfo().IsDir(),
			open: zf.Open,
		})
		if err != nil || !cont {
			return err
		}
	}
	return nil
}

// Read fails once the context is done so a bounded scan stops mid-member.
func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// ReadAt fails once the context is done.
func (c ctxReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.ReadAt(p, off)
}
