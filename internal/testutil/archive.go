// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// ArchiveTar is an uncompressed tar stream.
	ArchiveTar ArchiveKind = "tar"
	// ArchiveTarGzip is a gzip-compressed tar stream.
	ArchiveTarGzip ArchiveKind = "tar.gz"
	// ArchiveTarZstd is a zstd-compressed tar stream.
	ArchiveTarZstd ArchiveKind = "tar.zst"
	// ArchiveZip is a zip container.
	ArchiveZip ArchiveKind = "zip"
)

type (
	// ArchiveKind selects the container written by WriteArchive.
	ArchiveKind string

	// ArchiveFile is one member written into a test archive.
	// Members ending in "/" or with Dir set are written as directories.
	ArchiveFile struct {
		Name string
		Body string
		Dir  bool
	}
)

// modTime keeps generated archives byte-stable between runs.
var modTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// SampleTree is the layout used across packages: two files at the root alias,
// one nested directory, and a file with more than ten lines.
func SampleTree() []ArchiveFile {
	var long strings.Builder
	for i := 1; i <= 15; i++ {
		fmt.Fprintf(&long, "line %d\n", i)
	}
	return []ArchiveFile{
		{Name: "Home", Dir: true},
		{Name: "Home/a.txt", Body: "Line 1\nLine 2\nLine 3\n"},
		{Name: "Home/b.txt", Body: "b\n"},
		{Name: "Home/sub", Dir: true},
		{Name: "Home/sub/c.txt", Body: "c\n"},
		{Name: "Home/long.txt", Body: long.String()},
	}
}

// WriteArchive writes files into a new archive at path using the given kind.
func WriteArchive(path string, kind ArchiveKind, files []ArchiveFile) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	switch kind {
	case ArchiveTar:
		return writeTar(f, files)
	case ArchiveTarGzip:
		zw := gzip.NewWriter(f)
		if err := writeTar(zw, files); err != nil {
			return err
		}
		return zw.Close()
	case ArchiveTarZstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		if err := writeTar(zw, files); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	case ArchiveZip:
		return writeZip(f, files)
	default:
		return fmt.Errorf("unsupported archive kind %q", kind)
	}
}

// MustWriteArchive writes an archive into a fresh temp dir and returns its path.
func MustWriteArchive(t testing.TB, kind ArchiveKind, files []ArchiveFile) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fs."+string(kind))
	if err := WriteArchive(path, kind, files); err != nil {
		t.Fatalf("failed to write %s archive: %v", kind, err)
	}
	return path
}

// ArchiveFromDir collects the files under root as archive members named
// relative to root, in lexical walk order.
func ArchiveFromDir(root string) ([]ArchiveFile, error) {
	var files []ArchiveFile
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			files = append(files, ArchiveFile{Name: rel, Dir: true})
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, ArchiveFile{Name: rel, Body: string(data)})
		return nil
	})
	return files, err
}

func (f ArchiveFile) isDir() bool {
	return f.Dir || strings.HasSuffix(f.Name, "/")
}

func writeTar(w io.Writer, files []ArchiveFile) error {
	tw := tar.NewWriter(w)
	for _, file := range files {
		hdr := &tar.Header{Name: file.Name, Mode: 0o644, ModTime: modTime}
		if file.isDir() {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
			hdr.Name = strings.TrimSuffix(file.Name, "/") + "/"
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(file.Body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !file.isDir() {
			if _, err := io.WriteString(tw, file.Body); err != nil {
				return err
			}
		}
	}
	return tw.Close()
}

func writeZip(w io.Writer, files []ArchiveFile) error {
	zw := zip.NewWriter(w)
	for _, file := range files {
		name, method := file.Name, zip.Deflate
		if file.isDir() {
			name, method = strings.TrimSuffix(name, "/")+"/", zip.Store
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method, Modified: modTime})
		if err != nil {
			return err
		}
		if !file.isDir() {
			if _, err := io.WriteString(fw, file.Body); err != nil {
				return err
			}
		}
	}
	return zw.Close()
}
