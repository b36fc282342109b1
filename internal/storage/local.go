package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// LocalDisk stores objects as files in a single directory.
type LocalDisk struct {
	dir string
}

// NewLocalDisk returns a backend rooted at dir.
func NewLocalDisk(dir string) (*LocalDisk, error) {
	if dir == "" {
		return nil, errors.New("uploads directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &LocalDisk{dir: abs}, nil
}

// EnsureBucket creates the uploads directory if needed.
func (l *LocalDisk) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(l.dir, 0o755)
}

// Put writes the object to a temporary file and renames it into place, so
// readers never observe a partial file.
func (l *LocalDisk) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(l.dir, key))
}

// Get opens the file for key. The content type is sniffed from the file
// contents since the directory keeps no metadata.
func (l *LocalDisk) Get(ctx context.Context, key string) (*Object, error) {
	p := filepath.Join(l.dir, key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	mtype, err := mimetype.DetectFile(p)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Object{Body: f, ContentType: mtype.String(), Size: info.Size()}, nil
}

// Delete removes the file for key.
func (l *LocalDisk) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrObjectNotFound
	}
	return err
}

// Bucket returns the uploads directory.
func (l *LocalDisk) Bucket() string {
	return l.dir
}
