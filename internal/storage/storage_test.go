package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/apiserver/config"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newLocalStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := Open(context.Background(), config.Config{
		StorageBackend: config.StorageLocal,
		Uploads:        config.UploadsConfig{Dir: dir},
	})
	require.NoError(t, err)
	return s, dir
}

func TestLocalDisk_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocalStorage(t)

	require.NoError(t, s.Put(ctx, "pic.png", strings.NewReader(string(pngHeader)), int64(len(pngHeader)), "image/png"))
	_, err := os.Stat(filepath.Join(dir, "pic.png"))
	require.NoError(t, err)

	obj, err := s.Get(ctx, "pic.png")
	require.NoError(t, err)
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, int64(len(pngHeader)), obj.Size)

	require.NoError(t, s.Delete(ctx, "pic.png"))
	_, err = s.Get(ctx, "pic.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "pic.png"), ErrObjectNotFound)
}

func TestLocalDisk_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocalStorage(t)

	require.NoError(t, s.Put(ctx, "a.txt", strings.NewReader("hello"), 5, "text/plain"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())
}

func TestStorage_RejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocalStorage(t)

	for _, key := range []string{"", ".", "..", "../escape.txt", "nested/file.txt", `win\file.txt`} {
		t.Run(key, func(t *testing.T) {
			err := s.Put(ctx, key, strings.NewReader("x"), 1, "text/plain")
			assert.ErrorIs(t, err, ErrInvalidKey)
			_, err = s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidKey)
			assert.ErrorIs(t, s.Delete(ctx, key), ErrInvalidKey)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StorageBackend: "ftp"})
	assert.Error(t, err)
}
