package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/apiserver/internal/storage"
	"github.com/inkwell-cms/apiserver/internal/store"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func upload(name, declared string, data []byte) Upload {
	return Upload{Name: name, DeclaredType: declared, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func TestMediaService_UploadAndOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	media, err := f.media.Upload(ctx, f.viewer, upload("photo.PNG", "image/png", pngBytes))
	require.NoError(t, err)

	assert.Equal(t, "photo.PNG", media.Name)
	assert.Regexp(t, `^\d+-\d{9}\.png$`, media.Filename)
	assert.Equal(t, "/uploads/"+media.Filename, media.Path)
	assert.Equal(t, "image/png", media.MimeType)
	assert.Equal(t, int64(len(pngBytes)), media.Size)
	assert.Equal(t, f.viewer.ID, media.UploadedBy)

	obj, err := f.media.Open(ctx, media.Filename)
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestMediaService_SniffsWhenUndeclared(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	media, err := f.media.Upload(ctx, f.viewer, upload("notes.txt", "", []byte("plain text notes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(media.MimeType, "text/plain"))
}

func TestMediaService_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name string
		up   Upload
	}{
		{"executable extension", upload("setup.exe", "application/x-msdownload", []byte("MZ\x90\x00"))},
		{"disallowed declared type", upload("page.txt", "text/html", []byte("<html></html>"))},
		{"content does not match", upload("fake.png", "image/png", []byte("MZ\x90\x00\x03\x00\x00\x00\x04\x00\x00\x00\xff\xff"))},
		{"too large", upload("big.txt", "text/plain", bytes.Repeat([]byte("a"), 2048))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.media.Upload(ctx, f.viewer, tt.up)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "file", verr.Field)
		})
	}

	items, err := f.media.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMediaService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	media, err := f.media.Upload(ctx, f.editor, upload("a.png", "image/png", pngBytes))
	require.NoError(t, err)

	assert.ErrorIs(t, f.media.Delete(ctx, f.editor2, media.ID), ErrForbidden)
	assert.ErrorIs(t, f.media.Delete(ctx, f.editor, "missing"), store.ErrNotFound)

	require.NoError(t, f.media.Delete(ctx, f.editor, media.ID))
	_, err = f.media.Open(ctx, media.Filename)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	// A record whose object is already gone can still be deleted.
	orphan, err := f.media.Upload(ctx, f.editor, upload("b.png", "image/png", pngBytes))
	require.NoError(t, err)
	require.NoError(t, f.objects.Delete(ctx, orphan.Filename))
	require.NoError(t, f.media.Delete(ctx, f.admin, orphan.ID))

	items, err := f.media.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
