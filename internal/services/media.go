package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/metrics"
	"github.com/inkwell-cms/apiserver/internal/policy"
	"github.com/inkwell-cms/apiserver/internal/storage"
	"github.com/inkwell-cms/apiserver/types"
)

// DefaultMaxUploadBytes caps a single upload at 10 MiB.
const DefaultMaxUploadBytes = 10 << 20

// UploadPathPrefix is the public URL prefix under which stored media is
// served.
const UploadPathPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".pdf": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".txt": true,
}

var allowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"text/plain",
	// Legacy Office formats are often sniffed as a bare OLE container.
	"application/x-ole-storage",
}

// MediaRepository defines persistence operations for media records.
type MediaRepository interface {
	List(ctx context.Context) ([]types.Media, error)
	Get(ctx context.Context, id string) (types.Media, error)
	Create(ctx context.Context, media types.Media) (types.Media, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStore holds the bytes behind media records.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// Upload is a file received from a client.
type Upload struct {
	// Name is the client-supplied file name.
	Name string
	// DeclaredType is the Content-Type of the multipart part, if any.
	DeclaredType string
	Size         int64
	Body         io.ReadSeeker
}

// MediaService encapsulates media use-cases.
type MediaService struct {
	repo     MediaRepository
	objects  ObjectStore
	maxBytes int64
	logger   *zap.Logger
	policy   policy.Evaluator
	now      func() time.Time
}

func NewMediaService(repo MediaRepository, objects ObjectStore, maxBytes int64, logger *zap.Logger) *MediaService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{
		repo:     repo,
		objects:  objects,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// MaxBytes returns the upload size limit.
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

func (s *MediaService) List(ctx context.Context) ([]types.Media, error) {
	return s.repo.List(ctx)
}

// Upload validates the file, stores it and records it as uploaded by actor.
// Nothing is stored for a rejected file. If the record cannot be written the
// stored object is left in place.
func (s *MediaService) Upload(ctx context.Context, actor types.User, up Upload) (types.Media, error) {
	if up.Size > s.maxBytes {
		return types.Media{}, invalid("file", fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	ext := strings.ToLower(filepath.Ext(up.Name))
	if !allowedExtensions[ext] {
		return types.Media{}, invalidFileType()
	}

	mimeType, err := s.acceptedType(up)
	if err != nil {
		return types.Media{}, err
	}

	filename := s.storedName(ext)
	if err := s.objects.Put(ctx, filename, up.Body, up.Size, mimeType); err != nil {
		return types.Media{}, fmt.Errorf("store %s: %w", filename, err)
	}

	media, err := s.repo.Create(ctx, types.Media{
		Name:       filepath.Base(up.Name),
		Filename:   filename,
		Path:       UploadPathPrefix + filename,
		MimeType:   mimeType,
		Size:       up.Size,
		UploadedBy: actor.ID,
	})
	if err != nil {
		s.logger.Error("media record not created, stored object orphaned",
			zap.String("filename", filename), zap.Error(err))
		return types.Media{}, err
	}

	metrics.MediaBytesUploadedTotal.Add(float64(up.Size))
	return media, nil
}

// Delete removes the media record and its stored object. Only the uploader
// or an admin may delete.
func (s *MediaService) Delete(ctx context.Context, actor types.User, id string) error {
	media, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	res := policy.Resource{Kind: policy.KindMedia, ID: media.ID, OwnerID: media.UploadedBy}
	if !s.policy.Can(actor, res, policy.ActionDelete) {
		return ErrForbidden
	}

	if err := s.objects.Delete(ctx, media.Filename); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete object %s: %w", media.Filename, err)
	}
	return s.repo.Delete(ctx, id)
}

// Open returns the stored object for a public filename.
func (s *MediaService) Open(ctx context.Context, filename string) (*storage.Object, error) {
	return s.objects.Get(ctx, filename)
}

// acceptedType sniffs the content and checks both it and the declared type
// against the allowlist. The declared type wins when it is allowed.
func (s *MediaService) acceptedType(up Upload) (string, error) {
	sniffed, err := mimetype.DetectReader(up.Body)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if _, err := up.Body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	if !allowedMime(sniffed) {
		return "", invalidFileType()
	}

	declared := strings.TrimSpace(up.DeclaredType)
	if declared == "" || declared == "application/octet-stream" {
		return sniffed.String(), nil
	}
	if !allowedDeclared(declared) {
		return "", invalidFileType()
	}
	return declared, nil
}

func allowedMime(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		for _, allowed := range allowedMimeTypes {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

func allowedDeclared(declared string) bool {
	base, _, _ := strings.Cut(declared, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	for _, allowed := range allowedMimeTypes {
		if base == allowed {
			return true
		}
	}
	return false
}

// storedName returns "<unix millis>-<9 random digits><ext>".
func (s *MediaService) storedName(ext string) string {
	return fmt.Sprintf("%d-%09d%s", s.now().UnixMilli(), rand.IntN(1_000_000_000), ext)
}

func invalidFileType() error {
	return invalid("file", "invalid file type, only images, PDFs and office documents are allowed")
}
