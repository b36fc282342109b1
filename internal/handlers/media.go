package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/services"
	"github.com/inkwell-cms/apiserver/types"
)

const (
	formFieldFile = "file"
	// multipartOverhead allows for part headers and boundaries on top of
	// the file size limit.
	multipartOverhead  = 1 << 20
	maxMultipartMemory = 32 << 20
)

// MediaHandler provides HTTP handlers for media uploads.
type MediaHandler struct {
	mediaService *services.MediaService
	logger       *zap.Logger
}

func NewMediaHandler(mediaService *services.MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, logger: logger}
}

// MediaRouter registers media routes. Any authenticated user may list and
// upload; deleting needs an admin or editor, and the service checks
// ownership.
func MediaRouter(r chi.Router, mediaService *services.MediaService, guard *Guard, logger *zap.Logger) {
	handler := NewMediaHandler(mediaService, logger)

	r.Use(guard.Authenticate)
	r.Get("/", handler.ListMedia)
	r.Post("/", handler.UploadMedia)
	r.With(guard.Authorize(types.RoleAdmin, types.RoleEditor)).Delete("/{mediaID}", handler.DeleteMedia)
}

func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.mediaService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "media")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.mediaService.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "file too large", Field: formFieldFile})
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(formFieldFile)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "no file uploaded", Field: formFieldFile})
		return
	}
	defer file.Close()

	media, err := h.mediaService.Upload(r.Context(), actor, services.Upload{
		Name:         header.Filename,
		DeclaredType: header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "media")
		return
	}

	h.logger.Info("media uploaded",
		zap.String("media_id", media.ID),
		zap.String("filename", media.Filename),
		zap.Int64("size", media.Size),
	)
	writeJSON(w, http.StatusCreated, media)
}

func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	if err := h.mediaService.Delete(r.Context(), actor, chi.URLParam(r, "mediaID")); err != nil {
		writeServiceError(w, h.logger, err, "media")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "media deleted successfully"})
}

// UploadsRouter serves stored media bytes at /{filename}.
func UploadsRouter(r chi.Router, mediaService *services.MediaService, logger *zap.Logger) {
	handler := NewMediaHandler(mediaService, logger)
	r.Get("/{filename}", handler.ServeUpload)
}

func (h *MediaHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	obj, err := h.mediaService.Open(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		writeServiceError(w, h.logger, err, "file")
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("serve upload", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
