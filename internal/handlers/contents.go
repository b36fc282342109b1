package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/services"
	"github.com/inkwell-cms/apiserver/internal/store"
	"github.com/inkwell-cms/apiserver/types"
)

// ContentHandler provides HTTP handlers for content articles.
type ContentHandler struct {
	contentService *services.ContentService
	logger         *zap.Logger
}

func NewContentHandler(contentService *services.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{contentService: contentService, logger: logger}
}

// ContentRouter registers content routes. Reads are public; writes need an
// admin or editor, and the service checks ownership.
func ContentRouter(r chi.Router, contentService *services.ContentService, guard *Guard, logger *zap.Logger) {
	handler := NewContentHandler(contentService, logger)
	writers := []func(http.Handler) http.Handler{
		guard.Authenticate,
		guard.Authorize(types.RoleAdmin, types.RoleEditor),
	}

	r.Get("/", handler.ListContents)
	r.With(writers...).Post("/", handler.CreateContent)
	r.Route("/{contentID}", func(r chi.Router) {
		r.Get("/", handler.GetContent)
		r.With(writers...).Put("/", handler.UpdateContent)
		r.With(writers...).Put("/publish", handler.PublishContent)
		r.With(writers...).Delete("/", handler.DeleteContent)
	})
}

func (h *ContentHandler) ListContents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.contentService.List(r.Context(), store.ContentFilter{
		Status:     q.Get("status"),
		CategoryID: q.Get("categoryId"),
		AuthorID:   q.Get("authorId"),
		Search:     q.Get("search"),
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "content")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.contentService.Get(r.Context(), chi.URLParam(r, "contentID"))
	if err != nil {
		writeServiceError(w, h.logger, err, "content")
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	var req services.CreateContentInput
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.contentService.Create(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "content")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	var req services.UpdateContentInput
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.contentService.Update(r.Context(), actor, chi.URLParam(r, "contentID"), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "content")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ContentHandler) PublishContent(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	published, err := h.contentService.Publish(r.Context(), actor, chi.URLParam(r, "contentID"))
	if err != nil {
		writeServiceError(w, h.logger, err, "content")
		return
	}
	writeJSON(w, http.StatusOK, published)
}

func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	if err := h.contentService.Delete(r.Context(), actor, chi.URLParam(r, "contentID")); err != nil {
		writeServiceError(w, h.logger, err, "content")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "content deleted successfully"})
}
