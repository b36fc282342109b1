package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/services"
	"github.com/inkwell-cms/apiserver/types"
)

// CategoryHandler provides HTTP handlers for categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *services.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, logger: logger}
}

// CategoryRouter registers category routes. Reads are public; writes are
// admin only.
func CategoryRouter(r chi.Router, categoryService *services.CategoryService, guard *Guard, logger *zap.Logger) {
	handler := NewCategoryHandler(categoryService, logger)
	admin := []func(http.Handler) http.Handler{guard.Authenticate, guard.Authorize(types.RoleAdmin)}

	r.Get("/", handler.ListCategories)
	r.With(admin...).Post("/", handler.CreateCategory)
	r.Route("/{categoryID}", func(r chi.Router) {
		r.Get("/", handler.GetCategory)
		r.With(admin...).Put("/", handler.UpdateCategory)
		r.With(admin...).Delete("/", handler.DeleteCategory)
	})
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.categoryService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.Get(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		writeServiceError(w, h.logger, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	var req services.CategoryInput
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.categoryService.Create(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "category")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	var req services.CategoryInput
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.categoryService.Update(r.Context(), actor, chi.URLParam(r, "categoryID"), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	if err := h.categoryService.Delete(r.Context(), actor, chi.URLParam(r, "categoryID")); err != nil {
		writeServiceError(w, h.logger, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "category deleted successfully"})
}
