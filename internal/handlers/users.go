package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/services"
	"github.com/inkwell-cms/apiserver/types"
)

// UserHandler provides HTTP handlers for user administration.
type UserHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// UserRouter registers user routes. Listing and deleting are admin only;
// reading and updating are allowed on one's own account.
func UserRouter(r chi.Router, userService *services.UserService, guard *Guard, logger *zap.Logger) {
	handler := NewUserHandler(userService, logger)
	adminOnly := guard.Authorize(types.RoleAdmin)

	r.Use(guard.Authenticate)
	r.With(adminOnly).Get("/", handler.ListUsers)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Put("/", handler.UpdateUser)
		r.With(adminOnly).Delete("/", handler.DeleteUser)
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	user, err := h.userService.Get(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, h.logger, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	var req services.UpdateUserInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Update(r.Context(), actor, chi.URLParam(r, "userID"), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := userFromContext(r.Context())

	if err := h.userService.Delete(r.Context(), actor, chi.URLParam(r, "userID")); err != nil {
		writeServiceError(w, h.logger, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "user deleted successfully"})
}
