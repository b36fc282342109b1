package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/services"
	"github.com/inkwell-cms/apiserver/types"
)

// AuthHandler provides registration, login and the current-user endpoint.
type AuthHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, logger: logger}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, guard *Guard, logger *zap.Logger) {
	handler := NewAuthHandler(userService, logger)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(guard.Authenticate).Get("/me", handler.Me)
}

// Register creates a viewer account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "user")
		return
	}

	h.logger.Info("user registered", zap.String("user_id", user.ID))
	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a signed token with the user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginInput
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.userService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "user")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}
