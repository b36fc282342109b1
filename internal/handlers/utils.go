package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/services"
	"github.com/inkwell-cms/apiserver/internal/storage"
	"github.com/inkwell-cms/apiserver/internal/store"
	"github.com/inkwell-cms/apiserver/types"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

type contextKey string

const contextUserKey contextKey = "user"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// MessageResponse acknowledges a successful delete.
type MessageResponse struct {
	Message string `json:"message"`
}

func withUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

// userFromContext returns the user attached by Guard.Authenticate.
func userFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// writeServiceError maps a service error to its HTTP status. entity names
// the record type in not-found messages.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, entity string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: verr.Message, Field: verr.Field})
	case errors.Is(err, services.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "access forbidden")
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, storage.ErrObjectNotFound),
		errors.Is(err, storage.ErrInvalidKey):
		writeError(w, http.StatusNotFound, entity+" not found")
	default:
		logger.Error("request failed", zap.String("entity", entity), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
