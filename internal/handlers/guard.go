package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/metrics"
	"github.com/inkwell-cms/apiserver/internal/services"
)

// Guard authenticates bearer tokens and gates routes by role.
type Guard struct {
	users  *services.UserService
	logger *zap.Logger
}

func NewGuard(users *services.UserService, logger *zap.Logger) *Guard {
	return &Guard{users: users, logger: logger}
}

// Authenticate resolves the bearer token to a user and attaches it to the
// request context. Requests without a valid token for an existing user are
// rejected with 401.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := g.users.Authenticate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				g.logger.Error("authenticate", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "authentication error")
				return
			}
			metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// Authorize admits authenticated users whose role is in roles. An empty
// role list admits any authenticated user.
func (g *Guard) Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromContext(r.Context())
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, user.Role) {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden_role").Inc()
				writeError(w, http.StatusForbidden, "access forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
