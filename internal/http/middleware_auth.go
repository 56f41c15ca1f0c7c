package httpserver

import (
	"errors"
	"net/http"

	"migration_drift_checker/internal/auth"
	"migration_drift_checker/internal/logging"
)

type AuthMiddleware struct {
	verifier auth.TokenVerifier
	logger   logging.Logger
}

// NewAuthMiddleware returns a middleware that checks bearer tokens with
// verifier. A nil verifier lets every request through.
func NewAuthMiddleware(verifier auth.TokenVerifier, logger logging.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

func (m *AuthMiddleware) RequireToken(next http.Handler) http.Handler {
	if m.verifier == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r)
		if !ok {
			m.deny(w, r, "missing_token", nil)
			return
		}
		claims, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			m.deny(w, r, "invalid_token", err)
			return
		}
		ctx := auth.WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) deny(w http.ResponseWriter, r *http.Request, reason string, err error) {
	args := []any{"path", r.URL.Path, "method", r.Method, "reason", reason}
	if err != nil {
		args = append(args, "error", err)
	}
	if err != nil && !errors.Is(err, auth.ErrUnauthorized) {
		m.logger.Error("token verification failed", args...)
	} else {
		m.logger.Warn("access denied", args...)
	}
	writeError(w, http.StatusUnauthorized, "unauthorized", "valid bearer token required")
}
