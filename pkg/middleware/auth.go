package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"deskly/pkg/logger"
	"deskly/pkg/sealer"
)

const UserIDKey contextKey = "user_id"

// UserIDFrom returns the authenticated user id injected by Auth, or "".
func UserIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// Auth requires a valid Bearer session token on every request and places
// the authenticated user id in the request context. Downstream services
// trust this value; no further authentication happens past this point.
func Auth(s *sealer.Sealer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				rejectUnauthorized(w, log, r, "missing bearer token")
				return
			}

			userID, expiresAt, err := s.OpenSession(token)
			if err != nil {
				rejectUnauthorized(w, log, r, "invalid session token")
				return
			}
			if time.Now().After(expiresAt) {
				rejectUnauthorized(w, log, r, "expired session token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthOptional injects the user id when a valid, unexpired token is present
// but lets anonymous requests through. Handlers that need a caller identity
// check for it themselves. Used by services with a mix of public and
// authenticated routes.
func AuthOptional(s *sealer.Sealer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, expiresAt, err := s.OpenSession(token)
			if err != nil || time.Now().After(expiresAt) {
				rejectUnauthorized(w, log, r, "invalid or expired session token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Unauthorized request",
		"request_id", requestIDFrom(r.Context()),
		"path", r.URL.Path,
		"method", r.Method,
		"reason", reason,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
}
