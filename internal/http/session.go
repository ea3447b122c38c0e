package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"smartspend/internal/identity"
)

type contextKey string

const userContextKey contextKey = "user"

const sessionCookieName = "smartspend_session"

// sessionToken extracts the session token from the Authorization header or
// the session cookie.
func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// withSession resolves the session once per request and injects the user
// into the context. Requests without a valid session get a 401.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := s.identity.CurrentUser(r.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrNoSession) || errors.Is(err, identity.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, "session expired")
				return
			}
			slog.ErrorContext(r.Context(), "Session lookup failed", "error", err)
			respondError(w, http.StatusBadGateway, "identity service unavailable")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// userFrom returns the authenticated user injected by withSession.
func userFrom(ctx context.Context) identity.User {
	user, _ := ctx.Value(userContextKey).(identity.User)
	return user
}
