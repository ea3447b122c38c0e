package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"smartspend/internal/identity"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleRegister creates the account, opens a session, and seeds the
// profile row.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "email, password and name are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	user, err := s.identity.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, identity.ErrUserExists) {
			respondError(w, http.StatusConflict, "account already exists")
			return
		}
		slog.ErrorContext(ctx, "Registration failed", "error", err)
		respondServiceError(w, err)
		return
	}

	session, err := s.identity.CreateEmailSession(ctx, req.Email, req.Password)
	if err != nil {
		slog.ErrorContext(ctx, "Session creation after registration failed", "error", err)
		respondServiceError(w, err)
		return
	}

	if _, err := s.svc.Profiles.CreateForUser(ctx, user.ID, req.Name, req.Email); err != nil {
		// The account exists either way; the profile row can be recreated.
		slog.ErrorContext(ctx, "Profile creation failed", "user_id", user.ID, "error", err)
	}

	s.setSessionCookie(w, session)
	respondJSON(w, http.StatusCreated, sessionResponse{
		Token:     session.Token,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresAt: session.ExpiresAt,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	session, err := s.identity.CreateEmailSession(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.ErrorContext(ctx, "Login failed", "error", err)
		respondServiceError(w, err)
		return
	}

	user, err := s.identity.CurrentUser(ctx, session.Token)
	if err != nil {
		slog.ErrorContext(ctx, "User lookup after login failed", "error", err)
		respondServiceError(w, err)
		return
	}

	s.setSessionCookie(w, session)
	respondJSON(w, http.StatusOK, sessionResponse{
		Token:     session.Token,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresAt: session.ExpiresAt,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.identity.DeleteSession(ctx, sessionToken(r)); err != nil {
		slog.WarnContext(ctx, "Session deletion failed", "error", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusNoContent, nil)
}

// handleRecovery starts a password recovery flow. The response is the same
// whether or not the account exists.
func (s *Server) handleRecovery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.identity.CreateRecovery(ctx, req.Email, s.recoveryURL); err != nil {
		slog.WarnContext(ctx, "Recovery request failed", "error", err)
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "recovery email sent if the account exists"})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session identity.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
