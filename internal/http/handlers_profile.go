package http

import (
	"context"
	"log/slog"
	"net/http"
)

type profileView struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// handleProfile serves the profile row and its updates. A name change is
// propagated to the identity account as well.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		p, err := s.svc.Profiles.Get(ctx, user.ID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, profileView{
			ID:             p.ID,
			Username:       p.Username,
			Email:          p.Email,
			ProfilePicture: p.ProfilePicture,
		})

	case http.MethodPut:
		var req struct {
			Username       string `json:"username"`
			ProfilePicture string `json:"profilePicture"`
			OldPassword    string `json:"oldPassword"`
			NewPassword    string `json:"newPassword"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		if req.NewPassword != "" {
			if err := s.identity.UpdatePassword(ctx, sessionToken(r), req.OldPassword, req.NewPassword); err != nil {
				slog.WarnContext(ctx, "Password update failed", "user_id", user.ID, "error", err)
				respondError(w, http.StatusBadRequest, "password update failed")
				return
			}
		}
		if req.Username != "" {
			if _, err := s.identity.UpdateName(ctx, sessionToken(r), req.Username); err != nil {
				slog.WarnContext(ctx, "Account name update failed", "user_id", user.ID, "error", err)
			}
		}

		p, err := s.svc.Profiles.Update(ctx, user.ID, req.Username, req.ProfilePicture)
		if err != nil {
			slog.ErrorContext(ctx, "Profile update failed", "user_id", user.ID, "error", err)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, profileView{
			ID:             p.ID,
			Username:       p.Username,
			Email:          p.Email,
			ProfilePicture: p.ProfilePicture,
		})

	default:
		w.Header().Set("Allow", "GET, PUT")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
