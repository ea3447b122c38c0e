package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smartspend/internal/core"
	"smartspend/internal/identity"
	"smartspend/internal/rowstore"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain and collaborator errors onto HTTP codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rowstore.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, rowstore.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, rowstore.ErrUnavailable), errors.Is(err, identity.ErrUnavailable):
		respondError(w, http.StatusBadGateway, "upstream unavailable")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidPriority),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrMissingUser):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseAmount accepts an amount as either a JSON number or a decimal
// string ("12.50" or "12,50") and returns it in cents.
func parseAmount(raw json.RawMessage) (core.Money, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return core.Money{}, core.ErrInvalidAmount
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, core.ErrInvalidAmount
	}
	return core.Money{Cents: cents}, nil
}

// parseDate parses a YYYY-MM-DD request field.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// pageParams reads limit/offset query parameters with defaults.
func pageParams(r *http.Request) (limit, offset int) {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}

// pathSuffix returns the trailing path element after prefix, or "" when
// the path does not match or has further segments.
func pathSuffix(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
