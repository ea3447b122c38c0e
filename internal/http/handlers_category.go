package http

import (
	"context"
	"log/slog"
	"net/http"

	"smartspend/internal/core"
)

type categoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		ctype := core.CategoryType(r.URL.Query().Get("type"))
		if ctype == "" {
			ctype = core.CategoryExpense
		}
		categories, err := s.svc.Categories.ListByType(ctx, user.ID, ctype)
		if err != nil {
			slog.ErrorContext(ctx, "Category list failed", "user_id", user.ID, "error", err)
			respondServiceError(w, err)
			return
		}
		items := make([]categoryView, 0, len(categories))
		for _, c := range categories {
			items = append(items, categoryView{ID: c.ID, Name: c.Name, Type: string(c.Type)})
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		created, err := s.svc.Categories.Add(ctx, core.Category{
			UserID: user.ID,
			Name:   req.Name,
			Type:   core.CategoryType(req.Type),
		})
		if err != nil {
			slog.ErrorContext(ctx, "Category create failed", "user_id", user.ID, "error", err)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, categoryView{ID: created.ID, Name: created.Name, Type: string(created.Type)})

	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCategoryItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id := pathSuffix(r.URL.Path, "/api/categories/")
	if id == "" {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.svc.Categories.Delete(ctx, user.ID, id); err != nil {
		slog.ErrorContext(ctx, "Category delete failed", "user_id", user.ID, "row_id", id, "error", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
