package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"smartspend/internal/core"
)

type budgetRequest struct {
	Name          string          `json:"name"`
	Amount        json.RawMessage `json:"amount"`
	Notes         string          `json:"notes"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	CategoryNames []string        `json:"categoryNames"`
}

func (req budgetRequest) toBudget(userID string) (core.Budget, bool) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Budget{}, false
	}
	start, ok := parseDate(req.StartDate)
	if !ok {
		return core.Budget{}, false
	}
	b := core.Budget{
		UserID:        userID,
		Name:          req.Name,
		Amount:        amount,
		Notes:         req.Notes,
		StartDate:     start,
		CategoryNames: req.CategoryNames,
	}
	if req.EndDate != "" {
		end, ok := parseDate(req.EndDate)
		if !ok {
			return core.Budget{}, false
		}
		b.EndDate = end
	}
	return b, true
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		limit, offset := pageParams(r)
		page, err := s.svc.Budgets.List(ctx, user.ID, limit, offset)
		if err != nil {
			slog.ErrorContext(ctx, "Budget list failed", "user_id", user.ID, "error", err)
			respondServiceError(w, err)
			return
		}
		items := make([]budgetView, 0, len(page.Items))
		for _, b := range page.Items {
			items = append(items, newBudgetView(b))
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": items, "total": page.Total})

	case http.MethodPost:
		var req budgetRequest
		if !decodeBody(w, r, &req) {
			return
		}
		b, ok := req.toBudget(user.ID)
		if !ok {
			respondError(w, http.StatusBadRequest, "name, amount and startDate are required")
			return
		}
		created, err := s.svc.Budgets.Create(ctx, b)
		if err != nil {
			slog.ErrorContext(ctx, "Budget create failed", "user_id", user.ID, "error", err)
			respondServiceError(w, err)
			return
		}
		s.invalidateSnapshot(user.ID)
		respondJSON(w, http.StatusCreated, newBudgetView(created))

	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBudgetItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id := pathSuffix(r.URL.Path, "/api/budgets/")
	if id == "" {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		b, err := s.svc.Budgets.Get(ctx, user.ID, id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, newBudgetView(b))

	case http.MethodPut:
		var req budgetRequest
		if !decodeBody(w, r, &req) {
			return
		}
		b, ok := req.toBudget(user.ID)
		if !ok {
			respondError(w, http.StatusBadRequest, "name, amount and startDate are required")
			return
		}
		updated, err := s.svc.Budgets.Update(ctx, user.ID, id, b)
		if err != nil {
			slog.ErrorContext(ctx, "Budget update failed", "user_id", user.ID, "row_id", id, "error", err)
			respondServiceError(w, err)
			return
		}
		s.invalidateSnapshot(user.ID)
		respondJSON(w, http.StatusOK, newBudgetView(updated))

	case http.MethodDelete:
		if err := s.svc.Budgets.Delete(ctx, user.ID, id); err != nil {
			slog.ErrorContext(ctx, "Budget delete failed", "user_id", user.ID, "row_id", id, "error", err)
			respondServiceError(w, err)
			return
		}
		s.invalidateSnapshot(user.ID)
		respondJSON(w, http.StatusNoContent, nil)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
