package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"smartspend/internal/core"
)

type goalRequest struct {
	Name         string          `json:"name"`
	TargetAmount json.RawMessage `json:"targetAmount"`
	Deadline     string          `json:"deadline"`
	Priority     string          `json:"priority"`
	Description  string          `json:"description"`
}

type goalView struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	TargetAmount      float64   `json:"targetAmount"`
	AmountContributed float64   `json:"amountContributed"`
	Percentage        float64   `json:"percentage"`
	Remaining         float64   `json:"remaining"`
	Deadline          string    `json:"deadline,omitempty"`
	Priority          string    `json:"priority"`
	Description       string    `json:"description,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

func newGoalView(g core.Goal) goalView {
	p := g.Progress()
	view := goalView{
		ID:                g.ID,
		Name:              g.Name,
		TargetAmount:      g.TargetAmount.Float(),
		AmountContributed: g.AmountContributed.Float(),
		Percentage:        p.Percentage,
		Remaining:         p.Remaining.Float(),
		Priority:          string(g.Priority),
		Description:       g.Description,
		CreatedAt:         g.CreatedAt,
	}
	if !g.Deadline.IsZero() {
		view.Deadline = g.Deadline.Format("2006-01-02")
	}
	return view
}

func (req goalRequest) toGoal(userID string) (core.Goal, bool) {
	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		return core.Goal{}, false
	}
	g := core.Goal{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: target,
		Priority:     core.GoalPriority(req.Priority),
		Description:  req.Description,
	}
	if req.Deadline != "" {
		deadline, ok := parseDate(req.Deadline)
		if !ok {
			return core.Goal{}, false
		}
		g.Deadline = deadline
	}
	return g, true
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		limit, offset := pageParams(r)
		page, err := s.svc.Goals.List(ctx, user.ID, limit, offset)
		if err != nil {
			slog.ErrorContext(ctx, "Goal list failed", "user_id", user.ID, "error", err)
			respondServiceError(w, err)
			return
		}
		items := make([]goalView, 0, len(page.Items))
		for _, g := range page.Items {
			items = append(items, newGoalView(g))
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": items, "total": page.Total})

	case http.MethodPost:
		var req goalRequest
		if !decodeBody(w, r, &req) {
			return
		}
		g, ok := req.toGoal(user.ID)
		if !ok {
			respondError(w, http.StatusBadRequest, "name and targetAmount are required")
			return
		}
		created, err := s.svc.Goals.Create(ctx, g)
		if err != nil {
			slog.ErrorContext(ctx, "Goal create failed", "user_id", user.ID, "error", err)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, newGoalView(created))

	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGoalItem also serves POST /api/goals/{id}/contribute for the
// quick-contribution action.
func (s *Server) handleGoalItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	rest := strings.TrimPrefix(r.URL.Path, "/api/goals/")
	if id, found := strings.CutSuffix(rest, "/contribute"); found && id != "" && !strings.Contains(id, "/") {
		s.handleGoalContribute(ctx, w, r, user.ID, id)
		return
	}

	id := pathSuffix(r.URL.Path, "/api/goals/")
	if id == "" {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		g, err := s.svc.Goals.Get(ctx, user.ID, id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, newGoalView(g))

	case http.MethodPut:
		var req goalRequest
		if !decodeBody(w, r, &req) {
			return
		}
		g, ok := req.toGoal(user.ID)
		if !ok {
			respondError(w, http.StatusBadRequest, "name and targetAmount are required")
			return
		}
		updated, err := s.svc.Goals.Update(ctx, user.ID, id, g)
		if err != nil {
			slog.ErrorContext(ctx, "Goal update failed", "user_id", user.ID, "row_id", id, "error", err)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, newGoalView(updated))

	case http.MethodDelete:
		if err := s.svc.Goals.Delete(ctx, user.ID, id); err != nil {
			slog.ErrorContext(ctx, "Goal delete failed", "user_id", user.ID, "row_id", id, "error", err)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleGoalContribute(ctx context.Context, w http.ResponseWriter, r *http.Request, userID, goalID string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Amount json.RawMessage `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "a positive amount is required")
		return
	}

	g, err := s.svc.Goals.Contribute(ctx, userID, goalID, amount)
	if err != nil {
		slog.ErrorContext(ctx, "Goal contribution failed", "user_id", userID, "row_id", goalID, "error", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newGoalView(g))
}
