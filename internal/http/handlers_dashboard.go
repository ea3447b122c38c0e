package http

import (
	"context"
	"log/slog"
	"net/http"

	"smartspend/internal/core"
	"smartspend/internal/dashboard"
)

type budgetView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Amount         float64  `json:"amount"`
	SpentAmount    float64  `json:"spentAmount"`
	Percentage     float64  `json:"percentage"`
	Remaining      float64  `json:"remaining"`
	ChartRemaining float64  `json:"chartRemaining"`
	CategoryNames  []string `json:"categoryNames,omitempty"`
}

type dashboardView struct {
	Expenses        float64            `json:"expenses"`
	Revenue         float64            `json:"revenue"`
	Balance         float64            `json:"balance"`
	MonthlyExpenses map[string]float64 `json:"monthlyExpenses"`
	MonthlyRevenue  map[string]float64 `json:"monthlyRevenue"`
	Months          []string           `json:"months"`
	Budget          float64            `json:"budget"`
	BudgetName      string             `json:"budgetName,omitempty"`
	Budgets         []budgetView       `json:"budgets"`
	Status          string             `json:"status"`
	Slices          dashboard.Slices   `json:"slices"`
}

// handleDashboard serves the aggregated snapshot, cached per user.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user := userFrom(r.Context())

	if snap, ok := s.snapshots.Get(user.ID); ok {
		respondJSON(w, http.StatusOK, snapshotView(snap))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	snap, err := s.dashboard.Snapshot(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard aggregation failed", "user_id", user.ID, "error", err)
		// The zero snapshot is still a valid, consistent response; the
		// status field tells the client it is not real data.
		respondJSON(w, http.StatusOK, snapshotView(snap))
		return
	}

	s.snapshots.Set(user.ID, snap)
	respondJSON(w, http.StatusOK, snapshotView(snap))
}

func snapshotView(snap dashboard.Snapshot) dashboardView {
	view := dashboardView{
		Expenses:        snap.Expenses.Float(),
		Revenue:         snap.Revenue.Float(),
		Balance:         snap.Balance.Float(),
		MonthlyExpenses: moneyMap(snap.MonthlyExpenses),
		MonthlyRevenue:  moneyMap(snap.MonthlyRevenue),
		Budget:          snap.Budget.Float(),
		BudgetName:      snap.BudgetName,
		Budgets:         make([]budgetView, 0, len(snap.Budgets)),
		Status:          string(snap.Status),
		Slices:          snap.Slices,
	}

	// Stable month series across both maps for chart rendering.
	merged := make(map[string]core.Money, len(snap.MonthlyExpenses)+len(snap.MonthlyRevenue))
	for k, v := range snap.MonthlyExpenses {
		merged[k] = v
	}
	for k, v := range snap.MonthlyRevenue {
		merged[k] = v
	}
	view.Months = dashboard.SortedMonths(merged)

	for _, b := range snap.Budgets {
		view.Budgets = append(view.Budgets, newBudgetView(b))
	}
	return view
}

func newBudgetView(b core.Budget) budgetView {
	p := b.Progress()
	return budgetView{
		ID:             b.ID,
		Name:           b.Name,
		Amount:         b.Amount.Float(),
		SpentAmount:    b.SpentAmount.Float(),
		Percentage:     p.Percentage,
		Remaining:      p.Remaining.Float(),
		ChartRemaining: p.ChartRemaining.Float(),
		CategoryNames:  b.CategoryNames,
	}
}

func moneyMap(in map[string]core.Money) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v.Float()
	}
	return out
}
