package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"smartspend/internal/core"
	"smartspend/internal/services"
)

type transactionRequest struct {
	Amount       json.RawMessage `json:"amount"`
	Date         string          `json:"date"`
	Notes        string          `json:"notes"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	BudgetID     string          `json:"budgetId"`
}

type transactionView struct {
	ID           string    `json:"id"`
	Amount       float64   `json:"amount"`
	Date         string    `json:"date"`
	Notes        string    `json:"notes,omitempty"`
	CategoryID   string    `json:"categoryId,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
	BudgetID     string    `json:"budgetId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type transactionPage struct {
	Items []transactionView `json:"items"`
	Total int               `json:"total"`
}

func newTransactionView(tx core.Transaction) transactionView {
	return transactionView{
		ID:           tx.ID,
		Amount:       tx.Amount.Float(),
		Date:         tx.Date.Format("2006-01-02"),
		Notes:        tx.Notes,
		CategoryID:   tx.CategoryID,
		CategoryName: tx.CategoryName,
		BudgetID:     tx.BudgetID,
		CreatedAt:    tx.CreatedAt,
	}
}

func (req transactionRequest) toTransaction(userID string) (core.Transaction, bool) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, false
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return core.Transaction{}, false
	}
	return core.Transaction{
		UserID:       userID,
		Amount:       amount,
		Date:         date,
		Notes:        req.Notes,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		BudgetID:     req.BudgetID,
	}, true
}

// transactionCollection serves GET (list) and POST (create) on a
// transaction table.
func (s *Server) transactionCollection(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		switch r.Method {
		case http.MethodGet:
			limit, offset := pageParams(r)
			page, err := svc.List(ctx, user.ID, limit, offset)
			if err != nil {
				slog.ErrorContext(ctx, "Transaction list failed", "user_id", user.ID, "error", err)
				respondServiceError(w, err)
				return
			}
			out := transactionPage{Items: make([]transactionView, 0, len(page.Items)), Total: page.Total}
			for _, tx := range page.Items {
				out.Items = append(out.Items, newTransactionView(tx))
			}
			respondJSON(w, http.StatusOK, out)

		case http.MethodPost:
			var req transactionRequest
			if !decodeBody(w, r, &req) {
				return
			}
			tx, ok := req.toTransaction(user.ID)
			if !ok {
				respondError(w, http.StatusBadRequest, "amount and date (YYYY-MM-DD) are required")
				return
			}
			created, err := svc.Create(ctx, tx)
			if err != nil {
				slog.ErrorContext(ctx, "Transaction create failed", "user_id", user.ID, "error", err)
				respondServiceError(w, err)
				return
			}
			s.invalidateSnapshot(user.ID)
			respondJSON(w, http.StatusCreated, newTransactionView(created))

		default:
			w.Header().Set("Allow", "GET, POST")
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// transactionItem serves GET, PUT and DELETE on a single transaction.
func (s *Server) transactionItem(svc *services.TransactionService) http.HandlerFunc {
	prefixes := map[*services.TransactionService]string{
		s.svc.Expenses: "/api/expenses/",
		s.svc.Revenue:  "/api/revenue/",
	}
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r.Context())
		id := pathSuffix(r.URL.Path, prefixes[svc])
		if id == "" {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		switch r.Method {
		case http.MethodGet:
			tx, err := svc.Get(ctx, user.ID, id)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, newTransactionView(tx))

		case http.MethodPut:
			var req transactionRequest
			if !decodeBody(w, r, &req) {
				return
			}
			tx, ok := req.toTransaction(user.ID)
			if !ok {
				respondError(w, http.StatusBadRequest, "amount and date (YYYY-MM-DD) are required")
				return
			}
			updated, err := svc.Update(ctx, user.ID, id, tx)
			if err != nil {
				slog.ErrorContext(ctx, "Transaction update failed", "user_id", user.ID, "row_id", id, "error", err)
				respondServiceError(w, err)
				return
			}
			s.invalidateSnapshot(user.ID)
			respondJSON(w, http.StatusOK, newTransactionView(updated))

		case http.MethodDelete:
			if err := svc.Delete(ctx, user.ID, id); err != nil {
				slog.ErrorContext(ctx, "Transaction delete failed", "user_id", user.ID, "row_id", id, "error", err)
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
}
