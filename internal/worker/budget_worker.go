// Package worker reacts to transaction events from the queue: it raises
// over-budget notifications and reports drift between a budget's stored
// running total and the true sum of its linked transactions.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"smartspend/internal/amqp"
	"smartspend/internal/core"
	applog "smartspend/internal/log"
	"smartspend/internal/rowstore"
)

// BudgetWorker processes transaction events for budget-linked rows.
type BudgetWorker struct {
	store rowstore.Client
}

func NewBudgetWorker(store rowstore.Client) *BudgetWorker {
	return &BudgetWorker{store: store}
}

// HandleTransactionEvent inspects the budget referenced by the event. It
// creates an over-budget notification when the running total exceeds the
// budget amount, and logs any drift between the stored total and the
// recomputed sum of linked transactions. Drift is reported, never fixed:
// the running total is owned by the write path.
func (w *BudgetWorker) HandleTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"kind", ev.Kind,
		applog.FieldTable, ev.Table,
		applog.FieldRowID, ev.RowID,
		applog.FieldUserID, ev.UserID,
		applog.FieldBudgetID, ev.BudgetID,
		applog.FieldComponent, applog.ComponentWorker)

	if ev.BudgetID == "" {
		return nil
	}

	budget, err := w.fetchBudget(ctx, ev.UserID, ev.BudgetID)
	if err != nil {
		if IsGone(err) {
			// Budget deleted between the write and this delivery.
			slog.WarnContext(ctx, "Budget referenced by event no longer exists",
				"budget_id", ev.BudgetID, "user_id", ev.UserID)
			return nil
		}
		return fmt.Errorf("fetch budget: %w", err)
	}

	if budget.SpentAmount.Cents > budget.Amount.Cents {
		if err := w.notifyOverBudget(ctx, budget); err != nil {
			return fmt.Errorf("create over-budget notification: %w", err)
		}
	}

	w.reportDrift(ctx, budget)
	return nil
}

func (w *BudgetWorker) fetchBudget(ctx context.Context, userID, budgetID string) (core.Budget, error) {
	list, err := w.store.ListRows(ctx, rowstore.TableBudget, rowstore.NewQuery().
		ForUser(userID).
		Equal(rowstore.FieldID, budgetID).
		Page(1, 0))
	if err != nil {
		return core.Budget{}, err
	}
	if len(list.Rows) == 0 {
		return core.Budget{}, rowstore.ErrNotFound
	}
	row := list.Rows[0]
	b := core.Budget{
		ID:          row.ID(),
		UserID:      row.String(rowstore.FieldUser),
		Name:        row.String("name"),
		Amount:      core.MoneyFromFloat(row.Float("amount")),
		SpentAmount: core.MoneyFromFloat(row.Float("spentAmount")),
	}
	return b, nil
}

func (w *BudgetWorker) notifyOverBudget(ctx context.Context, b core.Budget) error {
	over := b.SpentAmount.Sub(b.Amount)
	message := fmt.Sprintf("Budget %q is over by %.2f", b.Name, over.Float())

	_, err := w.store.CreateRow(ctx, rowstore.TableNotifications, uuid.NewString(), rowstore.Row{
		rowstore.FieldUser: b.UserID,
		"message":          message,
		"read":             false,
		"createdAt":        time.Now().UTC().Format(time.RFC3339),
	}, rowstore.OwnerPermissions(b.UserID))
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Created over-budget notification",
		"budget_id", b.ID,
		"user_id", b.UserID,
		"over_cents", over.Cents)
	return nil
}

// reportDrift recomputes the true sum of transactions linked to the budget
// across both transaction tables and compares it to the stored total.
func (w *BudgetWorker) reportDrift(ctx context.Context, b core.Budget) {
	var actual core.Money
	for _, table := range []string{rowstore.TableExpenses, rowstore.TableIncome} {
		list, err := w.store.ListRows(ctx, table, rowstore.NewQuery().
			ForUser(b.UserID).
			Equal("budgetId", b.ID))
		if err != nil {
			slog.WarnContext(ctx, "Skipping drift check, transaction fetch failed",
				"table", table, "budget_id", b.ID, "error", err)
			return
		}
		for _, row := range list.Rows {
			actual = actual.Add(core.MoneyFromFloat(row.Float("amount")))
		}
	}

	if drift := b.SpentAmount.Sub(actual); drift.Cents != 0 {
		slog.WarnContext(ctx, "Budget running total drifted from linked transactions",
			"budget_id", b.ID,
			"user_id", b.UserID,
			"stored_cents", b.SpentAmount.Cents,
			"actual_cents", actual.Cents,
			"drift_cents", drift.Cents)
	}
}

// IsGone reports whether the error means the addressed row disappeared.
func IsGone(err error) bool {
	return errors.Is(err, rowstore.ErrNotFound)
}
