package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"smartspend/internal/amqp"
	"smartspend/internal/core"
	"smartspend/internal/rowstore"
)

// TransactionService handles one of the two transaction tables. Expenses
// and revenue share every behavior except the table name and the date
// column, so both are instances of the same service.
type TransactionService struct {
	store     rowstore.Client
	events    EventPublisher
	budgets   *BudgetService
	table     string
	dateField string
	component string
}

func NewExpenseService(store rowstore.Client, budgets *BudgetService, events EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		events:    events,
		budgets:   budgets,
		table:     rowstore.TableExpenses,
		dateField: fieldTransactionDate,
		component: "expense",
	}
}

func NewRevenueService(store rowstore.Client, budgets *BudgetService, events EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		events:    events,
		budgets:   budgets,
		table:     rowstore.TableIncome,
		dateField: fieldReceiptDate,
		component: "revenue",
	}
}

// List returns one page of the user's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, userID string, limit, offset int) (Page[core.Transaction], error) {
	if userID == "" {
		return Page[core.Transaction]{}, core.ErrMissingUser
	}
	limit, offset = normalizePage(limit, offset)

	list, err := s.store.ListRows(ctx, s.table, rowstore.NewQuery().
		ForUser(userID).
		OrderDesc(rowstore.FieldCreatedAt).
		Page(limit, offset))
	if err != nil {
		return Page[core.Transaction]{}, fmt.Errorf("list %s: %w", s.table, err)
	}

	page := Page[core.Transaction]{Items: make([]core.Transaction, 0, len(list.Rows)), Total: list.Total}
	for _, row := range list.Rows {
		page.Items = append(page.Items, transactionFromRow(row, s.dateField))
	}
	return page, nil
}

// Get returns a single transaction owned by the user.
func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	row, err := getOwnedRow(ctx, s.store, s.table, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}
	return transactionFromRow(row, s.dateField), nil
}

// Create validates and stores a transaction. When the transaction is tagged
// against a budget, the budget's running total is updated first; if that
// update fails the freshly created row is removed again so the table and
// the total cannot drift apart on this path.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx.ID = uuid.NewString()
	row, err := s.store.CreateRow(ctx, s.table, tx.ID, transactionData(tx, s.dateField), rowstore.OwnerPermissions(tx.UserID))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create %s: %w", s.table, err)
	}
	created := transactionFromRow(row, s.dateField)

	if tx.BudgetID != "" && s.budgets != nil {
		if err := s.budgets.AddSpent(ctx, tx.UserID, tx.BudgetID, tx.Amount); err != nil {
			if delErr := s.store.DeleteRow(ctx, s.table, tx.ID); delErr != nil {
				slog.ErrorContext(ctx, "Failed to roll back transaction after budget update error",
					"table", s.table, "row_id", tx.ID, "error", delErr)
			}
			return core.Transaction{}, fmt.Errorf("update budget total: %w", err)
		}
	}

	s.publish(ctx, amqp.EventTransactionCreated, created.ID, created.UserID, created.BudgetID)
	return created, nil
}

// Update rewrites the mutable fields of an owned transaction. Changing the
// amount of a budget-linked transaction does not touch the budget total;
// the drift shows up in the worker's reconciliation log instead.
func (s *TransactionService) Update(ctx context.Context, userID, id string, tx core.Transaction) (core.Transaction, error) {
	if _, err := getOwnedRow(ctx, s.store, s.table, userID, id); err != nil {
		return core.Transaction{}, err
	}
	tx.UserID = userID
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	row, err := s.store.UpdateRow(ctx, s.table, id, transactionData(tx, s.dateField))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update %s: %w", s.table, err)
	}
	return transactionFromRow(row, s.dateField), nil
}

// Delete removes an owned transaction. The linked budget's running total is
// intentionally left as-is: totals only ever grow through AddSpent, and the
// worker reports any resulting drift.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	row, err := getOwnedRow(ctx, s.store, s.table, userID, id)
	if err != nil {
		return err
	}
	budgetID := row.String(fieldBudgetID)

	if err := s.store.DeleteRow(ctx, s.table, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.table, err)
	}
	if budgetID != "" {
		slog.InfoContext(ctx, "Deleted transaction was linked to a budget; running total not decremented",
			"table", s.table, "row_id", id, "budget_id", budgetID)
	}

	s.publish(ctx, amqp.EventTransactionDeleted, id, userID, budgetID)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, kind, rowID, userID, budgetID string) {
	if s.events == nil {
		return
	}
	ev := amqp.NewTransactionEvent(kind, s.table, rowID, userID, budgetID)
	if err := s.events.PublishTransactionEvent(ctx, ev); err != nil {
		// Events are advisory; a broker outage must not fail the write.
		slog.WarnContext(ctx, "Failed to publish transaction event",
			"kind", kind, "table", s.table, "row_id", rowID, "error", err)
	}
}

// IsNotFound reports whether err means the addressed row does not exist or
// is not visible to the caller.
func IsNotFound(err error) bool {
	return errors.Is(err, rowstore.ErrNotFound)
}
