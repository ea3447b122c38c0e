package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"smartspend/internal/core"
	"smartspend/internal/rowstore"
)

// BudgetService manages budget rows and their denormalized running totals.
type BudgetService struct {
	store rowstore.Client
}

func NewBudgetService(store rowstore.Client) *BudgetService {
	return &BudgetService{store: store}
}

// List returns one page of the user's budgets, newest first.
func (s *BudgetService) List(ctx context.Context, userID string, limit, offset int) (Page[core.Budget], error) {
	if userID == "" {
		return Page[core.Budget]{}, core.ErrMissingUser
	}
	limit, offset = normalizePage(limit, offset)

	list, err := s.store.ListRows(ctx, rowstore.TableBudget, rowstore.NewQuery().
		ForUser(userID).
		OrderDesc(rowstore.FieldCreatedAt).
		Page(limit, offset))
	if err != nil {
		return Page[core.Budget]{}, fmt.Errorf("list budgets: %w", err)
	}

	page := Page[core.Budget]{Items: make([]core.Budget, 0, len(list.Rows)), Total: list.Total}
	for _, row := range list.Rows {
		page.Items = append(page.Items, budgetFromRow(row))
	}
	return page, nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id string) (core.Budget, error) {
	row, err := getOwnedRow(ctx, s.store, rowstore.TableBudget, userID, id)
	if err != nil {
		return core.Budget{}, err
	}
	return budgetFromRow(row), nil
}

// Create stores a new budget. The running total always starts at zero
// regardless of what the caller sends.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.SpentAmount = core.Money{}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	b.ID = uuid.NewString()
	row, err := s.store.CreateRow(ctx, rowstore.TableBudget, b.ID, budgetData(b), rowstore.OwnerPermissions(b.UserID))
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return budgetFromRow(row), nil
}

// Update rewrites an owned budget's descriptive fields. The running total
// is carried over from the stored row; only AddSpent moves it.
func (s *BudgetService) Update(ctx context.Context, userID, id string, b core.Budget) (core.Budget, error) {
	current, err := getOwnedRow(ctx, s.store, rowstore.TableBudget, userID, id)
	if err != nil {
		return core.Budget{}, err
	}
	b.UserID = userID
	b.SpentAmount = core.MoneyFromFloat(current.Float(fieldSpentAmount))
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	row, err := s.store.UpdateRow(ctx, rowstore.TableBudget, id, budgetData(b))
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return budgetFromRow(row), nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if _, err := getOwnedRow(ctx, s.store, rowstore.TableBudget, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteRow(ctx, rowstore.TableBudget, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

// AddSpent increments the budget's running total by amount. The total is
// monotonic: it grows when transactions are tagged against the budget and
// is never decremented by deletes.
func (s *BudgetService) AddSpent(ctx context.Context, userID, budgetID string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	row, err := getOwnedRow(ctx, s.store, rowstore.TableBudget, userID, budgetID)
	if err != nil {
		return err
	}

	total := core.MoneyFromFloat(row.Float(fieldSpentAmount)).Add(amount)
	_, err = s.store.UpdateRow(ctx, rowstore.TableBudget, budgetID, rowstore.Row{
		fieldSpentAmount: total.Float(),
	})
	if err != nil {
		return fmt.Errorf("update budget total: %w", err)
	}
	return nil
}
