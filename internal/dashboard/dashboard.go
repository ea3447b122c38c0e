// Package dashboard builds the per-user financial overview: monthly
// expense and revenue buckets, totals, balance, and budget progress,
// assembled from three concurrent row-store fetches.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"smartspend/internal/core"
	"smartspend/internal/rowstore"
)

type SnapshotStatus string

const (
	SnapshotOK     SnapshotStatus = "ok"
	SnapshotFailed SnapshotStatus = "failed"
)

// SliceStatus records the outcome of one of the three fetches.
type SliceStatus string

const (
	SliceOK      SliceStatus = "ok"
	SliceFailed  SliceStatus = "failed"
	SliceAborted SliceStatus = "aborted"
)

// Slices carries the per-fetch outcomes so callers can tell a genuinely
// empty snapshot from a failed one.
type Slices struct {
	Expenses SliceStatus `json:"expenses"`
	Revenue  SliceStatus `json:"revenue"`
	Budgets  SliceStatus `json:"budgets"`
}

// Snapshot is one consistent dashboard view. When Status is SnapshotFailed
// every figure is zero; partial results are never exposed.
type Snapshot struct {
	Expenses        core.Money
	Revenue         core.Money
	Balance         core.Money
	MonthlyExpenses map[string]core.Money
	MonthlyRevenue  map[string]core.Money
	Budget          core.Money
	BudgetName      string
	Budgets         []core.Budget
	Status          SnapshotStatus
	Slices          Slices
	Err             error
}

// Service aggregates row-store data into snapshots. All month bucketing
// happens in loc.
type Service struct {
	store rowstore.Client
	loc   *time.Location
}

func New(store rowstore.Client, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc}
}

// Snapshot fetches the user's expenses, revenue and budgets concurrently
// and folds them into one view. A failure in any fetch cancels the others
// and yields a zero snapshot; the returned error carries the cause and the
// snapshot's slice flags record which fetch broke.
func (s *Service) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	if userID == "" {
		return failedSnapshot(core.ErrMissingUser, Slices{SliceAborted, SliceAborted, SliceAborted}), core.ErrMissingUser
	}

	var (
		expenseRows []rowstore.Row
		revenueRows []rowstore.Row
		budgetRows  []rowstore.Row
		slices      = Slices{SliceOK, SliceOK, SliceOK}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.store.ListRows(gctx, rowstore.TableExpenses, rowstore.NewQuery().
			ForUser(userID).
			Select(fieldAmount, fieldTransactionDate))
		if err != nil {
			slices.Expenses = SliceFailed
			return fmt.Errorf("fetch expenses: %w", err)
		}
		expenseRows = list.Rows
		return nil
	})
	g.Go(func() error {
		list, err := s.store.ListRows(gctx, rowstore.TableIncome, rowstore.NewQuery().
			ForUser(userID).
			Select(fieldAmount, fieldReceiptDate))
		if err != nil {
			slices.Revenue = SliceFailed
			return fmt.Errorf("fetch revenue: %w", err)
		}
		revenueRows = list.Rows
		return nil
	})
	g.Go(func() error {
		list, err := s.store.ListRows(gctx, rowstore.TableBudget, rowstore.NewQuery().
			ForUser(userID).
			OrderAsc(fieldName).
			Select("*", "category."+fieldCategoryName))
		if err != nil {
			slices.Budgets = SliceFailed
			return fmt.Errorf("fetch budgets: %w", err)
		}
		budgetRows = list.Rows
		return nil
	})

	if err := g.Wait(); err != nil {
		markAborted(&slices)
		return failedSnapshot(err, slices), err
	}

	monthlyExpenses := AggregateByMonth(expenseRows, fieldTransactionDate, s.loc)
	monthlyRevenue := AggregateByMonth(revenueRows, fieldReceiptDate, s.loc)

	snap := Snapshot{
		Expenses:        SumMonths(monthlyExpenses),
		Revenue:         SumMonths(monthlyRevenue),
		MonthlyExpenses: monthlyExpenses,
		MonthlyRevenue:  monthlyRevenue,
		Budgets:         make([]core.Budget, 0, len(budgetRows)),
		Status:          SnapshotOK,
		Slices:          slices,
	}
	snap.Balance = snap.Revenue.Sub(snap.Expenses)

	for _, row := range budgetRows {
		snap.Budgets = append(snap.Budgets, budgetFromRow(row))
	}
	// Headline budget: first of the name-ordered rows.
	if len(snap.Budgets) > 0 {
		snap.Budget = snap.Budgets[0].Amount
		snap.BudgetName = snap.Budgets[0].Name
	}

	return snap, nil
}

func failedSnapshot(err error, slices Slices) Snapshot {
	return Snapshot{
		MonthlyExpenses: map[string]core.Money{},
		MonthlyRevenue:  map[string]core.Money{},
		Budgets:         []core.Budget{},
		Status:          SnapshotFailed,
		Slices:          slices,
		Err:             err,
	}
}

// markAborted downgrades the slices that did not themselves fail: their
// fetches were cancelled when a sibling errored.
func markAborted(s *Slices) {
	if s.Expenses == SliceOK {
		s.Expenses = SliceAborted
	}
	if s.Revenue == SliceOK {
		s.Revenue = SliceAborted
	}
	if s.Budgets == SliceOK {
		s.Budgets = SliceAborted
	}
}
