package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartspend/internal/core"
	"smartspend/internal/rowstore/memory"
)

func TestBudgetCreateStartsAtZero(t *testing.T) {
	svc := NewBudgetService(memory.New())

	b, err := svc.Create(context.Background(), core.Budget{
		UserID:      "u1",
		Name:        "Rent",
		Amount:      core.Money{Cents: 120000},
		SpentAmount: core.Money{Cents: 99999}, // ignored
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if b.SpentAmount.Cents != 0 {
		t.Fatalf("spentAmount = %d, want 0", b.SpentAmount.Cents)
	}
}

func TestBudgetAddSpentAccumulates(t *testing.T) {
	store := memory.New()
	svc := NewBudgetService(store)
	ctx := context.Background()

	b := newTestBudget(t, store, "u1", 30000)

	for _, cents := range []int64{1000, 2500, 499} {
		if err := svc.AddSpent(ctx, "u1", b.ID, core.Money{Cents: cents}); err != nil {
			t.Fatalf("addSpent(%d): %v", cents, err)
		}
	}

	got, err := svc.Get(ctx, "u1", b.ID)
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if got.SpentAmount.Cents != 3999 {
		t.Fatalf("spentAmount = %d, want 3999", got.SpentAmount.Cents)
	}
}

func TestBudgetAddSpentRejectsNonPositive(t *testing.T) {
	store := memory.New()
	svc := NewBudgetService(store)
	b := newTestBudget(t, store, "u1", 30000)

	if err := svc.AddSpent(context.Background(), "u1", b.ID, core.Money{}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestBudgetUpdatePreservesRunningTotal(t *testing.T) {
	store := memory.New()
	svc := NewBudgetService(store)
	ctx := context.Background()

	b := newTestBudget(t, store, "u1", 30000)
	if err := svc.AddSpent(ctx, "u1", b.ID, core.Money{Cents: 7500}); err != nil {
		t.Fatalf("addSpent: %v", err)
	}

	updated, err := svc.Update(ctx, "u1", b.ID, core.Budget{
		Name:        "Groceries 2025",
		Amount:      core.Money{Cents: 40000},
		SpentAmount: core.Money{Cents: 1}, // ignored
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("update budget: %v", err)
	}
	if updated.SpentAmount.Cents != 7500 {
		t.Fatalf("spentAmount = %d, want 7500", updated.SpentAmount.Cents)
	}
	if updated.Name != "Groceries 2025" {
		t.Fatalf("name = %q", updated.Name)
	}
}

func TestBudgetProgressAfterSpending(t *testing.T) {
	store := memory.New()
	svc := NewBudgetService(store)
	ctx := context.Background()

	b := newTestBudget(t, store, "u1", 50000)
	if err := svc.AddSpent(ctx, "u1", b.ID, core.Money{Cents: 70000}); err != nil {
		t.Fatalf("addSpent: %v", err)
	}

	got, err := svc.Get(ctx, "u1", b.ID)
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	p := got.Progress()
	if p.Percentage != 100 {
		t.Fatalf("percentage = %v, want clamped 100", p.Percentage)
	}
	if p.Remaining.Cents != -20000 {
		t.Fatalf("remaining = %d, want -20000", p.Remaining.Cents)
	}
	if p.ChartRemaining.Cents != 0 {
		t.Fatalf("chartRemaining = %d, want 0", p.ChartRemaining.Cents)
	}
}
