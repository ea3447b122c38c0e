package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartspend/internal/amqp"
	"smartspend/internal/core"
	"smartspend/internal/rowstore"
	"smartspend/internal/rowstore/memory"
)

type capturePublisher struct {
	events []*amqp.TransactionEvent
	err    error
}

func (p *capturePublisher) PublishTransactionEvent(_ context.Context, ev *amqp.TransactionEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func newTestBudget(t *testing.T, store rowstore.Client, userID string, amount int64) core.Budget {
	t.Helper()
	b, err := NewBudgetService(store).Create(context.Background(), core.Budget{
		UserID:    userID,
		Name:      "Groceries",
		Amount:    core.Money{Cents: amount},
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	return b
}

func TestExpenseCreateAndList(t *testing.T) {
	store := memory.New()
	pub := &capturePublisher{}
	svc := NewExpenseService(store, NewBudgetService(store), pub)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.Transaction{
		UserID: "u1",
		Amount: core.Money{Cents: 1500},
		Date:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Notes:  "lunch",
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated row id")
	}
	if created.Amount.Cents != 1500 {
		t.Fatalf("amount = %d, want 1500", created.Amount.Cents)
	}

	page, err := svc.List(ctx, "u1", 10, 0)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("page = %d/%d, want 1/1", len(page.Items), page.Total)
	}
	if page.Items[0].Notes != "lunch" {
		t.Fatalf("notes = %q, want lunch", page.Items[0].Notes)
	}

	if len(pub.events) != 1 || pub.events[0].Kind != amqp.EventTransactionCreated {
		t.Fatalf("expected one created event, got %+v", pub.events)
	}
}

func TestExpenseCreateUpdatesBudgetTotal(t *testing.T) {
	store := memory.New()
	budgets := NewBudgetService(store)
	svc := NewExpenseService(store, budgets, nil)
	ctx := context.Background()

	b := newTestBudget(t, store, "u1", 50000)

	_, err := svc.Create(ctx, core.Transaction{
		UserID:   "u1",
		Amount:   core.Money{Cents: 12050},
		Date:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		BudgetID: b.ID,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	got, err := budgets.Get(ctx, "u1", b.ID)
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if got.SpentAmount.Cents != 12050 {
		t.Fatalf("spentAmount = %d, want 12050", got.SpentAmount.Cents)
	}
}

func TestExpenseCreateRollsBackWhenBudgetMissing(t *testing.T) {
	store := memory.New()
	svc := NewExpenseService(store, NewBudgetService(store), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, core.Transaction{
		UserID:   "u1",
		Amount:   core.Money{Cents: 1000},
		Date:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		BudgetID: "no-such-budget",
	})
	if err == nil {
		t.Fatal("expected error for missing budget")
	}

	page, err := svc.List(ctx, "u1", 10, 0)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected rollback to leave no rows, got %d", page.Total)
	}
}

func TestDeleteKeepsBudgetTotal(t *testing.T) {
	store := memory.New()
	budgets := NewBudgetService(store)
	svc := NewExpenseService(store, budgets, nil)
	ctx := context.Background()

	b := newTestBudget(t, store, "u1", 50000)
	tx, err := svc.Create(ctx, core.Transaction{
		UserID:   "u1",
		Amount:   core.Money{Cents: 5000},
		Date:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		BudgetID: b.ID,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if err := svc.Delete(ctx, "u1", tx.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}

	got, err := budgets.Get(ctx, "u1", b.ID)
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if got.SpentAmount.Cents != 5000 {
		t.Fatalf("spentAmount = %d after delete, want 5000 (total is not decremented)", got.SpentAmount.Cents)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	store := memory.New()
	svc := NewRevenueService(store, nil, nil)
	ctx := context.Background()

	tx, err := svc.Create(ctx, core.Transaction{
		UserID: "u1",
		Amount: core.Money{Cents: 200000},
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create revenue: %v", err)
	}

	if _, err := svc.Get(ctx, "u2", tx.ID); !errors.Is(err, rowstore.ErrNotFound) {
		t.Fatalf("cross-user get = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "u2", tx.ID); !errors.Is(err, rowstore.ErrNotFound) {
		t.Fatalf("cross-user delete = %v, want ErrNotFound", err)
	}

	page, err := svc.List(ctx, "u2", 10, 0)
	if err != nil {
		t.Fatalf("list revenue: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("u2 sees %d rows, want 0", page.Total)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	store := memory.New()
	pub := &capturePublisher{err: errors.New("broker down")}
	svc := NewExpenseService(store, nil, pub)

	_, err := svc.Create(context.Background(), core.Transaction{
		UserID: "u1",
		Amount: core.Money{Cents: 100},
		Date:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create should survive publish failure, got %v", err)
	}
}

func TestCreateRejectsInvalidTransaction(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		tx   core.Transaction
		want error
	}{
		{"missing user", core.Transaction{Amount: core.Money{Cents: 100}, Date: time.Now()}, core.ErrMissingUser},
		{"zero amount", core.Transaction{UserID: "u1", Date: time.Now()}, core.ErrInvalidAmount},
		{"negative amount", core.Transaction{UserID: "u1", Amount: core.Money{Cents: -5}, Date: time.Now()}, core.ErrInvalidAmount},
		{"missing date", core.Transaction{UserID: "u1", Amount: core.Money{Cents: 100}}, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.tx); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
