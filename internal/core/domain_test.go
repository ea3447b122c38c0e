package core

import (
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		UserID: "u1",
		Amount: Money{Cents: 1500},
		Date:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"missing user", func(tx *Transaction) { tx.UserID = " " }, ErrMissingUser},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			if err := tx.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{
		UserID:    "u1",
		Name:      "Groceries",
		Amount:    Money{Cents: 100000},
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	bad := b
	bad.EndDate = b.StartDate.AddDate(0, -1, 0)
	if err := bad.Validate(); err == nil {
		t.Fatal("end date before start date should be rejected")
	}

	bad = b
	bad.SpentAmount = Money{Cents: -1}
	if err := bad.Validate(); err != ErrInvalidAmount {
		t.Fatalf("negative running total expected ErrInvalidAmount, got %v", err)
	}

	bad = b
	bad.Name = ""
	if err := bad.Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestGoalValidate(t *testing.T) {
	g := Goal{
		UserID:       "u1",
		Name:         "Emergency fund",
		TargetAmount: Money{Cents: 500000},
		Priority:     PriorityHigh,
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("valid goal rejected: %v", err)
	}

	bad := g
	bad.Priority = "urgent"
	if err := bad.Validate(); err != ErrInvalidPriority {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}

	bad = g
	bad.TargetAmount = Money{}
	if err := bad.Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	c := Category{UserID: "u1", Name: "Rent", Type: CategoryExpense}
	if err := c.Validate(); err != nil {
		t.Fatalf("valid category rejected: %v", err)
	}

	bad := c
	bad.Type = "transfer"
	if err := bad.Validate(); err != ErrInvalidType {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}
