package worker

import (
	"context"
	"testing"

	"smartspend/internal/amqp"
	"smartspend/internal/rowstore"
	"smartspend/internal/rowstore/memory"
)

func seedBudget(t *testing.T, store *memory.Store, id, userID string, amount, spent float64) {
	t.Helper()
	_, err := store.CreateRow(context.Background(), rowstore.TableBudget, id, rowstore.Row{
		rowstore.FieldUser: userID,
		"name":             "Groceries",
		"amount":           amount,
		"spentAmount":      spent,
	}, rowstore.OwnerPermissions(userID))
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}
}

func listNotifications(t *testing.T, store *memory.Store, userID string) []rowstore.Row {
	t.Helper()
	list, err := store.ListRows(context.Background(), rowstore.TableNotifications, rowstore.NewQuery().ForUser(userID))
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	return list.Rows
}

func TestOverBudgetCreatesNotification(t *testing.T) {
	store := memory.New()
	seedBudget(t, store, "b1", "u1", 300.0, 350.0)

	w := NewBudgetWorker(store)
	ev := amqp.NewTransactionEvent(amqp.EventTransactionCreated, rowstore.TableExpenses, "e1", "u1", "b1")
	if err := w.HandleTransactionEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	notes := listNotifications(t, store, "u1")
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes))
	}
	if notes[0].String("message") == "" {
		t.Fatal("expected notification message")
	}
	if read, ok := notes[0]["read"].(bool); !ok || read {
		t.Fatalf("read = %v, want unread", notes[0]["read"])
	}
}

func TestWithinBudgetCreatesNoNotification(t *testing.T) {
	store := memory.New()
	seedBudget(t, store, "b1", "u1", 300.0, 120.0)

	w := NewBudgetWorker(store)
	ev := amqp.NewTransactionEvent(amqp.EventTransactionCreated, rowstore.TableExpenses, "e1", "u1", "b1")
	if err := w.HandleTransactionEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if notes := listNotifications(t, store, "u1"); len(notes) != 0 {
		t.Fatalf("notifications = %d, want 0", len(notes))
	}
}

func TestEventWithoutBudgetIsIgnored(t *testing.T) {
	store := memory.New()
	w := NewBudgetWorker(store)

	ev := amqp.NewTransactionEvent(amqp.EventTransactionDeleted, rowstore.TableExpenses, "e1", "u1", "")
	if err := w.HandleTransactionEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}
}

func TestEventForDeletedBudgetIsAcked(t *testing.T) {
	store := memory.New()
	w := NewBudgetWorker(store)

	// Budget no longer exists; the event must not be requeued forever.
	ev := amqp.NewTransactionEvent(amqp.EventTransactionDeleted, rowstore.TableExpenses, "e1", "u1", "gone")
	if err := w.HandleTransactionEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}
}

func TestDriftCheckSurvivesMissingTransactions(t *testing.T) {
	store := memory.New()
	// Stored total says 50 spent but no transactions reference the budget.
	seedBudget(t, store, "b1", "u1", 300.0, 50.0)

	w := NewBudgetWorker(store)
	ev := amqp.NewTransactionEvent(amqp.EventTransactionDeleted, rowstore.TableExpenses, "e1", "u1", "b1")
	if err := w.HandleTransactionEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	// Total is untouched: drift is logged, never corrected.
	list, err := store.ListRows(context.Background(), rowstore.TableBudget, rowstore.NewQuery().ForUser("u1"))
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if got := list.Rows[0].Float("spentAmount"); got != 50.0 {
		t.Fatalf("spentAmount = %v, want 50 (unchanged)", got)
	}
}
