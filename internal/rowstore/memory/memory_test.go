package memory

import (
	"context"
	"testing"
	"time"

	"smartspend/internal/rowstore"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})

	rows := []struct {
		id   string
		data rowstore.Row
	}{
		{"e1", rowstore.Row{"userId": "u1", "amount": 100.0, "transactionDate": "2025-01-05T10:00:00Z", "categoryName": "Food"}},
		{"e2", rowstore.Row{"userId": "u1", "amount": 50.0, "transactionDate": "2025-01-20T10:00:00Z", "categoryName": "Rent"}},
		{"e3", rowstore.Row{"userId": "u2", "amount": 999.0, "transactionDate": "2025-01-21T10:00:00Z"}},
	}
	for _, r := range rows {
		if _, err := s.CreateRow(context.Background(), rowstore.TableExpenses, r.id, r.data, nil); err != nil {
			t.Fatalf("seed %s: %v", r.id, err)
		}
	}
	return s
}

func TestListRowsFiltersByUser(t *testing.T) {
	s := seedStore(t)

	res, err := s.ListRows(context.Background(), rowstore.TableExpenses, rowstore.NewQuery().ForUser("u1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 2 || len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows for u1, got total=%d len=%d", res.Total, len(res.Rows))
	}
	for _, row := range res.Rows {
		if row.String("userId") != "u1" {
			t.Fatalf("cross-user row leaked: %v", row)
		}
	}
}

func TestListRowsSortAndPaginate(t *testing.T) {
	s := seedStore(t)

	q := rowstore.NewQuery().ForUser("u1").OrderDesc("amount").Page(1, 0)
	res, err := s.ListRows(context.Background(), rowstore.TableExpenses, q)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("total should count pre-pagination matches, got %d", res.Total)
	}
	if len(res.Rows) != 1 || res.Rows[0].Float("amount") != 100 {
		t.Fatalf("expected single row with amount 100, got %v", res.Rows)
	}

	q = rowstore.NewQuery().ForUser("u1").OrderDesc("amount").Page(1, 1)
	res, err = s.ListRows(context.Background(), rowstore.TableExpenses, q)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Float("amount") != 50 {
		t.Fatalf("expected second page row with amount 50, got %v", res.Rows)
	}
}

func TestListRowsProjection(t *testing.T) {
	s := seedStore(t)

	q := rowstore.NewQuery().ForUser("u1").Select("amount", "category.categoryName")
	res, err := s.ListRows(context.Background(), rowstore.TableExpenses, q)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, row := range res.Rows {
		if !row.Has("amount") || !row.Has("categoryName") {
			t.Fatalf("projected fields missing: %v", row)
		}
		if row.Has("transactionDate") {
			t.Fatalf("unselected field leaked: %v", row)
		}
		if row.ID() == "" {
			t.Fatal("system id must survive projection")
		}
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateRow(ctx, rowstore.TableBudget, "b1", rowstore.Row{"userId": "u1", "name": "Food", "amount": 500.0}, rowstore.OwnerPermissions("u1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID() != "b1" || created.CreatedAt().IsZero() {
		t.Fatalf("system fields not set: %v", created)
	}

	if _, err := s.CreateRow(ctx, rowstore.TableBudget, "b1", rowstore.Row{}, nil); err == nil {
		t.Fatal("duplicate id should fail")
	}

	updated, err := s.UpdateRow(ctx, rowstore.TableBudget, "b1", rowstore.Row{"spentAmount": 120.0})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Float("spentAmount") != 120 || updated.String("name") != "Food" {
		t.Fatalf("partial update wrong: %v", updated)
	}

	if _, err := s.UpdateRow(ctx, rowstore.TableBudget, "missing", rowstore.Row{}); err != rowstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteRow(ctx, rowstore.TableBudget, "b1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteRow(ctx, rowstore.TableBudget, "b1"); err != rowstore.ErrNotFound {
		t.Fatalf("second delete expected ErrNotFound, got %v", err)
	}
}
