package services

import (
	"context"
	"fmt"

	"smartspend/internal/amqp"
	"smartspend/internal/rowstore"
)

// EventPublisher is the slice of the AMQP client the services need.
// A nil publisher disables events without changing any write path.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// Page is one page of an owner-scoped listing. Total counts all matching
// rows, not just the returned slice.
type Page[T any] struct {
	Items []T
	Total int
}

const defaultPageSize = 25

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// getOwnedRow fetches a single row by id, scoped to its owner. Rows that
// exist but belong to another user come back as rowstore.ErrNotFound so
// handlers cannot leak existence.
func getOwnedRow(ctx context.Context, store rowstore.Client, table, userID, id string) (rowstore.Row, error) {
	list, err := store.ListRows(ctx, table, rowstore.NewQuery().
		ForUser(userID).
		Equal(rowstore.FieldID, id).
		Page(1, 0))
	if err != nil {
		return nil, fmt.Errorf("fetch %s row: %w", table, err)
	}
	if len(list.Rows) == 0 {
		return nil, rowstore.ErrNotFound
	}
	return list.Rows[0], nil
}
