// Package memory provides an in-process row-store used by tests and the
// development backend. It honors the same filter, sort, projection, and
// pagination semantics as the remote service.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smartspend/internal/rowstore"
)

type Store struct {
	mu     sync.Mutex
	tables map[string]map[string]rowstore.Row
	clock  func() time.Time
}

func New() *Store {
	return &Store{
		tables: make(map[string]map[string]rowstore.Row),
		clock:  time.Now,
	}
}

// SetClock overrides the creation timestamp source; tests use it for
// deterministic $createdAt ordering.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *Store) ListRows(_ context.Context, table string, q *rowstore.Query) (rowstore.RowList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]rowstore.Row, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		rows = append(rows, row)
	}
	return rowstore.Apply(rows, q), nil
}

func (s *Store) CreateRow(_ context.Context, table, id string, data rowstore.Row, _ []string) (rowstore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables[table] == nil {
		s.tables[table] = make(map[string]rowstore.Row)
	}
	if _, exists := s.tables[table][id]; exists {
		return nil, fmt.Errorf("create row %s/%s: duplicate id", table, id)
	}

	row := data.Clone()
	row[rowstore.FieldID] = id
	row[rowstore.FieldCreatedAt] = s.clock().UTC().Format(time.RFC3339Nano)
	s.tables[table][id] = row
	return row.Clone(), nil
}

func (s *Store) UpdateRow(_ context.Context, table, id string, data rowstore.Row) (rowstore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.tables[table][id]
	if !ok {
		return nil, rowstore.ErrNotFound
	}
	for k, v := range data {
		if k == rowstore.FieldID || k == rowstore.FieldCreatedAt {
			continue
		}
		row[k] = v
	}
	return row.Clone(), nil
}

func (s *Store) DeleteRow(_ context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table][id]; !ok {
		return rowstore.ErrNotFound
	}
	delete(s.tables[table], id)
	return nil
}

var _ rowstore.Client = (*Store)(nil)
