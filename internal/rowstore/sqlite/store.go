// Package sqlite implements the rowstore client over a local SQLite file,
// storing each row as a JSON document. It backs the offline development
// backend; datasets are per-user and small, so query evaluation happens
// in-process after decoding, with only the owner filter pushed down.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"smartspend/internal/rowstore"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ListRows(ctx context.Context, table string, q *rowstore.Query) (rowstore.RowList, error) {
	query := `SELECT row_id, data, created_at FROM rows WHERE table_name = ?`
	args := []any{table}

	// Push the owner filter into SQL; everything else is evaluated after
	// decoding.
	if userID, ok := ownerFilter(q); ok {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	dbRows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return rowstore.RowList{}, fmt.Errorf("query rows %s: %w", table, err)
	}
	defer dbRows.Close()

	var rows []rowstore.Row
	for dbRows.Next() {
		var rowID, data, createdAt string
		if err := dbRows.Scan(&rowID, &data, &createdAt); err != nil {
			return rowstore.RowList{}, fmt.Errorf("scan row %s: %w", table, err)
		}
		row, err := decodeDocument(rowID, data, createdAt)
		if err != nil {
			slog.WarnContext(ctx, "Skipping undecodable row",
				"table", table, "row_id", rowID, "error", err)
			continue
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return rowstore.RowList{}, fmt.Errorf("iterate rows %s: %w", table, err)
	}

	return rowstore.Apply(rows, q), nil
}

func (s *Store) CreateRow(ctx context.Context, table, id string, data rowstore.Row, _ []string) (rowstore.Row, error) {
	doc, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode row %s/%s: %w", table, id, err)
	}
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rows (table_name, row_id, user_id, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		table, id, data.String(rowstore.FieldUser), string(doc), createdAt)
	if err != nil {
		return nil, fmt.Errorf("insert row %s/%s: %w", table, id, err)
	}

	row := data.Clone()
	row[rowstore.FieldID] = id
	row[rowstore.FieldCreatedAt] = createdAt
	return row, nil
}

func (s *Store) UpdateRow(ctx context.Context, table, id string, data rowstore.Row) (rowstore.Row, error) {
	var doc, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, created_at FROM rows WHERE table_name = ? AND row_id = ?`,
		table, id).Scan(&doc, &createdAt)
	if err == sql.ErrNoRows {
		return nil, rowstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load row %s/%s: %w", table, id, err)
	}

	row, err := decodeDocument(id, doc, createdAt)
	if err != nil {
		return nil, fmt.Errorf("decode row %s/%s: %w", table, id, err)
	}
	for k, v := range data {
		if k == rowstore.FieldID || k == rowstore.FieldCreatedAt {
			continue
		}
		row[k] = v
	}

	stored := row.Clone()
	delete(stored, rowstore.FieldID)
	delete(stored, rowstore.FieldCreatedAt)
	encoded, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode row %s/%s: %w", table, id, err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE rows SET data = ?, user_id = ? WHERE table_name = ? AND row_id = ?`,
		string(encoded), stored.String(rowstore.FieldUser), table, id)
	if err != nil {
		return nil, fmt.Errorf("update row %s/%s: %w", table, id, err)
	}
	return row, nil
}

func (s *Store) DeleteRow(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM rows WHERE table_name = ? AND row_id = ?`, table, id)
	if err != nil {
		return fmt.Errorf("delete row %s/%s: %w", table, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return rowstore.ErrNotFound
	}
	return nil
}

func ownerFilter(q *rowstore.Query) (string, bool) {
	if q == nil {
		return "", false
	}
	for _, f := range q.Filters {
		if f.Field == rowstore.FieldUser {
			if s, ok := f.Value.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func decodeDocument(rowID, data, createdAt string) (rowstore.Row, error) {
	var row rowstore.Row
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return nil, err
	}
	row[rowstore.FieldID] = rowID
	row[rowstore.FieldCreatedAt] = createdAt
	return row, nil
}

var _ rowstore.Client = (*Store)(nil)
