// Package rowstore defines the client port for the external row-store
// service: named tables of schemaless rows with equality filters, sorting,
// pagination, and field projection. Implementations live in the rest,
// sqlite, and memory subpackages.
package rowstore

import (
	"context"
	"errors"
	"time"
)

// Tables consumed by SmartSpend.
const (
	TableExpenses      = "expenses"
	TableIncome        = "income"
	TableBudget        = "budget"
	TableGoals         = "goals"
	TableCategory      = "category"
	TableProfiles      = "profiles"
	TableNotifications = "notifications"
)

// System fields present on every row.
const (
	FieldID        = "$id"
	FieldCreatedAt = "$createdAt"
	FieldUser      = "userId"
)

var (
	ErrNotFound         = errors.New("row not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("row-store unavailable")
)

// Client is the row-store collaborator. All list operations on user-owned
// tables must carry an owner filter; the client itself does not enforce it.
type Client interface {
	ListRows(ctx context.Context, table string, q *Query) (RowList, error)
	CreateRow(ctx context.Context, table, id string, data Row, permissions []string) (Row, error)
	UpdateRow(ctx context.Context, table, id string, data Row) (Row, error)
	DeleteRow(ctx context.Context, table, id string) error
}

// Row is a decoded row document. Getters tolerate missing or mistyped
// fields by returning zero values; callers that need presence use Has.
type Row map[string]any

// RowList carries one page of rows plus the total match count.
type RowList struct {
	Rows  []Row
	Total int
}

// OwnerPermissions returns the per-row access-control entries granting the
// owning user full access, in the remote service's permission syntax.
func OwnerPermissions(userID string) []string {
	role := `user:` + userID
	return []string{
		`read("` + role + `")`,
		`write("` + role + `")`,
		`update("` + role + `")`,
		`delete("` + role + `")`,
	}
}

func (r Row) ID() string {
	return r.String(FieldID)
}

func (r Row) CreatedAt() time.Time {
	t, _ := r.Time(FieldCreatedAt)
	return t
}

func (r Row) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

func (r Row) String(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// Float reads a numeric field. JSON decoding yields float64; integer values
// written directly by Go code are accepted too.
func (r Row) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Time reads a timestamp field stored either as a time.Time value or as an
// ISO-8601 string. The second return is false when the field is missing or
// unparseable.
func (r Row) Time(field string) (time.Time, bool) {
	switch v := r[field].(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Strings reads a string-list field, tolerating []any from JSON decoding.
func (r Row) Strings(field string) []string {
	switch v := r[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Clone returns a shallow copy so callers can mutate without aliasing.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
