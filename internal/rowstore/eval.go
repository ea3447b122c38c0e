package rowstore

import (
	"fmt"
	"sort"
	"strings"
)

// Apply evaluates a query against an in-process row set. The remote service
// evaluates queries server-side; the local backends (memory, sqlite) share
// this implementation. Total counts matches before pagination. Returned rows
// are clones, safe for the caller to mutate.
func Apply(rows []Row, q *Query) RowList {
	if q == nil {
		q = NewQuery()
	}

	var matched []Row
	for _, row := range rows {
		if matchesFilters(row, q.Filters) {
			matched = append(matched, row.Clone())
		}
	}

	sortRows(matched, q.Sorts)

	total := len(matched)
	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	if len(q.Fields) > 0 {
		for i, row := range matched {
			matched[i] = project(row, q.Fields)
		}
	}

	return RowList{Rows: matched, Total: total}
}

func matchesFilters(row Row, filters []Filter) bool {
	for _, f := range filters {
		if !valueEqual(row[f.Field], f.Value) {
			return false
		}
	}
	return true
}

// valueEqual compares loosely across the numeric types JSON decoding and
// direct Go writes produce.
func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func sortRows(rows []Row, sorts []Sort) {
	if len(sorts) == 0 {
		// Stable fallback so repeated lists return the same order.
		sorts = []Sort{{Field: FieldID}}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, s := range sorts {
			cmp := compareValues(rows[i][s.Field], rows[j][s.Field])
			if cmp == 0 {
				continue
			}
			if s.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b any) int {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

func project(row Row, fields []string) Row {
	out := Row{
		FieldID:        row[FieldID],
		FieldCreatedAt: row[FieldCreatedAt],
	}
	for _, f := range fields {
		if f == "*" {
			for k, v := range row {
				out[k] = v
			}
			continue
		}
		// Relationship projections like "category.categoryName" resolve to
		// the denormalized field stored on the row itself.
		if i := strings.LastIndex(f, "."); i >= 0 {
			f = f[i+1:]
		}
		if v, ok := row[f]; ok {
			out[f] = v
		}
	}
	return out
}
