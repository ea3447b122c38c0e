package rowstore

// Filter is an equality predicate on a single field.
type Filter struct {
	Field string
	Value any
}

// Sort orders results by a single field.
type Sort struct {
	Field string
	Desc  bool
}

// Query describes one list operation: equality filters, sort order, field
// projection, and limit/offset pagination. Zero Limit means no limit.
type Query struct {
	Filters []Filter
	Sorts   []Sort
	Fields  []string
	Limit   int
	Offset  int
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Equal adds an equality filter.
func (q *Query) Equal(field string, value any) *Query {
	q.Filters = append(q.Filters, Filter{Field: field, Value: value})
	return q
}

// OrderAsc adds an ascending sort on field.
func (q *Query) OrderAsc(field string) *Query {
	q.Sorts = append(q.Sorts, Sort{Field: field})
	return q
}

// OrderDesc adds a descending sort on field.
func (q *Query) OrderDesc(field string) *Query {
	q.Sorts = append(q.Sorts, Sort{Field: field, Desc: true})
	return q
}

// Select restricts returned rows to the named fields. System fields are
// always included.
func (q *Query) Select(fields ...string) *Query {
	q.Fields = append(q.Fields, fields...)
	return q
}

// Page sets limit/offset pagination.
func (q *Query) Page(limit, offset int) *Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

// ForUser adds the owning-user equality filter every user-owned table
// requires.
func (q *Query) ForUser(userID string) *Query {
	return q.Equal(FieldUser, userID)
}
