package rest

import (
	"encoding/json"
	"strconv"

	"smartspend/internal/rowstore"
)

// EncodeQuery renders a query into the remote service's query-string syntax,
// one encoded operation per element.
func EncodeQuery(q *rowstore.Query) []string {
	if q == nil {
		return nil
	}
	var out []string

	for _, f := range q.Filters {
		value, err := json.Marshal([]any{f.Value})
		if err != nil {
			continue
		}
		out = append(out, `equal("`+f.Field+`",`+string(value)+`)`)
	}
	for _, s := range q.Sorts {
		if s.Desc {
			out = append(out, `orderDesc("`+s.Field+`")`)
		} else {
			out = append(out, `orderAsc("`+s.Field+`")`)
		}
	}
	if len(q.Fields) > 0 {
		fields, err := json.Marshal(q.Fields)
		if err == nil {
			out = append(out, `select(`+string(fields)+`)`)
		}
	}
	if q.Limit > 0 {
		out = append(out, `limit(`+strconv.Itoa(q.Limit)+`)`)
	}
	if q.Offset > 0 {
		out = append(out, `offset(`+strconv.Itoa(q.Offset)+`)`)
	}
	return out
}
