package dashboard

import (
	"sort"
	"time"

	"smartspend/internal/core"
	"smartspend/internal/rowstore"
)

// Row field names as stored in the row-store tables.
const (
	fieldAmount          = "amount"
	fieldTransactionDate = "transactionDate"
	fieldReceiptDate     = "receiptDate"
	fieldName            = "name"
	fieldSpentAmount     = "spentAmount"
	fieldCategoryName    = "categoryName"
	fieldStartDate       = "startDate"
	fieldEndDate         = "endDate"
	fieldNotes           = "notes"
)

const monthKeyLayout = "2006-01"

// AggregateByMonth sums row amounts into YYYY-MM buckets keyed in loc.
// Rows without a parseable date or with a zero amount are skipped; they
// never fail the aggregation.
func AggregateByMonth(rows []rowstore.Row, dateField string, loc *time.Location) map[string]core.Money {
	buckets := make(map[string]core.Money, 12)
	for _, row := range rows {
		date, ok := row.Time(dateField)
		if !ok {
			continue
		}
		amount := core.MoneyFromFloat(row.Float(fieldAmount))
		if amount.IsZero() {
			continue
		}
		key := date.In(loc).Format(monthKeyLayout)
		buckets[key] = buckets[key].Add(amount)
	}
	return buckets
}

// SumMonths totals all buckets.
func SumMonths(buckets map[string]core.Money) core.Money {
	var total core.Money
	for _, amount := range buckets {
		total = total.Add(amount)
	}
	return total
}

// SortedMonths returns the bucket keys in ascending calendar order, for
// renderers that need a stable series.
func SortedMonths(buckets map[string]core.Money) []string {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func budgetFromRow(row rowstore.Row) core.Budget {
	b := core.Budget{
		ID:            row.ID(),
		UserID:        row.String(rowstore.FieldUser),
		Name:          row.String(fieldName),
		Amount:        core.MoneyFromFloat(row.Float(fieldAmount)),
		SpentAmount:   core.MoneyFromFloat(row.Float(fieldSpentAmount)),
		Notes:         row.String(fieldNotes),
		CategoryNames: row.Strings(fieldCategoryName),
		CreatedAt:     row.CreatedAt(),
	}
	b.StartDate, _ = row.Time(fieldStartDate)
	b.EndDate, _ = row.Time(fieldEndDate)
	return b
}
