package report

import "time"

type EntryType string

const (
	TypeIncome  EntryType = "income"
	TypeExpense EntryType = "expense"
)

type TypeFilter string

const (
	FilterIncome  TypeFilter = "income"
	FilterExpense TypeFilter = "expense"
	FilterBoth    TypeFilter = "both"
)

func (f TypeFilter) Valid() bool {
	switch f {
	case FilterIncome, FilterExpense, FilterBoth:
		return true
	}
	return false
}

func (f TypeFilter) Matches(t EntryType) bool {
	return f == FilterBoth || string(f) == string(t)
}

// Entry is one cashflow line. Entry CRUD lives in the bookkeeping screens
// outside this service; the aggregator only reads.
type Entry struct {
	ID            int64
	PropertyID    int64
	PropertyName  string
	Date          time.Time
	Type          EntryType
	Category      string
	Description   string
	Amount        float64
	PaymentMethod string
	Reference     string
	Notes         string
}
