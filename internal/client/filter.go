package client

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
)

// Filter narrows the fetched expenses. Zero fields do not filter.
type Filter struct {
	Category expense.Category
	Type     expense.Type
	From     time.Time
	To       time.Time
}

func (f Filter) IsZero() bool {
	return f.Category == "" && f.Type == "" && f.From.IsZero() && f.To.IsZero()
}

// Matches reports whether e passes every set predicate. Bounds are inclusive.
func (f Filter) Matches(e *expense.Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	return true
}

// Apply keeps the matching expenses in their original order.
func (f Filter) Apply(expenses []*expense.Expense) []*expense.Expense {
	filtered := make([]*expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (f Filter) String() string {
	if f.IsZero() {
		return "none"
	}
	var parts []string
	if f.Category != "" {
		parts = append(parts, "category="+string(f.Category))
	}
	if f.Type != "" {
		parts = append(parts, "type="+string(f.Type))
	}
	if !f.From.IsZero() {
		parts = append(parts, "from="+f.From.Format(time.DateOnly))
	}
	if !f.To.IsZero() {
		parts = append(parts, "to="+f.To.Format(time.DateOnly))
	}
	return strings.Join(parts, " ")
}

var hundred = decimal.NewFromInt(100)

// Summary aggregates a set of expenses.
type Summary struct {
	Total           decimal.Decimal
	NeedsTotal      decimal.Decimal
	WantsTotal      decimal.Decimal
	NeedsPercentage decimal.Decimal
	WantsPercentage decimal.Decimal
	Count           int
}

// Summarize totals expenses by type. Percentages have one decimal place and,
// for a positive total, always add up to exactly 100.
func Summarize(expenses []*expense.Expense) Summary {
	s := Summary{
		Total:           decimal.Zero,
		NeedsTotal:      decimal.Zero,
		WantsTotal:      decimal.Zero,
		NeedsPercentage: decimal.Zero,
		WantsPercentage: decimal.Zero,
		Count:           len(expenses),
	}
	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		switch {
		case e.IsNeed():
			s.NeedsTotal = s.NeedsTotal.Add(e.Amount)
		case e.IsWant():
			s.WantsTotal = s.WantsTotal.Add(e.Amount)
		}
	}

	if s.Total.IsPositive() {
		s.NeedsPercentage = s.NeedsTotal.Div(s.Total).Mul(hundred).Round(1)
		s.WantsPercentage = hundred.Sub(s.NeedsPercentage)
	}
	return s
}
