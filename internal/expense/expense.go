package expense

import (
	"errors"
	"strings"
	"time"

	expenseDatamodel "github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts travel as JSON numbers, matching what browsers and the CLI send
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTravel        Category = "Travel"
	CategoryShopping      Category = "Shopping"
	CategoryTools         Category = "Tools"
	CategoryTransport     Category = "Transport"
	CategoryRent          Category = "Rent"
	CategoryUtilities     Category = "Utilities"
	CategorySubscriptions Category = "Subscriptions"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTravel,
	CategoryShopping,
	CategoryTools,
	CategoryTransport,
	CategoryRent,
	CategoryUtilities,
	CategorySubscriptions,
	CategoryEducation,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// Type is the budget classification of an expense.
type Type string

const (
	TypeNeed Type = "Need"
	TypeWant Type = "Want"
)

var Types = []Type{TypeNeed, TypeWant}

func (t Type) Valid() bool {
	return t == TypeNeed || t == TypeWant
}

func TypeNames() []string {
	return []string{string(TypeNeed), string(TypeWant)}
}

type Expense struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Category  Category        `json:"category"`
	Type      Type            `json:"type"`
	Date      time.Time       `json:"date"`
	UserEmail string          `json:"userEmail"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Changes holds the fields an update may overwrite. ID and owner never change.
type Changes struct {
	Title    string
	Amount   decimal.Decimal
	Category Category
	Type     Type
	Date     time.Time
}

func (e *Expense) IsNeed() bool {
	return e.Type == TypeNeed
}

func (e *Expense) IsWant() bool {
	return e.Type == TypeWant
}

func (e *Expense) OwnedBy(owner string) bool {
	return e.UserEmail == NormalizeOwner(owner)
}

// Apply overwrites the mutable fields and bumps UpdatedAt.
func (e *Expense) Apply(c Changes) {
	e.Title = c.Title
	e.Amount = c.Amount
	e.Category = c.Category
	e.Type = c.Type
	e.Date = c.Date
	e.UpdatedAt = time.Now()
}

func NewExpense(owner string, c Changes) *Expense {
	now := time.Now()
	return &Expense{
		Title:     c.Title,
		Amount:    c.Amount,
		Category:  c.Category,
		Type:      c.Type,
		Date:      c.Date,
		UserEmail: NormalizeOwner(owner),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeOwner canonicalizes an owner email so lookups are case insensitive.
func NormalizeOwner(owner string) string {
	return strings.ToLower(strings.TrimSpace(owner))
}

// ErrExpenseNotFound is returned by repositories when no record matches the id.
var ErrExpenseNotFound = errors.New("expense not found")

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		Title:       e.Title,
		Amount:      e.Amount,
		Category:    string(e.Category),
		ExpenseType: string(e.Type),
		ExpenseDate: e.Date,
		UserEmail:   e.UserEmail,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  Category(e.Category),
		Type:      Type(e.ExpenseType),
		Date:      e.ExpenseDate.UTC(),
		UserEmail: e.UserEmail,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
