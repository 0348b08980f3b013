package expense

import (
	"strings"

	errors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// CreateExpenseDTO represents the request payload for creating an expense
type CreateExpenseDTO struct {
	Title     string           `json:"title"`
	Amount    *decimal.Decimal `json:"amount"`
	Category  string           `json:"category"`
	Type      string           `json:"type"`
	Date      string           `json:"date"`
	UserEmail string           `json:"userEmail"`
}

func (dto CreateExpenseDTO) Validate() *errors.AppError {
	v := fieldsValidator(dto.Title, dto.Amount, dto.Category, dto.Type, dto.Date)
	v.Field("userEmail", dto.UserEmail).Required().MaxLength(320)
	return v.Validate()
}

// Changes converts a validated payload into domain values.
func (dto CreateExpenseDTO) Changes() Changes {
	return toChanges(dto.Title, dto.Amount, dto.Category, dto.Type, dto.Date)
}

// UpdateExpenseDTO carries the five mutable fields. Ownership is never taken
// from the body on update.
type UpdateExpenseDTO struct {
	Title    string           `json:"title"`
	Amount   *decimal.Decimal `json:"amount"`
	Category string           `json:"category"`
	Type     string           `json:"type"`
	Date     string           `json:"date"`
}

func (dto UpdateExpenseDTO) Validate() *errors.AppError {
	return fieldsValidator(dto.Title, dto.Amount, dto.Category, dto.Type, dto.Date).Validate()
}

func (dto UpdateExpenseDTO) Changes() Changes {
	return toChanges(dto.Title, dto.Amount, dto.Category, dto.Type, dto.Date)
}

func fieldsValidator(title string, amount *decimal.Decimal, category, typ, date string) *validation.ValidationBuilder {
	v := validation.NewValidator()
	v.Field("title", title).Required().MaxLength(200)
	v.Field("amount", amount).Required().Positive(errors.ErrCodeInvalidAmount)
	v.Field("category", category).Required().OneOf(CategoryNames(), errors.ErrCodeInvalidCategory)
	v.Field("type", typ).Required().OneOf(TypeNames(), errors.ErrCodeInvalidType)
	v.Field("date", date).Required().Date()
	return v
}

func toChanges(title string, amount *decimal.Decimal, category, typ, date string) Changes {
	c := Changes{
		Title:    strings.TrimSpace(title),
		Category: Category(category),
		Type:     Type(typ),
	}
	if amount != nil {
		c.Amount = *amount
	}
	if d, err := validation.ParseDate(date); err == nil {
		c.Date = d
	}
	return c
}

type ListExpensesResponse struct {
	Success  bool       `json:"success"`
	Expenses []*Expense `json:"expenses"`
}

type ExpenseResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Expense *Expense `json:"expense"`
}

type DeleteExpenseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
