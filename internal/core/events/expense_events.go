package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeExpenseCreated = "expense.created"
	EventTypeExpenseUpdated = "expense.updated"
	EventTypeExpenseDeleted = "expense.deleted"
)

// ExpenseEvent describes a committed change to one expense record.
type ExpenseEvent struct {
	BaseEvent
	ExpenseID   string          `json:"expense_id"`
	OwnerEmail  string          `json:"owner_email"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	ExpenseType string          `json:"expense_type"`
}

func NewExpenseEvent(eventType, expenseID, owner string, amount decimal.Decimal, category, expenseType string) *ExpenseEvent {
	return &ExpenseEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
		},
		ExpenseID:   expenseID,
		OwnerEmail:  owner,
		Amount:      amount,
		Category:    category,
		ExpenseType: expenseType,
	}
}
