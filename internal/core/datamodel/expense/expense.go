package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Expense struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Title       string          `gorm:"column:title;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	Category    string          `gorm:"column:category;not null"`
	ExpenseType string          `gorm:"column:expense_type;not null"`
	ExpenseDate time.Time       `gorm:"column:expense_date;not null"`
	UserEmail   string          `gorm:"column:user_email;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}

// BeforeCreate assigns the record identifier when the caller left it empty.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
