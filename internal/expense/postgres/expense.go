package postgres

import (
	"context"
	"errors"
	"time"

	expenseDatamodel "github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/datamodel/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.RepositoryAPI with GORM. It serves both
// the postgres and sqlite drivers.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

// Insert saves a new expense and copies the generated id back.
func (r *ExpenseRepository) Insert(ctx context.Context, exp *expense.Expense) error {
	row := expense.ToDataModel(exp)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	exp.ID = row.ID
	exp.CreatedAt = row.CreatedAt
	exp.UpdatedAt = row.UpdatedAt
	return nil
}

// FindByOwner returns the owner's expenses, most recent date first.
func (r *ExpenseRepository) FindByOwner(ctx context.Context, owner string) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("user_email = ?", owner).
		Order("expense_date DESC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*expense.Expense, error) {
	var row expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&row), nil
}

// UpdateByID overwrites the mutable columns and returns the stored row.
func (r *ExpenseRepository) UpdateByID(ctx context.Context, id string, c expense.Changes) (*expense.Expense, error) {
	var updated *expense.Expense
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&expenseDatamodel.Expense{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"title":        c.Title,
				"amount":       c.Amount,
				"category":     string(c.Category),
				"expense_type": string(c.Type),
				"expense_date": c.Date,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return expense.ErrExpenseNotFound
		}

		var row expenseDatamodel.Expense
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		updated = expense.FromDataModel(&row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *ExpenseRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&expenseDatamodel.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}
