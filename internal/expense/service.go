package expense

import (
	"context"
	stdErrors "errors"
	"log/slog"

	errors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/events"
)

// RepositoryAPI is the record store contract shared by every backend.
type RepositoryAPI interface {
	Insert(ctx context.Context, e *Expense) error
	FindByOwner(ctx context.Context, owner string) ([]*Expense, error)
	FindByID(ctx context.Context, id string) (*Expense, error)
	UpdateByID(ctx context.Context, id string, c Changes) (*Expense, error)
	DeleteByID(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
}

// NewService creates a new expense service. publisher may be nil.
func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ListExpenses(ctx context.Context, owner string) ([]*Expense, error) {
	owner = NormalizeOwner(owner)
	if owner == "" {
		return nil, errors.ErrOwnerRequired
	}

	expenses, err := s.repo.FindByOwner(ctx, owner)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "owner", owner)
		return nil, errors.NewInternalError("Server error while fetching expenses", err)
	}
	if expenses == nil {
		expenses = []*Expense{}
	}
	return expenses, nil
}

func (s *Service) GetExpense(ctx context.Context, id, owner string) (*Expense, error) {
	return s.findOwned(ctx, id, owner)
}

func (s *Service) AddExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err.GetDetailedMessage())
		return nil, err
	}

	exp := NewExpense(dto.UserEmail, dto.Changes())
	if err := s.repo.Insert(ctx, exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "owner", exp.UserEmail)
		return nil, errors.NewInternalError("Server error while adding expense", err)
	}

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"owner", exp.UserEmail,
		"amount", exp.Amount.String(),
		"category", exp.Category)

	s.publish(ctx, events.EventTypeExpenseCreated, exp)
	return exp, nil
}

// UpdateExpense overwrites the mutable fields of id. A non-empty owner must
// match the record's owner.
func (s *Service) UpdateExpense(ctx context.Context, id, owner string, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err.GetDetailedMessage(), "expense_id", id)
		return nil, err
	}

	if _, err := s.findOwned(ctx, id, owner); err != nil {
		return nil, err
	}

	exp, err := s.repo.UpdateByID(ctx, id, dto.Changes())
	if err != nil {
		if stdErrors.Is(err, ErrExpenseNotFound) {
			return nil, errors.ErrExpenseNotFound
		}
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("Server error while updating expense", err)
	}

	s.logger.Info("expense updated", "expense_id", exp.ID, "owner", exp.UserEmail)
	s.publish(ctx, events.EventTypeExpenseUpdated, exp)
	return exp, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id, owner string) error {
	exp, err := s.findOwned(ctx, id, owner)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if stdErrors.Is(err, ErrExpenseNotFound) {
			return errors.ErrExpenseNotFound
		}
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return errors.NewInternalError("Server error while deleting expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id, "owner", exp.UserEmail)
	s.publish(ctx, events.EventTypeExpenseDeleted, exp)
	return nil
}

// findOwned loads id and hides records that belong to another owner.
func (s *Service) findOwned(ctx context.Context, id, owner string) (*Expense, error) {
	if id == "" {
		return nil, errors.ErrExpenseNotFound
	}

	exp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, ErrExpenseNotFound) {
			return nil, errors.ErrExpenseNotFound
		}
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("Server error while fetching expense", err)
	}

	if owner != "" && !exp.OwnedBy(owner) {
		s.logger.Warn("expense requested by another owner", "expense_id", id, "owner", NormalizeOwner(owner))
		return nil, errors.ErrExpenseNotFound
	}
	return exp, nil
}

func (s *Service) publish(ctx context.Context, eventType string, exp *Expense) {
	if s.publisher == nil {
		return
	}
	event := events.NewExpenseEvent(eventType, exp.ID, exp.UserEmail, exp.Amount, string(exp.Category), string(exp.Type))
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error("failed to publish expense event", "error", err, "event_type", eventType, "expense_id", exp.ID)
	}
}
