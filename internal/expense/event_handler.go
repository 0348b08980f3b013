package expense

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/events"
)

// AuditHandler writes one structured audit line per committed expense change.
type AuditHandler struct {
	logger *slog.Logger
}

func NewAuditHandler(logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		logger: logger.With("component", "expense_audit"),
	}
}

func (h *AuditHandler) HandleExpenseEvent(_ context.Context, event events.Event) error {
	expenseEvent, ok := event.(*events.ExpenseEvent)
	if !ok {
		h.logger.Error("invalid event type for expense audit handler", "event_type", event.EventType())
		return fmt.Errorf("expected ExpenseEvent, got %T", event)
	}

	h.logger.Info("expense audit",
		"event_type", expenseEvent.EventType(),
		"event_id", expenseEvent.EventID(),
		"occurred_at", expenseEvent.OccurredAt(),
		"expense_id", expenseEvent.ExpenseID,
		"owner", expenseEvent.OwnerEmail,
		"amount", expenseEvent.Amount.String(),
		"category", expenseEvent.Category,
		"type", expenseEvent.ExpenseType)

	return nil
}

func (h *AuditHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	types := []string{
		events.EventTypeExpenseCreated,
		events.EventTypeExpenseUpdated,
		events.EventTypeExpenseDeleted,
	}
	for _, t := range types {
		eventBus.Subscribe(t, h.HandleExpenseEvent)
	}

	h.logger.Info("expense audit handlers registered", "handlers", types)
}
