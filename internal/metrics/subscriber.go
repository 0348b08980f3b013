package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/events"
)

// EventHandler turns expense events into metric samples.
type EventHandler struct {
	metrics *Metrics
	logger  *slog.Logger
}

func NewEventHandler(m *Metrics, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		metrics: m,
		logger:  logger,
	}
}

func (h *EventHandler) HandleExpenseEvent(_ context.Context, event events.Event) error {
	expenseEvent, ok := event.(*events.ExpenseEvent)
	if !ok {
		return fmt.Errorf("expected ExpenseEvent, got %T", event)
	}

	h.metrics.IncrementExpenseEvent(expenseEvent.EventType())
	if expenseEvent.EventType() == events.EventTypeExpenseCreated {
		h.metrics.AddExpenseAmount(expenseEvent.ExpenseType, expenseEvent.Amount)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	types := []string{
		events.EventTypeExpenseCreated,
		events.EventTypeExpenseUpdated,
		events.EventTypeExpenseDeleted,
	}
	for _, t := range types {
		eventBus.Subscribe(t, h.HandleExpenseEvent)
	}

	h.logger.Info("metrics event handlers registered", "handlers", types)
}
