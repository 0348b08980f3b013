package expense_test

import (
	"bytes"
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/events"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
)

var _ = Describe("AuditHandler", func() {
	var (
		buf     *bytes.Buffer
		handler *expense.AuditHandler
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		handler = expense.NewAuditHandler(slog.New(slog.NewTextHandler(buf, nil)))
	})

	It("logs the committed change", func() {
		event := events.NewExpenseEvent(events.EventTypeExpenseDeleted, "e1", "a@b.com", decimal.RequireFromString("3.20"), "Food", "Want")

		Expect(handler.HandleExpenseEvent(context.Background(), event)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("event_type=expense.deleted"))
		Expect(buf.String()).To(ContainSubstring("expense_id=e1"))
		Expect(buf.String()).To(ContainSubstring("amount=3.2"))
	})

	It("receives events published on the bus", func() {
		bus := events.NewEventBus(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		handler.RegisterEventHandlers(bus)

		event := events.NewExpenseEvent(events.EventTypeExpenseCreated, "e2", "a@b.com", decimal.NewFromInt(5), "Rent", "Need")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("expense_id=e2"))
	})

	It("rejects foreign event types", func() {
		Expect(handler.HandleExpenseEvent(context.Background(), events.BaseEvent{Type: "other"})).NotTo(Succeed())
	})
})
