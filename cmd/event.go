package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/events"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/metrics"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test expense events through the audit and metrics subscribers`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a test expense event",
	Long:      `Publish a test expense event to the event bus for testing and debugging`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeExpenseCreated, events.EventTypeExpenseUpdated, events.EventTypeExpenseDeleted},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd, args[0])
	},
}

var (
	eventOwner    string
	eventAmount   string
	eventCategory string
	eventType     string
)

func publishTestEvent(cmd *cobra.Command, name string) error {
	switch name {
	case events.EventTypeExpenseCreated, events.EventTypeExpenseUpdated, events.EventTypeExpenseDeleted:
	default:
		return fmt.Errorf("unknown event type %q", name)
	}
	amount, err := decimal.NewFromString(eventAmount)
	if err != nil {
		return fmt.Errorf("invalid --amount: %w", err)
	}

	lg := logger.LoggerWrapper()
	eventBus := events.NewEventBus(lg)
	expense.NewAuditHandler(lg).RegisterEventHandlers(eventBus)
	m := metrics.New(prometheus.NewRegistry())
	metrics.NewEventHandler(m, lg).RegisterEventHandlers(eventBus)

	event := events.NewExpenseEvent(name, "cli-test", eventOwner, amount, eventCategory, eventType)
	lg.Info("publishing test event", "event_type", name, "event_id", event.EventID())

	// synchronous so every subscriber has run before the process exits
	if err := eventBus.PublishSync(cmd.Context(), event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	cmd.Println("test event published:", event.EventID())
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventOwner, "owner", "demo@mail.com", "owner email carried by the event")
	publishEventCmd.Flags().StringVar(&eventAmount, "amount", "10.00", "expense amount carried by the event")
	publishEventCmd.Flags().StringVar(&eventCategory, "category", string(expense.CategoryFood), "expense category carried by the event")
	publishEventCmd.Flags().StringVar(&eventType, "type", string(expense.TypeNeed), "Need or Want")

	eventCmd.AddCommand(publishEventCmd)
}
