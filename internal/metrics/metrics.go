package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ExpenseEventsTotal  *prometheus.CounterVec
	ExpenseAmountTotal  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the metrics and registers them with reg. A nil reg uses the
// process-wide default registry.
func New(reg prometheus.Registerer) *Metrics {
	gatherer := prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expense_tracker_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "expense_tracker_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ExpenseEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expense_tracker_expense_events_total",
			Help: "Expense mutations by event type",
		}, []string{"event"}),
		ExpenseAmountTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expense_tracker_expense_amount_total",
			Help: "Sum of created expense amounts by need/want type",
		}, []string{"type"}),
		gatherer: gatherer,
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) IncrementExpenseEvent(eventType string) {
	m.ExpenseEventsTotal.WithLabelValues(eventType).Inc()
}

// AddExpenseAmount ignores non-positive amounts; counters only go up.
func (m *Metrics) AddExpenseAmount(expenseType string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	m.ExpenseAmountTotal.WithLabelValues(expenseType).Add(amount.InexactFloat64())
}

// Handler exposes the registry the metrics were registered with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
