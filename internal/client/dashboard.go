package client

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
)

const (
	NetworkErrorMessage = "Network error. Please try again."
	fetchFailedMessage  = "Failed to fetch expenses"
)

// ErrNotLoggedIn means no owner is stored; the caller should send the user
// to login.
var ErrNotLoggedIn = stdErrors.New("not logged in")

// API is the slice of the HTTP API the dashboard drives.
type API interface {
	ListExpenses(ctx context.Context, owner string) ([]*expense.Expense, error)
	CreateExpense(ctx context.Context, dto expense.CreateExpenseDTO) (*expense.Expense, error)
	UpdateExpense(ctx context.Context, id string, dto expense.UpdateExpenseDTO) (*expense.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Form holds the raw text of the add/edit form.
type Form struct {
	Title    string
	Amount   string
	Category string
	Type     string
	Date     string
}

// Dashboard is the client side state: every fetched expense, the active
// filter, the form being edited and the message banner.
type Dashboard struct {
	api    API
	owner  string
	logger *slog.Logger

	expenses  []*expense.Expense
	filtered  []*expense.Expense
	filter    Filter
	form      Form
	editingID string
	banner    string
}

func NewDashboard(api API, session Session, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		api:      api,
		owner:    expense.NormalizeOwner(session.Email),
		logger:   logger,
		expenses: []*expense.Expense{},
		filtered: []*expense.Expense{},
	}
}

func (d *Dashboard) Owner() string { return d.owner }

// Load fetches every expense of the owner once.
func (d *Dashboard) Load(ctx context.Context) error {
	if d.owner == "" {
		return ErrNotLoggedIn
	}
	return d.refetch(ctx)
}

func (d *Dashboard) refetch(ctx context.Context) error {
	expenses, err := d.api.ListExpenses(ctx, d.owner)
	if err != nil {
		d.logger.Warn("failed to fetch expenses", "error", err, "owner", d.owner)
		if stdErrors.Is(err, ErrNetwork) {
			d.banner = NetworkErrorMessage
		} else {
			d.banner = fetchFailedMessage
		}
		return err
	}
	d.expenses = expenses
	d.applyFilter()
	return nil
}

func (d *Dashboard) applyFilter() {
	d.filtered = d.filter.Apply(d.expenses)
}

// Expenses returns the filtered view.
func (d *Dashboard) Expenses() []*expense.Expense { return d.filtered }

func (d *Dashboard) Summary() Summary { return Summarize(d.filtered) }

func (d *Dashboard) Filter() Filter { return d.filter }

func (d *Dashboard) SetFilter(f Filter) {
	d.filter = f
	d.applyFilter()
}

func (d *Dashboard) SetCategoryFilter(c expense.Category) {
	d.filter.Category = c
	d.applyFilter()
}

func (d *Dashboard) SetTypeFilter(t expense.Type) {
	d.filter.Type = t
	d.applyFilter()
}

func (d *Dashboard) SetDateRange(from, to time.Time) {
	d.filter.From = from
	d.filter.To = to
	d.applyFilter()
}

func (d *Dashboard) ClearFilters() {
	d.SetFilter(Filter{})
}

func (d *Dashboard) Banner() string { return d.banner }

func (d *Dashboard) DismissBanner() { d.banner = "" }

func (d *Dashboard) Form() Form { return d.form }

func (d *Dashboard) Editing() string { return d.editingID }

func (d *Dashboard) SetForm(f Form) { d.form = f }

// Edit fills the form from a fetched expense and switches Submit to update.
func (d *Dashboard) Edit(id string) error {
	for _, e := range d.expenses {
		if e.ID == id {
			d.editingID = id
			d.form = Form{
				Title:    e.Title,
				Amount:   e.Amount.String(),
				Category: string(e.Category),
				Type:     string(e.Type),
				Date:     e.Date.UTC().Format(time.DateOnly),
			}
			return nil
		}
	}
	return errors.ErrExpenseNotFound
}

func (d *Dashboard) ResetForm() {
	d.form = Form{}
	d.editingID = ""
}

// Submit validates the form locally, then creates or updates. On success the
// list is refetched and the form reset; any failure lands in the banner.
func (d *Dashboard) Submit(ctx context.Context) error {
	d.banner = ""
	if d.owner == "" {
		return ErrNotLoggedIn
	}

	amount, appErr := parseAmount(d.form.Amount)
	if appErr != nil {
		d.banner = appErr.GetDetailedMessage()
		return appErr
	}

	var (
		err     error
		success string
	)
	if d.editingID != "" {
		dto := expense.UpdateExpenseDTO{
			Title:    strings.TrimSpace(d.form.Title),
			Amount:   amount,
			Category: strings.TrimSpace(d.form.Category),
			Type:     strings.TrimSpace(d.form.Type),
			Date:     strings.TrimSpace(d.form.Date),
		}
		if appErr := dto.Validate(); appErr != nil {
			d.banner = appErr.GetDetailedMessage()
			return appErr
		}
		_, err = d.api.UpdateExpense(ctx, d.editingID, dto)
		success = "Expense updated successfully!"
	} else {
		dto := expense.CreateExpenseDTO{
			Title:     strings.TrimSpace(d.form.Title),
			Amount:    amount,
			Category:  strings.TrimSpace(d.form.Category),
			Type:      strings.TrimSpace(d.form.Type),
			Date:      strings.TrimSpace(d.form.Date),
			UserEmail: d.owner,
		}
		if appErr := dto.Validate(); appErr != nil {
			d.banner = appErr.GetDetailedMessage()
			return appErr
		}
		_, err = d.api.CreateExpense(ctx, dto)
		success = "Expense added successfully!"
	}

	if err != nil {
		d.fail("submit", err)
		return err
	}

	d.ResetForm()
	if err := d.refetch(ctx); err != nil {
		return err
	}
	d.banner = success
	return nil
}

// Delete asks confirmer first and does nothing when the answer is no.
func (d *Dashboard) Delete(ctx context.Context, id string, confirmer Confirmer) (bool, error) {
	d.banner = ""
	if confirmer == nil || !confirmer.Confirm("Are you sure you want to delete this expense?") {
		return false, nil
	}

	if err := d.api.DeleteExpense(ctx, id); err != nil {
		d.fail("delete", err)
		return false, err
	}

	if d.editingID == id {
		d.ResetForm()
	}
	if err := d.refetch(ctx); err != nil {
		return true, err
	}
	d.banner = "Expense deleted successfully!"
	return true, nil
}

// fail shows the server's message, or the generic network message when the
// server never answered.
func (d *Dashboard) fail(op string, err error) {
	d.logger.Warn("expense operation failed", "op", op, "error", err)

	var apiErr *APIError
	if stdErrors.As(err, &apiErr) && apiErr.Message != "" {
		d.banner = apiErr.Message
		return
	}
	d.banner = NetworkErrorMessage
}

func parseAmount(raw string) (*decimal.Decimal, *errors.AppError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.NewValidationFieldError("amount", "amount must be a number", errors.ErrCodeInvalidAmount)
	}
	return &amount, nil
}
