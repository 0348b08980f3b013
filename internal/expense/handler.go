package expense

import (
	"context"
	"log/slog"
	"net/http"

	errors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/transport"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListExpenses(ctx context.Context, owner string) ([]*Expense, error)
	GetExpense(ctx context.Context, id, owner string) (*Expense, error)
	AddExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error)
	UpdateExpense(ctx context.Context, id, owner string, dto UpdateExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, id, owner string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListExpenses handles GET /expenses?user={email}
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if !h.ownerMatches(r, user) {
		h.Logger.Warn("ListExpenses: owner mismatch", "user", user)
		h.WriteAppError(w, errors.ErrOwnerMismatch)
		return
	}

	expenses, err := h.Service.ListExpenses(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListExpensesResponse{Success: true, Expenses: expenses})
}

// GetExpense handles GET /expenses/{id}
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exp, err := h.Service.GetExpense(r.Context(), id, errors.OwnerFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ExpenseResponse{Success: true, Expense: exp})
}

// AddExpense handles POST /expenses
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if !h.ownerMatches(r, dto.UserEmail) {
		h.Logger.Warn("AddExpense: owner mismatch", "user_email", dto.UserEmail)
		h.WriteAppError(w, errors.ErrOwnerMismatch)
		return
	}

	exp, err := h.Service.AddExpense(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ExpenseResponse{
		Success: true,
		Message: "Expense added successfully",
		Expense: exp,
	})
}

// UpdateExpense handles PUT /expenses/{id}
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateExpenseDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	exp, err := h.Service.UpdateExpense(r.Context(), id, errors.OwnerFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ExpenseResponse{
		Success: true,
		Message: "Expense updated successfully",
		Expense: exp,
	})
}

// DeleteExpense handles DELETE /expenses/{id}
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteExpense(r.Context(), id, errors.OwnerFromContext(r.Context())); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DeleteExpenseResponse{
		Success: true,
		Message: "Expense deleted successfully",
	})
}

// ownerMatches reports whether claimed may be acted on by the authenticated
// owner. Unauthenticated requests and empty claims pass through; the service
// rejects empty owners itself.
func (h *Handler) ownerMatches(r *http.Request, claimed string) bool {
	authenticated := errors.OwnerFromContext(r.Context())
	if authenticated == "" || NormalizeOwner(claimed) == "" {
		return true
	}
	return NormalizeOwner(claimed) == NormalizeOwner(authenticated)
}
