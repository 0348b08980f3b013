package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	appErrors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/transport"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
)

type ServiceAPI interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	email := appErrors.OwnerFromContext(r.Context())
	if email == "" {
		h.WriteAppError(w, appErrors.ErrInvalidToken)
		return
	}

	u, err := h.Service.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteAppError(w, appErrors.ErrUserNotFound)
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}
