package category

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/transport"
)

type ServiceAPI interface {
	GetAllCategories() []CategoryResponse
	GetCategoryByName(name string) (*CategoryResponse, bool)
	Types() []string
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
	}
}

// GetCategories handles GET /categories
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Success:    true,
		Categories: h.Service.GetAllCategories(),
		Types:      h.Service.Types(),
	})
}

// GetCategory handles GET /categories/{name}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, ok := h.Service.GetCategoryByName(name)
	if !ok {
		h.WriteAppError(w, errors.NewNotFoundError("Category not found", errors.ErrCodeInvalidCategory))
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"category": c,
	})
}
