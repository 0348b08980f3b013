package category

import (
	"log/slog"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

func (s *Service) GetAllCategories() []CategoryResponse {
	catalog := Catalog()
	responses := make([]CategoryResponse, 0, len(catalog))
	for _, c := range catalog {
		responses = append(responses, c.ToResponse())
	}

	s.logger.Debug("retrieved categories", "count", len(responses))
	return responses
}

// GetCategoryByName matches the exact, case sensitive name.
func (s *Service) GetCategoryByName(name string) (*CategoryResponse, bool) {
	for _, c := range Catalog() {
		if c.Name == name {
			response := c.ToResponse()
			return &response, true
		}
	}
	return nil, false
}

func (s *Service) IsValidCategory(name string) bool {
	return expense.Category(name).Valid()
}

func (s *Service) Types() []string {
	return expense.TypeNames()
}
