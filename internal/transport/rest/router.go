package rest

import (
	"log/slog"
	"net/http"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/auth"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/category"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/metrics"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/transport/middleware"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/transport/swagger"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/user"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
)

// Routes collects everything RegisterAllRoutes mounts. Nil handlers are
// skipped.
type Routes struct {
	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	ExpenseHandler  *expense.Handler
	// CategoryHandler serves the fixed category catalog without auth.
	CategoryHandler *category.Handler
	Health          map[string]Pinger
	Metrics         *metrics.Metrics
	MetricsPath     string
	OpenAPI         *swagger.Spec
	AllowedOrigins  []string
	AuthEnabled     bool
}

func RegisterAllRoutes(router *chi.Mux, routes Routes, logger *slog.Logger) {
	healthHandler := NewHealthHandler(routes.Health)

	// Apply global middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   routes.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if routes.Metrics != nil {
		router.Use(middleware.Metrics(routes.Metrics))
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Expense Tracker API is running!"})
	})

	if routes.Metrics != nil {
		path := routes.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, routes.Metrics.Handler())
	}

	// Serve OpenAPI spec at root (outside API prefix)
	if routes.OpenAPI != nil {
		router.Handle(swagger.SpecURL, routes.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if routes.AuthHandler != nil {
			r.Post("/register", routes.AuthHandler.Register)
			r.Post("/login", routes.AuthHandler.Login)

			r.Post("/logout", routes.AuthHandler.Logout)

			if routes.UserHandler != nil {
				r.With(routes.AuthHandler.AuthMiddleware).Get("/users/me", routes.UserHandler.GetCurrentUser)
			}
		}

		if routes.CategoryHandler != nil {
			r.Get("/categories", routes.CategoryHandler.GetCategories)
			r.Get("/categories/{name}", routes.CategoryHandler.GetCategory)
		}

		if routes.ExpenseHandler == nil {
			return
		}

		r.Route("/expenses", func(er chi.Router) {
			if routes.AuthEnabled && routes.AuthHandler != nil {
				er.Use(routes.AuthHandler.AuthMiddleware)
			}
			er.Get("/", routes.ExpenseHandler.ListExpenses)         // GET /expenses?user=
			er.Post("/", routes.ExpenseHandler.AddExpense)          // POST /expenses
			er.Get("/{id}", routes.ExpenseHandler.GetExpense)       // GET /expenses/:id
			er.Put("/{id}", routes.ExpenseHandler.UpdateExpense)    // PUT /expenses/:id
			er.Delete("/{id}", routes.ExpenseHandler.DeleteExpense) // DELETE /expenses/:id
		})
	})
}
