package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/auth"
	authRedis "github.com/NiranjanKJ304/Exxpense-Tracker/internal/auth/redis"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/category"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/events"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/metrics"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/transport/rest"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/transport/swagger"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/user"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return startHTTPServer(ctx)
	},
}

type Dependencies struct {
	Config  *internal.Config
	Store   *store
	Router  *chi.Mux
	Logger  *slog.Logger
	Events  *events.EventBus
	closers []func() error
}

func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.Error("close error", "error", err)
		}
	}
}

func startHTTPServer(ctx context.Context) error {
	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	deps.Logger.Info("Server stopped")
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	st, err := openStore(ctx, config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps := &Dependencies{
		Config:  config,
		Store:   st,
		Router:  chi.NewRouter(),
		Logger:  lg,
		closers: []func() error{st.Close},
	}

	var m *metrics.Metrics
	if config.Observability.Metrics.Enabled {
		m = metrics.New(nil)
	}

	eventBus := events.NewEventBus(lg)
	expense.NewAuditHandler(lg).RegisterEventHandlers(eventBus)
	if m != nil {
		metrics.NewEventHandler(m, lg).RegisterEventHandlers(eventBus)
	}
	deps.Events = eventBus
	// runs before the store closes so audit handlers can still finish
	deps.closers = append(deps.closers, func() error {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return eventBus.Close(drainCtx)
	})

	var authOpts []auth.Option
	if config.Redis.URL != "" {
		client, err := authRedis.Connect(ctx, config.Redis.URL)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.closers = append(deps.closers, client.Close)
		revoker := authRedis.NewRevoker(client)
		authOpts = append(authOpts, auth.WithRevoker(revoker))
		st.Health["redis"] = revoker
	}

	tokenGenerator := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration)
	authService := auth.NewService(st.Users, tokenGenerator, config.Security.BCryptCost, lg, authOpts...)
	expenseService := expense.NewService(st.Expenses, eventBus, lg)

	spec, err := swagger.LoadSpec(ctx, config.Server.OpenAPIPath)
	if err != nil {
		lg.Warn("API docs disabled", "error", err)
		spec = nil
	}

	rest.RegisterAllRoutes(deps.Router, rest.Routes{
		AuthHandler:     auth.NewHandler(authService),
		UserHandler:     user.NewHandler(user.NewService(st.Users)),
		ExpenseHandler:  expense.NewHandler(expenseService),
		CategoryHandler: category.NewHandler(category.NewService(lg), lg),
		Health:          st.Health,
		Metrics:         m,
		MetricsPath:     config.Observability.Metrics.Path,
		OpenAPI:         spec,
		AllowedOrigins:  config.Server.Origins(),
		AuthEnabled:     config.Security.AuthEnabled,
	}, lg)

	return deps, nil
}
