package cmd

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	expenseDatamodel "github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/datamodel/expense"
	userDatamodel "github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/datamodel/user"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	expenseMongo "github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense/mongo"
	expensePostgres "github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense/postgres"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/transport/rest"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/user"
	userMongo "github.com/NiranjanKJ304/Exxpense-Tracker/internal/user/mongo"
	userPostgres "github.com/NiranjanKJ304/Exxpense-Tracker/internal/user/postgres"
)

// store is the record store picked by database.driver.
type store struct {
	Expenses expense.RepositoryAPI
	Users    user.RepositoryAPI
	Health   map[string]rest.Pinger
	close    func() error
}

func (s *store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStore(ctx context.Context, cfg internal.DatabaseConfig, lg *slog.Logger) (*store, error) {
	switch cfg.Driver {
	case internal.DriverMongo:
		return openMongoStore(ctx, cfg, lg)
	case internal.DriverPostgres, internal.DriverSQLite:
		db, err := initDB(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		return &store{
			Expenses: expensePostgres.NewExpenseRepository(db),
			Users:    userPostgres.NewUserRepository(db),
			Health: map[string]rest.Pinger{
				"database": rest.SQLPinger{DB: sqlx.NewDb(sqlDB, sqlDriverName(cfg.Driver))},
			},
			close: sqlDB.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// initDB opens the GORM connection for the SQL drivers and applies the pool
// settings.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverSQLite:
		dialector = sqlite.Open(cfg.Source)
	default:
		dialector = postgres.New(postgres.Config{DSN: cfg.Source})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&userDatamodel.User{}, &expenseDatamodel.Expense{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}
	return db, nil
}

func openMongoStore(ctx context.Context, cfg internal.DatabaseConfig, lg *slog.Logger) (*store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Source))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	disconnect := func() error { return client.Disconnect(context.Background()) }

	pinger := rest.MongoPinger{Client: client}
	if err := pinger.PingContext(ctx); err != nil {
		_ = disconnect()
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.Name)
	if err := expenseMongo.EnsureIndexes(ctx, db); err != nil {
		_ = disconnect()
		return nil, fmt.Errorf("failed to create expense indexes: %w", err)
	}
	if err := userMongo.EnsureIndexes(ctx, db); err != nil {
		_ = disconnect()
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}
	lg.Info("connected to mongo", "database", cfg.Name)

	return &store{
		Expenses: expenseMongo.NewExpenseRepository(db),
		Users:    userMongo.NewUserRepository(db),
		Health:   map[string]rest.Pinger{"database": pinger},
		close:    disconnect,
	}, nil
}

func sqlDriverName(driver string) string {
	if driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}
