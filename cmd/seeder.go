package cmd

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	errors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/auth"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
)

const (
	demoEmail    = "demo@mail.com"
	demoPassword = "password"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user and sample expenses for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := logger.LoggerWrapper()

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg.Database, lg)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer st.Close()

		authService := auth.NewService(st.Users, nil, cfg.Security.BCryptCost, lg)
		expenseService := expense.NewService(st.Expenses, nil, lg)
		return seed(ctx, authService, expenseService, clearData, cmd)
	},
}

type seedExpense struct {
	title    string
	amount   string
	category expense.Category
	typ      expense.Type
	date     string
}

var sampleExpenses = []seedExpense{
	{"Groceries", "54.20", expense.CategoryFood, expense.TypeNeed, "2024-03-01"},
	{"Monthly rent", "950.00", expense.CategoryRent, expense.TypeNeed, "2024-03-01"},
	{"Electricity bill", "72.35", expense.CategoryUtilities, expense.TypeNeed, "2024-03-04"},
	{"Bus pass", "45.00", expense.CategoryTransport, expense.TypeNeed, "2024-03-05"},
	{"Streaming plan", "15.99", expense.CategorySubscriptions, expense.TypeWant, "2024-03-07"},
	{"Weekend trip", "310.00", expense.CategoryTravel, expense.TypeWant, "2024-03-09"},
	{"Sneakers", "89.90", expense.CategoryShopping, expense.TypeWant, "2024-03-12"},
	{"Online course", "25.00", expense.CategoryEducation, expense.TypeWant, "2024-03-15"},
}

func seed(ctx context.Context, authService *auth.Service, expenseService *expense.Service, clear bool, cmd *cobra.Command) error {
	_, err := authService.Register(ctx, auth.RegisterDTO{Email: demoEmail, Password: demoPassword, Name: "Demo"})
	switch {
	case err == nil:
		cmd.Println("Seeded demo user:", demoEmail)
	case stdErrors.Is(err, errors.ErrEmailTaken):
		cmd.Println("demo user already exists")
	default:
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	if clear {
		existing, err := expenseService.ListExpenses(ctx, demoEmail)
		if err != nil {
			return fmt.Errorf("failed to list demo expenses: %w", err)
		}
		for _, e := range existing {
			if err := expenseService.DeleteExpense(ctx, e.ID, demoEmail); err != nil {
				return fmt.Errorf("failed to clear expense %s: %w", e.ID, err)
			}
		}
		cmd.Printf("Cleared %d expenses\n", len(existing))
	}

	for _, s := range sampleExpenses {
		amount := decimal.RequireFromString(s.amount)
		_, err := expenseService.AddExpense(ctx, expense.CreateExpenseDTO{
			Title:     s.title,
			Amount:    &amount,
			Category:  string(s.category),
			Type:      string(s.typ),
			Date:      s.date,
			UserEmail: demoEmail,
		})
		if err != nil {
			return fmt.Errorf("failed to seed expense %q: %w", s.title, err)
		}
	}
	cmd.Printf("Seeded %d expenses for %s\n", len(sampleExpenses), demoEmail)
	return nil
}
