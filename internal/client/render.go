package client

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
)

// Render writes the text dashboard: welcome line, summary cards, banner,
// filter line and the expense table.
func Render(w io.Writer, d *Dashboard) error {
	s := d.Summary()

	fmt.Fprintln(w, "Expense Dashboard")
	fmt.Fprintf(w, "Welcome back, %s\n\n", d.Owner())

	cards := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(cards, "Total Spending\tNeeds\tWants\tTotal Expenses")
	fmt.Fprintf(cards, "%s\t%s\t%s\t%d\n", money(s.Total), money(s.NeedsTotal), money(s.WantsTotal), s.Count)
	fmt.Fprintf(cards, "\t%s%% of total\t%s%% of total\t\n", s.NeedsPercentage.StringFixed(1), s.WantsPercentage.StringFixed(1))
	if err := cards.Flush(); err != nil {
		return err
	}

	if banner := d.Banner(); banner != "" {
		fmt.Fprintf(w, "\n[!] %s\n", banner)
	}
	fmt.Fprintf(w, "\nFilters: %s\n\n", d.Filter())

	return RenderTable(w, d.Expenses())
}

// RenderTable writes expenses as an aligned table.
func RenderTable(w io.Writer, expenses []*expense.Expense) error {
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(w, "No expenses found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tCATEGORY\tTYPE\tAMOUNT")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date.UTC().Format(time.DateOnly), e.Title, e.Category, e.Type, money(e.Amount))
	}
	return tw.Flush()
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
