package client_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/client"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/common/validation"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
)

// fakeAPI keeps expenses in memory and counts list calls.
type fakeAPI struct {
	expenses  map[string]*expense.Expense
	nextID    int
	listCalls int
	failWith  error
	deleted   []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{expenses: make(map[string]*expense.Expense), nextID: 1}
}

func (f *fakeAPI) ListExpenses(_ context.Context, owner string) ([]*expense.Expense, error) {
	f.listCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := []*expense.Expense{}
	for _, e := range f.expenses {
		if e.UserEmail == owner {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeAPI) CreateExpense(_ context.Context, dto expense.CreateExpenseDTO) (*expense.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	e := expense.NewExpense(dto.UserEmail, dto.Changes())
	e.ID = fmt.Sprintf("e%d", f.nextID)
	f.nextID++
	f.expenses[e.ID] = e
	return e, nil
}

func (f *fakeAPI) UpdateExpense(_ context.Context, id string, dto expense.UpdateExpenseDTO) (*expense.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	e, ok := f.expenses[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Code: "EXPENSE_NOT_FOUND", Message: "Expense not found"}
	}
	e.Apply(dto.Changes())
	return e, nil
}

func (f *fakeAPI) DeleteExpense(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.expenses[id]; !ok {
		return &client.APIError{StatusCode: 404, Code: "EXPENSE_NOT_FOUND", Message: "Expense not found"}
	}
	delete(f.expenses, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) seed(id, amount string, c expense.Category, t expense.Type, date string) {
	d, err := validation.ParseDate(date)
	Expect(err).NotTo(HaveOccurred())
	e := newExpense(id, amount, c, t, d)
	f.expenses[id] = e
}

var always = client.ConfirmFunc(func(string) bool { return true })
var never = client.ConfirmFunc(func(string) bool { return false })

var _ = Describe("Dashboard", func() {
	var (
		ctx  context.Context
		api  *fakeAPI
		dash *client.Dashboard
	)

	BeforeEach(func() {
		ctx = context.Background()
		api = newFakeAPI()
		api.seed("a", "10.00", expense.CategoryFood, expense.TypeNeed, "2024-03-01")
		api.seed("b", "30.00", expense.CategoryTravel, expense.TypeWant, "2024-03-05")
		dash = client.NewDashboard(api, client.Session{Email: "U@X.com"}, logger.Discard())
	})

	It("refuses to load without a stored owner", func() {
		empty := client.NewDashboard(api, client.Session{}, logger.Discard())
		Expect(empty.Load(ctx)).To(MatchError(client.ErrNotLoggedIn))
		Expect(api.listCalls).To(Equal(0))
	})

	It("fetches once and filters locally", func() {
		Expect(dash.Load(ctx)).To(Succeed())
		Expect(dash.Expenses()).To(HaveLen(2))

		dash.SetCategoryFilter(expense.CategoryFood)
		Expect(ids(dash.Expenses())).To(Equal([]string{"a"}))
		dash.SetTypeFilter(expense.TypeWant)
		Expect(dash.Expenses()).To(BeEmpty())
		dash.SetDateRange(day(2024, 3, 2), day(2024, 3, 31))
		dash.ClearFilters()
		Expect(dash.Expenses()).To(HaveLen(2))

		Expect(api.listCalls).To(Equal(1))
	})

	It("summarizes the filtered set", func() {
		Expect(dash.Load(ctx)).To(Succeed())

		s := dash.Summary()
		Expect(s.Total.StringFixed(2)).To(Equal("40.00"))
		Expect(s.NeedsPercentage.StringFixed(1)).To(Equal("25.0"))
		Expect(s.Count).To(Equal(2))

		dash.SetTypeFilter(expense.TypeWant)
		s = dash.Summary()
		Expect(s.Total.StringFixed(2)).To(Equal("30.00"))
		Expect(s.WantsPercentage.StringFixed(1)).To(Equal("100.0"))
		Expect(s.Count).To(Equal(1))
	})

	It("adds an expense, refetches and resets the form", func() {
		Expect(dash.Load(ctx)).To(Succeed())
		dash.SetForm(client.Form{Title: "Lunch", Amount: "12.50", Category: "Food", Type: "Need", Date: "2024-03-07"})

		Expect(dash.Submit(ctx)).To(Succeed())

		Expect(dash.Banner()).To(Equal("Expense added successfully!"))
		Expect(dash.Form()).To(Equal(client.Form{}))
		Expect(dash.Expenses()).To(HaveLen(3))
		Expect(api.listCalls).To(Equal(2))
	})

	It("edits an existing expense", func() {
		Expect(dash.Load(ctx)).To(Succeed())
		Expect(dash.Edit("a")).To(Succeed())
		Expect(dash.Form().Date).To(Equal("2024-03-01"))
		Expect(dash.Form().Amount).To(Equal("10"))

		form := dash.Form()
		form.Title = "Groceries"
		dash.SetForm(form)
		Expect(dash.Submit(ctx)).To(Succeed())

		Expect(dash.Banner()).To(Equal("Expense updated successfully!"))
		Expect(dash.Editing()).To(BeEmpty())
		Expect(api.expenses["a"].Title).To(Equal("Groceries"))
	})

	It("validates locally before calling the API", func() {
		Expect(dash.Load(ctx)).To(Succeed())
		dash.SetForm(client.Form{Title: "Bad", Amount: "-1", Category: "Food", Type: "Need", Date: "2024-03-07"})

		Expect(dash.Submit(ctx)).NotTo(Succeed())
		Expect(dash.Banner()).To(Equal("Amount must be greater than 0"))
		Expect(api.expenses).To(HaveLen(2))

		dash.SetForm(client.Form{Title: "Bad", Amount: "abc", Category: "Food", Type: "Need", Date: "2024-03-07"})
		Expect(dash.Submit(ctx)).NotTo(Succeed())
		Expect(dash.Banner()).To(Equal("amount must be a number"))

		dash.SetForm(client.Form{Title: "Bad", Amount: "3", Category: "Snacks", Type: "Need", Date: "2024-03-07"})
		Expect(dash.Submit(ctx)).NotTo(Succeed())
		Expect(dash.Banner()).To(ContainSubstring("category"))
	})

	It("shows the server message on an API failure and keeps the form", func() {
		Expect(dash.Load(ctx)).To(Succeed())
		api.failWith = &client.APIError{StatusCode: 500, Message: "Server error while adding expense"}
		form := client.Form{Title: "Lunch", Amount: "5", Category: "Food", Type: "Need", Date: "2024-03-07"}
		dash.SetForm(form)

		Expect(dash.Submit(ctx)).NotTo(Succeed())
		Expect(dash.Banner()).To(Equal("Server error while adding expense"))
		Expect(dash.Form()).To(Equal(form))
	})

	It("shows the generic message on a network failure", func() {
		Expect(dash.Load(ctx)).To(Succeed())
		api.failWith = fmt.Errorf("%w: connection refused", client.ErrNetwork)
		dash.SetForm(client.Form{Title: "Lunch", Amount: "5", Category: "Food", Type: "Need", Date: "2024-03-07"})

		Expect(dash.Submit(ctx)).NotTo(Succeed())
		Expect(dash.Banner()).To(Equal(client.NetworkErrorMessage))

		dash.DismissBanner()
		Expect(dash.Banner()).To(BeEmpty())
	})

	It("reports a failed fetch in the banner", func() {
		api.failWith = &client.APIError{StatusCode: 500, Message: "boom"}
		Expect(dash.Load(ctx)).NotTo(Succeed())
		Expect(dash.Banner()).To(Equal("Failed to fetch expenses"))

		api.failWith = fmt.Errorf("%w: timeout", client.ErrNetwork)
		Expect(dash.Load(ctx)).NotTo(Succeed())
		Expect(dash.Banner()).To(Equal(client.NetworkErrorMessage))
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			Expect(dash.Load(ctx)).To(Succeed())
		})

		It("does nothing without confirmation", func() {
			deleted, err := dash.Delete(ctx, "a", never)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeFalse())
			Expect(api.deleted).To(BeEmpty())
			Expect(api.listCalls).To(Equal(1))
		})

		It("deletes and refetches once confirmed", func() {
			deleted, err := dash.Delete(ctx, "a", always)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())
			Expect(ids(dash.Expenses())).To(Equal([]string{"b"}))
			Expect(dash.Banner()).To(Equal("Expense deleted successfully!"))
			Expect(api.listCalls).To(Equal(2))
		})

		It("surfaces a not found answer", func() {
			_, err := dash.Delete(ctx, "missing", always)
			var apiErr *client.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(dash.Banner()).To(Equal("Expense not found"))
		})
	})

	It("renders the summary cards, banner, filter line and table", func() {
		Expect(dash.Load(ctx)).To(Succeed())
		dash.SetCategoryFilter(expense.CategoryTravel)

		var buf bytes.Buffer
		Expect(client.Render(&buf, dash)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("Welcome back, u@x.com"))
		Expect(out).To(ContainSubstring("$30.00"))
		Expect(out).To(ContainSubstring("100.0% of total"))
		Expect(out).To(ContainSubstring("Filters: category=Travel"))
		Expect(out).To(ContainSubstring("2024-03-05"))
		Expect(out).NotTo(ContainSubstring("2024-03-01"))
	})
})
