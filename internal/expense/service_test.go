package expense_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	appErrors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/events"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
)

// Mock repository for testing
type mockExpenseRepository struct {
	mu          sync.Mutex
	expenses    map[string]*expense.Expense
	insertError error
	findError   error
	updateError error
	deleteError error
	nextID      int
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[string]*expense.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) Insert(_ context.Context, exp *expense.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertError != nil {
		return m.insertError
	}
	exp.ID = fmt.Sprintf("exp-%d", m.nextID)
	m.nextID++
	stored := *exp
	m.expenses[exp.ID] = &stored
	return nil
}

func (m *mockExpenseRepository) FindByOwner(_ context.Context, owner string) ([]*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findError != nil {
		return nil, m.findError
	}
	var result []*expense.Expense
	for _, e := range m.expenses {
		if e.UserEmail == owner {
			cp := *e
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (m *mockExpenseRepository) FindByID(_ context.Context, id string) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findError != nil {
		return nil, m.findError
	}
	e, ok := m.expenses[id]
	if !ok {
		return nil, expense.ErrExpenseNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockExpenseRepository) UpdateByID(_ context.Context, id string, c expense.Changes) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return nil, m.updateError
	}
	e, ok := m.expenses[id]
	if !ok {
		return nil, expense.ErrExpenseNotFound
	}
	e.Apply(c)
	cp := *e
	return &cp, nil
}

func (m *mockExpenseRepository) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteError != nil {
		return m.deleteError
	}
	if _, ok := m.expenses[id]; !ok {
		return expense.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validCreateDTO() expense.CreateExpenseDTO {
	return expense.CreateExpenseDTO{
		Title:     "Coffee",
		Amount:    amountPtr("4.50"),
		Category:  "Food",
		Type:      "Want",
		Date:      "2024-01-01",
		UserEmail: "a@b.com",
	}
}

func expectAppError(err error, status int, code appErrors.ErrorCode) {
	ExpectWithOffset(1, err).To(HaveOccurred())
	appErr, ok := appErrors.IsAppError(err)
	ExpectWithOffset(1, ok).To(BeTrue(), "expected an AppError, got %v", err)
	ExpectWithOffset(1, appErr.StatusCode).To(Equal(status))
	ExpectWithOffset(1, appErr.Code).To(Equal(code))
}

var _ = Describe("ExpenseService", func() {
	var (
		repo      *mockExpenseRepository
		publisher *recordingPublisher
		service   *expense.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockExpenseRepository()
		publisher = &recordingPublisher{}
		service = expense.NewService(repo, publisher, logger.Discard())
		ctx = context.Background()
	})

	Describe("AddExpense", func() {
		It("persists the expense with a fresh id and the exact amount", func() {
			result, err := service.AddExpense(ctx, validCreateDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).NotTo(BeEmpty())
			Expect(result.Amount.Equal(decimal.RequireFromString("4.50"))).To(BeTrue())
			Expect(result.Category).To(Equal(expense.CategoryFood))
			Expect(result.Type).To(Equal(expense.TypeWant))
			Expect(result.Date).To(Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
			Expect(result.CreatedAt).NotTo(BeZero())
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeExpenseCreated}))
		})

		It("appears exactly once in the owner's list", func() {
			created, err := service.AddExpense(ctx, validCreateDTO())
			Expect(err).NotTo(HaveOccurred())

			list, err := service.ListExpenses(ctx, "a@b.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(created.ID))
		})

		It("normalizes the owner email", func() {
			dto := validCreateDTO()
			dto.UserEmail = "  A@B.com "

			result, err := service.AddExpense(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.UserEmail).To(Equal("a@b.com"))
		})

		DescribeTable("rejects invalid input",
			func(mutate func(*expense.CreateExpenseDTO), fieldCode appErrors.ErrorCode) {
				dto := validCreateDTO()
				mutate(&dto)

				result, err := service.AddExpense(ctx, dto)
				Expect(result).To(BeNil())
				expectAppError(err, 400, appErrors.ErrCodeValidationFailed)

				appErr, _ := appErrors.IsAppError(err)
				details, ok := appErr.Details.(appErrors.ValidationErrors)
				Expect(ok).To(BeTrue())
				Expect(details.Errors[0].Code).To(Equal(string(fieldCode)))
				Expect(repo.expenses).To(BeEmpty())
			},
			Entry("zero amount", func(d *expense.CreateExpenseDTO) { d.Amount = amountPtr("0") }, appErrors.ErrCodeInvalidAmount),
			Entry("negative amount", func(d *expense.CreateExpenseDTO) { d.Amount = amountPtr("-3") }, appErrors.ErrCodeInvalidAmount),
			Entry("missing amount", func(d *expense.CreateExpenseDTO) { d.Amount = nil }, appErrors.ErrCodeMissingField),
			Entry("empty title", func(d *expense.CreateExpenseDTO) { d.Title = "  " }, appErrors.ErrCodeMissingField),
			Entry("missing category", func(d *expense.CreateExpenseDTO) { d.Category = "" }, appErrors.ErrCodeMissingField),
			Entry("unknown category", func(d *expense.CreateExpenseDTO) { d.Category = "Gambling" }, appErrors.ErrCodeInvalidCategory),
			Entry("unknown type", func(d *expense.CreateExpenseDTO) { d.Type = "Maybe" }, appErrors.ErrCodeInvalidType),
			Entry("missing date", func(d *expense.CreateExpenseDTO) { d.Date = "" }, appErrors.ErrCodeMissingField),
			Entry("malformed date", func(d *expense.CreateExpenseDTO) { d.Date = "01/02/2024" }, appErrors.ErrCodeInvalidDate),
			Entry("missing owner", func(d *expense.CreateExpenseDTO) { d.UserEmail = "" }, appErrors.ErrCodeMissingField),
		)

		It("reports storage failures as a 500 without leaking the cause", func() {
			repo.insertError = errors.New("connection refused")

			result, err := service.AddExpense(ctx, validCreateDTO())
			Expect(result).To(BeNil())
			expectAppError(err, 500, appErrors.ErrCodeStorageFailure)

			_, body := err.(*appErrors.AppError).ToHTTPResponse()
			Expect(body.(appErrors.Response).Message).NotTo(ContainSubstring("connection refused"))
			Expect(body.(appErrors.Response).Type).To(Equal(appErrors.ErrorTypeInternal))
			Expect(publisher.Types()).To(BeEmpty())
		})
	})

	Describe("ListExpenses", func() {
		It("requires an owner", func() {
			_, err := service.ListExpenses(ctx, "")
			expectAppError(err, 400, appErrors.ErrCodeMissingOwner)
		})

		It("returns an empty list rather than nil", func() {
			list, err := service.ListExpenses(ctx, "nobody@x.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).NotTo(BeNil())
			Expect(list).To(BeEmpty())
		})

		It("returns only the owner's records, most recent first", func() {
			for _, d := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
				dto := validCreateDTO()
				dto.Date = d
				_, err := service.AddExpense(ctx, dto)
				Expect(err).NotTo(HaveOccurred())
			}
			other := validCreateDTO()
			other.UserEmail = "c@d.com"
			_, err := service.AddExpense(ctx, other)
			Expect(err).NotTo(HaveOccurred())

			list, err := service.ListExpenses(ctx, "a@b.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
			Expect(list[0].Date.Month()).To(Equal(time.March))
			Expect(list[2].Date.Month()).To(Equal(time.January))
		})

		It("maps repository failures to a storage failure", func() {
			repo.findError = errors.New("timeout")
			_, err := service.ListExpenses(ctx, "a@b.com")
			expectAppError(err, 500, appErrors.ErrCodeStorageFailure)
		})
	})

	Describe("UpdateExpense", func() {
		var created *expense.Expense

		BeforeEach(func() {
			var err error
			created, err = service.AddExpense(ctx, validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		update := func() expense.UpdateExpenseDTO {
			return expense.UpdateExpenseDTO{
				Title:    "Train ticket",
				Amount:   amountPtr("30.00"),
				Category: "Travel",
				Type:     "Need",
				Date:     "2024-02-10",
			}
		}

		It("overwrites exactly the mutable fields", func() {
			result, err := service.UpdateExpense(ctx, created.ID, "", update())

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal(created.ID))
			Expect(result.UserEmail).To(Equal(created.UserEmail))
			Expect(result.Title).To(Equal("Train ticket"))
			Expect(result.Amount.Equal(decimal.RequireFromString("30"))).To(BeTrue())
			Expect(result.Category).To(Equal(expense.CategoryTravel))
			Expect(result.Type).To(Equal(expense.TypeNeed))
			Expect(result.Date).To(Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
			Expect(publisher.Types()).To(ContainElement(events.EventTypeExpenseUpdated))
		})

		It("fails with not found for an unknown id", func() {
			_, err := service.UpdateExpense(ctx, "missing", "", update())
			expectAppError(err, 404, appErrors.ErrCodeExpenseNotFound)
		})

		It("validates before touching the store", func() {
			dto := update()
			dto.Amount = amountPtr("0")
			_, err := service.UpdateExpense(ctx, "missing", "", dto)
			expectAppError(err, 400, appErrors.ErrCodeValidationFailed)
		})

		It("hides records of another owner", func() {
			_, err := service.UpdateExpense(ctx, created.ID, "intruder@x.com", update())
			expectAppError(err, 404, appErrors.ErrCodeExpenseNotFound)

			stored, err := service.GetExpense(ctx, created.ID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Title).To(Equal("Coffee"))
		})

		It("allows the owner regardless of email case", func() {
			_, err := service.UpdateExpense(ctx, created.ID, "A@B.COM", update())
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("DeleteExpense", func() {
		It("removes the record and reports not found the second time", func() {
			created, err := service.AddExpense(ctx, validCreateDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteExpense(ctx, created.ID, "a@b.com")).To(Succeed())

			list, err := service.ListExpenses(ctx, "a@b.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())

			err = service.DeleteExpense(ctx, created.ID, "a@b.com")
			expectAppError(err, 404, appErrors.ErrCodeExpenseNotFound)
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeExpenseCreated, events.EventTypeExpenseDeleted}))
		})

		It("refuses to delete another owner's record", func() {
			created, err := service.AddExpense(ctx, validCreateDTO())
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteExpense(ctx, created.ID, "intruder@x.com")
			expectAppError(err, 404, appErrors.ErrCodeExpenseNotFound)
			Expect(repo.expenses).To(HaveKey(created.ID))
		})

		It("maps repository failures to a storage failure", func() {
			created, err := service.AddExpense(ctx, validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
			repo.deleteError = errors.New("disk full")

			err = service.DeleteExpense(ctx, created.ID, "")
			expectAppError(err, 500, appErrors.ErrCodeStorageFailure)
		})
	})
})
