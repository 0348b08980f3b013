package expense_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type envelope struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Code     string             `json:"code"`
	Expense  *expense.Expense   `json:"expense"`
	Expenses []*expense.Expense `json:"expenses"`
}

var _ = Describe("ExpenseHandler", func() {
	var (
		repo   *mockExpenseRepository
		router *chi.Mux
		owner  string
	)

	withOwner := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if owner != "" {
				r = r.WithContext(appErrors.ContextWithOwner(r.Context(), owner))
			}
			next.ServeHTTP(w, r)
		})
	}

	do := func(method, target, body string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed(), rec.Body.String())
		return rec, env
	}

	BeforeEach(func() {
		owner = ""
		repo = newMockExpenseRepository()
		handler := expense.NewHandler(expense.NewService(repo, nil, logger.Discard()))

		router = chi.NewRouter()
		router.Use(withOwner)
		router.Route("/api/expenses", func(r chi.Router) {
			r.Get("/", handler.ListExpenses)
			r.Post("/", handler.AddExpense)
			r.Get("/{id}", handler.GetExpense)
			r.Put("/{id}", handler.UpdateExpense)
			r.Delete("/{id}", handler.DeleteExpense)
		})
	})

	const coffee = `{"title":"Coffee","amount":4.5,"category":"Food","type":"Want","date":"2024-01-01","userEmail":"a@b.com"}`

	Describe("POST /api/expenses", func() {
		It("creates the expense and answers 201", func() {
			rec, env := do(http.MethodPost, "/api/expenses", coffee)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(env.Success).To(BeTrue())
			Expect(env.Expense).NotTo(BeNil())
			Expect(env.Expense.ID).NotTo(BeEmpty())
			Expect(env.Expense.Amount.String()).To(Equal("4.5"))
		})

		It("serializes amount as a number and date as ISO-8601", func() {
			rec, _ := do(http.MethodPost, "/api/expenses", coffee)
			Expect(rec.Body.String()).To(ContainSubstring(`"amount":4.5`))
			Expect(rec.Body.String()).To(ContainSubstring(`"date":"2024-01-01T00:00:00Z"`))
		})

		It("answers 400 with a message for a zero amount", func() {
			body := strings.Replace(coffee, `"amount":4.5`, `"amount":0`, 1)
			rec, env := do(http.MethodPost, "/api/expenses", body)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Success).To(BeFalse())
			Expect(env.Message).To(Equal("Amount must be greater than 0"))
		})

		It("answers 400 for a malformed body", func() {
			rec, env := do(http.MethodPost, "/api/expenses", `{"title":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Code).To(Equal(string(appErrors.ErrCodeInvalidBody)))
		})

		It("answers 403 when the body names another owner", func() {
			owner = "c@d.com"
			rec, env := do(http.MethodPost, "/api/expenses", coffee)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(env.Code).To(Equal(string(appErrors.ErrCodeOwnerMismatch)))
			Expect(repo.expenses).To(BeEmpty())
		})
	})

	Describe("GET /api/expenses", func() {
		It("answers 400 when user is missing", func() {
			rec, env := do(http.MethodGet, "/api/expenses", "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Message).To(Equal("User email is required"))
		})

		It("lists the owner's expenses", func() {
			do(http.MethodPost, "/api/expenses", coffee)

			rec, env := do(http.MethodGet, "/api/expenses?user=a@b.com", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(env.Success).To(BeTrue())
			Expect(env.Expenses).To(HaveLen(1))
		})

		It("answers 200 with an empty array for an owner without records", func() {
			rec, _ := do(http.MethodGet, "/api/expenses?user=none@x.com", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"expenses":[]`))
		})

		It("answers 403 when listing another owner", func() {
			owner = "c@d.com"
			rec, _ := do(http.MethodGet, "/api/expenses?user=a@b.com", "")
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("PUT and DELETE /api/expenses/{id}", func() {
		var id string

		BeforeEach(func() {
			_, env := do(http.MethodPost, "/api/expenses", coffee)
			id = env.Expense.ID
		})

		It("updates the record", func() {
			body := `{"title":"Lunch","amount":12.25,"category":"Food","type":"Need","date":"2024-01-02"}`
			rec, env := do(http.MethodPut, "/api/expenses/"+id, body)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(env.Expense.Title).To(Equal("Lunch"))
			Expect(env.Expense.UserEmail).To(Equal("a@b.com"))
		})

		It("answers 404 for an unknown id", func() {
			body := `{"title":"Lunch","amount":12.25,"category":"Food","type":"Need","date":"2024-01-02"}`
			rec, env := do(http.MethodPut, "/api/expenses/nope", body)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(env.Message).To(Equal("Expense not found"))
		})

		It("returns the single record", func() {
			rec, env := do(http.MethodGet, "/api/expenses/"+id, "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(env.Expense.ID).To(Equal(id))
		})

		It("deletes once and then answers 404", func() {
			rec, env := do(http.MethodDelete, "/api/expenses/"+id, "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(env.Success).To(BeTrue())

			rec, _ = do(http.MethodDelete, "/api/expenses/"+id, "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("hides the record from another authenticated owner", func() {
			owner = "c@d.com"
			rec, _ := do(http.MethodDelete, "/api/expenses/"+id, "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(repo.expenses).To(HaveKey(id))
		})
	})

	It("answers 500 with a generic message on storage failure", func() {
		repo.findError = context.DeadlineExceeded
		rec, env := do(http.MethodGet, "/api/expenses?user=a@b.com", "")
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(env.Message).To(Equal("Server error while fetching expenses"))
	})
})
