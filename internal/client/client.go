package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/auth"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/category"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
)

// ErrNetwork wraps every failure that never produced a readable API answer.
var ErrNetwork = errors.New("network error")

// APIError is a failure the server answered with its JSON envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// APIClient talks to the expense tracker HTTP API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with every request.
func (c *APIClient) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *envelope) head() envelope { return *e }

// reply is any decoded response body carrying the common envelope.
type reply interface {
	head() envelope
}

type expenseEnvelope struct {
	envelope
	Expense *expense.Expense `json:"expense"`
}

type expensesEnvelope struct {
	envelope
	Expenses []*expense.Expense `json:"expenses"`
}

type categoriesEnvelope struct {
	envelope
	Categories []category.CategoryResponse `json:"categories"`
	Types      []string                    `json:"types"`
}

type loginEnvelope struct {
	envelope
	Token     string            `json:"token"`
	ExpiresAt string            `json:"expiresAt"`
	User      auth.UserResponse `json:"user"`
}

// LoginResult is what the client keeps after a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Email     string
}

func (c *APIClient) Register(ctx context.Context, dto auth.RegisterDTO) error {
	var out envelope
	return c.do(ctx, http.MethodPost, "/register", dto, &out)
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out loginEnvelope
	err := c.do(ctx, http.MethodPost, "/login", auth.LoginDTO{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{Token: out.Token, Email: out.User.Email}
	if out.ExpiresAt != "" {
		if t, perr := time.Parse(time.RFC3339, out.ExpiresAt); perr == nil {
			result.ExpiresAt = t
		}
	}
	return result, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	var out envelope
	return c.do(ctx, http.MethodPost, "/logout", nil, &out)
}

func (c *APIClient) ListExpenses(ctx context.Context, owner string) ([]*expense.Expense, error) {
	var out expensesEnvelope
	path := "/expenses?user=" + url.QueryEscape(owner)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Expenses == nil {
		out.Expenses = []*expense.Expense{}
	}
	return out.Expenses, nil
}

func (c *APIClient) CreateExpense(ctx context.Context, dto expense.CreateExpenseDTO) (*expense.Expense, error) {
	var out expenseEnvelope
	if err := c.do(ctx, http.MethodPost, "/expenses", dto, &out); err != nil {
		return nil, err
	}
	return out.Expense, nil
}

func (c *APIClient) UpdateExpense(ctx context.Context, id string, dto expense.UpdateExpenseDTO) (*expense.Expense, error) {
	var out expenseEnvelope
	path := "/expenses/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, dto, &out); err != nil {
		return nil, err
	}
	return out.Expense, nil
}

func (c *APIClient) DeleteExpense(ctx context.Context, id string) error {
	var out envelope
	return c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, &out)
}

// ListCategories fetches the category catalog and the budget types.
func (c *APIClient) ListCategories(ctx context.Context) ([]category.CategoryResponse, []string, error) {
	var out categoriesEnvelope
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Categories, out.Types, nil
}

// do sends one request and decodes the reply into out.
func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, out reply) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrNetwork, method, path, err)
	}

	env := out.head()
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: message}
	}
	return nil
}
