package auth

import (
	"fmt"
	"strings"

	errors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/common/validation"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/user"
)

const MinPasswordLength = 6

// RegisterDTO is the request body of POST /register.
type RegisterDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(320).Custom(emailShape)
	v.Field("password", d.Password).Required().Custom(func(value interface{}) *errors.AppError {
		if p, _ := value.(string); len(p) < MinPasswordLength {
			message := fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
			return errors.NewValidationFieldError("password", message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("name", d.Name).MaxLength(100)
	return v.Validate()
}

// Validate checks required fields only; credentials are checked by the service.
func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func emailShape(value interface{}) *errors.AppError {
	email := user.NormalizeEmail(fmt.Sprint(value))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return errors.NewValidationFieldError("email", "email must be a valid address", errors.ErrCodeValidationFailed)
	}
	return nil
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type RegisterResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}
