package auth

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	errors "github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       user.RepositoryAPI
	tokenGenerator TokenGenerator
	revoker        Revoker
	bcryptCost     int
	logger         *slog.Logger
}

type Option func(*Service)

// WithRevoker replaces the in-memory revocation list.
func WithRevoker(r Revoker) Option {
	return func(s *Service) {
		if r != nil {
			s.revoker = r
		}
	}
}

// NewService creates a new auth service. A zero bcryptCost uses bcrypt.DefaultCost.
func NewService(userRepo user.RepositoryAPI, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger, opts ...Option) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		revoker:        NewMemoryRevoker(),
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := user.NormalizeEmail(dto.Email)
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, errors.ErrEmailTaken
	} else if !stdErrors.Is(err, user.ErrNotFound) {
		s.logger.Error("failed to look up user", "error", err, "email", email)
		return nil, errors.NewInternalError("Server error while registering", err)
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, errors.NewInternalError("Server error while registering", err)
	}

	u := &user.User{
		Email:        email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if stdErrors.Is(err, user.ErrEmailExists) {
			return nil, errors.ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, errors.NewInternalError("Server error while registering", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "email", email)
	return u, nil
}

// Login validates credentials and returns an access token
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := user.NormalizeEmail(dto.Email)
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, user.ErrNotFound) {
			s.logger.Warn("login for unknown email", "email", email)
			return nil, errors.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", "error", err, "email", email)
		return nil, errors.NewInternalError("Server error while logging in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login with wrong password", "email", email)
		return nil, errors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err, "user_id", u.ID)
		return nil, errors.NewInternalError("Server error while logging in", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID, "email", email)
	return &Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		if stdErrors.Is(err, ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("failed to check token revocation", "error", err, "user_id", claims.UserID)
		return nil, errors.NewInternalError("Server error while checking token", err)
	}
	if revoked {
		return nil, errors.ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateAccessToken(ctx, tokenString)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("failed to revoke token", "error", err, "user_id", claims.UserID)
		return errors.NewInternalError("Server error while logging out", err)
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
