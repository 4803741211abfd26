package app

import (
	"context"
	"strings"
	"time"

	"quizclash-service/internal/auth"
	"quizclash-service/internal/domain"
)

// AccountRepository covers the user operations the auth flow needs.
type AccountRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id int64) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// AuthService handles registration and login, issuing JWT access tokens.
type AuthService struct {
	accounts AccountRepository
	tokens   *auth.TokenManager
}

func NewAuthService(accounts AccountRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens}
}

// Register creates the account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || len(password) < 6 {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		IsActive:     true,
		Level:        1,
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.Create(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	user, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.accounts.Update(ctx, &user); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Profile returns the user record for an authenticated ID.
func (s *AuthService) Profile(ctx context.Context, userID int64) (domain.User, error) {
	return s.accounts.Get(ctx, userID)
}
