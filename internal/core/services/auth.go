package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/purushottamk3112/MoodVibe/internal/auth"
	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
	"github.com/purushottamk3112/MoodVibe/internal/core/ports"
)

// bcryptCost matches the account-creation cost used by the original service.
const bcryptCost = 12

// GoogleProfile is the subset of the federated userinfo payload the auth
// service needs to create or link an account.
type GoogleProfile struct {
	ID     string
	Email  string
	Name   string
	Avatar string
}

// AuthService manages user accounts and session tokens. It is orthogonal to
// the recommendation pipeline: nothing here touches the catalog or the model.
type AuthService struct {
	users ports.UserRepository
	jwt   *auth.JWTManager
	now   func() time.Time
}

func NewAuthService(users ports.UserRepository, jwt *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwt, now: time.Now}
}

// Register creates an email/password account and issues a session token.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, "", &ValidationError{Field: "email", Message: "Invalid email address"}
	}
	if len(name) < 2 {
		return domain.User{}, "", &ValidationError{Field: "name", Message: "Name must be at least 2 characters"}
	}
	if len(password) < 6 {
		return domain.User{}, "", &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", fmt.Errorf("service: check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service: hash password: %w", err)
	}

	rec := domain.UserRecord{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Provider:     "email",
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, rec); err != nil {
		return domain.User{}, "", fmt.Errorf("service: create user: %w", err)
	}

	token, err := s.jwt.GenerateToken(rec.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service: issue token: %w", err)
	}
	return rec.Sanitized(), token, nil
}

// Login verifies email/password credentials and issues a session token.
// A missing account and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	rec, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("service: load user: %w", err)
	}
	if rec.PasswordHash == "" {
		// Federated-only account; no password to check.
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(rec.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service: issue token: %w", err)
	}
	return rec.Sanitized(), token, nil
}

// LoginWithGoogle resolves a federated profile to an account, creating one or
// linking the identity to an existing same-email account as needed.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile GoogleProfile) (domain.User, string, error) {
	if profile.ID == "" || profile.Email == "" {
		return domain.User{}, "", &ValidationError{Field: "profile", Message: "Invalid profile"}
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))

	rec, err := s.users.GetByGoogleID(ctx, profile.ID)
	switch {
	case err == nil:
		// Known federated identity.
	case errors.Is(err, domain.ErrNotFound):
		rec, err = s.linkOrCreateGoogleUser(ctx, email, profile)
		if err != nil {
			return domain.User{}, "", err
		}
	default:
		return domain.User{}, "", fmt.Errorf("service: load user: %w", err)
	}

	token, err := s.jwt.GenerateToken(rec.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service: issue token: %w", err)
	}
	return rec.Sanitized(), token, nil
}

func (s *AuthService) linkOrCreateGoogleUser(ctx context.Context, email string, profile GoogleProfile) (domain.UserRecord, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkGoogle(ctx, existing.ID, profile.ID, profile.Avatar); err != nil {
			return domain.UserRecord{}, fmt.Errorf("service: link google identity: %w", err)
		}
		existing.GoogleID = profile.ID
		if profile.Avatar != "" {
			existing.Avatar = profile.Avatar
		}
		existing.EmailVerified = true
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.UserRecord{}, fmt.Errorf("service: load user: %w", err)
	}

	rec := domain.UserRecord{
		ID:            uuid.NewString(),
		Email:         email,
		Name:          profile.Name,
		GoogleID:      profile.ID,
		Avatar:        profile.Avatar,
		Provider:      "google",
		EmailVerified: true,
		CreatedAt:     s.now(),
	}
	if err := s.users.Create(ctx, rec); err != nil {
		return domain.UserRecord{}, fmt.Errorf("service: create user: %w", err)
	}
	return rec, nil
}

// UserFromToken resolves a bearer token to its account.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.jwt.ValidateToken(token)
	if err != nil {
		return domain.User{}, err
	}
	rec, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, auth.ErrInvalidToken
		}
		return domain.User{}, fmt.Errorf("service: load user: %w", err)
	}
	return rec.Sanitized(), nil
}
