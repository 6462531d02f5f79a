package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("domain: not found")
	ErrEmailTaken         = errors.New("domain: email already registered")
	ErrInvalidCredentials = errors.New("domain: invalid credentials")
)

// User is the sanitized account representation exposed over the API.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Provider string `json:"provider"`
}

// UserRecord is the stored form of a user, including credential material
// that must never leave the auth service.
type UserRecord struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string // empty for federated-only accounts
	GoogleID      string
	Avatar        string
	Provider      string
	EmailVerified bool
	CreatedAt     time.Time
}

// Sanitized strips credential material for responses.
func (r UserRecord) Sanitized() User {
	return User{
		ID:       r.ID,
		Email:    r.Email,
		Name:     r.Name,
		Avatar:   r.Avatar,
		Provider: r.Provider,
	}
}
