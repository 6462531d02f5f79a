package ports

import (
	"context"

	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
)

// UserRepository persists user accounts. Implementations return
// domain.ErrNotFound for missing records and domain.ErrEmailTaken when a
// create collides on email.
type UserRepository interface {
	Create(ctx context.Context, rec domain.UserRecord) error
	GetByID(ctx context.Context, id string) (domain.UserRecord, error)
	GetByEmail(ctx context.Context, email string) (domain.UserRecord, error)
	GetByGoogleID(ctx context.Context, googleID string) (domain.UserRecord, error)
	// LinkGoogle attaches a federated identity to an existing account and
	// marks the email verified.
	LinkGoogle(ctx context.Context, userID, googleID, avatar string) error
}
