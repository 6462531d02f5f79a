// Package sqlite provides a SQLite-backed implementation of the user
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
	"github.com/purushottamk3112/MoodVibe/internal/core/ports"
)

// Adapter implements the user repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ ports.UserRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup.
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) Create(ctx context.Context, rec domain.UserRecord) error {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password, google_id, avatar, provider, email_verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Email,
		rec.Name,
		nullIfEmpty(rec.PasswordHash),
		nullIfEmpty(rec.GoogleID),
		nullIfEmpty(rec.Avatar),
		rec.Provider,
		rec.EmailVerified,
		created.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.UserRecord, error) {
	return a.getOne(ctx, "id = ?", id)
}

func (a *Adapter) GetByEmail(ctx context.Context, email string) (domain.UserRecord, error) {
	return a.getOne(ctx, "email = ?", email)
}

func (a *Adapter) GetByGoogleID(ctx context.Context, googleID string) (domain.UserRecord, error) {
	return a.getOne(ctx, "google_id = ?", googleID)
}

// LinkGoogle attaches a federated identity to an existing account. The
// avatar only overwrites when the profile provided one.
func (a *Adapter) LinkGoogle(ctx context.Context, userID, googleID, avatar string) error {
	res, err := a.db.ExecContext(ctx, `
		UPDATE users
		SET google_id = ?, avatar = COALESCE(NULLIF(?, ''), avatar), email_verified = 1
		WHERE id = ?
	`, googleID, avatar, userID)
	if err != nil {
		return fmt.Errorf("failed to link google identity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to link google identity: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (a *Adapter) getOne(ctx context.Context, where string, arg any) (domain.UserRecord, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, email, name, password, google_id, avatar, provider, email_verified, created_at
		FROM users
		WHERE `+where, arg)

	var rec domain.UserRecord
	var password, googleID, avatar sql.NullString
	if err := row.Scan(
		&rec.ID,
		&rec.Email,
		&rec.Name,
		&password,
		&googleID,
		&avatar,
		&rec.Provider,
		&rec.EmailVerified,
		&rec.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserRecord{}, domain.ErrNotFound
		}
		return domain.UserRecord{}, fmt.Errorf("failed to load user: %w", err)
	}
	rec.PasswordHash = password.String
	rec.GoogleID = googleID.String
	rec.Avatar = avatar.String
	return rec, nil
}

func (a *Adapter) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password TEXT,
		google_id TEXT UNIQUE,
		avatar TEXT,
		provider TEXT NOT NULL DEFAULT 'email',
		email_verified INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);
	`
	if _, err := a.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint
}
