package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purushottamk3112/MoodVibe/internal/auth"
	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
)

// memUserRepo is an in-memory UserRepository for service tests.
type memUserRepo struct {
	users map[string]domain.UserRecord // keyed by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]domain.UserRecord{}}
}

func (r *memUserRepo) Create(ctx context.Context, rec domain.UserRecord) error {
	for _, u := range r.users {
		if u.Email == rec.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users[rec.ID] = rec
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (domain.UserRecord, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return domain.UserRecord{}, domain.ErrNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (domain.UserRecord, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.UserRecord{}, domain.ErrNotFound
}

func (r *memUserRepo) GetByGoogleID(ctx context.Context, googleID string) (domain.UserRecord, error) {
	for _, u := range r.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return u, nil
		}
	}
	return domain.UserRecord{}, domain.ErrNotFound
}

func (r *memUserRepo) LinkGoogle(ctx context.Context, userID, googleID, avatar string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.GoogleID = googleID
	if avatar != "" {
		u.Avatar = avatar
	}
	u.EmailVerified = true
	r.users[userID] = u
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *memUserRepo) {
	t.Helper()
	jwt, err := auth.NewJWTManager("test-secret")
	require.NoError(t, err)
	repo := newMemUserRepo()
	return NewAuthService(repo, jwt), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "jane@example.com", "Jane", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "email", user.Provider)

	got, loginToken, err := svc.Login(ctx, "jane@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "jane@example.com", "Jane", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "jane@example.com", "Other Jane", "password")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name            string
		email, username string
		password        string
	}{
		{"bad email", "not-an-email", "Jane", "hunter22"},
		{"short name", "jane@example.com", "J", "hunter22"},
		{"short password", "jane@example.com", "Jane", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.email, tc.username, tc.password)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestLoginWrongPasswordAndUnknownEmailMatch(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "jane@example.com", "Jane", "hunter22")
	require.NoError(t, err)

	// Wrong password and unknown email must be indistinguishable.
	_, _, errWrongPass := svc.Login(ctx, "jane@example.com", "wrong")
	_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
}

func TestLoginWithGoogleCreatesUser(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.LoginWithGoogle(ctx, GoogleProfile{
		ID:     "g-1",
		Email:  "jane@example.com",
		Name:   "Jane",
		Avatar: "https://example.com/jane.png",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "google", user.Provider)

	rec, err := repo.GetByGoogleID(ctx, "g-1")
	require.NoError(t, err)
	assert.True(t, rec.EmailVerified)
}

func TestLoginWithGoogleLinksExistingAccount(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "jane@example.com", "Jane", "hunter22")
	require.NoError(t, err)

	linked, _, err := svc.LoginWithGoogle(ctx, GoogleProfile{
		ID:    "g-1",
		Email: "jane@example.com",
		Name:  "Jane",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, linked.ID)

	rec, err := repo.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "g-1", rec.GoogleID)
	// Provider stays as originally registered; the identity is linked.
	assert.Equal(t, "email", rec.Provider)
}

func TestUserFromToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "jane@example.com", "Jane", "hunter22")
	require.NoError(t, err)

	got, err := svc.UserFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.UserFromToken(ctx, "bogus")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
