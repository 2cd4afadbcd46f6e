package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	svc := NewAuthService(setupServiceTestDB(t))
	svc.cost = bcrypt.MinCost
	return svc
}

func TestAuthService_SignInWithPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, " Admin@Example.com ", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", created.Email)

	user, err := svc.SignInWithPassword(ctx, "ADMIN@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.SignInWithPassword(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignInWithPassword(ctx, "nobody@example.com", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignInWithPassword(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_CreateUserRejectsDuplicates(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "dup@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "DUP@example.com", "pw2")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_ListUsersPages(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.CreateUser(ctx, email, "pw")
		require.NoError(t, err)
	}

	first, err := svc.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := svc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)

	user, err := svc.GetUser(ctx, second[0].ID)
	require.NoError(t, err)
	assert.Equal(t, second[0].Email, user.Email)

	_, err = svc.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
