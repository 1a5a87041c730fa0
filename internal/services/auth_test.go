package services

import (
	"context"
	"testing"
	"time"

	"portfolio/internal/ratelimit"
	"portfolio/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	store := ratelimit.NewMemoryStore(0)
	t.Cleanup(store.Stop)

	repo := newMockUserRepo()
	return NewAuthService(repo, store, testSecret, time.Hour), repo
}

func TestAuth_EnsureAdminThenLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, " Admin@Example.com ", "supersecret", "Admin"))

	res, err := svc.Login(ctx, "admin@example.com", "supersecret", "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", res.User.Email)

	claims, err := utils.ParseToken(testSecret, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	me, err := svc.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", me.Name)
}

func TestAuth_EnsureAdmin(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	assert.NoError(t, svc.EnsureAdmin(ctx, "", "whatever", "x"), "без email ничего не делаем")
	assert.Empty(t, repo.users)
	assert.ErrorIs(t, svc.EnsureAdmin(ctx, "a@example.com", "short", "x"), ErrPasswordTooShort)
}

func TestAuth_LoginFailuresIndistinguishable(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	repo.add("user@example.com", &hash)
	repo.add("oauth@example.com", nil)

	_, err = svc.Login(ctx, "user@example.com", "wrong", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "wrong", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "oauth@example.com", "wrong", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_LoginRateLimited(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < LoginPolicy.Limit; i++ {
		_, err := svc.Login(ctx, "nobody@example.com", "x", "9.9.9.9")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, "nobody@example.com", "x", "9.9.9.9")
	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "login", rl.Scope)

	_, err = svc.Login(ctx, "nobody@example.com", "x", "8.8.8.8")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_MeUnknown(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Me(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
