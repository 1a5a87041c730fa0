package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"portfolio/internal/ratelimit"
	"portfolio/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resetFixture struct {
	svc    *PasswordService
	repo   *mockUserRepo
	mailer *fakeResetMailer
	now    time.Time
}

func (f *resetFixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()

	f := &resetFixture{
		repo:   newMockUserRepo(),
		mailer: &fakeResetMailer{},
		now:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	store := ratelimit.NewMemoryStore(0).WithClock(clock)
	f.svc = NewPasswordService(f.repo, f.mailer, store, "https://site.example/", false)
	f.svc.now = clock

	hash, err := utils.HashPassword("old-password")
	require.NoError(t, err)
	f.repo.add("owner@example.com", &hash)
	return f
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestRequestReset_IssuesTokenAndSendsLink(t *testing.T) {
	f := newResetFixture(t)

	err := f.svc.RequestReset(context.Background(), "  Owner@Example.COM ", "1.1.1.1")
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "owner@example.com", f.mailer.sent[0].to)
	assert.True(t, strings.HasPrefix(f.mailer.sent[0].link, "https://site.example/reset-password?token="))
	assert.Contains(t, f.mailer.sent[0].link, "email=owner%40example.com")

	token := tokenFromLink(t, f.mailer.sent[0].link)
	assert.Len(t, token, 64)

	u, _ := f.repo.GetByEmail(context.Background(), "owner@example.com")
	require.NotNil(t, u.ResetTokenHash)
	assert.Equal(t, utils.HashToken(token), *u.ResetTokenHash, "в базе только хеш")
	assert.Equal(t, f.now.Add(time.Hour), *u.ResetTokenExpiry)
}

func TestRequestReset_NoDuplicateWithinFiveMinutes(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReset(ctx, "owner@example.com", "1.1.1.1"))
	first, _ := f.repo.GetByEmail(ctx, "owner@example.com")

	f.advance(120 * time.Second)
	require.NoError(t, f.svc.RequestReset(ctx, "owner@example.com", "1.1.1.1"))

	second, _ := f.repo.GetByEmail(ctx, "owner@example.com")
	assert.Equal(t, *first.ResetTokenHash, *second.ResetTokenHash)
	assert.Len(t, f.mailer.sent, 1)

	// после 5 минут выдаётся новый
	f.advance(4 * time.Minute)
	require.NoError(t, f.svc.RequestReset(ctx, "owner@example.com", "1.1.1.1"))
	third, _ := f.repo.GetByEmail(ctx, "owner@example.com")
	assert.NotEqual(t, *first.ResetTokenHash, *third.ResetTokenHash)
	assert.Len(t, f.mailer.sent, 2)
}

func TestRequestReset_UnknownAndOAuthAccountsLookTheSame(t *testing.T) {
	f := newResetFixture(t)
	f.repo.add("oauth@example.com", nil)

	assert.NoError(t, f.svc.RequestReset(context.Background(), "nobody@example.com", "1.1.1.1"))
	assert.NoError(t, f.svc.RequestReset(context.Background(), "oauth@example.com", "1.1.1.1"))
	assert.Empty(t, f.mailer.sent)

	u, _ := f.repo.GetByEmail(context.Background(), "oauth@example.com")
	assert.Nil(t, u.ResetTokenHash)
}

func TestRequestReset_MailFailureIsNotReported(t *testing.T) {
	f := newResetFixture(t)
	f.mailer.err = errBoom

	assert.NoError(t, f.svc.RequestReset(context.Background(), "owner@example.com", "1.1.1.1"))
	u, _ := f.repo.GetByEmail(context.Background(), "owner@example.com")
	assert.NotNil(t, u.ResetTokenHash)
}

func TestRequestReset_EmailRateLimit(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()
	windowEnd := f.now.Add(time.Hour)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.svc.RequestReset(ctx, "x@example.com", "10.0.0.1"))
		f.advance(time.Minute)
	}

	err := f.svc.RequestReset(ctx, "X@example.com", "10.0.0.2")
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "email", rl.Scope)
	assert.Equal(t, windowEnd, rl.ResetAt)

	f.advance(time.Hour)
	assert.NoError(t, f.svc.RequestReset(ctx, "x@example.com", "10.0.0.2"))
}

func TestRequestReset_IPRateLimit(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, f.svc.RequestReset(ctx, "user"+string(rune('a'+i))+"@example.com", "9.9.9.9"))
	}

	err := f.svc.RequestReset(ctx, "other@example.com", "9.9.9.9")
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "ip", rl.Scope)
}

func TestRequestReset_EmptyEmail(t *testing.T) {
	f := newResetFixture(t)
	assert.ErrorIs(t, f.svc.RequestReset(context.Background(), "   ", "1.1.1.1"), ErrEmailRequired)
}

func TestConfirmReset_Success(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReset(ctx, "owner@example.com", "1.1.1.1"))
	token := tokenFromLink(t, f.mailer.sent[0].link)

	require.NoError(t, f.svc.ConfirmReset(ctx, "OWNER@example.com", token, "brand-new-pass", "1.1.1.1"))

	u, _ := f.repo.GetByEmail(ctx, "owner@example.com")
	assert.True(t, utils.CheckPassword(*u.PasswordHash, "brand-new-pass"))
	assert.Nil(t, u.ResetTokenHash)
	assert.Nil(t, u.ResetTokenExpiry)

	// повторное использование
	err := f.svc.ConfirmReset(ctx, "owner@example.com", token, "another-pass", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestConfirmReset_ExpiredAndWrongTokenAreIndistinguishable(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReset(ctx, "owner@example.com", "1.1.1.1"))
	token := tokenFromLink(t, f.mailer.sent[0].link)

	wrongErr := f.svc.ConfirmReset(ctx, "owner@example.com", strings.Repeat("0", 64), "brand-new-pass", "2.2.2.2")

	f.advance(time.Hour + time.Second)
	expiredErr := f.svc.ConfirmReset(ctx, "owner@example.com", token, "brand-new-pass", "2.2.2.2")

	assert.ErrorIs(t, wrongErr, ErrInvalidResetToken)
	assert.ErrorIs(t, expiredErr, ErrInvalidResetToken)
	assert.Equal(t, wrongErr.Error(), expiredErr.Error())

	u, _ := f.repo.GetByEmail(ctx, "owner@example.com")
	assert.True(t, utils.CheckPassword(*u.PasswordHash, "old-password"))
}

func TestConfirmReset_Validation(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.ConfirmReset(ctx, "owner@example.com", "tok", "short", "1.1.1.1"), ErrPasswordTooShort)
	assert.ErrorIs(t, f.svc.ConfirmReset(ctx, "", "tok", "long-enough", "1.1.1.1"), ErrResetFieldsRequired)
	assert.ErrorIs(t, f.svc.ConfirmReset(ctx, "owner@example.com", "", "long-enough", "1.1.1.1"), ErrResetFieldsRequired)
}

func TestConfirmReset_RateLimitPerIP(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := f.svc.ConfirmReset(ctx, "owner@example.com", "bad", "long-enough", "3.3.3.3")
		require.ErrorIs(t, err, ErrInvalidResetToken)
	}

	err := f.svc.ConfirmReset(ctx, "owner@example.com", "bad", "long-enough", "3.3.3.3")
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "reset", rl.Scope)

	// другой IP не затронут
	assert.ErrorIs(t, f.svc.ConfirmReset(ctx, "owner@example.com", "bad", "long-enough", "4.4.4.4"), ErrInvalidResetToken)
}
