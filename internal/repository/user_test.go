package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	issueResetSQL   = regexp.QuoteMeta(`AND (reset_token_expiry IS NULL OR reset_token_expiry <= $4)`)
	consumeResetSQL = regexp.QuoteMeta(`AND reset_token_expiry > $4`)
)

func newUserRepoMock(t *testing.T) (*userRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return &userRepo{db: mock}, mock
}

func TestUserRepo_IssueResetToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)
	replaceBefore := now.Add(55 * time.Minute)

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "токена нет или он старше 5 минут", affected: 1, want: true},
		{name: "свежий токен не перезаписывается", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newUserRepoMock(t)
			mock.ExpectExec(issueResetSQL).
				WithArgs(int64(7), "hash", expiry, replaceBefore).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			ok, err := repo.IssueResetToken(context.Background(), 7, "hash", expiry, replaceBefore)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestUserRepo_IssueResetToken_DBError(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(issueResetSQL).
		WithArgs(int64(7), "hash", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(boom)

	ok, err := repo.IssueResetToken(context.Background(), 7, "hash", time.Now(), time.Now())
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestUserRepo_ConsumeResetToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC)

	t.Run("валидный токен", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectExec(consumeResetSQL).
			WithArgs("a@b.c", "hash", "bcrypt", now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.ConsumeResetToken(context.Background(), "a@b.c", "hash", "bcrypt", now))
	})

	t.Run("неверный или истёкший токен", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectExec(consumeResetSQL).
			WithArgs("a@b.c", "hash", "bcrypt", now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.ConsumeResetToken(context.Background(), "a@b.c", "hash", "bcrypt", now)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = lower($1)`)).
		WithArgs("nobody@x.io").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@x.io")
	assert.ErrorIs(t, err, ErrNotFound)
}
