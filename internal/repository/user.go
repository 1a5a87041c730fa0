package repository

import (
	"context"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// IssueResetToken записывает токен, только если у текущего срок
	// истекает не позже replaceBefore. false: токен не записан.
	IssueResetToken(ctx context.Context, userID int64, tokenHash string, expiry, replaceBefore time.Time) (bool, error)
	// ConsumeResetToken одним UPDATE меняет пароль и стирает токен.
	// ErrNotFound: токен неверный или истёк.
	ConsumeResetToken(ctx context.Context, email, tokenHash, passwordHash string, now time.Time) error
	UpsertAdmin(ctx context.Context, email, name, passwordHash string) (*models.User, error)
}

type userRepo struct{ db DB }

func NewUserRepo(db *pgxpool.Pool) UserRepo { return &userRepo{db: db} }

const userColumns = `id, email, password_hash, name, image, provider, provider_id, role,
	reset_token_hash, reset_token_expiry, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Image,
		&u.Provider,
		&u.ProviderID,
		&u.Role,
		&u.ResetTokenHash,
		&u.ResetTokenExpiry,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email (repo)", zap.String("email", email))
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email)
	return scanUser(row)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Проверка и запись в одном UPDATE: два параллельных запроса не выдадут два токена.
func (r *userRepo) IssueResetToken(ctx context.Context, userID int64, tokenHash string, expiry, replaceBefore time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET reset_token_hash = $2,
		    reset_token_expiry = $3,
		    updated_at = NOW()
		WHERE id = $1
		  AND (reset_token_expiry IS NULL OR reset_token_expiry <= $4)
	`, userID, tokenHash, expiry, replaceBefore)
	if err != nil {
		logger.Log.Error("Ошибка записи reset-токена (repo)", zap.Int64("user_id", userID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *userRepo) ConsumeResetToken(ctx context.Context, email, tokenHash, passwordHash string, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $3,
		    reset_token_hash = NULL,
		    reset_token_expiry = NULL,
		    updated_at = NOW()
		WHERE email = lower($1)
		  AND reset_token_hash = $2
		  AND reset_token_expiry > $4
	`, email, tokenHash, passwordHash, now)
	if err != nil {
		logger.Log.Error("Ошибка смены пароля по токену (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) UpsertAdmin(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	logger.Log.Info("Upsert администратора (repo)", zap.String("email", email))
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, provider, role)
		VALUES (lower($1), $2, $3, 'credentials', 'admin')
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    role = 'admin',
		    updated_at = NOW()
		RETURNING `+userColumns, email, name, passwordHash)
	return scanUser(row)
}
