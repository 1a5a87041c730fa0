package services

import (
	"context"
	"errors"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/ratelimit"
	"portfolio/internal/repository"
	"portfolio/internal/utils"

	"go.uber.org/zap"
)

var LoginPolicy = ratelimit.Policy{Limit: 10, Window: 15 * time.Minute}

type AuthService struct {
	repo       repository.UserRepo
	jwtSecret  string
	accessTTL  time.Duration
	loginLimit *ratelimit.Limiter
}

func NewAuthService(repo repository.UserRepo, limits ratelimit.Store, jwtSecret string, accessTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repo,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		loginLimit: ratelimit.NewLimiter(limits, "login", LoginPolicy),
	}
}

func toProfile(u *models.User) models.UserProfileResponse {
	return models.UserProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Image:     u.Image,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Login проверяет пароль и выдаёт access-токен. Неизвестный email и
// неверный пароль неразличимы.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (*models.LoginResponse, error) {
	log := logger.WithCtx(ctx)

	res, err := s.loginLimit.Allow(ctx, clientIP)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		log.Warn("Лимит попыток входа", zap.String("ip", clientIP))
		return nil, &RateLimitError{Scope: "login", ResetAt: res.ResetAt}
	}

	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.HasPassword() || !utils.CheckPassword(*user.PasswordHash, password) {
		log.Warn("Неверный пароль", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, exp, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Role, s.accessTTL)
	if err != nil {
		log.Error("Ошибка генерации токена", zap.Error(err))
		return nil, err
	}

	log.Info("Успешный вход", zap.Int64("user_id", user.ID))
	return &models.LoginResponse{AccessToken: token, ExpiresAt: exp, User: toProfile(user)}, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*models.UserProfileResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p := toProfile(u)
	return &p, nil
}

// EnsureAdmin создаёт или обновляет администратора из конфигурации.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	u, err := s.repo.UpsertAdmin(ctx, email, name, hash)
	if err != nil {
		return err
	}
	logger.Log.Info("Администратор готов", zap.Int64("user_id", u.ID), zap.String("email", u.Email))
	return nil
}
