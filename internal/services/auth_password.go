package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/metrics"
	"portfolio/internal/ratelimit"
	"portfolio/internal/repository"
	"portfolio/internal/utils"

	"go.uber.org/zap"
)

// ResetRequestMessage: единый ответ на forgot-password, не раскрывает наличие аккаунта.
const ResetRequestMessage = "If the email exists, a reset link has been sent."

const (
	resetTokenTTL   = time.Hour
	resetResendWait = 5 * time.Minute
	minPasswordLen  = 8
)

var (
	ResetEmailPolicy   = ratelimit.Policy{Limit: 3, Window: time.Hour}
	ResetIPPolicy      = ratelimit.Policy{Limit: 10, Window: time.Hour}
	ResetConfirmPolicy = ratelimit.Policy{Limit: 5, Window: time.Hour}
)

// ResetMailer отправляет ссылку для сброса.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

type PasswordService struct {
	repo    repository.UserRepo
	mailer  ResetMailer
	siteURL string
	devMode bool
	now     func() time.Time

	emailLimit   *ratelimit.Limiter
	ipLimit      *ratelimit.Limiter
	confirmLimit *ratelimit.Limiter
}

func NewPasswordService(repo repository.UserRepo, mailer ResetMailer, limits ratelimit.Store, siteURL string, devMode bool) *PasswordService {
	return &PasswordService{
		repo:         repo,
		mailer:       mailer,
		siteURL:      strings.TrimRight(siteURL, "/"),
		devMode:      devMode,
		now:          time.Now,
		emailLimit:   ratelimit.NewLimiter(limits, "email", ResetEmailPolicy),
		ipLimit:      ratelimit.NewLimiter(limits, "ip", ResetIPPolicy),
		confirmLimit: ratelimit.NewLimiter(limits, "reset", ResetConfirmPolicy),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestReset выдаёт одноразовый токен и отправляет письмо со ссылкой.
// Для неизвестного адреса и OAuth-аккаунта результат тот же, что и для
// существующего: ошибка возвращается только при лимите или сбое базы.
func (s *PasswordService) RequestReset(ctx context.Context, email, clientIP string) error {
	log := logger.WithCtx(ctx)

	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	// оба лимита расходуются на каждый запрос, email проверяется первым
	emailRes, err := s.emailLimit.Allow(ctx, email)
	if err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	ipRes, err := s.ipLimit.Allow(ctx, clientIP)
	if err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	if !emailRes.Allowed {
		metrics.ResetRequestsTotal.WithLabelValues("rate_limited").Inc()
		log.Warn("Лимит запросов сброса по email", zap.String("email", email))
		return &RateLimitError{Scope: "email", ResetAt: emailRes.ResetAt}
	}
	if !ipRes.Allowed {
		metrics.ResetRequestsTotal.WithLabelValues("rate_limited").Inc()
		log.Warn("Лимит запросов сброса по IP", zap.String("ip", clientIP))
		return &RateLimitError{Scope: "ip", ResetAt: ipRes.ResetAt}
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("Сброс пароля для неизвестного email", zap.String("email", email))
		metrics.ResetRequestsTotal.WithLabelValues("ignored").Inc()
		return nil
	}
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		log.Info("Сброс пароля для OAuth-аккаунта пропущен", zap.Int64("user_id", user.ID))
		metrics.ResetRequestsTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	token, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	now := s.now()
	expiry := now.Add(resetTokenTTL)
	// токен моложе 5 минут живёт дольше чем now + (ttl - 5m)
	replaceBefore := now.Add(resetTokenTTL - resetResendWait)

	issued, err := s.repo.IssueResetToken(ctx, user.ID, utils.HashToken(token), expiry, replaceBefore)
	if err != nil {
		return err
	}
	if !issued {
		log.Info("Токен сброса уже выдан недавно, повторно не отправляем", zap.Int64("user_id", user.ID))
		metrics.ResetRequestsTotal.WithLabelValues("throttled").Inc()
		return nil
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.siteURL, token, url.QueryEscape(email))
	if s.devMode {
		log.Info("Ссылка для сброса пароля (dev)", zap.String("url", link))
	}

	if err := s.mailer.SendPasswordReset(ctx, email, link); err != nil {
		// наружу не пробрасываем: ответ не должен зависеть от доставки
		log.Error("Ошибка отправки письма для сброса пароля", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	metrics.ResetRequestsTotal.WithLabelValues("issued").Inc()
	log.Info("Токен сброса выдан", zap.Int64("user_id", user.ID), zap.Time("expires_at", expiry))
	return nil
}

// ConfirmReset меняет пароль по токену. Неверный и просроченный токен
// дают одну и ту же ошибку.
func (s *PasswordService) ConfirmReset(ctx context.Context, email, token, newPassword, clientIP string) error {
	log := logger.WithCtx(ctx)

	email = normalizeEmail(email)
	token = strings.TrimSpace(token)
	if email == "" || token == "" || newPassword == "" {
		return ErrResetFieldsRequired
	}
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	res, err := s.confirmLimit.Allow(ctx, clientIP)
	if err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	if !res.Allowed {
		log.Warn("Лимит попыток сброса пароля", zap.String("ip", clientIP))
		return &RateLimitError{Scope: "reset", ResetAt: res.ResetAt}
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.repo.ConsumeResetToken(ctx, email, utils.HashToken(token), hash, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Неверный или просроченный токен сброса", zap.String("email", email))
		metrics.ResetConfirmTotal.WithLabelValues("invalid").Inc()
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	metrics.ResetConfirmTotal.WithLabelValues("ok").Inc()
	log.Info("Пароль сброшен по токену", zap.String("email", email))
	return nil
}
