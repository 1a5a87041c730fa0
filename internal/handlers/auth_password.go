package handlers

import (
	"net/http"
	"strings"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/reqctx"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

type PasswordHandler struct {
	svc *services.PasswordService
}

func NewPasswordHandler(svc *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

// Forgot godoc
// @Summary Запрос восстановления пароля
// @Description Отправляет письмо со ссылкой для сброса пароля. Ответ одинаковый, даже если e-mail не найден.
// @Tags password
// @Accept json
// @Produce json
// @Param input body models.ForgotPasswordRequest true "Email пользователя"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} helpers.Response
// @Failure 429 {object} models.RateLimitResponse
// @Router /api/auth/forgot-password [post]
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.RequestReset(r.Context(), req.Email, reqctx.GetClientIP(r.Context())); err != nil {
		log.Warn("Запрос восстановления пароля отклонён", zap.String("email_masked", maskEmail(req.Email)), zap.Error(err))
		writeServiceError(w, r, err)
		return
	}

	helpers.Raw(w, http.StatusOK, models.MessageResponse{Message: services.ResetRequestMessage})
}

// Reset godoc
// @Summary Сброс пароля по токену
// @Description Устанавливает новый пароль по токену из письма. Просроченный и неверный токен неразличимы.
// @Tags password
// @Accept json
// @Produce json
// @Param input body models.ResetPasswordRequest true "Токен, email и новый пароль"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} helpers.Response
// @Failure 429 {object} models.RateLimitResponse
// @Router /api/auth/reset-password [post]
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.ConfirmReset(r.Context(), req.Email, req.Token, req.Password, reqctx.GetClientIP(r.Context())); err != nil {
		logger.WithCtx(r.Context()).Warn("Не удалось сбросить пароль", zap.String("email_masked", maskEmail(req.Email)), zap.Error(err))
		writeServiceError(w, r, err)
		return
	}

	helpers.Raw(w, http.StatusOK, models.MessageResponse{Message: "Password has been reset successfully"})
}

// maskEmail: john.doe@example.com -> j***e@example.com
func maskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return local[:1] + "***" + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + domain
}
