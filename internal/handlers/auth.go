package handlers

import (
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/reqctx"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Учётные данные"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Failure 429 {object} models.RateLimitResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password, reqctx.GetClientIP(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}

// Me godoc
// @Summary Профиль текущего пользователя
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.UserProfileResponse
// @Failure 401 {object} helpers.Response
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Профиль не найден", zap.Int64("user_id", userID))
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, profile)
}
