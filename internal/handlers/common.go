package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const maxJSONBody = 1 << 20

// decodeJSON читает тело и проверяет validate-теги. Ошибка уже записана в ответ.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		helpers.Error(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// validationMessage: "Validation failed: email (email), name (required)".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Validation failed"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		helpers.Error(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// writeRateLimited: 429 без конверта: {error, resetTime} и Retry-After.
func writeRateLimited(w http.ResponseWriter, rl *services.RateLimitError) {
	secs := int(time.Until(rl.ResetAt).Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	helpers.Raw(w, http.StatusTooManyRequests, models.RateLimitResponse{
		Error:     rl.Message(),
		ResetTime: rl.ResetAt.UTC().Format(time.RFC3339),
	})
}

// writeServiceError переводит ошибки сервисов в HTTP-статусы.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var rl *services.RateLimitError
	switch {
	case errors.As(err, &rl):
		writeRateLimited(w, rl)
	case errors.Is(err, services.ErrNotFound):
		helpers.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrGitHubNotConfigured),
		errors.Is(err, services.ErrInvalidResetToken),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrResetFieldsRequired),
		errors.Is(err, services.ErrInvalidUpload):
		helpers.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyReacted):
		helpers.Error(w, http.StatusBadRequest, "Already reacted")
	case errors.Is(err, services.ErrSlugTaken):
		helpers.Error(w, http.StatusConflict, "Slug already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		helpers.Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrUpstream):
		logger.WithCtx(r.Context()).Error("Ошибка внешнего сервиса", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusBadGateway, "Failed to fetch from GitHub")
	default:
		logger.WithCtx(r.Context()).Error("Внутренняя ошибка", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
