package middleware

import (
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/reqctx"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

// OnlyRole ставится после JWTAuth.
func OnlyRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := reqctx.GetRole(r.Context())
			if !ok || userRole != role {
				logger.WithCtx(r.Context()).Warn("Доступ запрещён", zap.String("role", userRole), zap.String("path", r.URL.Path))
				helpers.Error(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
