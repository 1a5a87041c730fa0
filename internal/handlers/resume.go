package handlers

import (
	"fmt"
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/services"

	"go.uber.org/zap"
)

type ResumeHandler struct {
	svc *services.ResumeService
}

func NewResumeHandler(svc *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

// Download godoc
// @Summary Резюме в LaTeX (moderncv)
// @Tags resume
// @Produce application/x-latex
// @Success 200 {file} file "Resume_YYYY-MM-DD.tex"
// @Failure 500 {object} helpers.Response
// @Router /api/resume/download [get]
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	tex, filename, err := h.svc.Generate(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-latex; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(tex)); err != nil {
		logger.WithCtx(r.Context()).Warn("Не удалось отдать резюме", zap.Error(err))
	}
}
