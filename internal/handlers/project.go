package handlers

import (
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

type ProjectHandler struct {
	projects *services.ProjectService
	sync     *services.ProjectSyncService
}

func NewProjectHandler(projects *services.ProjectService, sync *services.ProjectSyncService) *ProjectHandler {
	return &ProjectHandler{projects: projects, sync: sync}
}

// List godoc
// @Summary Одобренные проекты
// @Tags projects
// @Produce json
// @Success 200 {array} models.Project
// @Router /api/projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListPublic(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, projects)
}

// ListAll godoc
// @Summary Все проекты (дашборд)
// @Tags dashboard-projects
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Project
// @Router /api/dashboard/projects [get]
func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, projects)
}

// Update godoc
// @Summary Частичное обновление проекта
// @Tags dashboard-projects
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID проекта"
// @Param input body models.UpdateProjectRequest true "Изменяемые поля"
// @Success 200 {object} models.Project
// @Failure 404 {object} helpers.Response
// @Router /api/dashboard/projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req models.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.projects.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Delete godoc
// @Summary Удалить проект
// @Tags dashboard-projects
// @Security ApiKeyAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} helpers.Response
// @Router /api/dashboard/projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, models.MessageResponse{Message: "Project deleted successfully"})
}

// Sync godoc
// @Summary Синхронизация проектов с GitHub
// @Description Добавляет новые (не форки) репозитории. Существующие не обновляются.
// @Tags dashboard-projects
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.SyncResult
// @Failure 400 {object} helpers.Response "GitHub не настроен"
// @Failure 502 {object} helpers.Response
// @Router /api/dashboard/projects/sync [post]
func (h *ProjectHandler) Sync(w http.ResponseWriter, r *http.Request) {
	res, err := h.sync.Sync(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Синхронизация не выполнена", zap.Error(err))
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}

// UpdateImages godoc
// @Summary Повторный поиск картинок в README
// @Tags dashboard-projects
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.RefreshResult
// @Router /api/dashboard/projects/update-images [post]
func (h *ProjectHandler) UpdateImages(w http.ResponseWriter, r *http.Request) {
	res, err := h.sync.RefreshImages(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}

// UpdateLanguagePercentages godoc
// @Summary Пересчёт долей языков
// @Tags dashboard-projects
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.RefreshResult
// @Router /api/dashboard/projects/update-language-percentages [post]
func (h *ProjectHandler) UpdateLanguagePercentages(w http.ResponseWriter, r *http.Request) {
	res, err := h.sync.RefreshLanguagePercentages(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}
