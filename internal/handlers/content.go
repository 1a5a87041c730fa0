package handlers

import (
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"
)

// CollectionHandler: CRUD для skills, experience, education и social links.
// Маршруты: GET /api/{name}, дашборд GET/POST /api/dashboard/{name},
// PUT/DELETE /api/dashboard/{name}/{id}.
type CollectionHandler[T any] struct {
	svc *services.Collection[T]
}

func NewCollectionHandler[T any](svc *services.Collection[T]) *CollectionHandler[T] {
	return &CollectionHandler[T]{svc: svc}
}

func (h *CollectionHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*T{}
	}
	helpers.JSON(w, http.StatusOK, items)
}

func (h *CollectionHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	v := new(T)
	if !decodeJSON(w, r, v) {
		return
	}
	created, err := h.svc.Create(r.Context(), v)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, created)
}

func (h *CollectionHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	v := new(T)
	if !decodeJSON(w, r, v) {
		return
	}
	updated, err := h.svc.Update(r.Context(), id, v)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, updated)
}

func (h *CollectionHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, models.MessageResponse{Message: "Deleted successfully"})
}

type ProfileHandler struct {
	svc *services.ContentService
}

func NewProfileHandler(svc *services.ContentService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// GetHome godoc
// @Summary Главная страница
// @Description null, если ещё не заполнена.
// @Tags content
// @Produce json
// @Success 200 {object} models.Home
// @Router /api/home [get]
func (h *ProfileHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.svc.GetHome(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, home)
}

// SaveHome godoc
// @Summary Сохранить главную страницу
// @Tags dashboard-content
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.Home true "Главная"
// @Success 200 {object} models.Home
// @Router /api/dashboard/home [put]
func (h *ProfileHandler) SaveHome(w http.ResponseWriter, r *http.Request) {
	var in models.Home
	if !decodeJSON(w, r, &in) {
		return
	}
	home, err := h.svc.SaveHome(r.Context(), &in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, home)
}

// GetAbout godoc
// @Summary Страница "обо мне"
// @Tags content
// @Produce json
// @Success 200 {object} models.About
// @Router /api/about [get]
func (h *ProfileHandler) GetAbout(w http.ResponseWriter, r *http.Request) {
	about, err := h.svc.GetAbout(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, about)
}

// SaveAbout godoc
// @Summary Сохранить страницу "обо мне"
// @Description Обязательны image, description, location.
// @Tags dashboard-content
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.About true "Обо мне"
// @Success 200 {object} models.About
// @Failure 400 {object} helpers.Response
// @Router /api/dashboard/about [put]
func (h *ProfileHandler) SaveAbout(w http.ResponseWriter, r *http.Request) {
	var in models.About
	if !decodeJSON(w, r, &in) {
		return
	}
	about, err := h.svc.SaveAbout(r.Context(), &in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, about)
}
