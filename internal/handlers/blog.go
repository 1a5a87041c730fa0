package handlers

import (
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/reqctx"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type BlogHandler struct {
	svc *services.BlogService
}

func NewBlogHandler(svc *services.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// List godoc
// @Summary Опубликованные посты
// @Tags blog
// @Produce json
// @Success 200 {array} models.Blog
// @Router /api/blogs [get]
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.svc.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, blogs)
}

// Get godoc
// @Summary Пост по slug
// @Description Увеличивает счётчик просмотров.
// @Tags blog
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} models.Blog
// @Failure 404 {object} helpers.Response
// @Router /api/blogs/{slug} [get]
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.View(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// React godoc
// @Summary Реакция на пост
// @Description Одна реакция каждого типа с одного IP.
// @Tags blog
// @Accept json
// @Produce json
// @Param slug path string true "Slug"
// @Param input body models.ReactionRequest true "like | love | celebrate"
// @Success 200 {object} map[string]int
// @Failure 400 {object} helpers.Response "Already reacted"
// @Router /api/blogs/{slug}/reaction [post]
func (h *BlogHandler) React(w http.ResponseWriter, r *http.Request) {
	var req models.ReactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	counts, err := h.svc.React(r.Context(), mux.Vars(r)["slug"], req.Type, reqctx.GetClientIP(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, counts)
}

// Comment godoc
// @Summary Комментарий к посту
// @Tags blog
// @Accept json
// @Produce json
// @Param slug path string true "Slug"
// @Param input body models.CommentRequest true "Комментарий"
// @Success 201 {object} models.BlogComment
// @Failure 404 {object} helpers.Response
// @Router /api/blogs/{slug}/comment [post]
func (h *BlogHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.svc.Comment(r.Context(), mux.Vars(r)["slug"], &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}

// ListAll godoc
// @Summary Все посты, включая черновики
// @Tags dashboard-blog
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Blog
// @Router /api/dashboard/blogs [get]
func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, blogs)
}

// GetByID godoc
// @Summary Пост по ID
// @Tags dashboard-blog
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID поста"
// @Success 200 {object} models.Blog
// @Router /api/dashboard/blogs/{id} [get]
func (h *BlogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// Create godoc
// @Summary Создать пост
// @Description Пустой slug генерируется из заголовка.
// @Tags dashboard-blog
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.BlogInput true "Пост"
// @Success 201 {object} models.Blog
// @Failure 409 {object} helpers.Response
// @Router /api/dashboard/blogs [post]
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, b)
}

// Update godoc
// @Summary Обновить пост
// @Tags dashboard-blog
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID поста"
// @Param input body models.BlogInput true "Пост"
// @Success 200 {object} models.Blog
// @Router /api/dashboard/blogs/{id} [put]
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in models.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// Delete godoc
// @Summary Удалить пост
// @Tags dashboard-blog
// @Security ApiKeyAuth
// @Param id path int true "ID поста"
// @Success 200 {object} models.MessageResponse
// @Router /api/dashboard/blogs/{id} [delete]
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, models.MessageResponse{Message: "Blog deleted successfully"})
}
