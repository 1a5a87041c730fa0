package handlers

import (
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"
)

type ContactHandler struct {
	svc *services.ContactService
}

func NewContactHandler(svc *services.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Submit godoc
// @Summary Форма обратной связи
// @Description Автоответ отправителю и уведомление владельцу. 207: сообщение принято, но автоответ не ушёл.
// @Tags contact
// @Accept json
// @Produce json
// @Param input body models.ContactRequest true "Сообщение"
// @Success 200 {object} models.ContactResponse
// @Success 207 {object} models.ContactResponse
// @Failure 400 {object} helpers.Response
// @Router /api/contact [post]
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !h.svc.Submit(r.Context(), &req) {
		helpers.Raw(w, http.StatusMultiStatus, models.ContactResponse{
			Message:       "Message received, but the confirmation email could not be sent.",
			AutoReplySent: false,
		})
		return
	}
	helpers.Raw(w, http.StatusOK, models.ContactResponse{Message: "Message sent successfully", AutoReplySent: true})
}
