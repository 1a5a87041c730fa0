package handlers

import (
	"errors"
	"io"
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

type UploadHandler struct {
	svc *services.UploadService
}

func NewUploadHandler(svc *services.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Upload godoc
// @Summary Загрузка файла
// @Description type=certificate кладёт файл в certificates/, иначе в uploads/.
// @Tags dashboard-upload
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл"
// @Param type formData string false "image | certificate"
// @Success 201 {object} models.UploadResult
// @Failure 400 {object} helpers.Response
// @Router /api/dashboard/upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.Error(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		log.Warn("Невалидная multipart-форма", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxUploadSize+1))
	if err != nil {
		log.Error("Ошибка чтения загруженного файла", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	res, err := h.svc.Upload(r.Context(), r.FormValue("type"), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, res)
}
