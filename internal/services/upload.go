package services

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/storage"

	"go.uber.org/zap"
)

// MaxUploadSize: ограничение на размер загружаемого файла.
const MaxUploadSize = 10 << 20

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFilename оставляет только [a-zA-Z0-9.-], остальное заменяет на "_".
func SanitizeFilename(name string) string {
	name = path.Base(name)
	if name == "." || name == "/" {
		name = "file"
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

type UploadService struct {
	store storage.Storage
	now   func() time.Time
}

func NewUploadService(store storage.Storage) *UploadService {
	return &UploadService{store: store, now: time.Now}
}

// Upload сохраняет файл в certificates/ (kind=certificate) или uploads/.
func (s *UploadService) Upload(ctx context.Context, kind, filename, contentType string, data []byte) (*models.UploadResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidUpload)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%w: file too large", ErrInvalidUpload)
	}

	dir := "uploads"
	if kind == "certificate" {
		dir = "certificates"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), SanitizeFilename(filename))
	url, err := s.store.Put(ctx, dir+"/"+name, contentType, data)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка сохранения файла", zap.String("file", name), zap.Error(err))
		return nil, err
	}

	logger.WithCtx(ctx).Info("Файл загружен", zap.String("url", url), zap.Int("size", len(data)))
	return &models.UploadResult{URL: url, Filename: name}, nil
}
