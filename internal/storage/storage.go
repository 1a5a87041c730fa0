// Package storage хранит загруженные файлы дашборда: локальный диск или S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio/internal/config"
	"portfolio/internal/logger"

	"go.uber.org/zap"
)

// Storage сохраняет объект под ключом вида "uploads/<name>" и возвращает
// публичный URL.
type Storage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

var ErrInvalidKey = errors.New("storage: invalid key")

// cleanKey не пускает выход из корня хранилища.
func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.ReplaceAll(key, `\`, "/"), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}

// Fallback пишет в primary, при ошибке: в secondary.
type Fallback struct {
	primary   Storage
	secondary Storage
}

func NewFallback(primary, secondary Storage) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	url, err := f.primary.Put(ctx, key, contentType, data)
	if err == nil {
		return url, nil
	}
	logger.WithCtx(ctx).Warn("Основное хранилище недоступно, сохраняем локально", zap.String("key", key), zap.Error(err))
	return f.secondary.Put(ctx, key, contentType, data)
}

func (f *Fallback) Delete(ctx context.Context, key string) error {
	if err := f.primary.Delete(ctx, key); err != nil {
		return f.secondary.Delete(ctx, key)
	}
	return nil
}

// New выбирает бэкенд по STORAGE_BACKEND. S3 всегда подстрахован локальным диском.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	local, err := NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	if cfg.StorageBackend != "s3" || cfg.S3Bucket == "" {
		return local, nil
	}

	s3, err := NewS3(ctx, S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 storage: %w", err)
	}
	return NewFallback(s3, local), nil
}
