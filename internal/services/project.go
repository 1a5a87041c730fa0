package services

import (
	"context"
	"errors"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"go.uber.org/zap"
)

type ProjectService struct {
	repo repository.ProjectRepo
}

func NewProjectService(repo repository.ProjectRepo) *ProjectService {
	return &ProjectService{repo: repo}
}

// ListPublic: только одобренные проекты.
func (s *ProjectService) ListPublic(ctx context.Context) ([]*models.Project, error) {
	return s.repo.List(ctx, true)
}

func (s *ProjectService) ListAll(ctx context.Context) ([]*models.Project, error) {
	return s.repo.List(ctx, false)
}

func (s *ProjectService) Update(ctx context.Context, id int64, req *models.UpdateProjectRequest) (*models.Project, error) {
	p, err := s.repo.Update(ctx, id, req)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if req.IsApproved != nil {
		logger.WithCtx(ctx).Info("Изменён статус одобрения проекта", zap.Int64("id", id), zap.Bool("approved", *req.IsApproved))
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err == nil {
		logger.WithCtx(ctx).Info("Проект удалён", zap.Int64("id", id))
	}
	return err
}
