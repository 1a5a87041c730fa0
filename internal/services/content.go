package services

import (
	"context"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"go.uber.org/zap"
)

// CRUDRepo: общий вид репозиториев skills/experience/education/social links.
type CRUDRepo[T any] interface {
	List(ctx context.Context) ([]*T, error)
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id int64) error
}

// Collection: сервис простого списка записей дашборда.
type Collection[T any] struct {
	name  string
	repo  CRUDRepo[T]
	setID func(*T, int64)
}

func NewCollection[T any](name string, repo CRUDRepo[T], setID func(*T, int64)) *Collection[T] {
	return &Collection[T]{name: name, repo: repo, setID: setID}
}

func (c *Collection[T]) List(ctx context.Context) ([]*T, error) {
	return c.repo.List(ctx)
}

func (c *Collection[T]) Create(ctx context.Context, v *T) (*T, error) {
	if err := c.repo.Create(ctx, v); err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания записи", zap.String("collection", c.name), zap.Error(err))
		return nil, err
	}
	return v, nil
}

func (c *Collection[T]) Update(ctx context.Context, id int64, v *T) (*T, error) {
	c.setID(v, id)
	if err := c.repo.Update(ctx, v); err != nil {
		return nil, mapNotFound(err)
	}
	return v, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	err := mapNotFound(c.repo.Delete(ctx, id))
	if err == nil {
		logger.WithCtx(ctx).Info("Запись удалена", zap.String("collection", c.name), zap.Int64("id", id))
	}
	return err
}

type ContentService struct {
	Skills      *Collection[models.Skill]
	Experiences *Collection[models.Experience]
	Educations  *Collection[models.Education]
	SocialLinks *Collection[models.SocialLink]

	profile repository.ProfileRepo
}

func NewContentService(
	skills repository.SkillRepo,
	experiences repository.ExperienceRepo,
	educations repository.EducationRepo,
	links repository.SocialLinkRepo,
	profile repository.ProfileRepo,
) *ContentService {
	return &ContentService{
		Skills:      NewCollection[models.Skill]("skills", skills, func(v *models.Skill, id int64) { v.ID = id }),
		Experiences: NewCollection[models.Experience]("experience", experiences, func(v *models.Experience, id int64) { v.ID = id }),
		Educations:  NewCollection[models.Education]("education", educations, func(v *models.Education, id int64) { v.ID = id }),
		SocialLinks: NewCollection[models.SocialLink]("social-links", links, func(v *models.SocialLink, id int64) { v.ID = id }),
		profile:     profile,
	}
}

// GetHome: nil без ошибки, если главная ещё не заполнена.
func (s *ContentService) GetHome(ctx context.Context) (*models.Home, error) {
	h, err := s.profile.GetHome(ctx)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	return h, err
}

func (s *ContentService) SaveHome(ctx context.Context, h *models.Home) (*models.Home, error) {
	if err := s.profile.SaveHome(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *ContentService) GetAbout(ctx context.Context) (*models.About, error) {
	a, err := s.profile.GetAbout(ctx)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	return a, err
}

func (s *ContentService) SaveAbout(ctx context.Context, a *models.About) (*models.About, error) {
	if err := s.profile.SaveAbout(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
