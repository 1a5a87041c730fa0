package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/utils"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type BlogService struct {
	repo   repository.BlogRepo
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewBlogService(repo repository.BlogRepo) *BlogService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &BlogService{repo: repo, policy: p, strict: bluemonday.StrictPolicy()}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *BlogService) ListPublished(ctx context.Context) ([]*models.Blog, error) {
	return s.repo.List(ctx, true)
}

func (s *BlogService) ListAll(ctx context.Context) ([]*models.Blog, error) {
	return s.repo.List(ctx, false)
}

// View отдаёт опубликованный пост и увеличивает счётчик просмотров.
func (s *BlogService) View(ctx context.Context, slug string) (*models.Blog, error) {
	b, err := s.repo.IncrementViews(ctx, slug)
	return b, mapNotFound(err)
}

func (s *BlogService) Get(ctx context.Context, id int64) (*models.Blog, error) {
	b, err := s.repo.GetByID(ctx, id)
	return b, mapNotFound(err)
}

// uniqueSlug добавляет -2, -3... пока slug занят.
func (s *BlogService) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *BlogService) fromInput(in *models.BlogInput) *models.Blog {
	return &models.Blog{
		Title:     strings.TrimSpace(in.Title),
		Slug:      utils.Slugify(in.Slug),
		Content:   s.policy.Sanitize(in.Content),
		Excerpt:   s.strict.Sanitize(in.Excerpt),
		Image:     in.Image,
		Author:    strings.TrimSpace(in.Author),
		Published: in.Published,
	}
}

func (s *BlogService) Create(ctx context.Context, in *models.BlogInput) (*models.Blog, error) {
	b := s.fromInput(in)

	if b.Slug == "" {
		slug, err := s.uniqueSlug(ctx, utils.Slugify(b.Title))
		if err != nil {
			return nil, err
		}
		b.Slug = slug
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	logger.WithCtx(ctx).Info("Создан пост", zap.Int64("id", b.ID), zap.String("slug", b.Slug))
	return b, nil
}

func (s *BlogService) Update(ctx context.Context, id int64, in *models.BlogInput) (*models.Blog, error) {
	b := s.fromInput(in)
	b.ID = id

	if b.Slug == "" {
		cur, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapNotFound(err)
		}
		b.Slug = cur.Slug
	}

	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	return mapNotFound(s.repo.Delete(ctx, id))
}

// React: одна реакция каждого типа с одного голосующего (IP).
func (s *BlogService) React(ctx context.Context, slug, kind, voter string) (map[string]int, error) {
	b, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapNotFound(err)
	}

	counts, err := s.repo.AddReaction(ctx, b.ID, kind, voter)
	if errors.Is(err, repository.ErrAlreadyReacted) {
		return nil, ErrAlreadyReacted
	}
	return counts, err
}

func (s *BlogService) Comment(ctx context.Context, slug string, req *models.CommentRequest) (*models.BlogComment, error) {
	b, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapNotFound(err)
	}

	c := &models.BlogComment{
		ID:      uuid.NewString(),
		BlogID:  b.ID,
		Name:    strings.TrimSpace(req.Name),
		Email:   normalizeEmail(req.Email),
		Comment: s.strict.Sanitize(req.Comment),
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
