package repository

import (
	"context"
	"encoding/json"

	"portfolio/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepo: синглтоны главной страницы и "обо мне".
type ProfileRepo interface {
	GetHome(ctx context.Context) (*models.Home, error)
	SaveHome(ctx context.Context, h *models.Home) error
	GetAbout(ctx context.Context) (*models.About, error)
	SaveAbout(ctx context.Context, a *models.About) error
}

type profileRepo struct{ db DB }

func NewProfileRepo(db *pgxpool.Pool) ProfileRepo { return &profileRepo{db: db} }

func unmarshalList[T any](raw []byte, dst *[]T) {
	if err := json.Unmarshal(raw, dst); err != nil || *dst == nil {
		*dst = []T{}
	}
}

func (r *profileRepo) GetHome(ctx context.Context) (*models.Home, error) {
	var h models.Home
	err := r.db.QueryRow(ctx, `
		SELECT profile_image, name, title, description, resume_link, updated_at FROM home WHERE id = 1
	`).Scan(&h.ProfileImage, &h.Name, &h.Title, &h.Description, &h.ResumeLink, &h.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (r *profileRepo) SaveHome(ctx context.Context, h *models.Home) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO home (id, profile_image, name, title, description, resume_link)
		VALUES (1,$1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE
		SET profile_image = EXCLUDED.profile_image,
		    name = EXCLUDED.name,
		    title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    resume_link = EXCLUDED.resume_link,
		    updated_at = NOW()
		RETURNING updated_at
	`, h.ProfileImage, h.Name, h.Title, h.Description, h.ResumeLink).Scan(&h.UpdatedAt)
}

func (r *profileRepo) GetAbout(ctx context.Context) (*models.About, error) {
	var (
		a               models.About
		langRaw, intRaw []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT image, description, location, languages, interests, updated_at FROM about WHERE id = 1
	`).Scan(&a.Image, &a.Description, &a.Location, &langRaw, &intRaw, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	unmarshalList(langRaw, &a.Languages)
	unmarshalList(intRaw, &a.Interests)
	return &a, nil
}

func (r *profileRepo) SaveAbout(ctx context.Context, a *models.About) error {
	langs := a.Languages
	if langs == nil {
		langs = []models.Language{}
	}
	interests := a.Interests
	if interests == nil {
		interests = []models.Interest{}
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO about (id, image, description, location, languages, interests)
		VALUES (1,$1,$2,$3,$4::jsonb,$5::jsonb)
		ON CONFLICT (id) DO UPDATE
		SET image = EXCLUDED.image,
		    description = EXCLUDED.description,
		    location = EXCLUDED.location,
		    languages = EXCLUDED.languages,
		    interests = EXCLUDED.interests,
		    updated_at = NOW()
		RETURNING updated_at
	`, a.Image, a.Description, a.Location, jsonArg(langs), jsonArg(interests)).Scan(&a.UpdatedAt)
}
