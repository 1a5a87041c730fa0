package repository

import (
	"context"

	"portfolio/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SkillRepo interface {
	List(ctx context.Context) ([]*models.Skill, error)
	Create(ctx context.Context, s *models.Skill) error
	Update(ctx context.Context, s *models.Skill) error
	Delete(ctx context.Context, id int64) error
}

type ExperienceRepo interface {
	List(ctx context.Context) ([]*models.Experience, error)
	Create(ctx context.Context, e *models.Experience) error
	Update(ctx context.Context, e *models.Experience) error
	Delete(ctx context.Context, id int64) error
}

type EducationRepo interface {
	List(ctx context.Context) ([]*models.Education, error)
	Create(ctx context.Context, e *models.Education) error
	Update(ctx context.Context, e *models.Education) error
	Delete(ctx context.Context, id int64) error
}

type SocialLinkRepo interface {
	List(ctx context.Context) ([]*models.SocialLink, error)
	Create(ctx context.Context, l *models.SocialLink) error
	Update(ctx context.Context, l *models.SocialLink) error
	Delete(ctx context.Context, id int64) error
}

func deleteByID(ctx context.Context, db DB, table string, id int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Rows) (*T, error)) ([]*T, error) {
	defer rows.Close()
	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ---------- skills ----------

type skillRepo struct{ db DB }

func NewSkillRepo(db *pgxpool.Pool) SkillRepo { return &skillRepo{db: db} }

func (r *skillRepo) List(ctx context.Context) ([]*models.Skill, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, category, icon, proficiency, created_at, updated_at
		FROM skills ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Rows) (*models.Skill, error) {
		var s models.Skill
		err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Icon, &s.Proficiency, &s.CreatedAt, &s.UpdatedAt)
		return &s, err
	})
}

func (r *skillRepo) Create(ctx context.Context, s *models.Skill) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO skills (name, category, icon, proficiency) VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at
	`, s.Name, s.Category, s.Icon, s.Proficiency).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *skillRepo) Update(ctx context.Context, s *models.Skill) error {
	err := r.db.QueryRow(ctx, `
		UPDATE skills SET name = $2, category = $3, icon = $4, proficiency = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, s.ID, s.Name, s.Category, s.Icon, s.Proficiency).Scan(&s.CreatedAt, &s.UpdatedAt)
	return notFound(err)
}

func (r *skillRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "skills", id)
}

// ---------- experience ----------

type experienceRepo struct{ db DB }

func NewExperienceRepo(db *pgxpool.Pool) ExperienceRepo { return &experienceRepo{db: db} }

func (r *experienceRepo) List(ctx context.Context) ([]*models.Experience, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, company, location, period, description, technologies, created_at, updated_at
		FROM experiences ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Rows) (*models.Experience, error) {
		var e models.Experience
		var descRaw, techRaw []byte
		if err := row.Scan(&e.ID, &e.Title, &e.Company, &e.Location, &e.Period, &descRaw, &techRaw, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		unmarshalList(descRaw, &e.Description)
		unmarshalList(techRaw, &e.Technologies)
		return &e, nil
	})
}

func (r *experienceRepo) Create(ctx context.Context, e *models.Experience) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO experiences (title, company, location, period, description, technologies)
		VALUES ($1,$2,$3,$4,$5::jsonb,$6::jsonb)
		RETURNING id, created_at, updated_at
	`, e.Title, e.Company, e.Location, e.Period, jsonArg(strSlice(e.Description)), jsonArg(strSlice(e.Technologies))).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *experienceRepo) Update(ctx context.Context, e *models.Experience) error {
	err := r.db.QueryRow(ctx, `
		UPDATE experiences
		SET title = $2, company = $3, location = $4, period = $5,
		    description = $6::jsonb, technologies = $7::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, e.ID, e.Title, e.Company, e.Location, e.Period, jsonArg(strSlice(e.Description)), jsonArg(strSlice(e.Technologies))).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	return notFound(err)
}

func (r *experienceRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "experiences", id)
}

// ---------- education ----------

type educationRepo struct{ db DB }

func NewEducationRepo(db *pgxpool.Pool) EducationRepo { return &educationRepo{db: db} }

func (r *educationRepo) List(ctx context.Context) ([]*models.Education, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, degree, institution, duration, description, achievements, certificate, created_at, updated_at
		FROM educations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Rows) (*models.Education, error) {
		var e models.Education
		var achRaw []byte
		if err := row.Scan(&e.ID, &e.Degree, &e.Institution, &e.Duration, &e.Description, &achRaw, &e.Certificate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		unmarshalList(achRaw, &e.Achievements)
		return &e, nil
	})
}

func (r *educationRepo) Create(ctx context.Context, e *models.Education) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO educations (degree, institution, duration, description, achievements, certificate)
		VALUES ($1,$2,$3,$4,$5::jsonb,$6)
		RETURNING id, created_at, updated_at
	`, e.Degree, e.Institution, e.Duration, e.Description, jsonArg(strSlice(e.Achievements)), e.Certificate).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *educationRepo) Update(ctx context.Context, e *models.Education) error {
	err := r.db.QueryRow(ctx, `
		UPDATE educations
		SET degree = $2, institution = $3, duration = $4, description = $5,
		    achievements = $6::jsonb, certificate = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, e.ID, e.Degree, e.Institution, e.Duration, e.Description, jsonArg(strSlice(e.Achievements)), e.Certificate).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	return notFound(err)
}

func (r *educationRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "educations", id)
}

// ---------- social links ----------

type socialLinkRepo struct{ db DB }

func NewSocialLinkRepo(db *pgxpool.Pool) SocialLinkRepo { return &socialLinkRepo{db: db} }

func (r *socialLinkRepo) List(ctx context.Context) ([]*models.SocialLink, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, url, icon, sort_order, created_at, updated_at
		FROM social_links ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Rows) (*models.SocialLink, error) {
		var l models.SocialLink
		err := row.Scan(&l.ID, &l.Name, &l.URL, &l.Icon, &l.Order, &l.CreatedAt, &l.UpdatedAt)
		return &l, err
	})
}

func (r *socialLinkRepo) Create(ctx context.Context, l *models.SocialLink) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO social_links (name, url, icon, sort_order) VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at
	`, l.Name, l.URL, l.Icon, l.Order).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *socialLinkRepo) Update(ctx context.Context, l *models.SocialLink) error {
	err := r.db.QueryRow(ctx, `
		UPDATE social_links SET name = $2, url = $3, icon = $4, sort_order = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, l.ID, l.Name, l.URL, l.Icon, l.Order).Scan(&l.CreatedAt, &l.UpdatedAt)
	return notFound(err)
}

func (r *socialLinkRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "social_links", id)
}
