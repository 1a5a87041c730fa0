package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProjectRepo interface {
	ExistsByGithubID(ctx context.Context, githubID int64) (bool, error)
	// Insert не трогает существующую запись с тем же github_id, false: уже была.
	Insert(ctx context.Context, p *models.Project) (bool, error)
	List(ctx context.Context, onlyApproved bool) ([]*models.Project, error)
	ListWithoutImage(ctx context.Context, fallback string) ([]*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, id int64, req *models.UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
	SetImage(ctx context.Context, id int64, image string) error
	SetLanguages(ctx context.Context, id int64, languages []string, percentages map[string]int) error
}

type projectRepo struct{ db DB }

func NewProjectRepo(db *pgxpool.Pool) ProjectRepo { return &projectRepo{db: db} }

const projectColumns = `id, github_id, name, description, url, homepage, language, languages, topics,
	technologies, category, is_approved, featured, github_url, image, language_percentages,
	created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	var (
		p                                    models.Project
		langsRaw, topicsRaw, techRaw, pctRaw []byte
	)
	err := row.Scan(
		&p.ID,
		&p.GithubID,
		&p.Name,
		&p.Description,
		&p.URL,
		&p.Homepage,
		&p.Language,
		&langsRaw,
		&topicsRaw,
		&techRaw,
		&p.Category,
		&p.IsApproved,
		&p.Featured,
		&p.GithubURL,
		&p.Image,
		&pctRaw,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	cols := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"languages", langsRaw, &p.Languages},
		{"topics", topicsRaw, &p.Topics},
		{"technologies", techRaw, &p.Technologies},
		{"language_percentages", pctRaw, &p.LanguagePercentages},
	}
	for _, c := range cols {
		if len(c.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(c.raw, c.dst); err != nil {
			return nil, fmt.Errorf("project %d: decode %s: %w", p.ID, c.name, err)
		}
	}
	return &p, nil
}

func jsonArg(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

// nilSlice -> "[]" вместо "null" в jsonb
func strSlice(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (r *projectRepo) ExistsByGithubID(ctx context.Context, githubID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE github_id = $1)`, githubID).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки github_id (repo)", zap.Int64("github_id", githubID), zap.Error(err))
	}
	return exists, err
}

func (r *projectRepo) Insert(ctx context.Context, p *models.Project) (bool, error) {
	pct := p.LanguagePercentages
	if pct == nil {
		pct = map[string]int{}
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO projects (github_id, name, description, url, homepage, language, languages, topics,
			technologies, category, is_approved, featured, github_url, image, language_percentages)
		VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8::jsonb,$9::jsonb,$10,$11,$12,$13,$14,$15::jsonb)
		ON CONFLICT (github_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`,
		p.GithubID,
		p.Name,
		p.Description,
		p.URL,
		p.Homepage,
		p.Language,
		jsonArg(strSlice(p.Languages)),
		jsonArg(strSlice(p.Topics)),
		jsonArg(strSlice(p.Technologies)),
		p.Category,
		p.IsApproved,
		p.Featured,
		p.GithubURL,
		p.Image,
		jsonArg(pct),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if err = notFound(err); err == ErrNotFound {
			// ON CONFLICT DO NOTHING ничего не вернул
			return false, nil
		}
		logger.Log.Error("Ошибка добавления проекта (repo)", zap.Int64("github_id", p.GithubID), zap.Error(err))
		return false, err
	}
	return true, nil
}

func (r *projectRepo) List(ctx context.Context, onlyApproved bool) ([]*models.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects`
	if onlyApproved {
		q += ` WHERE is_approved = TRUE`
	}
	q += ` ORDER BY featured DESC, created_at DESC`

	return r.query(ctx, q)
}

func (r *projectRepo) ListWithoutImage(ctx context.Context, fallback string) ([]*models.Project, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects WHERE image = '' OR image = $1 ORDER BY id`, fallback)
}

func (r *projectRepo) query(ctx context.Context, q string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		logger.Log.Error("Ошибка получения проектов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
}

// Update собирает SET только из переданных полей; github_id не меняется никогда.
func (r *projectRepo) Update(ctx context.Context, id int64, req *models.UpdateProjectRequest) (*models.Project, error) {
	set := []string{}
	args := []any{}
	i := 1

	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, v)
		i++
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.URL != nil {
		add("url", *req.URL)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Technologies != nil {
		set = append(set, fmt.Sprintf("technologies = $%d::jsonb", i))
		args = append(args, jsonArg(strSlice(*req.Technologies)))
		i++
	}
	if req.IsApproved != nil {
		add("is_approved", *req.IsApproved)
	}
	if req.Featured != nil {
		add("featured", *req.Featured)
	}
	if req.Image != nil {
		add("image", *req.Image)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING %s`, strings.Join(set, ", "), i, projectColumns)

	p, err := scanProject(r.db.QueryRow(ctx, q, args...))
	if err != nil && err != ErrNotFound {
		logger.Log.Error("Ошибка обновления проекта (repo)", zap.Int64("id", id), zap.Error(err))
	}
	return p, err
}

func (r *projectRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) SetImage(ctx context.Context, id int64, image string) error {
	_, err := r.db.Exec(ctx, `UPDATE projects SET image = $2, updated_at = NOW() WHERE id = $1`, id, image)
	return err
}

func (r *projectRepo) SetLanguages(ctx context.Context, id int64, languages []string, percentages map[string]int) error {
	if percentages == nil {
		percentages = map[string]int{}
	}
	_, err := r.db.Exec(ctx, `
		UPDATE projects
		SET languages = $2::jsonb, language_percentages = $3::jsonb, updated_at = NOW()
		WHERE id = $1
	`, id, jsonArg(strSlice(languages)), jsonArg(percentages))
	return err
}
