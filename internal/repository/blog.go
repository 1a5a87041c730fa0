package repository

import (
	"context"
	"errors"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	ErrDuplicate      = errors.New("duplicate")
	ErrAlreadyReacted  = errors.New("already reacted")
)

type BlogRepo interface {
	List(ctx context.Context, onlyPublished bool) ([]*models.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	GetByID(ctx context.Context, id int64) (*models.Blog, error)
	// IncrementViews увеличивает счётчик и возвращает пост с комментариями.
	IncrementViews(ctx context.Context, slug string) (*models.Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, b *models.Blog) error
	Update(ctx context.Context, b *models.Blog) error
	Delete(ctx context.Context, id int64) error
	AddReaction(ctx context.Context, blogID int64, kind, voter string) (map[string]int, error)
	AddComment(ctx context.Context, c *models.BlogComment) error
	ListComments(ctx context.Context, blogID int64) ([]models.BlogComment, error)
}

type blogRepo struct{ db DB }

func NewBlogRepo(db *pgxpool.Pool) BlogRepo { return &blogRepo{db: db} }

const blogColumns = `id, title, slug, content, excerpt, image, author, published, views, created_at, updated_at`

func scanBlog(row interface{ Scan(...any) error }) (*models.Blog, error) {
	var b models.Blog
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.Excerpt, &b.Image, &b.Author,
		&b.Published, &b.Views, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *blogRepo) List(ctx context.Context, onlyPublished bool) ([]*models.Blog, error) {
	q := `SELECT ` + blogColumns + ` FROM blogs`
	if onlyPublished {
		q += ` WHERE published = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		logger.Log.Error("Ошибка получения постов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range out {
		if b.Reactions, err = r.reactions(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *blogRepo) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	b, err := scanBlog(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug))
	if err != nil {
		return nil, err
	}
	return r.withDetails(ctx, b)
}

func (r *blogRepo) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	b, err := scanBlog(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return r.withDetails(ctx, b)
}

func (r *blogRepo) IncrementViews(ctx context.Context, slug string) (*models.Blog, error) {
	b, err := scanBlog(r.db.QueryRow(ctx, `
		UPDATE blogs SET views = views + 1
		WHERE slug = $1 AND published = TRUE
		RETURNING `+blogColumns, slug))
	if err != nil {
		return nil, err
	}
	return r.withDetails(ctx, b)
}

func (r *blogRepo) withDetails(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	var err error
	if b.Reactions, err = r.reactions(ctx, b.ID); err != nil {
		return nil, err
	}
	if b.Comments, err = r.ListComments(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *blogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blogs WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *blogRepo) Create(ctx context.Context, b *models.Blog) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO blogs (title, slug, content, excerpt, image, author, published)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, views, created_at, updated_at
	`, b.Title, b.Slug, b.Content, b.Excerpt, b.Image, b.Author, b.Published).
		Scan(&b.ID, &b.Views, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		logger.Log.Error("Ошибка создания поста (repo)", zap.String("slug", b.Slug), zap.Error(err))
	}
	return err
}

func (r *blogRepo) Update(ctx context.Context, b *models.Blog) error {
	err := r.db.QueryRow(ctx, `
		UPDATE blogs
		SET title = $2, slug = $3, content = $4, excerpt = $5, image = $6, author = $7,
		    published = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING views, created_at, updated_at
	`, b.ID, b.Title, b.Slug, b.Content, b.Excerpt, b.Image, b.Author, b.Published).
		Scan(&b.Views, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return notFound(err)
}

func (r *blogRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReaction: одна реакция каждого типа на голосующего.
func (r *blogRepo) AddReaction(ctx context.Context, blogID int64, kind, voter string) (map[string]int, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO blog_reactions (blog_id, kind, voter) VALUES ($1,$2,$3)
		ON CONFLICT DO NOTHING
	`, blogID, kind, voter)
	if err != nil {
		logger.Log.Error("Ошибка добавления реакции (repo)", zap.Int64("blog_id", blogID), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAlreadyReacted
	}
	return r.reactions(ctx, blogID)
}

func (r *blogRepo) reactions(ctx context.Context, blogID int64) (map[string]int, error) {
	counts := make(map[string]int, len(models.ReactionKinds))
	for _, k := range models.ReactionKinds {
		counts[k] = 0
	}

	rows, err := r.db.Query(ctx, `SELECT kind, COUNT(*) FROM blog_reactions WHERE blog_id = $1 GROUP BY kind`, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

func (r *blogRepo) AddComment(ctx context.Context, c *models.BlogComment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO blog_comments (id, blog_id, name, email, comment)
		VALUES ($1::text::uuid,$2,$3,$4,$5)
		RETURNING created_at
	`, c.ID, c.BlogID, c.Name, c.Email, c.Comment).Scan(&c.CreatedAt)
}

func (r *blogRepo) ListComments(ctx context.Context, blogID int64) ([]models.BlogComment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, blog_id, name, email, comment, created_at
		FROM blog_comments WHERE blog_id = $1 ORDER BY created_at
	`, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.BlogComment, 0)
	for rows.Next() {
		var c models.BlogComment
		if err := rows.Scan(&c.ID, &c.BlogID, &c.Name, &c.Email, &c.Comment, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
