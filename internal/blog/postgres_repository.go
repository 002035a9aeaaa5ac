package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores blog posts in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("blog: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const postColumns = `id, slug, title, excerpt, content, category, tags,
	cover_image, author, published_at`

// List returns posts newest-first, optionally filtered by category.
func (r *PostgresRepository) List(ctx context.Context, category string) ([]*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY published_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("blog: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("blog: scan failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("blog: list failed: %w", err)
	}
	return out, nil
}

// GetBySlug retrieves one post by its URL slug.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`
	p, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("blog: select failed: %w", err)
	}
	return p, nil
}

// Save upserts a post, assigning id, slug and publish date when absent.
func (r *PostgresRepository) Save(ctx context.Context, post *Post) (*Post, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	dup := *post
	if dup.ID == "" {
		dup.ID = uuid.NewString()
	}
	if dup.Slug == "" {
		dup.Slug = Slugify(dup.Title)
	}
	if dup.PublishedAt.IsZero() {
		dup.PublishedAt = time.Now().UTC()
	}
	tags := dup.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO blog_posts (id, slug, title, excerpt, content, category, tags,
			cover_image, author, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug, title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt, content = EXCLUDED.content,
			category = EXCLUDED.category, tags = EXCLUDED.tags,
			cover_image = EXCLUDED.cover_image, author = EXCLUDED.author,
			published_at = EXCLUDED.published_at
	`
	if _, err := r.pool.Exec(ctx, query,
		dup.ID, dup.Slug, dup.Title, dup.Excerpt, dup.Content, dup.Category,
		tags, dup.CoverImage, dup.Author, dup.PublishedAt,
	); err != nil {
		return nil, fmt.Errorf("blog: upsert failed: %w", err)
	}
	return &dup, nil
}

// Delete removes a post; unknown ids are a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("blog: delete failed: %w", err)
	}
	return nil
}

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	if err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Category,
		&p.Tags, &p.CoverImage, &p.Author, &p.PublishedAt,
	); err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}
