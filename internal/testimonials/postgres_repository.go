package testimonials

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores testimonials in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("testimonials: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// List returns testimonials newest-first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Testimonial, error) {
	query := `
		SELECT id, author, location, project_name, quote, rating, created_at
		FROM testimonials
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("testimonials: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(
			&t.ID, &t.Author, &t.Location, &t.ProjectName,
			&t.Quote, &t.Rating, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("testimonials: scan failed: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("testimonials: list failed: %w", err)
	}
	return out, nil
}

// Save upserts a testimonial, assigning id and timestamp when absent.
func (r *PostgresRepository) Save(ctx context.Context, t *Testimonial) (*Testimonial, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	dup := *t
	if dup.ID == "" {
		dup.ID = uuid.NewString()
	}
	if dup.CreatedAt.IsZero() {
		dup.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO testimonials (id, author, location, project_name, quote, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			author = EXCLUDED.author, location = EXCLUDED.location,
			project_name = EXCLUDED.project_name, quote = EXCLUDED.quote,
			rating = EXCLUDED.rating
	`
	if _, err := r.pool.Exec(ctx, query,
		dup.ID, dup.Author, dup.Location, dup.ProjectName,
		dup.Quote, dup.Rating, dup.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("testimonials: upsert failed: %w", err)
	}
	return &dup, nil
}

// Delete removes a testimonial; unknown ids are a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("testimonials: delete failed: %w", err)
	}
	return nil
}
