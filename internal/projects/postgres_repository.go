package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores projects in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("projects: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const projectColumns = `id, slug, name, city, micro_market, address, property_type,
	price_min, price_max, configurations, carpet_area_range, rera_number,
	builder, possession_date, status, usps, amenities, images, description,
	map_embed_url, featured`

// List returns matching projects, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var (
		clauses []string
		args    []any
	)
	if filter.FeaturedOnly {
		clauses = append(clauses, "featured")
	}
	if filter.City != "" {
		args = append(args, filter.City)
		clauses = append(clauses, fmt.Sprintf("city ILIKE $%d", len(args)))
	}
	if filter.PropertyType != "" {
		args = append(args, filter.PropertyType)
		clauses = append(clauses, fmt.Sprintf("property_type ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.MaxBudget > 0 {
		args = append(args, filter.MaxBudget)
		clauses = append(clauses, fmt.Sprintf("price_min <= $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR city ILIKE $%d OR micro_market ILIKE $%d)", len(args), len(args), len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("projects: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("projects: scan failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("projects: list failed: %w", err)
	}
	return out, nil
}

// GetBySlug retrieves one project by its URL slug.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = $1`
	p, err := scanProject(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("projects: select failed: %w", err)
	}
	return p, nil
}

// Save upserts a project, assigning id and slug when absent.
func (r *PostgresRepository) Save(ctx context.Context, project *Project) (*Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}

	dup := *project
	if dup.ID == "" {
		dup.ID = uuid.NewString()
	}
	if dup.Slug == "" {
		dup.Slug = Slugify(dup.Name)
	}

	configs, err := json.Marshal(orEmptyConfigs(dup.Configurations))
	if err != nil {
		return nil, fmt.Errorf("projects: encode configurations: %w", err)
	}

	query := `
		INSERT INTO projects (id, slug, name, city, micro_market, address, property_type,
			price_min, price_max, configurations, carpet_area_range, rera_number,
			builder, possession_date, status, usps, amenities, images, description,
			map_embed_url, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug, name = EXCLUDED.name, city = EXCLUDED.city,
			micro_market = EXCLUDED.micro_market, address = EXCLUDED.address,
			property_type = EXCLUDED.property_type, price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max, configurations = EXCLUDED.configurations,
			carpet_area_range = EXCLUDED.carpet_area_range,
			rera_number = EXCLUDED.rera_number, builder = EXCLUDED.builder,
			possession_date = EXCLUDED.possession_date, status = EXCLUDED.status,
			usps = EXCLUDED.usps, amenities = EXCLUDED.amenities,
			images = EXCLUDED.images, description = EXCLUDED.description,
			map_embed_url = EXCLUDED.map_embed_url, featured = EXCLUDED.featured
	`
	if _, err := r.pool.Exec(ctx, query,
		dup.ID, dup.Slug, dup.Name, dup.City, dup.MicroMarket, dup.Address,
		dup.PropertyType, dup.PriceMin, dup.PriceMax, configs,
		dup.CarpetAreaRange, dup.RERANumber, dup.Builder, dup.PossessionDate,
		string(dup.Status), orEmpty(dup.USPs), orEmpty(dup.Amenities),
		orEmpty(dup.Images), dup.Description, dup.MapEmbedURL, dup.Featured,
	); err != nil {
		return nil, fmt.Errorf("projects: upsert failed: %w", err)
	}
	return &dup, nil
}

// Delete removes a project; unknown ids are a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("projects: delete failed: %w", err)
	}
	return nil
}

func scanProject(row pgx.Row) (*Project, error) {
	var (
		p       Project
		configs []byte
	)
	if err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.City, &p.MicroMarket, &p.Address,
		&p.PropertyType, &p.PriceMin, &p.PriceMax, &configs,
		&p.CarpetAreaRange, &p.RERANumber, &p.Builder, &p.PossessionDate,
		&p.Status, &p.USPs, &p.Amenities, &p.Images, &p.Description,
		&p.MapEmbedURL, &p.Featured,
	); err != nil {
		return nil, err
	}
	p.Configurations = []Configuration{}
	if len(configs) > 0 {
		if err := json.Unmarshal(configs, &p.Configurations); err != nil {
			return nil, fmt.Errorf("decode configurations: %w", err)
		}
	}
	return &p, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyConfigs(c []Configuration) []Configuration {
	if c == nil {
		return []Configuration{}
	}
	return c
}
