package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository uses. Tests substitute
// a pgxmock pool.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const leadColumns = `id, name, phone, email, source, project_id, project_name,
	budget, location_pref, bhk, purpose, message, created_at, status,
	ai_intent_level, ai_notes, interactions`

// Create inserts a new row. The database assigns the creation timestamp so
// ordering matches insertion order even across processes.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, phone, email, source, project_id, project_name,
			budget, location_pref, bhk, purpose, message, status, interactions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'new', '[]')
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Phone,
		req.Email,
		req.Source,
		req.ProjectID,
		req.ProjectName,
		req.Budget,
		req.LocationPref,
		req.BHK,
		req.Purpose,
		req.Message,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:           id.String(),
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Source:       req.Source,
		ProjectID:    req.ProjectID,
		ProjectName:  req.ProjectName,
		Budget:       req.Budget,
		LocationPref: req.LocationPref,
		BHK:          req.BHK,
		Purpose:      req.Purpose,
		Message:      req.Message,
		CreatedAt:    createdAt,
		Status:       StatusNew,
		Interactions: []Interaction{},
	}, nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest-first, optionally filtered by status and a
// free-text match against project name or source.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var (
		clauses []string
		args    []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		clauses = append(clauses, fmt.Sprintf("(project_name ILIKE $%d OR source ILIKE $%d)", len(args), len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

// UpdateStatus sets the lifecycle status; unknown ids are a no-op.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	_, err := r.pool.Exec(ctx, `UPDATE leads SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("leads: update status failed: %w", err)
	}
	return nil
}

// Delete removes a lead; unknown ids are a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("leads: delete failed: %w", err)
	}
	return nil
}

// SetQualification records the verdict of a qualification run.
func (r *PostgresRepository) SetQualification(ctx context.Context, id string, intent IntentLevel, notes string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET ai_intent_level = $2, ai_notes = $3 WHERE id = $1`,
		id, string(intent), notes)
	if err != nil {
		return fmt.Errorf("leads: set qualification failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// AddInteraction appends to the lead's contact history.
func (r *PostgresRepository) AddInteraction(ctx context.Context, id string, interaction Interaction) error {
	payload, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("leads: encode interaction: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET interactions = interactions || $2::jsonb WHERE id = $1`,
		id, payload)
	if err != nil {
		return fmt.Errorf("leads: add interaction failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var (
		lead         Lead
		intent       *string
		notes        *string
		interactions []byte
	)
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Source,
		&lead.ProjectID,
		&lead.ProjectName,
		&lead.Budget,
		&lead.LocationPref,
		&lead.BHK,
		&lead.Purpose,
		&lead.Message,
		&lead.CreatedAt,
		&lead.Status,
		&intent,
		&notes,
		&interactions,
	); err != nil {
		return nil, err
	}
	if intent != nil {
		lead.AIIntentLevel = IntentLevel(*intent)
	}
	if notes != nil {
		lead.AINotes = *notes
	}
	lead.Interactions = []Interaction{}
	if len(interactions) > 0 {
		if err := json.Unmarshal(interactions, &lead.Interactions); err != nil {
			return nil, fmt.Errorf("decode interactions: %w", err)
		}
	}
	return &lead, nil
}
