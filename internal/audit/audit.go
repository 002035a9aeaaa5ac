// Package audit records admin actions for the back-office trail.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one immutable admin action record.
type Entry struct {
	ID        string          `json:"id"`
	Actor     string          `json:"actor"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entity_id,omitempty"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Filter specifies criteria for querying the trail.
type Filter struct {
	Actor     string
	Entity    string
	Action    string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

// Service handles audit logging on the relational database.
type Service struct {
	db *sql.DB
}

// NewService creates a new audit service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Record persists one admin action. detail may be nil.
func (s *Service) Record(ctx context.Context, actor, action, entity, entityID string, detail any) error {
	var detailJSON json.RawMessage
	if detail != nil {
		encoded, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("audit: failed to encode detail: %w", err)
		}
		detailJSON = encoded
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Actor:     actor,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detailJSON,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO admin_audit_log (id, actor, action, entity, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		nullString(entry.Actor),
		entry.Action,
		entry.Entity,
		nullString(entry.EntityID),
		entry.Detail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: failed to record entry: %w", err)
	}
	return nil
}

// Query retrieves audit entries with filters, newest first.
func (s *Service) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `
		SELECT id, actor, action, entity, entity_id, detail, created_at
		FROM admin_audit_log
		WHERE 1=1
	`
	var args []interface{}
	argIdx := 1

	if filter.Actor != "" {
		query += fmt.Sprintf(" AND actor = $%d", argIdx)
		args = append(args, filter.Actor)
		argIdx++
	}
	if filter.Entity != "" {
		query += fmt.Sprintf(" AND entity = $%d", argIdx)
		args = append(args, filter.Entity)
		argIdx++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, filter.Action)
		argIdx++
	}
	if !filter.StartTime.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, filter.StartTime)
		argIdx++
	}
	if !filter.EndTime.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, filter.EndTime)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var actor, entityID sql.NullString
		if err := rows.Scan(&e.ID, &actor, &e.Action, &e.Entity, &entityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: failed to scan entry: %w", err)
		}
		e.Actor = actor.String
		e.EntityID = entityID.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: failed to query entries: %w", err)
	}

	return entries, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
