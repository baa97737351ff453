package repository

import (
	"context"
	"encoding/json"
	"time"

	"leadtrack_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Activity is one audit-trail entry. Rows outlive their lead so the trail
// survives purge.
type Activity struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Family    domain.Family
	OwnerID   string
	Action    string
	Actor     string
	Meta      map[string]any
	CreatedAt time.Time
}

type AddActivityParams struct {
	LeadID  uuid.UUID
	Family  domain.Family
	OwnerID string
	Action  string
	Actor   string
	Meta    map[string]any
}

func (r *Repository) AddActivity(ctx context.Context, params AddActivityParams) error {
	var meta []byte
	if params.Meta != nil {
		var err error
		meta, err = json.Marshal(params.Meta)
		if err != nil {
			return err
		}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_activity (lead_id, family, owner_id, action, actor, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, params.LeadID, params.Family, params.OwnerID, params.Action, params.Actor, meta)
	return err
}

func (r *Repository) ListActivity(ctx context.Context, family domain.Family, leadID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, family, owner_id, action, actor, meta, created_at
		FROM lead_activity
		WHERE family = $1 AND lead_id = $2
		ORDER BY created_at DESC
	`, family, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Activity, 0)
	for rows.Next() {
		var entry Activity
		var meta []byte
		if err := rows.Scan(&entry.ID, &entry.LeadID, &entry.Family, &entry.OwnerID,
			&entry.Action, &entry.Actor, &meta, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &entry.Meta); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return entries, nil
}
