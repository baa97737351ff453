package repository

import (
	"context"
	"time"

	"leadtrack_backend/internal/leads/domain"
)

// Stats is the per-owner dashboard aggregate. Soft-deleted leads are invisible
// to every counter.
type Stats struct {
	TotalUses        int
	TodayUses        int
	PendingFollowups int
	Followups        int
	Conversions      int
	Lost             int
}

// OwnerStats computes all six counters in one statement using filtered
// aggregates. "Today" is the server's current calendar day.
func (r *Repository) OwnerStats(ctx context.Context, family domain.Family, ownerID string) (Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now())),
			COUNT(*) FILTER (WHERE follow_up_status = 'pending'),
			COUNT(*) FILTER (WHERE follow_up_status = 'contacted'),
			COUNT(*) FILTER (WHERE follow_up_status = 'converted'),
			COUNT(*) FILTER (WHERE follow_up_status = 'lost')
		FROM leads
		WHERE family = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, family, ownerID).Scan(
		&stats.TotalUses, &stats.TodayUses, &stats.PendingFollowups,
		&stats.Followups, &stats.Conversions, &stats.Lost,
	)
	if err != nil {
		return Stats{}, err
	}

	return stats, nil
}

// EnsureWatermark creates the owner's view watermark on first contact. The
// watermark starts at the epoch so every existing lead counts as unread until
// the owner explicitly marks the list viewed.
func (r *Repository) EnsureWatermark(ctx context.Context, family domain.Family, ownerID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO owner_watermarks (family, owner_id, last_viewed_at)
		VALUES ($1, $2, to_timestamp(0))
		ON CONFLICT (family, owner_id) DO NOTHING
	`, family, ownerID)
	return err
}

// UnreadCounts returns, for every owner with at least one live lead in the
// family, the number of leads created after the owner's watermark. Owners
// without a watermark row count all their live leads as unread.
func (r *Repository) UnreadCounts(ctx context.Context, family domain.Family) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.owner_id,
			COUNT(*) FILTER (WHERE l.created_at > COALESCE(w.last_viewed_at, to_timestamp(0)))
		FROM leads l
		LEFT JOIN owner_watermarks w ON w.family = l.family AND w.owner_id = l.owner_id
		WHERE l.family = $1 AND l.deleted_at IS NULL
		GROUP BY l.owner_id
	`, family)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var ownerID string
		var unread int
		if err := rows.Scan(&ownerID, &unread); err != nil {
			return nil, err
		}
		counts[ownerID] = unread
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return counts, nil
}

// MarkViewed advances the owner's watermark to viewedAt. GREATEST keeps the
// watermark monotonic, so a delayed or replayed request never moves it back.
func (r *Repository) MarkViewed(ctx context.Context, family domain.Family, ownerID string, viewedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO owner_watermarks (family, owner_id, last_viewed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (family, owner_id)
		DO UPDATE SET last_viewed_at = GREATEST(owner_watermarks.last_viewed_at, EXCLUDED.last_viewed_at)
	`, family, ownerID, viewedAt)
	return err
}
