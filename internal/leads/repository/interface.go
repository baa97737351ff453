package repository

import (
	"context"
	"time"

	"leadtrack_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, family domain.Family, id uuid.UUID) (Lead, error)
	ListActive(ctx context.Context, family domain.Family, ownerID string) ([]Lead, error)
	ListLost(ctx context.Context, family domain.Family, ownerID string) ([]Lead, error)
	ListDeleted(ctx context.Context, family domain.Family, ownerID string) ([]Lead, error)
}

// LeadWriter provides the lifecycle write operations.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	UpdateStatusNotes(ctx context.Context, family domain.Family, id uuid.UUID, params UpdateStatusNotesParams) (Lead, error)
	SoftDelete(ctx context.Context, family domain.Family, id uuid.UUID, deletedBy string) (Lead, error)
	Restore(ctx context.Context, family domain.Family, id uuid.UUID) (Lead, error)
	PermanentDelete(ctx context.Context, family domain.Family, id uuid.UUID) (Lead, error)
}

// StatsReader provides the per-owner dashboard aggregates.
type StatsReader interface {
	OwnerStats(ctx context.Context, family domain.Family, ownerID string) (Stats, error)
}

// ViewTracker manages the per-owner unread watermarks.
type ViewTracker interface {
	EnsureWatermark(ctx context.Context, family domain.Family, ownerID string) error
	UnreadCounts(ctx context.Context, family domain.Family) (map[string]int, error)
	MarkViewed(ctx context.Context, family domain.Family, ownerID string, viewedAt time.Time) error
}

// ActivityLogger records the audit trail on leads.
type ActivityLogger interface {
	AddActivity(ctx context.Context, params AddActivityParams) error
	ListActivity(ctx context.Context, family domain.Family, leadID uuid.UUID) ([]Activity, error)
}

// Purger is the retention reaper's view of the store.
type Purger interface {
	ListPurgeCandidates(ctx context.Context, cutoff time.Time) ([]PurgeCandidate, error)
	PurgeIf(ctx context.Context, id uuid.UUID, deletedAt time.Time) (bool, error)
}

// LeadsRepository is the complete store contract the service layer consumes.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	StatsReader
	ViewTracker
	ActivityLogger
}

// Ensure Repository implements the full contract and the reaper's slice of it.
var (
	_ LeadsRepository = (*Repository)(nil)
	_ Purger          = (*Repository)(nil)
)
