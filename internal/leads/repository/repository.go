package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadtrack_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("lead not found")
	ErrDuplicatePhone = errors.New("a live lead with this phone number already exists")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID             uuid.UUID
	Family         domain.Family
	OwnerID        string
	Name           string
	Phone          string
	Email          *string
	City           *string
	Program        *string
	Branch         *string
	Category       *string
	DiscountAmount int64
	Urgency        domain.Urgency
	FollowUpStatus domain.FollowUpStatus
	FollowUpNotes  string
	Registered     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
	DeletedBy      *string
}

const leadColumns = `id, family, owner_id, name, phone, email, city, program, branch, category,
	discount_amount, urgency, follow_up_status, follow_up_notes, registered,
	created_at, updated_at, deleted_at, deleted_by`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Family, &lead.OwnerID, &lead.Name, &lead.Phone, &lead.Email, &lead.City,
		&lead.Program, &lead.Branch, &lead.Category, &lead.DiscountAmount, &lead.Urgency,
		&lead.FollowUpStatus, &lead.FollowUpNotes, &lead.Registered,
		&lead.CreatedAt, &lead.UpdatedAt, &lead.DeletedAt, &lead.DeletedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type CreateLeadParams struct {
	Family         domain.Family
	OwnerID        string
	Name           string
	Phone          string
	Email          *string
	City           *string
	Program        *string
	Branch         *string
	Category       *string
	DiscountAmount int64
	Urgency        domain.Urgency
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO leads (family, owner_id, name, phone, email, city, program, branch, category, discount_amount, urgency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s
	`, leadColumns),
		params.Family, params.OwnerID, params.Name, params.Phone, params.Email, params.City,
		params.Program, params.Branch, params.Category, params.DiscountAmount, params.Urgency,
	)

	lead, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Lead{}, ErrDuplicatePhone
		}
		return Lead{}, err
	}

	return lead, nil
}

// GetByID returns the lead in any state (live or soft-deleted). Callers that
// must hide deleted leads check DeletedAt themselves.
func (r *Repository) GetByID(ctx context.Context, family domain.Family, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM leads WHERE id = $1 AND family = $2
	`, leadColumns), id, family)
	return scanLead(row)
}

func (r *Repository) listLeads(ctx context.Context, query string, args ...interface{}) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

// ListActive returns live leads in every follow-up bucket except lost.
func (r *Repository) ListActive(ctx context.Context, family domain.Family, ownerID string) ([]Lead, error) {
	return r.listLeads(ctx, fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE family = $1 AND owner_id = $2 AND deleted_at IS NULL AND follow_up_status <> 'lost'
		ORDER BY created_at DESC
	`, leadColumns), family, ownerID)
}

// ListLost returns live leads whose follow-up status is lost.
func (r *Repository) ListLost(ctx context.Context, family domain.Family, ownerID string) ([]Lead, error) {
	return r.listLeads(ctx, fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE family = $1 AND owner_id = $2 AND deleted_at IS NULL AND follow_up_status = 'lost'
		ORDER BY created_at DESC
	`, leadColumns), family, ownerID)
}

// ListDeleted returns soft-deleted leads awaiting purge, oldest deletion first
// so the entries closest to the retention boundary surface on top.
func (r *Repository) ListDeleted(ctx context.Context, family domain.Family, ownerID string) ([]Lead, error) {
	return r.listLeads(ctx, fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE family = $1 AND owner_id = $2 AND deleted_at IS NOT NULL
		ORDER BY deleted_at ASC
	`, leadColumns), family, ownerID)
}

type UpdateStatusNotesParams struct {
	FollowUpStatus *domain.FollowUpStatus
	FollowUpNotes  *string
}

// UpdateStatusNotes overwrites status and/or notes on a live lead. The
// registered flag is recomputed in the same statement whenever status changes,
// so the invariant registered == (status = converted) holds atomically.
func (r *Repository) UpdateStatusNotes(ctx context.Context, family domain.Family, id uuid.UUID, params UpdateStatusNotesParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	if params.FollowUpStatus != nil {
		setClauses = append(setClauses,
			fmt.Sprintf("follow_up_status = $%d", argIdx),
			fmt.Sprintf("registered = ($%d = 'converted')", argIdx),
		)
		args = append(args, *params.FollowUpStatus)
		argIdx++
	}
	if params.FollowUpNotes != nil {
		setClauses = append(setClauses, fmt.Sprintf("follow_up_notes = $%d", argIdx))
		args = append(args, *params.FollowUpNotes)
		argIdx++
	}

	if len(setClauses) == 0 {
		lead, err := r.GetByID(ctx, family, id)
		if err != nil {
			return Lead{}, err
		}
		if lead.DeletedAt != nil {
			return Lead{}, ErrNotFound
		}
		return lead, nil
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id, family)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d AND family = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, argIdx+1, leadColumns)

	return scanLead(r.pool.QueryRow(ctx, query, args...))
}

// SoftDelete hides a live lead. The WHERE deleted_at IS NULL guard makes the
// call fail with ErrNotFound for absent and already-deleted leads alike.
func (r *Repository) SoftDelete(ctx context.Context, family domain.Family, id uuid.UUID, deletedBy string) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads SET deleted_at = now(), deleted_by = $3, updated_at = now()
		WHERE id = $1 AND family = $2 AND deleted_at IS NULL
		RETURNING %s
	`, leadColumns), id, family, deletedBy)
	return scanLead(row)
}

// Restore clears the soft-delete markers; the lead resumes its unchanged
// follow-up status. Returns ErrNotFound when the row is live or already gone.
func (r *Repository) Restore(ctx context.Context, family domain.Family, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads SET deleted_at = NULL, deleted_by = NULL, updated_at = now()
		WHERE id = $1 AND family = $2 AND deleted_at IS NOT NULL
		RETURNING %s
	`, leadColumns), id, family)
	return scanLead(row)
}

// PermanentDelete destroys a soft-deleted lead outright and returns its last
// state for the audit trail. Live leads are refused at this layer too, not
// just in the service; permanent delete must go through soft delete first.
func (r *Repository) PermanentDelete(ctx context.Context, family domain.Family, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		DELETE FROM leads
		WHERE id = $1 AND family = $2 AND deleted_at IS NOT NULL
		RETURNING %s
	`, leadColumns), id, family)
	return scanLead(row)
}

// PurgeCandidate is a soft-deleted lead the reaper may purge.
type PurgeCandidate struct {
	ID        uuid.UUID
	Family    domain.Family
	OwnerID   string
	DeletedAt time.Time
}

// ListPurgeCandidates returns leads whose soft-delete age has reached the
// retention cutoff, across both families.
func (r *Repository) ListPurgeCandidates(ctx context.Context, cutoff time.Time) ([]PurgeCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, family, owner_id, deleted_at FROM leads
		WHERE deleted_at IS NOT NULL AND deleted_at <= $1
		ORDER BY deleted_at ASC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]PurgeCandidate, 0)
	for rows.Next() {
		var c PurgeCandidate
		if err := rows.Scan(&c.ID, &c.Family, &c.OwnerID, &c.DeletedAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return candidates, nil
}

// PurgeIf is the compare-and-delete used by the reaper: the row is destroyed
// only if deleted_at still equals the value observed during the candidate
// scan. A concurrent restore (deleted_at nulled) or manual purge (row gone)
// makes this a no-op, so a lead is never purged twice or purged after restore.
func (r *Repository) PurgeIf(ctx context.Context, id uuid.UUID, deletedAt time.Time) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM leads WHERE id = $1 AND deleted_at = $2
	`, id, deletedAt)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
