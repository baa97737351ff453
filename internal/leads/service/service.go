// Package service implements the lead lifecycle use cases on top of the
// repository: ingest, follow-up tracking, soft delete with a recovery window,
// restore, permanent delete, stats and unread watermarks.
package service

import (
	"context"
	"errors"
	"time"

	"leadtrack_backend/internal/events"
	"leadtrack_backend/internal/leads/domain"
	"leadtrack_backend/internal/leads/repository"
	"leadtrack_backend/internal/leads/transport"
	"leadtrack_backend/platform/apperr"
	"leadtrack_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	msgLeadNotFound   = "lead not found"
	msgLeadNotDeleted = "lead is not deleted"
)

type Service struct {
	repo repository.LeadsRepository
	bus  events.Bus
	now  func() time.Time
}

func New(repo repository.LeadsRepository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus, now: time.Now}
}

// storeErr wraps an unexpected repository failure as a retryable error.
func storeErr(err error) error {
	return apperr.Transient("lead store unavailable", err)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Create ingests a lead attributed to an affiliate or promo code. The phone
// number is normalized to E.164 before storage so duplicate detection is not
// defeated by formatting.
func (s *Service) Create(ctx context.Context, family domain.Family, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	req.Phone = phone.NormalizeE164(req.Phone)

	urgency := domain.UrgencyBrowsing
	if req.Urgency != "" {
		urgency = domain.Urgency(req.Urgency)
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Family:         family,
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          optional(req.Email),
		City:           optional(req.City),
		Program:        optional(req.Program),
		Branch:         optional(req.Branch),
		Category:       optional(req.Category),
		DiscountAmount: req.DiscountAmount,
		Urgency:        urgency,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return transport.LeadResponse{}, apperr.Conflict(err.Error())
		}
		return transport.LeadResponse{}, storeErr(err)
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Family:    string(lead.Family),
		OwnerID:   lead.OwnerID,
		Name:      lead.Name,
		Phone:     lead.Phone,
	})

	return toLeadResponse(lead), nil
}

// ListActive returns the owner's live leads outside the lost bucket. The call
// also lazily creates the owner's unread watermark, so owners show up in bulk
// unread counts from their first visit on.
func (s *Service) ListActive(ctx context.Context, family domain.Family, ownerID string) ([]transport.LeadResponse, error) {
	_ = s.repo.EnsureWatermark(ctx, family, ownerID)

	leads, err := s.repo.ListActive(ctx, family, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return toLeadResponses(leads), nil
}

// ListLost returns the owner's live leads in the lost bucket.
func (s *Service) ListLost(ctx context.Context, family domain.Family, ownerID string) ([]transport.LeadResponse, error) {
	_ = s.repo.EnsureWatermark(ctx, family, ownerID)

	leads, err := s.repo.ListLost(ctx, family, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return toLeadResponses(leads), nil
}

// ListDeleted returns the owner's soft-deleted leads with the server-computed
// retention countdown.
func (s *Service) ListDeleted(ctx context.Context, family domain.Family, ownerID string) ([]transport.DeletedLeadResponse, error) {
	leads, err := s.repo.ListDeleted(ctx, family, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}

	now := s.now()
	out := make([]transport.DeletedLeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, toDeletedLeadResponse(lead, now))
	}
	return out, nil
}

// UpdateStatus overwrites follow-up status and/or notes on a live lead. Every
// status may move to every other status; there is no transition graph. The
// request's registered field is ignored, the flag is derived from status.
// actor is the authenticated admin, recorded on the audit trail.
func (s *Service) UpdateStatus(ctx context.Context, family domain.Family, id uuid.UUID, req transport.UpdateStatusRequest, actor string) (transport.LeadResponse, error) {
	params := repository.UpdateStatusNotesParams{FollowUpNotes: req.FollowUpNotes}

	var fromStatus domain.FollowUpStatus
	if req.FollowUpStatus != nil {
		status := domain.FollowUpStatus(*req.FollowUpStatus)
		if !status.Valid() {
			return transport.LeadResponse{}, apperr.Validation("unknown follow-up status")
		}

		current, err := s.repo.GetByID(ctx, family, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
			}
			return transport.LeadResponse{}, storeErr(err)
		}
		if current.DeletedAt != nil {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}

		fromStatus = current.FollowUpStatus
		params.FollowUpStatus = &status
	}

	lead, err := s.repo.UpdateStatusNotes(ctx, family, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, storeErr(err)
	}

	if params.FollowUpStatus != nil && fromStatus != lead.FollowUpStatus {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     lead.ID,
			Family:     string(lead.Family),
			OwnerID:    lead.OwnerID,
			FromStatus: string(fromStatus),
			ToStatus:   string(lead.FollowUpStatus),
			Actor:      actor,
		})
	}

	return toLeadResponse(lead), nil
}

// SoftDelete moves a live lead into the deleted history. It disappears from
// lists and stats but keeps all its data for the retention window.
func (s *Service) SoftDelete(ctx context.Context, family domain.Family, id uuid.UUID, deletedBy string) (transport.DeletedLeadResponse, error) {
	lead, err := s.repo.SoftDelete(ctx, family, id, deletedBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.DeletedLeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.DeletedLeadResponse{}, storeErr(err)
	}

	s.bus.Publish(ctx, events.LeadSoftDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Family:    string(lead.Family),
		OwnerID:   lead.OwnerID,
		DeletedBy: deletedBy,
	})

	return toDeletedLeadResponse(lead, s.now()), nil
}

// Restore brings a soft-deleted lead back, resuming its previous follow-up
// status unchanged. Restoring a live lead is a conflict; a purged or unknown
// lead is not found.
func (s *Service) Restore(ctx context.Context, family domain.Family, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.Restore(ctx, family, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if current, getErr := s.repo.GetByID(ctx, family, id); getErr == nil && current.DeletedAt == nil {
				return transport.LeadResponse{}, apperr.Conflict(msgLeadNotDeleted)
			}
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, storeErr(err)
	}

	s.bus.Publish(ctx, events.LeadRestored{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Family:    string(lead.Family),
		OwnerID:   lead.OwnerID,
	})

	return toLeadResponse(lead), nil
}

// PermanentDelete destroys a soft-deleted lead immediately instead of waiting
// for the retention sweep. A live lead must be soft-deleted first.
func (s *Service) PermanentDelete(ctx context.Context, family domain.Family, id uuid.UUID) error {
	lead, err := s.repo.PermanentDelete(ctx, family, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if current, getErr := s.repo.GetByID(ctx, family, id); getErr == nil && current.DeletedAt == nil {
				return apperr.Conflict("lead must be deleted before permanent deletion")
			}
			return apperr.NotFound(msgLeadNotFound)
		}
		return storeErr(err)
	}

	s.bus.Publish(ctx, events.LeadPurged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Family:    string(lead.Family),
		OwnerID:   lead.OwnerID,
		Reason:    events.PurgeReasonManual,
	})

	return nil
}

// Stats returns the owner's dashboard counters. Soft-deleted leads count
// nowhere.
func (s *Service) Stats(ctx context.Context, family domain.Family, ownerID string) (transport.StatsResponse, error) {
	_ = s.repo.EnsureWatermark(ctx, family, ownerID)

	stats, err := s.repo.OwnerStats(ctx, family, ownerID)
	if err != nil {
		return transport.StatsResponse{}, storeErr(err)
	}
	return toStatsResponse(stats), nil
}

// UnreadCounts returns unread lead counts for every owner in the family in one
// call, keyed by owner id. The admin sidebar polls this for its badges.
func (s *Service) UnreadCounts(ctx context.Context, family domain.Family) (map[string]int, error) {
	counts, err := s.repo.UnreadCounts(ctx, family)
	if err != nil {
		return nil, storeErr(err)
	}
	return counts, nil
}

// MarkViewed advances the owner's unread watermark to now. Idempotent; a
// repeat or out-of-order call never moves the watermark backwards.
func (s *Service) MarkViewed(ctx context.Context, family domain.Family, ownerID string) error {
	if err := s.repo.MarkViewed(ctx, family, ownerID, s.now()); err != nil {
		return storeErr(err)
	}
	return nil
}

// Activity returns the audit trail of a lead, newest first. The trail outlives
// the lead, so entries remain queryable after purge.
func (s *Service) Activity(ctx context.Context, family domain.Family, leadID uuid.UUID) ([]transport.ActivityResponse, error) {
	entries, err := s.repo.ListActivity(ctx, family, leadID)
	if err != nil {
		return nil, storeErr(err)
	}

	out := make([]transport.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toActivityResponse(entry))
	}
	return out, nil
}
