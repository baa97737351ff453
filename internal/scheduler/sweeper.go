package scheduler

import (
	"context"
	"time"

	"leadtrack_backend/internal/events"
	"leadtrack_backend/internal/leads/domain"
	"leadtrack_backend/internal/leads/repository"
	"leadtrack_backend/platform/logger"
)

// Sweeper purges soft-deleted leads whose retention window has elapsed.
type Sweeper struct {
	store repository.Purger
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
}

func NewSweeper(store repository.Purger, bus events.Bus, log *logger.Logger) *Sweeper {
	return &Sweeper{store: store, bus: bus, log: log, now: time.Now}
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	Candidates int
	Purged     int
	Skipped    int
}

// Sweep scans for purge-eligible leads and deletes them one row at a time with
// a compare-and-delete on deleted_at. A lead restored or manually purged
// between the scan and the delete is skipped, never purged twice. Per-row
// failures are logged and skipped; one bad row must not stall the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	cutoff := s.now().Add(-domain.RetentionWindow)

	candidates, err := s.store.ListPurgeCandidates(ctx, cutoff)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Candidates: len(candidates)}
	for _, candidate := range candidates {
		purged, err := s.store.PurgeIf(ctx, candidate.ID, candidate.DeletedAt)
		if err != nil {
			s.log.SweepRowSkipped(candidate.ID.String(), err)
			result.Skipped++
			continue
		}
		if !purged {
			// Lost the race to a restore or a manual purge.
			result.Skipped++
			continue
		}

		result.Purged++
		s.bus.Publish(ctx, events.LeadPurged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    candidate.ID,
			Family:    string(candidate.Family),
			OwnerID:   candidate.OwnerID,
			Reason:    events.PurgeReasonRetention,
		})
	}

	s.log.SweepCompleted(result.Candidates, result.Purged, result.Skipped)
	return result, nil
}
