package service

import (
	"context"

	"leadtrack_backend/internal/events"
	"leadtrack_backend/internal/leads/domain"
	"leadtrack_backend/internal/leads/repository"
)

// ActivityRecorder writes the per-lead audit trail in response to lifecycle
// events. Both the API process and the retention reaper register it on their
// bus, so manual operations and background purges audit through one path.
type ActivityRecorder struct {
	repo repository.ActivityLogger
}

func NewActivityRecorder(repo repository.ActivityLogger) *ActivityRecorder {
	return &ActivityRecorder{repo: repo}
}

// Register subscribes the recorder to every lead lifecycle event.
func (r *ActivityRecorder) Register(bus events.Bus) {
	handler := events.HandlerFunc(r.handle)
	bus.Subscribe(events.LeadCreated{}.EventName(), handler)
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), handler)
	bus.Subscribe(events.LeadSoftDeleted{}.EventName(), handler)
	bus.Subscribe(events.LeadRestored{}.EventName(), handler)
	bus.Subscribe(events.LeadPurged{}.EventName(), handler)
}

func (r *ActivityRecorder) handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return r.repo.AddActivity(ctx, repository.AddActivityParams{
			LeadID:  e.LeadID,
			Family:  domain.Family(e.Family),
			OwnerID: e.OwnerID,
			Action:  "created",
		})
	case events.LeadStatusChanged:
		return r.repo.AddActivity(ctx, repository.AddActivityParams{
			LeadID:  e.LeadID,
			Family:  domain.Family(e.Family),
			OwnerID: e.OwnerID,
			Action:  "status_changed",
			Actor:   e.Actor,
			Meta:    map[string]any{"from": e.FromStatus, "to": e.ToStatus},
		})
	case events.LeadSoftDeleted:
		return r.repo.AddActivity(ctx, repository.AddActivityParams{
			LeadID:  e.LeadID,
			Family:  domain.Family(e.Family),
			OwnerID: e.OwnerID,
			Action:  "deleted",
			Actor:   e.DeletedBy,
		})
	case events.LeadRestored:
		return r.repo.AddActivity(ctx, repository.AddActivityParams{
			LeadID:  e.LeadID,
			Family:  domain.Family(e.Family),
			OwnerID: e.OwnerID,
			Action:  "restored",
		})
	case events.LeadPurged:
		return r.repo.AddActivity(ctx, repository.AddActivityParams{
			LeadID:  e.LeadID,
			Family:  domain.Family(e.Family),
			OwnerID: e.OwnerID,
			Action:  "purged",
			Meta:    map[string]any{"reason": e.Reason},
		})
	}
	return nil
}
