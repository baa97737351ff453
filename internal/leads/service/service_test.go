package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"leadtrack_backend/internal/events"
	"leadtrack_backend/internal/leads/domain"
	"leadtrack_backend/internal/leads/repository"
	"leadtrack_backend/internal/leads/transport"
	"leadtrack_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore is an in-memory repository.LeadsRepository mirroring the SQL
// semantics: conditional updates on deleted_at, the partial phone uniqueness,
// and the GREATEST watermark upsert.
type fakeStore struct {
	mu         sync.Mutex
	leads      map[uuid.UUID]repository.Lead
	watermarks map[string]time.Time
	trail      []repository.Activity
	now        time.Time
}

func newFakeStore(now time.Time) *fakeStore {
	return &fakeStore{
		leads:      make(map[uuid.UUID]repository.Lead),
		watermarks: make(map[string]time.Time),
		now:        now,
	}
}

func wmKey(family domain.Family, ownerID string) string {
	return string(family) + "|" + ownerID
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, lead := range f.leads {
		if lead.Family == params.Family && lead.Phone == params.Phone && lead.DeletedAt == nil {
			return repository.Lead{}, repository.ErrDuplicatePhone
		}
	}

	urgency := params.Urgency
	if urgency == "" {
		urgency = domain.UrgencyBrowsing
	}

	lead := repository.Lead{
		ID:             uuid.New(),
		Family:         params.Family,
		OwnerID:        params.OwnerID,
		Name:           params.Name,
		Phone:          params.Phone,
		Email:          params.Email,
		City:           params.City,
		Program:        params.Program,
		Branch:         params.Branch,
		Category:       params.Category,
		DiscountAmount: params.DiscountAmount,
		Urgency:        urgency,
		FollowUpStatus: domain.StatusPending,
		Registered:     false,
		CreatedAt:      f.now,
		UpdatedAt:      f.now,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, family domain.Family, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || lead.Family != family {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) list(family domain.Family, ownerID string, keep func(repository.Lead) bool) []repository.Lead {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Lead, 0)
	for _, lead := range f.leads {
		if lead.Family == family && lead.OwnerID == ownerID && keep(lead) {
			out = append(out, lead)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) ListActive(_ context.Context, family domain.Family, ownerID string) ([]repository.Lead, error) {
	return f.list(family, ownerID, func(l repository.Lead) bool {
		return l.DeletedAt == nil && l.FollowUpStatus != domain.StatusLost
	}), nil
}

func (f *fakeStore) ListLost(_ context.Context, family domain.Family, ownerID string) ([]repository.Lead, error) {
	return f.list(family, ownerID, func(l repository.Lead) bool {
		return l.DeletedAt == nil && l.FollowUpStatus == domain.StatusLost
	}), nil
}

func (f *fakeStore) ListDeleted(_ context.Context, family domain.Family, ownerID string) ([]repository.Lead, error) {
	out := f.list(family, ownerID, func(l repository.Lead) bool { return l.DeletedAt != nil })
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.Before(*out[j].DeletedAt) })
	return out, nil
}

func (f *fakeStore) UpdateStatusNotes(_ context.Context, family domain.Family, id uuid.UUID, params repository.UpdateStatusNotesParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || lead.Family != family || lead.DeletedAt != nil {
		return repository.Lead{}, repository.ErrNotFound
	}

	if params.FollowUpStatus != nil {
		lead.FollowUpStatus = *params.FollowUpStatus
		lead.Registered = params.FollowUpStatus.Registered()
	}
	if params.FollowUpNotes != nil {
		lead.FollowUpNotes = *params.FollowUpNotes
	}
	lead.UpdatedAt = f.now
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) SoftDelete(_ context.Context, family domain.Family, id uuid.UUID, deletedBy string) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || lead.Family != family || lead.DeletedAt != nil {
		return repository.Lead{}, repository.ErrNotFound
	}

	deletedAt := f.now
	lead.DeletedAt = &deletedAt
	lead.DeletedBy = &deletedBy
	lead.UpdatedAt = f.now
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) Restore(_ context.Context, family domain.Family, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || lead.Family != family || lead.DeletedAt == nil {
		return repository.Lead{}, repository.ErrNotFound
	}

	lead.DeletedAt = nil
	lead.DeletedBy = nil
	lead.UpdatedAt = f.now
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) PermanentDelete(_ context.Context, family domain.Family, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || lead.Family != family || lead.DeletedAt == nil {
		return repository.Lead{}, repository.ErrNotFound
	}

	delete(f.leads, id)
	return lead, nil
}

func (f *fakeStore) OwnerStats(_ context.Context, family domain.Family, ownerID string) (repository.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	today := f.now.Truncate(24 * time.Hour)
	var stats repository.Stats
	for _, lead := range f.leads {
		if lead.Family != family || lead.OwnerID != ownerID || lead.DeletedAt != nil {
			continue
		}
		stats.TotalUses++
		if !lead.CreatedAt.Before(today) {
			stats.TodayUses++
		}
		switch lead.FollowUpStatus {
		case domain.StatusPending:
			stats.PendingFollowups++
		case domain.StatusContacted:
			stats.Followups++
		case domain.StatusConverted:
			stats.Conversions++
		case domain.StatusLost:
			stats.Lost++
		}
	}
	return stats, nil
}

func (f *fakeStore) EnsureWatermark(_ context.Context, family domain.Family, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := wmKey(family, ownerID)
	if _, ok := f.watermarks[key]; !ok {
		f.watermarks[key] = time.Unix(0, 0)
	}
	return nil
}

func (f *fakeStore) UnreadCounts(_ context.Context, family domain.Family) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[string]int)
	for _, lead := range f.leads {
		if lead.Family != family || lead.DeletedAt != nil {
			continue
		}
		mark, ok := f.watermarks[wmKey(family, lead.OwnerID)]
		if !ok {
			mark = time.Unix(0, 0)
		}
		if _, seen := counts[lead.OwnerID]; !seen {
			counts[lead.OwnerID] = 0
		}
		if lead.CreatedAt.After(mark) {
			counts[lead.OwnerID]++
		}
	}
	return counts, nil
}

func (f *fakeStore) MarkViewed(_ context.Context, family domain.Family, ownerID string, viewedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := wmKey(family, ownerID)
	if current, ok := f.watermarks[key]; ok && current.After(viewedAt) {
		return nil
	}
	f.watermarks[key] = viewedAt
	return nil
}

func (f *fakeStore) AddActivity(_ context.Context, params repository.AddActivityParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.trail = append(f.trail, repository.Activity{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		Family:    params.Family,
		OwnerID:   params.OwnerID,
		Action:    params.Action,
		Actor:     params.Actor,
		Meta:      params.Meta,
		CreatedAt: f.now,
	})
	return nil
}

func (f *fakeStore) ListActivity(_ context.Context, family domain.Family, leadID uuid.UUID) ([]repository.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Activity, 0)
	for _, entry := range f.trail {
		if entry.Family == family && entry.LeadID == leadID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// fakeBus records published events synchronously so tests can assert on them.
type fakeBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *fakeBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func (b *fakeBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}

func newTestService(now time.Time) (*Service, *fakeStore, *fakeBus) {
	store := newFakeStore(now)
	bus := &fakeBus{}
	svc := New(store, bus)
	svc.now = func() time.Time { return store.now }
	return svc, store, bus
}

func mustCreate(t *testing.T, svc *Service, family domain.Family, ownerID, name, phone string) transport.LeadResponse {
	t.Helper()
	lead, err := svc.Create(context.Background(), family, transport.CreateLeadRequest{
		OwnerID: ownerID,
		Name:    name,
		Phone:   phone,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return lead
}

func TestCreateNormalizesPhone(t *testing.T) {
	svc, _, bus := newTestService(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))

	lead := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Budi", "0812-3456-7890")

	if !strings.HasPrefix(lead.Phone, "+62") {
		t.Errorf("phone not normalized to E.164: %q", lead.Phone)
	}
	if lead.FollowUpStatus != string(domain.StatusPending) {
		t.Errorf("new lead status = %q, want pending", lead.FollowUpStatus)
	}
	if lead.Registered {
		t.Error("new lead must not be registered")
	}
	if lead.Urgency != string(domain.UrgencyBrowsing) {
		t.Errorf("default urgency = %q, want browsing", lead.Urgency)
	}
	if got := bus.names(); len(got) != 1 || got[0] != "leads.created" {
		t.Errorf("published events = %v, want [leads.created]", got)
	}
}

func TestCreateDuplicatePhoneConflict(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))

	mustCreate(t, svc, domain.FamilyPromo, "P-1", "Sari", "081234567890")

	_, err := svc.Create(context.Background(), domain.FamilyPromo, transport.CreateLeadRequest{
		OwnerID: "P-2",
		Name:    "Dewi",
		Phone:   "0812 3456 7890",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("duplicate phone: got %v, want conflict", err)
	}

	// Same number in the other family is a separate namespace.
	if _, err := svc.Create(context.Background(), domain.FamilyAffiliate, transport.CreateLeadRequest{
		OwnerID: "A-1",
		Name:    "Dewi",
		Phone:   "081234567890",
	}); err != nil {
		t.Fatalf("cross-family create: %v", err)
	}
}

func TestStatusTransitionsUnrestricted(t *testing.T) {
	statuses := []domain.FollowUpStatus{
		domain.StatusPending, domain.StatusContacted, domain.StatusConverted, domain.StatusLost,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				svc, _, _ := newTestService(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
				lead := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Budi", "081234567890")
				id := lead.ID

				fromStr, toStr := string(from), string(to)
				if _, err := svc.UpdateStatus(context.Background(), domain.FamilyAffiliate, id,
					transport.UpdateStatusRequest{FollowUpStatus: &fromStr}, "admin"); err != nil {
					t.Fatalf("set initial status: %v", err)
				}

				updated, err := svc.UpdateStatus(context.Background(), domain.FamilyAffiliate, id,
					transport.UpdateStatusRequest{FollowUpStatus: &toStr}, "admin")
				if err != nil {
					t.Fatalf("transition %s -> %s: %v", from, to, err)
				}
				if updated.FollowUpStatus != toStr {
					t.Errorf("status = %q, want %q", updated.FollowUpStatus, toStr)
				}
				if updated.Registered != to.Registered() {
					t.Errorf("registered = %v, want %v", updated.Registered, to.Registered())
				}
			})
		}
	}
}

func TestUpdateStatusIgnoresClientRegistered(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	lead := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Budi", "081234567890")

	status := string(domain.StatusContacted)
	clientRegistered := true
	updated, err := svc.UpdateStatus(context.Background(), domain.FamilyAffiliate, lead.ID,
		transport.UpdateStatusRequest{FollowUpStatus: &status, Registered: &clientRegistered}, "admin")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Registered {
		t.Error("client-sent registered=true must be ignored for a contacted lead")
	}
}

func TestSoftDeleteHidesLead(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc, store, _ := newTestService(now)
	ctx := context.Background()
	lead := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Budi", "081234567890")

	deleted, err := svc.SoftDelete(ctx, domain.FamilyAffiliate, lead.ID, "admin@example.com")
	if err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if deleted.DaysRemaining != domain.RetentionDays {
		t.Errorf("days_remaining = %d, want %d", deleted.DaysRemaining, domain.RetentionDays)
	}
	if deleted.DeletedBy != "admin@example.com" {
		t.Errorf("deleted_by = %q", deleted.DeletedBy)
	}

	active, err := svc.ListActive(ctx, domain.FamilyAffiliate, "A-1")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("deleted lead still listed: %d entries", len(active))
	}

	stats, err := svc.Stats(ctx, domain.FamilyAffiliate, "A-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalUses != 0 {
		t.Errorf("deleted lead still counted in stats: total_uses = %d", stats.TotalUses)
	}

	status := string(domain.StatusContacted)
	if _, err := svc.UpdateStatus(ctx, domain.FamilyAffiliate, lead.ID,
		transport.UpdateStatusRequest{FollowUpStatus: &status}, "admin"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("update on deleted lead: got %v, want not found", err)
	}

	if _, err := svc.SoftDelete(ctx, domain.FamilyAffiliate, lead.ID, "admin@example.com"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("double soft delete: got %v, want not found", err)
	}

	store.now = now.Add(49 * time.Hour)
	history, err := svc.ListDeleted(ctx, domain.FamilyAffiliate, "A-1")
	if err != nil {
		t.Fatalf("ListDeleted: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("deleted history entries = %d, want 1", len(history))
	}
	if history[0].DaysDeleted != 2 || history[0].DaysRemaining != 1 {
		t.Errorf("countdown = %d deleted / %d remaining, want 2/1",
			history[0].DaysDeleted, history[0].DaysRemaining)
	}
}

func TestRestoreResumesStatus(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()
	lead := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Budi", "081234567890")

	status := string(domain.StatusContacted)
	if _, err := svc.UpdateStatus(ctx, domain.FamilyAffiliate, lead.ID,
		transport.UpdateStatusRequest{FollowUpStatus: &status}, "admin"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := svc.SoftDelete(ctx, domain.FamilyAffiliate, lead.ID, "admin"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	restored, err := svc.Restore(ctx, domain.FamilyAffiliate, lead.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.FollowUpStatus != status {
		t.Errorf("restored status = %q, want %q", restored.FollowUpStatus, status)
	}

	if _, err := svc.Restore(ctx, domain.FamilyAffiliate, lead.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("restore of live lead: got %v, want conflict", err)
	}
	if _, err := svc.Restore(ctx, domain.FamilyAffiliate, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("restore of unknown lead: got %v, want not found", err)
	}
}

func TestPermanentDeleteRequiresSoftDelete(t *testing.T) {
	svc, _, bus := newTestService(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()
	lead := mustCreate(t, svc, domain.FamilyPromo, "P-1", "Sari", "081234567890")

	if err := svc.PermanentDelete(ctx, domain.FamilyPromo, lead.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("permanent delete of live lead: got %v, want conflict", err)
	}

	if _, err := svc.SoftDelete(ctx, domain.FamilyPromo, lead.ID, "admin"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := svc.PermanentDelete(ctx, domain.FamilyPromo, lead.ID); err != nil {
		t.Fatalf("PermanentDelete: %v", err)
	}
	if err := svc.PermanentDelete(ctx, domain.FamilyPromo, lead.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("permanent delete of purged lead: got %v, want not found", err)
	}

	names := bus.names()
	if names[len(names)-1] != "leads.purged" {
		t.Errorf("last event = %q, want leads.purged", names[len(names)-1])
	}
}

func TestStatsCountsBuckets(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc, store, _ := newTestService(now)
	ctx := context.Background()

	// Two leads yesterday, three today; one of today's gets deleted.
	store.now = now.Add(-24 * time.Hour)
	old1 := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Budi", "0811000001")
	mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Sari", "0811000002")

	store.now = now
	mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Dewi", "0811000003")
	gone := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Andi", "0811000004")
	lost := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Rina", "0811000005")

	converted := string(domain.StatusConverted)
	if _, err := svc.UpdateStatus(ctx, domain.FamilyAffiliate, old1.ID,
		transport.UpdateStatusRequest{FollowUpStatus: &converted}, "admin"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	lostStatus := string(domain.StatusLost)
	if _, err := svc.UpdateStatus(ctx, domain.FamilyAffiliate, lost.ID,
		transport.UpdateStatusRequest{FollowUpStatus: &lostStatus}, "admin"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := svc.SoftDelete(ctx, domain.FamilyAffiliate, gone.ID, "admin"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	stats, err := svc.Stats(ctx, domain.FamilyAffiliate, "A-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	want := transport.StatsResponse{
		TotalUses:        4,
		TodayUses:        2,
		PendingFollowups: 2,
		Followups:        0,
		Conversions:      1,
		Lost:             1,
	}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestUnreadWatermark(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc, store, _ := newTestService(now)
	ctx := context.Background()

	mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Budi", "0811000001")

	// Never viewed: everything counts as unread.
	counts, err := svc.UnreadCounts(ctx, domain.FamilyAffiliate)
	if err != nil {
		t.Fatalf("UnreadCounts: %v", err)
	}
	if counts["A-1"] != 1 {
		t.Errorf("unread before first view = %d, want 1", counts["A-1"])
	}

	store.now = now.Add(time.Minute)
	if err := svc.MarkViewed(ctx, domain.FamilyAffiliate, "A-1"); err != nil {
		t.Fatalf("MarkViewed: %v", err)
	}
	counts, _ = svc.UnreadCounts(ctx, domain.FamilyAffiliate)
	if counts["A-1"] != 0 {
		t.Errorf("unread after view = %d, want 0", counts["A-1"])
	}

	store.now = now.Add(2 * time.Minute)
	mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Sari", "0811000002")
	counts, _ = svc.UnreadCounts(ctx, domain.FamilyAffiliate)
	if counts["A-1"] != 1 {
		t.Errorf("unread after new lead = %d, want 1", counts["A-1"])
	}

	// A replayed mark-viewed with an older clock must not move the
	// watermark backwards.
	store.now = now
	if err := svc.MarkViewed(ctx, domain.FamilyAffiliate, "A-1"); err != nil {
		t.Fatalf("MarkViewed: %v", err)
	}
	counts, _ = svc.UnreadCounts(ctx, domain.FamilyAffiliate)
	if counts["A-1"] != 1 {
		t.Errorf("unread after stale view = %d, want 1 (watermark must be monotonic)", counts["A-1"])
	}
}

func TestActivityRecorder(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	bus := events.NewInMemoryBus(nil)
	svc := New(store, bus)
	svc.now = func() time.Time { return store.now }
	NewActivityRecorder(store).Register(bus)
	ctx := context.Background()

	lead := mustCreate(t, svc, domain.FamilyAffiliate, "A-1", "Budi", "081234567890")
	status := string(domain.StatusConverted)
	if _, err := svc.UpdateStatus(ctx, domain.FamilyAffiliate, lead.ID,
		transport.UpdateStatusRequest{FollowUpStatus: &status}, "admin-7"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := svc.SoftDelete(ctx, domain.FamilyAffiliate, lead.ID, "admin"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// Publish is asynchronous; give the handlers a beat.
	deadline := time.Now().Add(2 * time.Second)
	var trail []transport.ActivityResponse
	for time.Now().Before(deadline) {
		var err error
		trail, err = svc.Activity(ctx, domain.FamilyAffiliate, lead.ID)
		if err != nil {
			t.Fatalf("Activity: %v", err)
		}
		if len(trail) == 3 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(trail) != 3 {
		t.Fatalf("activity entries = %d, want 3", len(trail))
	}

	actions := make(map[string]bool)
	for _, entry := range trail {
		actions[entry.Action] = true
		if entry.Action == "status_changed" && entry.Actor != "admin-7" {
			t.Errorf("status_changed actor = %q, want admin-7", entry.Actor)
		}
	}
	for _, want := range []string{"created", "status_changed", "deleted"} {
		if !actions[want] {
			t.Errorf("missing %q activity entry", want)
		}
	}
}
