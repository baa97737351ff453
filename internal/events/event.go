// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadtrack_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Lifecycle Events
// =============================================================================

// LeadCreated is published when the upstream code-redemption flow creates a lead.
type LeadCreated struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Family  string    `json:"family"`
	OwnerID string    `json:"ownerId"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadStatusChanged is published when a lead's follow-up status is overwritten.
// Actor is the authenticated admin who made the change.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	Family     string    `json:"family"`
	OwnerID    string    `json:"ownerId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Actor      string    `json:"actor"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadSoftDeleted is published when a lead enters the deleted-history view.
type LeadSoftDeleted struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Family    string    `json:"family"`
	OwnerID   string    `json:"ownerId"`
	DeletedBy string    `json:"deletedBy"`
}

func (e LeadSoftDeleted) EventName() string { return "leads.soft_deleted" }

// LeadRestored is published when a soft-deleted lead is restored before purge.
type LeadRestored struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Family  string    `json:"family"`
	OwnerID string    `json:"ownerId"`
}

func (e LeadRestored) EventName() string { return "leads.restored" }

// Purge reasons carried by LeadPurged.
const (
	PurgeReasonManual    = "manual"
	PurgeReasonRetention = "retention"
)

// LeadPurged is published when a lead record is permanently destroyed, either
// by an explicit permanent delete or by the retention reaper.
type LeadPurged struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Family  string    `json:"family"`
	OwnerID string    `json:"ownerId"`
	Reason  string    `json:"reason"` // "manual" or "retention"
}

func (e LeadPurged) EventName() string { return "leads.purged" }
