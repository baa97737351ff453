// Package transport defines the JSON request/response shapes of the lead
// lifecycle API. Field names follow the admin frontend's snake_case contract.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateLeadRequest is the ingest payload sent by the upstream code-redemption
// flow when an end user uses an affiliate or promo code.
type CreateLeadRequest struct {
	OwnerID        string `json:"owner_id" validate:"required,min=1,max=100"`
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Phone          string `json:"phone" validate:"required,min=5,max=20"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	City           string `json:"city,omitempty" validate:"max=100"`
	Program        string `json:"program,omitempty" validate:"max=200"`
	Branch         string `json:"branch,omitempty" validate:"max=200"`
	Category       string `json:"category,omitempty" validate:"max=200"`
	DiscountAmount int64  `json:"discount_amount,omitempty" validate:"min=0"`
	Urgency        string `json:"urgency,omitempty" validate:"omitempty,oneof=urgent this_month browsing"`
}

// UpdateStatusRequest carries the PATCH update-status payload. Both fields are
// optional and independent; the frontend also sends `registered`, which the
// server derives itself and therefore ignores.
type UpdateStatusRequest struct {
	FollowUpStatus *string `json:"follow_up_status,omitempty" validate:"omitempty,oneof=pending contacted converted lost"`
	FollowUpNotes  *string `json:"follow_up_notes,omitempty" validate:"omitempty,max=5000"`
	Registered     *bool   `json:"registered,omitempty" validate:"-"`
}

// SoftDeleteRequest identifies who moved the lead into the deleted history.
type SoftDeleteRequest struct {
	DeletedBy string `json:"deleted_by" validate:"required,min=1,max=100"`
}

// Response DTOs

type LeadResponse struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          *string   `json:"email,omitempty"`
	City           *string   `json:"city,omitempty"`
	Program        *string   `json:"program,omitempty"`
	Branch         *string   `json:"branch,omitempty"`
	Category       *string   `json:"category,omitempty"`
	DiscountAmount int64     `json:"discount_amount"`
	Urgency        string    `json:"urgency"`
	FollowUpStatus string    `json:"follow_up_status"`
	FollowUpNotes  string    `json:"follow_up_notes"`
	Registered     bool      `json:"registered"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DeletedLeadResponse is a lead in the deleted-history view, with the
// retention bookkeeping the admin UI renders.
type DeletedLeadResponse struct {
	LeadResponse
	DeletedAt     time.Time `json:"deleted_at"`
	DeletedBy     string    `json:"deleted_by"`
	DaysDeleted   int       `json:"days_deleted"`
	DaysRemaining int       `json:"days_remaining"`
}

// StatsResponse is the per-owner dashboard aggregate. All counts exclude
// soft-deleted leads.
type StatsResponse struct {
	TotalUses        int `json:"total_uses"`
	TodayUses        int `json:"today_uses"`
	PendingFollowups int `json:"pending_followups"`
	Followups        int `json:"followups"`
	Conversions      int `json:"conversions"`
	Lost             int `json:"lost"`
}

// ActivityResponse is one audit-trail entry for a lead.
type ActivityResponse struct {
	ID        uuid.UUID      `json:"id"`
	LeadID    uuid.UUID      `json:"lead_id"`
	Action    string         `json:"action"`
	Actor     string         `json:"actor"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
