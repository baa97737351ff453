// Package domain holds the pure lead-lifecycle rules shared by the service,
// repository and reaper: enums, the retention window, and the derived-field
// arithmetic the deleted-history view exposes.
package domain

import "time"

// Family discriminates the two lead sources sharing identical semantics.
type Family string

const (
	// FamilyAffiliate covers leads attributed to ambassador affiliate codes.
	FamilyAffiliate Family = "affiliate"
	// FamilyPromo covers leads attributed to promo codes.
	FamilyPromo Family = "promo"
)

// ParseFamily maps a URL path segment to a Family.
func ParseFamily(raw string) (Family, bool) {
	switch Family(raw) {
	case FamilyAffiliate:
		return FamilyAffiliate, true
	case FamilyPromo:
		return FamilyPromo, true
	default:
		return "", false
	}
}

// FollowUpStatus is the follow-up state of a lead. Any status may move to any
// other status; support staff use free transitions for manual correction.
type FollowUpStatus string

const (
	StatusPending   FollowUpStatus = "pending"
	StatusContacted FollowUpStatus = "contacted"
	StatusConverted FollowUpStatus = "converted"
	StatusLost      FollowUpStatus = "lost"
)

// Valid reports whether s is a known follow-up status.
func (s FollowUpStatus) Valid() bool {
	switch s {
	case StatusPending, StatusContacted, StatusConverted, StatusLost:
		return true
	default:
		return false
	}
}

// Registered derives the registered flag: true iff the lead converted.
func (s FollowUpStatus) Registered() bool {
	return s == StatusConverted
}

// Urgency classifies how soon the end user intends to enroll. Informational
// only; no business logic attaches to it beyond display.
type Urgency string

const (
	UrgencyUrgent    Urgency = "urgent"
	UrgencyThisMonth Urgency = "this_month"
	UrgencyBrowsing  Urgency = "browsing"
)

// RetentionDays is the fixed number of whole days a soft-deleted lead stays
// recoverable. The server-side sweep is the source of truth; the admin UI only
// renders what the server reports.
const RetentionDays = 3

// RetentionWindow is RetentionDays as a duration.
const RetentionWindow = RetentionDays * 24 * time.Hour

// DaysDeleted returns the whole days elapsed since deletedAt.
func DaysDeleted(deletedAt, now time.Time) int {
	if now.Before(deletedAt) {
		return 0
	}
	return int(now.Sub(deletedAt) / (24 * time.Hour))
}

// DaysRemaining returns how many whole days remain before purge. Never negative.
func DaysRemaining(deletedAt, now time.Time) int {
	remaining := RetentionDays - DaysDeleted(deletedAt, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PurgeEligible reports whether a lead deleted at deletedAt has outlived the
// retention window at time now.
func PurgeEligible(deletedAt, now time.Time) bool {
	return now.Sub(deletedAt) >= RetentionWindow
}
