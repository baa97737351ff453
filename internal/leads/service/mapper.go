package service

import (
	"time"

	"leadtrack_backend/internal/leads/domain"
	"leadtrack_backend/internal/leads/repository"
	"leadtrack_backend/internal/leads/transport"
)

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:             lead.ID,
		OwnerID:        lead.OwnerID,
		Name:           lead.Name,
		Phone:          lead.Phone,
		Email:          lead.Email,
		City:           lead.City,
		Program:        lead.Program,
		Branch:         lead.Branch,
		Category:       lead.Category,
		DiscountAmount: lead.DiscountAmount,
		Urgency:        string(lead.Urgency),
		FollowUpStatus: string(lead.FollowUpStatus),
		FollowUpNotes:  lead.FollowUpNotes,
		Registered:     lead.Registered,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
	}
}

func toLeadResponses(leads []repository.Lead) []transport.LeadResponse {
	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, toLeadResponse(lead))
	}
	return out
}

func toDeletedLeadResponse(lead repository.Lead, now time.Time) transport.DeletedLeadResponse {
	resp := transport.DeletedLeadResponse{LeadResponse: toLeadResponse(lead)}
	if lead.DeletedAt != nil {
		resp.DeletedAt = *lead.DeletedAt
		resp.DaysDeleted = domain.DaysDeleted(*lead.DeletedAt, now)
		resp.DaysRemaining = domain.DaysRemaining(*lead.DeletedAt, now)
	}
	if lead.DeletedBy != nil {
		resp.DeletedBy = *lead.DeletedBy
	}
	return resp
}

func toStatsResponse(stats repository.Stats) transport.StatsResponse {
	return transport.StatsResponse{
		TotalUses:        stats.TotalUses,
		TodayUses:        stats.TodayUses,
		PendingFollowups: stats.PendingFollowups,
		Followups:        stats.Followups,
		Conversions:      stats.Conversions,
		Lost:             stats.Lost,
	}
}

func toActivityResponse(entry repository.Activity) transport.ActivityResponse {
	return transport.ActivityResponse{
		ID:        entry.ID,
		LeadID:    entry.LeadID,
		Action:    entry.Action,
		Actor:     entry.Actor,
		Meta:      entry.Meta,
		CreatedAt: entry.CreatedAt,
	}
}
