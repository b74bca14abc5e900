// Package transport defines request and response DTOs for the deals API.
package transport

import (
	dealdomain "stageflow_backend/internal/deals/domain"
	pipedomain "stageflow_backend/internal/pipeline/domain"
)

// IngestDealsRequest carries a batch of raw records from an external source.
// Records are untyped on purpose; the normalizer owns all coercion.
type IngestDealsRequest struct {
	Deals []map[string]any `json:"deals" validate:"required,min=1,max=1000"`
}

// RejectedRecord explains why one record in a batch was not stored.
type RejectedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// IngestResult summarizes a batch ingest.
type IngestResult struct {
	Accepted int              `json:"accepted"`
	Rejected []RejectedRecord `json:"rejected,omitempty"`
}

// UpdateStageRequest moves a deal to a new stage.
type UpdateStageRequest struct {
	Stage string `json:"stage" validate:"required,min=1,max=50"`
}

// SetOutcomeRequest closes or reactivates a deal.
type SetOutcomeRequest struct {
	Status                     string  `json:"status" validate:"required,oneof=active won lost disqualified"`
	LostReason                 *string `json:"lost_reason,omitempty" validate:"omitempty,max=255"`
	LostReasonNotes            *string `json:"lost_reason_notes,omitempty" validate:"omitempty,max=2000"`
	DisqualifiedReasonCategory *string `json:"disqualified_reason_category,omitempty" validate:"omitempty,max=255"`
	DisqualifiedReasonNotes    *string `json:"disqualified_reason_notes,omitempty" validate:"omitempty,max=2000"`
	OutcomeReasonCategory      *string `json:"outcome_reason_category,omitempty" validate:"omitempty,max=255"`
	OutcomeNotes               *string `json:"outcome_notes,omitempty" validate:"omitempty,max=2000"`
}

// DealResponse is a deal enriched with display labels.
type DealResponse struct {
	dealdomain.Deal
	StageLabel   string `json:"stage_label"`
	OutcomeLabel string `json:"outcome_label,omitempty"`
}

// UpdateStageResponse returns the updated deal plus the custom-stage warning
// when one applies.
type UpdateStageResponse struct {
	Deal    DealResponse `json:"deal"`
	Warning string       `json:"warning,omitempty"`
}

// StageValidationResponse mirrors the tri-state stage check.
type StageValidationResponse struct {
	Stage string `json:"stage"`
	dealdomain.StageValidation
}

// ToDealResponse builds the API shape for a deal.
func ToDealResponse(deal *dealdomain.Deal) DealResponse {
	resp := DealResponse{
		Deal:       *deal,
		StageLabel: pipedomain.StageDisplayName(deal.Stage),
	}
	switch deal.Status {
	case dealdomain.StatusLost:
		if reason := firstSet(deal.LostReason, deal.OutcomeReasonCategory); reason != "" {
			resp.OutcomeLabel = pipedomain.LostReasonLabel(reason)
		} else if notes := firstSet(deal.LostReasonNotes, deal.OutcomeNotes); notes != "" {
			resp.OutcomeLabel = pipedomain.OutcomeNotesLabel(notes)
		}
	case dealdomain.StatusDisqualified:
		if reason := firstSet(deal.DisqualifiedReasonCategory, deal.OutcomeReasonCategory); reason != "" {
			resp.OutcomeLabel = pipedomain.DisqualifiedReasonLabel(reason)
		} else if notes := firstSet(deal.DisqualifiedReasonNotes, deal.OutcomeNotes); notes != "" {
			resp.OutcomeLabel = pipedomain.OutcomeNotesLabel(notes)
		}
	}
	return resp
}

func firstSet(values ...*string) string {
	for _, value := range values {
		if value != nil && *value != "" {
			return *value
		}
	}
	return ""
}

// ToDealResponses maps a deal list.
func ToDealResponses(deals []*dealdomain.Deal) []DealResponse {
	responses := make([]DealResponse, 0, len(deals))
	for _, deal := range deals {
		responses = append(responses, ToDealResponse(deal))
	}
	return responses
}
