package domain

import "strings"

const reasonOther = "other"

// ValidateOutcome checks the cross-field outcome invariants and returns the
// list of violations, empty when the deal is consistent. The result is
// advisory; callers decide whether a violation blocks a write.
func ValidateOutcome(deal *Deal) []string {
	var violations []string

	switch deal.Status {
	case StatusLost:
		reason := firstNonEmpty(deal.LostReason, deal.OutcomeReasonCategory)
		if reason == "" {
			violations = append(violations, "lost deals require a lost_reason or outcome_reason_category")
			break
		}
		if reason == reasonOther && firstNonEmpty(deal.LostReasonNotes, deal.OutcomeNotes) == "" {
			violations = append(violations, `lost reason "other" requires notes`)
		}

	case StatusDisqualified:
		if firstNonEmpty(deal.DisqualifiedReasonCategory, deal.OutcomeReasonCategory) == "" {
			violations = append(violations, "disqualified deals require a disqualification reason")
		}

	case StatusActive, StatusWon:
		if hasOutcomeData(deal) {
			violations = append(violations, "active and won deals must carry no outcome reason data")
		}
	}

	return violations
}

// ClearOutcomeFields returns a copy of the deal with every outcome field
// nulled. Used when a terminal deal is reactivated.
func ClearOutcomeFields(deal *Deal) *Deal {
	cleared := *deal
	cleared.LostReason = nil
	cleared.LostReasonNotes = nil
	cleared.DisqualifiedReasonCategory = nil
	cleared.DisqualifiedReasonNotes = nil
	cleared.OutcomeReasonCategory = nil
	cleared.OutcomeNotes = nil
	return &cleared
}

func hasOutcomeData(deal *Deal) bool {
	for _, field := range []*string{
		deal.LostReason,
		deal.LostReasonNotes,
		deal.DisqualifiedReasonCategory,
		deal.DisqualifiedReasonNotes,
		deal.OutcomeReasonCategory,
		deal.OutcomeNotes,
	} {
		if field != nil && strings.TrimSpace(*field) != "" {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...*string) string {
	for _, value := range values {
		if value != nil && strings.TrimSpace(*value) != "" {
			return strings.TrimSpace(*value)
		}
	}
	return ""
}
