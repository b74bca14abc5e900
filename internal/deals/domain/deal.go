// Package domain holds the canonical Deal shape and the normalization rules
// that turn untrusted records from the storage layer into deals the rest of
// the engine can rely on. All functions are pure: they return fresh values
// and never mutate their inputs.
package domain

// Deal is the canonical, normalized deal record.
//
// Timestamps stay as opaque strings: records arrive from an external store
// with no format guarantee, and the scoring engine parses them defensively
// rather than trusting normalization to have produced a real date.
type Deal struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organization_id"`
	Client         string   `json:"client"`
	ClientPhone    string   `json:"client_phone,omitempty"`
	Stage          string   `json:"stage"`
	Status         string   `json:"status"`
	Value          *float64 `json:"value,omitempty"`
	AssignedTo     *string  `json:"assigned_to,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Probability    *float64 `json:"probability,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`

	// Outcome fields. Legacy lost/disqualified pairs coexist with the
	// unified outcome fields; ValidateOutcome accepts either.
	LostReason                 *string `json:"lost_reason,omitempty"`
	LostReasonNotes            *string `json:"lost_reason_notes,omitempty"`
	DisqualifiedReasonCategory *string `json:"disqualified_reason_category,omitempty"`
	DisqualifiedReasonNotes    *string `json:"disqualified_reason_notes,omitempty"`
	OutcomeReasonCategory      *string `json:"outcome_reason_category,omitempty"`
	OutcomeNotes               *string `json:"outcome_notes,omitempty"`
}

// IsClosed reports whether the deal has reached a terminal status.
func (d Deal) IsClosed() bool {
	return d.Status == StatusWon || d.Status == StatusLost || d.Status == StatusDisqualified
}
