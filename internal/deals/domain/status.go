package domain

import pipedomain "stageflow_backend/internal/pipeline/domain"

// Status values, re-exported from the pipeline vocabulary so deal code does
// not need a second import for the common case.
const (
	StatusActive       = pipedomain.StatusActive
	StatusWon          = pipedomain.StatusWon
	StatusLost         = pipedomain.StatusLost
	StatusDisqualified = pipedomain.StatusDisqualified
)

// DefaultStage is the stage assigned to records whose stage is missing or
// fails the format rule.
const DefaultStage = pipedomain.StageLead

func validStatus(status string) bool {
	switch status {
	case StatusActive, StatusWon, StatusLost, StatusDisqualified:
		return true
	}
	return false
}
