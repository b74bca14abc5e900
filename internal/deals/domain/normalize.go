package domain

import (
	pipedomain "stageflow_backend/internal/pipeline/domain"
	"stageflow_backend/platform/phone"
)

// Normalize validates and coerces an untrusted record into a canonical Deal.
// It returns nil only when the record lacks a string id or organization id;
// every other field degrades to a documented default. The returned deal has
// stage and status synchronized.
func Normalize(raw map[string]any, cls *pipedomain.StatusClassification) *Deal {
	record := rawRecord(raw)

	id, ok := record.stringField("id")
	if !ok || id == "" {
		return nil
	}
	orgID, ok := record.stringField("organization_id")
	if !ok || orgID == "" {
		return nil
	}

	deal := Deal{
		ID:             id,
		OrganizationID: orgID,
		Stage:          DefaultStage,
		Status:         StatusActive,
		Value:          record.numberField("value"),
		AssignedTo:     record.optionalString("assigned_to"),
		Confidence:     record.percentField("confidence"),
		Probability:    record.percentField("probability"),

		LostReason:                 record.optionalString("lost_reason"),
		LostReasonNotes:            record.optionalString("lost_reason_notes"),
		DisqualifiedReasonCategory: record.optionalString("disqualified_reason_category"),
		DisqualifiedReasonNotes:    record.optionalString("disqualified_reason_notes"),
		OutcomeReasonCategory:      record.optionalString("outcome_reason_category"),
		OutcomeNotes:               record.optionalString("outcome_notes"),
	}

	if client, ok := record.stringField("client"); ok {
		deal.Client = client
	}
	if rawPhone, ok := record.stringField("client_phone"); ok {
		deal.ClientPhone = phone.NormalizeE164(rawPhone)
	}
	if stage, ok := record.stringField("stage"); ok && pipedomain.ValidStageID(stage) {
		deal.Stage = stage
	}
	if status, ok := record.stringField("status"); ok && validStatus(status) {
		deal.Status = status
	}
	if createdAt, ok := record.stringField("created_at"); ok {
		deal.CreatedAt = createdAt
	}
	if updatedAt, ok := record.stringField("updated_at"); ok {
		deal.UpdatedAt = updatedAt
	}

	return SyncStageStatus(&deal, cls)
}

// SyncStageStatus rewrites the deal's status to the value its stage implies,
// when the stage is in the won/lost classification. Idempotent; returns a
// fresh deal and leaves the input untouched.
func SyncStageStatus(deal *Deal, cls *pipedomain.StatusClassification) *Deal {
	synced := *deal
	if implied, ok := cls.ImpliedStatus(synced.Stage); ok && synced.Status != implied {
		synced.Status = implied
	}
	return &synced
}

// StageValidation is the tri-state result of validating a stage identifier.
type StageValidation struct {
	Valid   bool   `json:"valid"`
	Core    bool   `json:"core"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// ValidateStage classifies a stage id: invalid format (error), valid custom
// stage (warning, permissive), or valid core stage.
func ValidateStage(stage string, cfg *pipedomain.StageConfig) StageValidation {
	if !pipedomain.ValidStageID(stage) {
		return StageValidation{
			Error: "stage must be 1-50 characters, lowercase, starting with a letter, using only letters, digits, and underscores",
		}
	}
	if !cfg.IsCoreStage(stage) {
		return StageValidation{
			Valid:   true,
			Warning: "stage is not a built-in stage; custom stages are allowed but lose curated display names and thresholds",
		}
	}
	return StageValidation{Valid: true, Core: true}
}
