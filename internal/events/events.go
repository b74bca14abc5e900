// Package events defines the domain events exchanged between modules.
package events

import (
	"stageflow_backend/platform/events"
)

// Event names.
const (
	DealStageChangedName = "deals.stage_changed"
	DealsRecoveredName   = "deals.recovered"
	PipelineMigratedName = "pipeline.migrated"
)

// DealStageChanged fires when a single deal moves to a new stage.
type DealStageChanged struct {
	events.BaseEvent
	OrganizationID string `json:"organization_id"`
	DealID         string `json:"deal_id"`
	OldStage       string `json:"old_stage"`
	NewStage       string `json:"new_stage"`
}

func (DealStageChanged) EventName() string { return DealStageChangedName }

// NewDealStageChanged creates a DealStageChanged event.
func NewDealStageChanged(organizationID, dealID, oldStage, newStage string) DealStageChanged {
	return DealStageChanged{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: organizationID,
		DealID:         dealID,
		OldStage:       oldStage,
		NewStage:       newStage,
	}
}

// DealsRecovered fires after an orphan recovery run that changed deals.
type DealsRecovered struct {
	events.BaseEvent
	OrganizationID string `json:"organization_id"`
	Fixed          int    `json:"fixed"`
	Skipped        int    `json:"skipped"`
	Errors         int    `json:"errors"`
}

func (DealsRecovered) EventName() string { return DealsRecoveredName }

// NewDealsRecovered creates a DealsRecovered event.
func NewDealsRecovered(organizationID string, fixed, skipped, errs int) DealsRecovered {
	return DealsRecovered{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: organizationID,
		Fixed:          fixed,
		Skipped:        skipped,
		Errors:         errs,
	}
}

// PipelineMigrated fires when an organization switches its active template.
type PipelineMigrated struct {
	events.BaseEvent
	OrganizationID string `json:"organization_id"`
	FromTemplate   string `json:"from_template"`
	ToTemplate     string `json:"to_template"`
	DealsChanged   int    `json:"deals_changed"`
}

func (PipelineMigrated) EventName() string { return PipelineMigratedName }

// NewPipelineMigrated creates a PipelineMigrated event.
func NewPipelineMigrated(organizationID, from, to string, changed int) PipelineMigrated {
	return PipelineMigrated{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: organizationID,
		FromTemplate:   from,
		ToTemplate:     to,
		DealsChanged:   changed,
	}
}
