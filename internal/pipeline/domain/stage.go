// Package domain holds the pipeline stage vocabulary, template definitions,
// and stage translation tables. Everything here is immutable configuration:
// values are constructed once at startup and passed by reference into the
// components that consume them.
package domain

import "regexp"

// Deal status values.
const (
	StatusActive       = "active"
	StatusWon          = "won"
	StatusLost         = "lost"
	StatusDisqualified = "disqualified"
)

// Core stage identifiers shipped across the bundled templates.
const (
	StageLead        = "lead"
	StageContacted   = "contacted"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"
)

// Defaults applied to stages outside the built-in vocabulary.
const (
	DefaultStagnationThresholdDays = 14
	DefaultBaseConfidence          = 30
)

const maxStageIDLength = 50

var stageIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidStageID reports whether a stage identifier satisfies the format rule:
// lowercase letter first, then lowercase letters, digits, or underscores,
// at most 50 characters.
func ValidStageID(stage string) bool {
	if stage == "" || len(stage) > maxStageIDLength {
		return false
	}
	return stageIDPattern.MatchString(stage)
}

// StageProfile describes one built-in stage's scoring configuration.
type StageProfile struct {
	DisplayName             string
	StagnationThresholdDays int
	BaseConfidence          int
}

// StageConfig is the per-stage configuration table consumed by the confidence
// engine and the stagnation checks. The same table must back every place a
// score is computed; a diverging copy silently produces different scores for
// the same deal.
type StageConfig struct {
	profiles         map[string]StageProfile
	order            []string
	defaultThreshold int
	defaultBase      int
}

// NewStageConfig builds the built-in stage configuration table.
func NewStageConfig() *StageConfig {
	return &StageConfig{
		profiles: map[string]StageProfile{
			StageLead:        {DisplayName: "Lead", StagnationThresholdDays: 7, BaseConfidence: 15},
			StageContacted:   {DisplayName: "Contacted", StagnationThresholdDays: 7, BaseConfidence: 25},
			StageQualified:   {DisplayName: "Qualified", StagnationThresholdDays: 14, BaseConfidence: 40},
			StageProposal:    {DisplayName: "Proposal Sent", StagnationThresholdDays: 10, BaseConfidence: 60},
			StageNegotiation: {DisplayName: "Negotiation", StagnationThresholdDays: 7, BaseConfidence: 75},
			StageClosedWon:   {DisplayName: "Closed Won", StagnationThresholdDays: 0, BaseConfidence: 100},
			StageClosedLost:  {DisplayName: "Closed Lost", StagnationThresholdDays: 0, BaseConfidence: 0},
		},
		order: []string{
			StageLead, StageContacted, StageQualified, StageProposal,
			StageNegotiation, StageClosedWon, StageClosedLost,
		},
		defaultThreshold: DefaultStagnationThresholdDays,
		defaultBase:      DefaultBaseConfidence,
	}
}

// IsCoreStage reports whether the stage id is part of the built-in vocabulary.
func (c *StageConfig) IsCoreStage(stage string) bool {
	_, ok := c.profiles[stage]
	return ok
}

// StagnationThreshold returns the stagnation threshold in days for a stage,
// falling back to the default for unknown stages.
func (c *StageConfig) StagnationThreshold(stage string) int {
	if profile, ok := c.profiles[stage]; ok && profile.StagnationThresholdDays > 0 {
		return profile.StagnationThresholdDays
	}
	return c.defaultThreshold
}

// BaseConfidence returns the base confidence value for a stage, falling back
// to the default for unknown stages.
func (c *StageConfig) BaseConfidence(stage string) int {
	if profile, ok := c.profiles[stage]; ok {
		return profile.BaseConfidence
	}
	return c.defaultBase
}

// CoreStages returns the built-in stage ids in pipeline order.
func (c *StageConfig) CoreStages() []string {
	stages := make([]string, len(c.order))
	copy(stages, c.order)
	return stages
}

func (c *StageConfig) profile(stage string) (StageProfile, bool) {
	profile, ok := c.profiles[stage]
	return profile, ok
}
