package domain

// StatusClassification is the single authoritative registry of won-type and
// lost-type stages. Both the stage/status synchronization in the normalizer
// and the display classification consume this one table; the membership is
// the union of the two enumerations the system previously kept separately.
type StatusClassification struct {
	wonStages  map[string]struct{}
	lostStages map[string]struct{}
}

// NewStatusClassification builds the built-in won/lost stage classification.
func NewStatusClassification() *StatusClassification {
	return &StatusClassification{
		wonStages: map[string]struct{}{
			StageClosedWon: {},
			"won":          {},
			"closed":       {},
		},
		lostStages: map[string]struct{}{
			StageClosedLost: {},
			"lost":          {},
		},
	}
}

// IsWonType reports whether the stage implies a won status.
func (c *StatusClassification) IsWonType(stage string) bool {
	_, ok := c.wonStages[stage]
	return ok
}

// IsLostType reports whether the stage implies a lost status.
func (c *StatusClassification) IsLostType(stage string) bool {
	_, ok := c.lostStages[stage]
	return ok
}

// ImpliedStatus returns the status a stage forces on a deal, if any.
// Stages outside the classification imply nothing (ok is false).
func (c *StatusClassification) ImpliedStatus(stage string) (string, bool) {
	if c.IsWonType(stage) {
		return StatusWon, true
	}
	if c.IsLostType(stage) {
		return StatusLost, true
	}
	return "", false
}

// StatusForStage classifies a stage for display purposes: won-type stages map
// to won, lost-type to lost, everything else to active.
func (c *StatusClassification) StatusForStage(stage string) string {
	if status, ok := c.ImpliedStatus(stage); ok {
		return status
	}
	return StatusActive
}
