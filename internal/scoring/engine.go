// Package scoring computes deal confidence scores, stagnation flags, and
// risk reports. Every computation is a pure function over its inputs; the
// Engine only carries the stage tables and a clock.
package scoring

import (
	"strings"
	"time"

	dealdomain "stageflow_backend/internal/deals/domain"
	pipedomain "stageflow_backend/internal/pipeline/domain"
)

const (
	// maxStagnationPenalty caps the linear days-over-threshold penalty.
	maxStagnationPenalty = 30

	// doubleThresholdPenalty applies once the deal has sat in its stage for
	// more than twice the stage threshold.
	doubleThresholdPenalty = 15

	// flatAgePenalty applies to any deal older than flatAgeDays.
	flatAgePenalty = 10
	flatAgeDays    = 90

	highValueThreshold = 50000
	midValueThreshold  = 10000
)

// Engine scores deals against a stage configuration.
type Engine struct {
	stages *pipedomain.StageConfig
	now    func() time.Time
}

// NewEngine creates an engine bound to the given stage tables.
func NewEngine(stages *pipedomain.StageConfig) *Engine {
	return &Engine{stages: stages, now: time.Now}
}

// DealConfidence computes the 0-100 confidence score for a deal.
//
// Lost deals score exactly 0 and won deals exactly 100, before any other
// adjustment. Everything else starts from the stage's base confidence, then
// applies the owner adjustment, the age penalty, and the value bonus, and
// clamps to [0, 100]. Deals with a missing, unparseable, or future creation
// date skip the age penalty entirely.
func (e *Engine) DealConfidence(deal *dealdomain.Deal, profiles map[string]PerformanceProfile, globalWinRate float64) int {
	switch deal.Status {
	case dealdomain.StatusLost:
		return 0
	case dealdomain.StatusWon:
		return 100
	}

	score := e.stages.BaseConfidence(deal.Stage)
	score += ownerAdjustment(ownerProfile(deal, profiles, globalWinRate))

	if age, ok := e.dealAge(deal); ok {
		score -= e.agePenalty(deal.Stage, age)
	}

	if deal.Value != nil {
		switch {
		case *deal.Value > highValueThreshold:
			score += 5
		case *deal.Value > midValueThreshold:
			score += 3
		}
	}

	return clampScore(score)
}

// agePenalty returns the single age-based penalty for a deal of the given
// age in the given stage. The three candidate penalties are independent and
// only the largest applies; summing them would collapse old deals to zero
// and hide the individual signals.
func (e *Engine) agePenalty(stage string, age int) int {
	threshold := e.stages.StagnationThreshold(stage)

	over := age - threshold
	if over < 0 {
		over = 0
	}
	stagnation := over * 2
	if stagnation > maxStagnationPenalty {
		stagnation = maxStagnationPenalty
	}

	penalty := stagnation
	if age > 2*threshold && doubleThresholdPenalty > penalty {
		penalty = doubleThresholdPenalty
	}
	if age > flatAgeDays && flatAgePenalty > penalty {
		penalty = flatAgePenalty
	}
	return penalty
}

// StagnationReport flags a deal that has sat in its stage past the
// stage threshold.
type StagnationReport struct {
	IsStagnant bool `json:"isStagnant"`
	DaysOver   int  `json:"daysOver"`
	Threshold  int  `json:"threshold"`
	DealAge    int  `json:"dealAge"`
}

// CheckStagnation computes the stagnation flag for a deal. Deals with a
// missing, unparseable, or future creation date get a zeroed, non-stagnant
// report rather than an error.
func (e *Engine) CheckStagnation(deal *dealdomain.Deal) StagnationReport {
	age, ok := e.dealAge(deal)
	if !ok {
		return StagnationReport{}
	}

	threshold := e.stages.StagnationThreshold(deal.Stage)
	report := StagnationReport{
		Threshold: threshold,
		DealAge:   age,
	}
	if age > threshold {
		report.IsStagnant = true
		report.DaysOver = age - threshold
	}
	return report
}

// dealAge returns the deal's age in whole days. ok is false when the
// creation date is absent, unparseable, or in the future.
func (e *Engine) dealAge(deal *dealdomain.Deal) (int, bool) {
	created, ok := parseTimestamp(deal.CreatedAt)
	if !ok {
		return 0, false
	}
	elapsed := e.now().Sub(created)
	if elapsed < 0 {
		return 0, false
	}
	return int(elapsed.Hours() / 24), true
}

// timestampLayouts lists the formats external records have been seen to use.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
