package scoring

import (
	"fmt"
	"sort"

	dealdomain "stageflow_backend/internal/deals/domain"
)

// Risk severities, ordered by weight.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Risk types.
const (
	RiskStagnation    = "stagnation"
	RiskLowConfidence = "low_confidence"
	RiskMissingValue  = "missing_value"
	RiskUnassigned    = "unassigned"
	RiskStaleUpdate   = "stale_update"
)

// staleUpdateDays is how long a deal may go without any recorded update
// before it is flagged.
const staleUpdateDays = 30

var severityWeights = map[string]int{
	SeverityHigh:   30,
	SeverityMedium: 15,
	SeverityLow:    5,
}

// Risk is a single detected problem on a deal.
type Risk struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// RiskReport lists every risk found on one deal plus a composite score.
type RiskReport struct {
	DealID    string `json:"dealId"`
	DealName  string `json:"dealName"`
	Risks     []Risk `json:"risks"`
	RiskScore int    `json:"riskScore"`
}

// DetectRisks inspects a single active deal and returns its risk report.
// The report has an empty risk list for healthy deals.
func (e *Engine) DetectRisks(deal *dealdomain.Deal, profiles map[string]PerformanceProfile, globalWinRate float64) RiskReport {
	report := RiskReport{DealID: deal.ID, DealName: deal.Client}

	if stagnation := e.CheckStagnation(deal); stagnation.IsStagnant {
		severity := SeverityMedium
		if stagnation.DaysOver > stagnation.Threshold {
			severity = SeverityHigh
		}
		report.Risks = append(report.Risks, Risk{
			Type:     RiskStagnation,
			Severity: severity,
			Message:  fmt.Sprintf("deal has been in stage %q for %d days, %d past the %d-day threshold", deal.Stage, stagnation.DealAge, stagnation.DaysOver, stagnation.Threshold),
		})
	}

	confidence := e.DealConfidence(deal, profiles, globalWinRate)
	if confidence < 30 {
		severity := SeverityMedium
		if confidence < 15 {
			severity = SeverityHigh
		}
		report.Risks = append(report.Risks, Risk{
			Type:     RiskLowConfidence,
			Severity: severity,
			Message:  fmt.Sprintf("confidence score is %d", confidence),
		})
	}

	if deal.Value == nil || *deal.Value == 0 {
		report.Risks = append(report.Risks, Risk{
			Type:     RiskMissingValue,
			Severity: SeverityLow,
			Message:  "deal has no value recorded",
		})
	}

	if deal.AssignedTo == nil || *deal.AssignedTo == "" {
		report.Risks = append(report.Risks, Risk{
			Type:     RiskUnassigned,
			Severity: SeverityLow,
			Message:  "deal has no owner",
		})
	}

	if updatedAt, ok := parseTimestamp(deal.UpdatedAt); ok {
		if days := int(e.now().Sub(updatedAt).Hours() / 24); days > staleUpdateDays {
			report.Risks = append(report.Risks, Risk{
				Type:     RiskStaleUpdate,
				Severity: SeverityLow,
				Message:  fmt.Sprintf("deal has not been updated in %d days", days),
			})
		}
	}

	for _, risk := range report.Risks {
		report.RiskScore += severityWeights[risk.Severity]
	}
	if report.RiskScore > 100 {
		report.RiskScore = 100
	}
	return report
}

// AtRiskDeals scans the active deals in the set and returns the reports that
// carry at least one risk, highest risk score first.
func (e *Engine) AtRiskDeals(deals []*dealdomain.Deal, profiles map[string]PerformanceProfile, globalWinRate float64) []RiskReport {
	var reports []RiskReport
	for _, deal := range deals {
		if deal == nil || deal.Status != dealdomain.StatusActive {
			continue
		}
		if report := e.DetectRisks(deal, profiles, globalWinRate); len(report.Risks) > 0 {
			reports = append(reports, report)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].RiskScore > reports[j].RiskScore
	})
	return reports
}
