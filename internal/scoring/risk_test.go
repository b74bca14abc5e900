package scoring

import (
	"testing"

	dealdomain "stageflow_backend/internal/deals/domain"
)

func TestDetectRisksHealthyDeal(t *testing.T) {
	engine := testEngine()
	profiles := map[string]PerformanceProfile{
		"rep-1": {Won: 8, Lost: 2, WinRate: 0.8},
	}
	deal := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1", Client: "Acme",
		Stage:      "negotiation",
		Status:     dealdomain.StatusActive,
		AssignedTo: strptr("rep-1"),
		Value:      floatptr(60000),
		CreatedAt:  daysAgo(2),
	}

	report := engine.DetectRisks(deal, profiles, 0.5)
	if len(report.Risks) != 0 || report.RiskScore != 0 {
		t.Errorf("healthy deal report = %+v", report)
	}
}

func TestDetectRisksNeglectedDeal(t *testing.T) {
	engine := testEngine()
	deal := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1", Client: "Globex",
		Stage:     "lead",
		Status:    dealdomain.StatusActive,
		CreatedAt: daysAgo(30),
	}

	report := engine.DetectRisks(deal, nil, 0.5)

	found := map[string]string{}
	for _, risk := range report.Risks {
		found[risk.Type] = risk.Severity
	}
	// 23 days over a 7-day threshold, more than the threshold itself.
	if found[RiskStagnation] != SeverityHigh {
		t.Errorf("stagnation severity = %q, want high", found[RiskStagnation])
	}
	// 15 - 10 - 30 clamps to 0.
	if found[RiskLowConfidence] != SeverityHigh {
		t.Errorf("low confidence severity = %q, want high", found[RiskLowConfidence])
	}
	if _, ok := found[RiskMissingValue]; !ok {
		t.Error("missing value risk not reported")
	}
	if _, ok := found[RiskUnassigned]; !ok {
		t.Error("unassigned risk not reported")
	}
	if report.RiskScore != 70 {
		t.Errorf("risk score = %d, want 70", report.RiskScore)
	}
}

func TestDetectRisksStaleUpdate(t *testing.T) {
	engine := testEngine()
	profiles := map[string]PerformanceProfile{
		"rep-1": {Won: 8, Lost: 2, WinRate: 0.8},
	}
	// No creation date, so the stagnation gate skips; only the stale
	// update should be flagged.
	deal := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1", Client: "Acme",
		Stage:      "negotiation",
		Status:     dealdomain.StatusActive,
		AssignedTo: strptr("rep-1"),
		Value:      floatptr(60000),
		UpdatedAt:  daysAgo(45),
	}

	report := engine.DetectRisks(deal, profiles, 0.5)
	if len(report.Risks) != 1 || report.Risks[0].Type != RiskStaleUpdate {
		t.Fatalf("risks = %+v, want single stale update", report.Risks)
	}
	if report.Risks[0].Severity != SeverityLow || report.RiskScore != 5 {
		t.Errorf("report = %+v", report)
	}
}

func TestAtRiskDealsFiltersAndSorts(t *testing.T) {
	engine := testEngine()
	profiles := map[string]PerformanceProfile{
		"rep-1": {Won: 8, Lost: 2, WinRate: 0.8},
	}

	deals := []*dealdomain.Deal{
		{ID: "healthy", OrganizationID: "o1", Stage: "negotiation", Status: dealdomain.StatusActive, AssignedTo: strptr("rep-1"), Value: floatptr(60000), CreatedAt: daysAgo(2)},
		{ID: "closed", OrganizationID: "o1", Stage: "closed_lost", Status: dealdomain.StatusLost, CreatedAt: daysAgo(400)},
		{ID: "mild", OrganizationID: "o1", Stage: "negotiation", Status: dealdomain.StatusActive, AssignedTo: strptr("rep-1"), CreatedAt: daysAgo(2)},
		{ID: "severe", OrganizationID: "o1", Stage: "lead", Status: dealdomain.StatusActive, CreatedAt: daysAgo(30)},
	}

	reports := engine.AtRiskDeals(deals, profiles, 0.5)
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].DealID != "severe" || reports[1].DealID != "mild" {
		t.Errorf("report order = %s, %s", reports[0].DealID, reports[1].DealID)
	}
}

func TestAggregate(t *testing.T) {
	deals := []*dealdomain.Deal{
		{ID: "d1", OrganizationID: "o1", Stage: "lead", Status: dealdomain.StatusActive, Value: floatptr(1000)},
		{ID: "d2", OrganizationID: "o1", Stage: "proposal", Status: dealdomain.StatusActive, Value: floatptr(5000), Confidence: floatptr(60)},
		{ID: "d3", OrganizationID: "o1", Stage: "closed_won", Status: dealdomain.StatusWon, Value: floatptr(12000)},
		{ID: "d4", OrganizationID: "o1", Stage: "closed_lost", Status: dealdomain.StatusLost},
		nil,
	}

	got := Aggregate(deals)

	if got.TotalDeals != 4 || got.ActiveDeals != 2 || got.WonDeals != 1 || got.LostDeals != 1 {
		t.Errorf("counts = %+v", got)
	}
	if got.OpenValue != 6000 || got.WonValue != 12000 {
		t.Errorf("values = open %.0f won %.0f", got.OpenValue, got.WonValue)
	}
	if got.WeightedForecast != 3000 {
		t.Errorf("weighted forecast = %.0f, want 3000", got.WeightedForecast)
	}
	if got.AvgDealValue != 6000 {
		t.Errorf("avg deal value = %.0f, want 6000", got.AvgDealValue)
	}
	if got.WinRate != 0.5 {
		t.Errorf("win rate = %v, want 0.5", got.WinRate)
	}
	if got.DealsByStage["lead"] != 1 || got.ValueByStage["proposal"] != 5000 {
		t.Errorf("stage breakdown = %+v / %+v", got.DealsByStage, got.ValueByStage)
	}
}
