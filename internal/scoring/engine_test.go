package scoring

import (
	"testing"
	"time"

	dealdomain "stageflow_backend/internal/deals/domain"
	pipedomain "stageflow_backend/internal/pipeline/domain"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	engine := NewEngine(pipedomain.NewStageConfig())
	engine.now = func() time.Time { return testNow }
	return engine
}

func daysAgo(days int) string {
	return testNow.AddDate(0, 0, -days).Format(time.RFC3339)
}

func floatptr(f float64) *float64 { return &f }
func strptr(s string) *string     { return &s }

func TestDealConfidenceTerminalShortCircuit(t *testing.T) {
	engine := testEngine()

	lost := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1",
		Stage:     "negotiation",
		Status:    dealdomain.StatusLost,
		Value:     floatptr(900000),
		CreatedAt: daysAgo(400),
	}
	if got := engine.DealConfidence(lost, nil, 0.9); got != 0 {
		t.Errorf("lost deal scored %d, want exactly 0", got)
	}

	won := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1",
		Stage:     "lead",
		Status:    dealdomain.StatusWon,
		CreatedAt: "garbage",
	}
	if got := engine.DealConfidence(won, nil, 0); got != 100 {
		t.Errorf("won deal scored %d, want exactly 100", got)
	}
}

func TestDealConfidenceNewLeadWithUnprovenOwner(t *testing.T) {
	// lead base 15, zero closed deals -10, 3 days over the 7-day
	// threshold -6, raw -1, clamped to 0.
	engine := testEngine()

	profiles := map[string]PerformanceProfile{
		"rep-1": {Total: 2},
	}
	deal := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1",
		Stage:      pipedomain.StageLead,
		Status:     dealdomain.StatusActive,
		AssignedTo: strptr("rep-1"),
		CreatedAt:  daysAgo(10),
	}

	if got := engine.DealConfidence(deal, profiles, 0.5); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}

func TestDealConfidenceOwnerBrackets(t *testing.T) {
	engine := testEngine()

	base := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1",
		Stage:      "qualified",
		Status:     dealdomain.StatusActive,
		AssignedTo: strptr("rep-1"),
		CreatedAt:  daysAgo(1),
	}

	cases := []struct {
		name    string
		profile PerformanceProfile
		want    int
	}{
		{"top closer", PerformanceProfile{Won: 8, Lost: 2, WinRate: 0.8}, 55},
		{"solid closer", PerformanceProfile{Won: 2, Lost: 1, WinRate: 2.0 / 3.0}, 50},
		{"occasional closer", PerformanceProfile{Won: 1, Lost: 1, WinRate: 0.5}, 45},
		{"never closed", PerformanceProfile{Total: 4}, 30},
		{"weak closer", PerformanceProfile{Won: 1, Lost: 9, WinRate: 0.1}, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profiles := map[string]PerformanceProfile{"rep-1": tc.profile}
			if got := engine.DealConfidence(base, profiles, 0.5); got != tc.want {
				t.Errorf("score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDealConfidenceSkipsPenaltyOnBadDates(t *testing.T) {
	engine := testEngine()
	profiles := map[string]PerformanceProfile{
		"rep-1": {Won: 1, Lost: 1, WinRate: 0.5},
	}

	for _, createdAt := range []string{"", "not-a-date", daysAgo(-5)} {
		deal := &dealdomain.Deal{
			ID: "d1", OrganizationID: "o1",
			Stage:      "proposal",
			Status:     dealdomain.StatusActive,
			AssignedTo: strptr("rep-1"),
			CreatedAt:  createdAt,
		}
		// proposal base 60 plus occasional-closer +5, no age penalty.
		if got := engine.DealConfidence(deal, profiles, 0.5); got != 65 {
			t.Errorf("createdAt %q: score = %d, want 65", createdAt, got)
		}
	}
}

func TestDealConfidencePenaltiesDoNotStack(t *testing.T) {
	// 100 days in lead triggers all three candidate penalties: linear
	// capped at 30, double-threshold 15, flat age 10. Only the max
	// applies.
	engine := testEngine()
	profiles := map[string]PerformanceProfile{
		"rep-1": {Won: 8, Lost: 2, WinRate: 0.8},
	}
	deal := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1",
		Stage:      "qualified",
		Status:     dealdomain.StatusActive,
		AssignedTo: strptr("rep-1"),
		CreatedAt:  daysAgo(100),
	}

	// 40 + 15 - 30 = 25. Stacked penalties would give 0.
	if got := engine.DealConfidence(deal, profiles, 0.5); got != 25 {
		t.Errorf("score = %d, want 25", got)
	}
}

func TestDealConfidenceValueBonus(t *testing.T) {
	engine := testEngine()
	profiles := map[string]PerformanceProfile{
		"rep-1": {Won: 1, Lost: 1, WinRate: 0.5},
	}

	cases := []struct {
		value float64
		want  int
	}{
		{5000, 45},
		{10000, 45},
		{10001, 48},
		{50000, 48},
		{50001, 50},
	}
	for _, tc := range cases {
		deal := &dealdomain.Deal{
			ID: "d1", OrganizationID: "o1",
			Stage:      "qualified",
			Status:     dealdomain.StatusActive,
			AssignedTo: strptr("rep-1"),
			Value:      floatptr(tc.value),
			CreatedAt:  daysAgo(1),
		}
		if got := engine.DealConfidence(deal, profiles, 0.5); got != tc.want {
			t.Errorf("value %.0f: score = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestDealConfidenceRange(t *testing.T) {
	engine := testEngine()
	profiles := map[string]PerformanceProfile{
		"rep-1": {Won: 20, WinRate: 1.0},
	}
	deal := &dealdomain.Deal{
		ID: "d1", OrganizationID: "o1",
		Stage:      "negotiation",
		Status:     dealdomain.StatusActive,
		AssignedTo: strptr("rep-1"),
		Value:      floatptr(1000000),
		CreatedAt:  daysAgo(1),
	}
	// 75 + 15 + 5 = 95, inside the range without clamping.
	if got := engine.DealConfidence(deal, profiles, 0.5); got != 95 {
		t.Errorf("score = %d, want 95", got)
	}

	deal.Stage = "closed_won_custom" // unknown stage, base 30
	if got := engine.DealConfidence(deal, profiles, 0.5); got != 50 {
		t.Errorf("unknown stage score = %d, want 50", got)
	}
}

func TestCheckStagnation(t *testing.T) {
	engine := testEngine()

	fresh := &dealdomain.Deal{ID: "d1", OrganizationID: "o1", Stage: "lead", CreatedAt: daysAgo(5)}
	if report := engine.CheckStagnation(fresh); report.IsStagnant || report.DaysOver != 0 || report.DealAge != 5 {
		t.Errorf("fresh deal report = %+v", report)
	}

	stale := &dealdomain.Deal{ID: "d1", OrganizationID: "o1", Stage: "lead", CreatedAt: daysAgo(10)}
	report := engine.CheckStagnation(stale)
	if !report.IsStagnant || report.DaysOver != 3 || report.Threshold != 7 || report.DealAge != 10 {
		t.Errorf("stale deal report = %+v", report)
	}
}

func TestCheckStagnationDefensiveOnBadDates(t *testing.T) {
	engine := testEngine()

	for _, createdAt := range []string{"", "tomorrow", daysAgo(-1)} {
		deal := &dealdomain.Deal{ID: "d1", OrganizationID: "o1", Stage: "lead", CreatedAt: createdAt}
		if report := engine.CheckStagnation(deal); report != (StagnationReport{}) {
			t.Errorf("createdAt %q: report = %+v, want zeroed", createdAt, report)
		}
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	for _, value := range []string{
		"2026-07-01T10:00:00Z",
		"2026-07-01T10:00:00.123456Z",
		"2026-07-01 10:00:00",
		"2026-07-01",
	} {
		if _, ok := parseTimestamp(value); !ok {
			t.Errorf("parseTimestamp(%q) failed", value)
		}
	}
	if _, ok := parseTimestamp("01/07/2026"); ok {
		t.Error("ambiguous slash date accepted")
	}
}
