package domain

import "testing"

func TestMapStageTargetTableWins(t *testing.T) {
	m := NewStageMappings()

	if got := m.MapStage(StageQualified, "saas"); got != "trial" {
		t.Errorf("qualified -> saas = %q, want trial", got)
	}
	if got := m.MapStage("under_contract", "saas"); got != StageNegotiation {
		t.Errorf("under_contract -> saas = %q, want negotiation", got)
	}
}

func TestMapStageFallbackTable(t *testing.T) {
	m := NewStageMappings()

	// No table exists for "default"; the fallback maps template-specific
	// ids back to the core vocabulary.
	if got := m.MapStage("trial", "default"); got != StageQualified {
		t.Errorf("trial -> default = %q, want qualified", got)
	}
	if got := m.MapStage("closing", "default"); got != StageNegotiation {
		t.Errorf("closing -> default = %q, want negotiation", got)
	}
}

func TestMapStageIdentityWhenUnmapped(t *testing.T) {
	m := NewStageMappings()

	if got := m.MapStage("my_custom_stage", "saas"); got != "my_custom_stage" {
		t.Errorf("unmapped stage changed to %q", got)
	}
	if got := m.MapStage(StageLead, "real_estate"); got != StageLead {
		t.Errorf("lead should survive mapping unchanged, got %q", got)
	}
}

func TestMapStageIsAsymmetric(t *testing.T) {
	m := NewStageMappings()

	forward := m.MapStage(StageContacted, "real_estate")
	back := m.MapStage(forward, "default")
	if forward != "showing" {
		t.Fatalf("contacted -> real_estate = %q, want showing", forward)
	}
	// showing maps back to contacted here, but that is table data, not a
	// guaranteed inverse; the relation is many-to-one.
	if back != StageContacted {
		t.Errorf("showing -> default = %q", back)
	}

	// Many-to-one: two distinct sources collapse onto one destination.
	a := m.MapStage("discovery", "ecommerce")
	b := m.MapStage("showing", "ecommerce")
	if a != b || a != StageContacted {
		t.Errorf("expected discovery and showing to collapse to contacted, got %q and %q", a, b)
	}
}
