package domain

import (
	"strings"
	"testing"
)

func TestValidStageID(t *testing.T) {
	cases := []struct {
		stage string
		want  bool
	}{
		{"lead", true},
		{"closed_won", true},
		{"stage2", true},
		{"a", true},
		{"", false},
		{"Lead", false},
		{"2stage", false},
		{"_lead", false},
		{"my-stage", false},
		{"has space", false},
		{strings.Repeat("a", 50), true},
		{strings.Repeat("a", 51), false},
	}

	for _, tc := range cases {
		if got := ValidStageID(tc.stage); got != tc.want {
			t.Errorf("ValidStageID(%q) = %v, want %v", tc.stage, got, tc.want)
		}
	}
}

func TestEveryCoreStageIsValidAndCore(t *testing.T) {
	cfg := NewStageConfig()
	for _, stage := range cfg.CoreStages() {
		if !ValidStageID(stage) {
			t.Errorf("core stage %q fails the format rule", stage)
		}
		if !cfg.IsCoreStage(stage) {
			t.Errorf("core stage %q not reported as core", stage)
		}
	}
}

func TestStageConfigDefaults(t *testing.T) {
	cfg := NewStageConfig()

	if got := cfg.StagnationThreshold("custom_stage"); got != DefaultStagnationThresholdDays {
		t.Errorf("unknown stage threshold = %d, want %d", got, DefaultStagnationThresholdDays)
	}
	if got := cfg.BaseConfidence("custom_stage"); got != DefaultBaseConfidence {
		t.Errorf("unknown stage base confidence = %d, want %d", got, DefaultBaseConfidence)
	}
	if got := cfg.StagnationThreshold(StageLead); got != 7 {
		t.Errorf("lead threshold = %d, want 7", got)
	}
	if got := cfg.BaseConfidence(StageLead); got != 15 {
		t.Errorf("lead base confidence = %d, want 15", got)
	}
	// Closed stages have no meaningful threshold; the default applies.
	if got := cfg.StagnationThreshold(StageClosedWon); got != DefaultStagnationThresholdDays {
		t.Errorf("closed_won threshold = %d, want default %d", got, DefaultStagnationThresholdDays)
	}
}

func TestImpliedStatus(t *testing.T) {
	cls := NewStatusClassification()

	if status, ok := cls.ImpliedStatus(StageClosedWon); !ok || status != StatusWon {
		t.Errorf("closed_won implied status = %q, %v", status, ok)
	}
	if status, ok := cls.ImpliedStatus(StageClosedLost); !ok || status != StatusLost {
		t.Errorf("closed_lost implied status = %q, %v", status, ok)
	}
	if _, ok := cls.ImpliedStatus(StageProposal); ok {
		t.Error("proposal should imply no status")
	}

	if got := cls.StatusForStage("negotiation"); got != StatusActive {
		t.Errorf("StatusForStage(negotiation) = %q, want active", got)
	}
	if got := cls.StatusForStage("won"); got != StatusWon {
		t.Errorf("StatusForStage(won) = %q, want won", got)
	}
}
