package domain

// StageMappings holds the hand-authored translation tables between template
// vocabularies. Tables are keyed by destination template id and map a source
// stage id to the semantically closest destination stage id. Relations are
// many-to-one and asymmetric: mapping A to B does not invert to B to A.
type StageMappings struct {
	byTarget map[string]map[string]string
	fallback map[string]string
}

// NewStageMappings builds the bundled translation tables.
func NewStageMappings() *StageMappings {
	return &StageMappings{
		byTarget: map[string]map[string]string{
			"saas": {
				StageContacted:    "demo_scheduled",
				StageQualified:    "trial",
				"showing":         "demo_scheduled",
				"offer_made":      StageProposal,
				"under_contract":  StageNegotiation,
				"closing":         StageNegotiation,
				"discovery":       "demo_scheduled",
				"scoping":         "trial",
				"contract_review": StageNegotiation,
				"sample_sent":     "trial",
				"quote_sent":      StageProposal,
			},
			"real_estate": {
				StageContacted:    "showing",
				"demo_scheduled":  "showing",
				StageQualified:    "offer_made",
				"trial":           "offer_made",
				StageProposal:     "offer_made",
				StageNegotiation:  "under_contract",
				"discovery":       "showing",
				"scoping":         "offer_made",
				"contract_review": "under_contract",
				"sample_sent":     "offer_made",
				"quote_sent":      "offer_made",
			},
			"consulting": {
				StageContacted:   "discovery",
				"demo_scheduled": "discovery",
				StageQualified:   "scoping",
				"trial":          "scoping",
				StageNegotiation: "contract_review",
				"showing":        "discovery",
				"offer_made":     StageProposal,
				"under_contract": "contract_review",
				"closing":        "contract_review",
				"sample_sent":    "scoping",
				"quote_sent":     StageProposal,
			},
			"ecommerce": {
				StageQualified:    "sample_sent",
				"trial":           "sample_sent",
				StageProposal:     "quote_sent",
				"demo_scheduled":  StageContacted,
				"showing":         StageContacted,
				"offer_made":      "quote_sent",
				"under_contract":  StageNegotiation,
				"closing":         StageNegotiation,
				"discovery":       StageContacted,
				"scoping":         "sample_sent",
				"contract_review": StageNegotiation,
			},
		},
		// Used when no table exists for the destination template; maps
		// template-specific ids back to the core vocabulary.
		fallback: map[string]string{
			"demo_scheduled":  StageContacted,
			"trial":           StageQualified,
			"showing":         StageContacted,
			"offer_made":      StageProposal,
			"under_contract":  StageNegotiation,
			"closing":         StageNegotiation,
			"discovery":       StageContacted,
			"scoping":         StageQualified,
			"contract_review": StageNegotiation,
			"sample_sent":     StageQualified,
			"quote_sent":      StageProposal,
		},
	}
}

// MapStage translates a stage id into the target template's vocabulary.
// It consults the target-specific table first, then the fallback table, and
// returns the input unchanged when no entry exists anywhere. It never errors;
// an unknown target template simply means the fallback table applies.
func (m *StageMappings) MapStage(stageID, targetTemplateID string) string {
	if table, ok := m.byTarget[targetTemplateID]; ok {
		if mapped, ok := table[stageID]; ok {
			return mapped
		}
	}
	if mapped, ok := m.fallback[stageID]; ok {
		return mapped
	}
	return stageID
}
