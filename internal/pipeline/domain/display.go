package domain

import (
	"strings"
	"unicode"
)

// maxFallbackLabelLength bounds free-text notes reused as display labels.
const maxFallbackLabelLength = 60

var stageDisplayNames = map[string]string{
	StageLead:         "Lead",
	StageContacted:    "Contacted",
	StageQualified:    "Qualified",
	StageProposal:     "Proposal Sent",
	StageNegotiation:  "Negotiation",
	StageClosedWon:    "Closed Won",
	StageClosedLost:   "Closed Lost",
	"demo_scheduled":  "Demo Scheduled",
	"trial":           "Trial",
	"showing":         "Showing",
	"offer_made":      "Offer Made",
	"under_contract":  "Under Contract",
	"closing":         "Closing",
	"discovery":       "Discovery Call",
	"scoping":         "Scoping",
	"contract_review": "Contract Review",
	"sample_sent":     "Sample Sent",
	"quote_sent":      "Quote Sent",
}

var lostReasonLabels = map[string]string{
	"price":        "Price",
	"competitor":   "Lost to Competitor",
	"timing":       "Bad Timing",
	"no_budget":    "No Budget",
	"unresponsive": "Went Unresponsive",
	"other":        "Other",
}

var disqualifiedReasonLabels = map[string]string{
	"not_a_fit":    "Not a Fit",
	"no_authority": "No Buying Authority",
	"duplicate":    "Duplicate Record",
	"spam":         "Spam",
	"other":        "Other",
}

// StageDisplayName returns the human label for a stage id. Custom stages that
// are absent from the curated table get a derived label so the raw internal
// identifier is never shown.
func StageDisplayName(stageID string) string {
	if name, ok := stageDisplayNames[stageID]; ok {
		return name
	}
	return titleize(stageID)
}

// LostReasonLabel returns the display label for a lost reason. Legacy records
// carry free text embedded after the reason key ("other: ran out of budget");
// the embedded text wins when present. Unknown reasons fall back to a
// truncated titleized form.
func LostReasonLabel(reason string) string {
	return reasonLabel(reason, lostReasonLabels)
}

// DisqualifiedReasonLabel returns the display label for a disqualification reason.
func DisqualifiedReasonLabel(reason string) string {
	return reasonLabel(reason, disqualifiedReasonLabels)
}

// OutcomeNotesLabel prepares free-text outcome notes for use as a fallback
// label, truncating long notes with an ellipsis.
func OutcomeNotesLabel(notes string) string {
	return truncateLabel(strings.TrimSpace(notes))
}

func reasonLabel(reason string, table map[string]string) string {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return ""
	}

	// Legacy format: "key: free text suffix".
	if key, suffix, found := strings.Cut(trimmed, ":"); found {
		if _, known := table[strings.TrimSpace(key)]; known {
			if text := strings.TrimSpace(suffix); text != "" {
				return truncateLabel(text)
			}
		}
	}

	if label, ok := table[trimmed]; ok {
		return label
	}
	return truncateLabel(titleize(trimmed))
}

func truncateLabel(text string) string {
	runes := []rune(text)
	if len(runes) <= maxFallbackLabelLength {
		return text
	}
	return string(runes[:maxFallbackLabelLength]) + "…"
}

// titleize derives a human label from an identifier by splitting on word
// separators and capitalizing each segment.
func titleize(id string) string {
	segments := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, segment := range segments {
		runes := []rune(segment)
		runes[0] = unicode.ToUpper(runes[0])
		segments[i] = string(runes)
	}
	return strings.Join(segments, " ")
}
