package domain

import "testing"

func strptr(s string) *string { return &s }

func TestValidateOutcomeLostWithoutReason(t *testing.T) {
	deal := &Deal{ID: "d1", OrganizationID: "o1", Status: StatusLost}
	if got := ValidateOutcome(deal); len(got) == 0 {
		t.Fatal("expected a violation for lost deal without reason")
	}
}

func TestValidateOutcomeLostOtherNeedsNotes(t *testing.T) {
	deal := &Deal{
		ID:             "d1",
		OrganizationID: "o1",
		Status:         StatusLost,
		LostReason:     strptr("other"),
	}
	if got := ValidateOutcome(deal); len(got) == 0 {
		t.Fatal(`expected a violation for "other" without notes`)
	}

	deal.LostReasonNotes = strptr("went dark after the pilot")
	if got := ValidateOutcome(deal); len(got) != 0 {
		t.Fatalf("fully populated lost deal flagged: %v", got)
	}
}

func TestValidateOutcomeUnifiedFieldsAccepted(t *testing.T) {
	deal := &Deal{
		ID:                    "d1",
		OrganizationID:        "o1",
		Status:                StatusLost,
		OutcomeReasonCategory: strptr("competitor"),
	}
	if got := ValidateOutcome(deal); len(got) != 0 {
		t.Fatalf("unified outcome reason rejected: %v", got)
	}
}

func TestValidateOutcomeDisqualified(t *testing.T) {
	deal := &Deal{ID: "d1", OrganizationID: "o1", Status: StatusDisqualified}
	if got := ValidateOutcome(deal); len(got) == 0 {
		t.Fatal("expected a violation for disqualified deal without reason")
	}

	deal.DisqualifiedReasonCategory = strptr("not_a_fit")
	if got := ValidateOutcome(deal); len(got) != 0 {
		t.Fatalf("disqualified deal with reason flagged: %v", got)
	}
}

func TestValidateOutcomeActiveMustBeClean(t *testing.T) {
	deal := &Deal{
		ID:             "d1",
		OrganizationID: "o1",
		Status:         StatusActive,
		LostReason:     strptr("price"),
	}
	if got := ValidateOutcome(deal); len(got) == 0 {
		t.Fatal("expected a violation for active deal carrying outcome data")
	}

	won := &Deal{ID: "d1", OrganizationID: "o1", Status: StatusWon, OutcomeNotes: strptr("notes")}
	if got := ValidateOutcome(won); len(got) == 0 {
		t.Fatal("expected a violation for won deal carrying outcome data")
	}
}

func TestClearOutcomeFields(t *testing.T) {
	deal := &Deal{
		ID:                         "d1",
		OrganizationID:             "o1",
		Status:                     StatusLost,
		LostReason:                 strptr("price"),
		LostReasonNotes:            strptr("too expensive"),
		DisqualifiedReasonCategory: strptr("spam"),
		DisqualifiedReasonNotes:    strptr("n"),
		OutcomeReasonCategory:      strptr("price"),
		OutcomeNotes:               strptr("n"),
	}

	cleared := ClearOutcomeFields(deal)
	if hasOutcomeData(cleared) {
		t.Error("outcome data survived ClearOutcomeFields")
	}
	if deal.LostReason == nil {
		t.Error("ClearOutcomeFields mutated its input")
	}
}
