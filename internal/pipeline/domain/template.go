package domain

// StageDescriptor describes one stage within a pipeline template as the
// dashboard renders it.
type StageDescriptor struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color" yaml:"color"`
}

// Template is a named, ordered set of stages representing one industry's
// workflow. Templates are immutable, process-wide configuration, never
// per-deal state.
type Template struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Stages      []StageDescriptor `json:"stages" yaml:"stages"`
}

// StageIDs returns the ordered stage identifiers of the template.
func (t Template) StageIDs() []string {
	ids := make([]string, len(t.Stages))
	for i, stage := range t.Stages {
		ids[i] = stage.ID
	}
	return ids
}

// HasStage reports whether the template contains the given stage id.
func (t Template) HasStage(stageID string) bool {
	for _, stage := range t.Stages {
		if stage.ID == stageID {
			return true
		}
	}
	return false
}

// BuiltinTemplates returns the bundled industry templates in display order.
func BuiltinTemplates() []Template {
	return []Template{
		{
			ID:          "default",
			Name:        "General Sales",
			Description: "A generic pipeline suitable for most sales teams",
			Stages: []StageDescriptor{
				{ID: StageLead, Name: "Lead", Icon: "user-plus", Color: "#64748b"},
				{ID: StageContacted, Name: "Contacted", Icon: "phone", Color: "#0ea5e9"},
				{ID: StageQualified, Name: "Qualified", Icon: "check-circle", Color: "#8b5cf6"},
				{ID: StageProposal, Name: "Proposal Sent", Icon: "file-text", Color: "#f59e0b"},
				{ID: StageNegotiation, Name: "Negotiation", Icon: "scale", Color: "#f97316"},
				{ID: StageClosedWon, Name: "Closed Won", Icon: "trophy", Color: "#22c55e"},
				{ID: StageClosedLost, Name: "Closed Lost", Icon: "x-circle", Color: "#ef4444"},
			},
		},
		{
			ID:          "saas",
			Name:        "SaaS Sales",
			Description: "Product-led pipeline with demo and trial stages",
			Stages: []StageDescriptor{
				{ID: StageLead, Name: "Lead", Icon: "user-plus", Color: "#64748b"},
				{ID: "demo_scheduled", Name: "Demo Scheduled", Icon: "monitor", Color: "#0ea5e9"},
				{ID: "trial", Name: "Trial", Icon: "flask", Color: "#8b5cf6"},
				{ID: StageProposal, Name: "Proposal Sent", Icon: "file-text", Color: "#f59e0b"},
				{ID: StageNegotiation, Name: "Negotiation", Icon: "scale", Color: "#f97316"},
				{ID: StageClosedWon, Name: "Closed Won", Icon: "trophy", Color: "#22c55e"},
				{ID: StageClosedLost, Name: "Closed Lost", Icon: "x-circle", Color: "#ef4444"},
			},
		},
		{
			ID:          "real_estate",
			Name:        "Real Estate",
			Description: "Property sales pipeline from showing through closing",
			Stages: []StageDescriptor{
				{ID: StageLead, Name: "Lead", Icon: "user-plus", Color: "#64748b"},
				{ID: "showing", Name: "Showing", Icon: "home", Color: "#0ea5e9"},
				{ID: "offer_made", Name: "Offer Made", Icon: "file-text", Color: "#8b5cf6"},
				{ID: "under_contract", Name: "Under Contract", Icon: "pen-tool", Color: "#f59e0b"},
				{ID: "closing", Name: "Closing", Icon: "key", Color: "#f97316"},
				{ID: StageClosedWon, Name: "Closed Won", Icon: "trophy", Color: "#22c55e"},
				{ID: StageClosedLost, Name: "Closed Lost", Icon: "x-circle", Color: "#ef4444"},
			},
		},
		{
			ID:          "consulting",
			Name:        "Consulting",
			Description: "Services pipeline built around discovery and scoping",
			Stages: []StageDescriptor{
				{ID: StageLead, Name: "Lead", Icon: "user-plus", Color: "#64748b"},
				{ID: "discovery", Name: "Discovery Call", Icon: "search", Color: "#0ea5e9"},
				{ID: "scoping", Name: "Scoping", Icon: "clipboard", Color: "#8b5cf6"},
				{ID: StageProposal, Name: "Proposal Sent", Icon: "file-text", Color: "#f59e0b"},
				{ID: "contract_review", Name: "Contract Review", Icon: "pen-tool", Color: "#f97316"},
				{ID: StageClosedWon, Name: "Closed Won", Icon: "trophy", Color: "#22c55e"},
				{ID: StageClosedLost, Name: "Closed Lost", Icon: "x-circle", Color: "#ef4444"},
			},
		},
		{
			ID:          "ecommerce",
			Name:        "Wholesale & E-commerce",
			Description: "Order-driven pipeline with sampling and quoting",
			Stages: []StageDescriptor{
				{ID: StageLead, Name: "Lead", Icon: "user-plus", Color: "#64748b"},
				{ID: StageContacted, Name: "Contacted", Icon: "phone", Color: "#0ea5e9"},
				{ID: "sample_sent", Name: "Sample Sent", Icon: "package", Color: "#8b5cf6"},
				{ID: "quote_sent", Name: "Quote Sent", Icon: "file-text", Color: "#f59e0b"},
				{ID: StageNegotiation, Name: "Negotiation", Icon: "scale", Color: "#f97316"},
				{ID: StageClosedWon, Name: "Closed Won", Icon: "trophy", Color: "#22c55e"},
				{ID: StageClosedLost, Name: "Closed Lost", Icon: "x-circle", Color: "#ef4444"},
			},
		},
	}
}
