// Package transport defines request and response DTOs for the recovery API.
package transport

// RecoverRequest triggers an orphan recovery run.
type RecoverRequest struct {
	DryRun bool `json:"dry_run"`
}

// MigrateRequest switches an organization to a new pipeline template.
type MigrateRequest struct {
	ToTemplate string `json:"to_template" validate:"required,min=1,max=50"`
	DryRun     bool   `json:"dry_run"`
}

// StageChange describes one deal's stage move.
type StageChange struct {
	DealID   string `json:"dealId"`
	Client   string `json:"client"`
	OldStage string `json:"oldStage"`
	NewStage string `json:"newStage"`
}

// RecoveryResult summarizes an orphan recovery run.
type RecoveryResult struct {
	Fixed   int           `json:"fixed"`
	Skipped int           `json:"skipped"`
	Errors  int           `json:"errors"`
	Changes []StageChange `json:"changes"`
	DryRun  bool          `json:"dryRun"`
}

// HealthReport is the pipeline health snapshot for an organization.
type HealthReport struct {
	TotalDeals       int      `json:"totalDeals"`
	ValidDeals       int      `json:"validDeals"`
	OrphanedDeals    int      `json:"orphanedDeals"`
	HealthPercentage float64  `json:"healthPercentage"`
	OrphanedStages   []string `json:"orphanedStages"`
}

// MigrationResult summarizes a pipeline migration.
type MigrationResult struct {
	FromTemplate string        `json:"fromTemplate"`
	ToTemplate   string        `json:"toTemplate"`
	Changed      int           `json:"changed"`
	Skipped      int           `json:"skipped"`
	Errors       int           `json:"errors"`
	Changes      []StageChange `json:"changes"`
	DryRun       bool          `json:"dryRun"`
}

// ActiveTemplateResponse reports the organization's current template.
type ActiveTemplateResponse struct {
	TemplateID string `json:"template_id"`
}
