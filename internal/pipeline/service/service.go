// Package service exposes read operations over the pipeline registry.
package service

import (
	"stageflow_backend/internal/pipeline/domain"
	"stageflow_backend/internal/pipeline/registry"
	"stageflow_backend/platform/apperr"
)

const templateNotFoundMsg = "pipeline template not found"

// Service answers template and stage questions from the immutable registry.
type Service struct {
	reg *registry.Registry
}

// New creates a new pipeline service.
func New(reg *registry.Registry) *Service {
	return &Service{reg: reg}
}

// Templates returns every registered template in registration order.
func (s *Service) Templates() []domain.Template {
	return s.reg.Templates()
}

// Template returns one template by id.
func (s *Service) Template(id string) (domain.Template, error) {
	template, ok := s.reg.Template(id)
	if !ok {
		return domain.Template{}, apperr.NotFound(templateNotFoundMsg)
	}
	return template, nil
}

// MapStage translates a stage id into the target template's vocabulary.
// Never errors: unmapped stages pass through unchanged.
func (s *Service) MapStage(stageID, targetTemplateID string) string {
	return s.reg.MapStage(stageID, targetTemplateID)
}

// StatusForStage classifies a stage's implied status for display.
func (s *Service) StatusForStage(stageID string) string {
	return s.reg.Classification().StatusForStage(stageID)
}

// Stages returns the core stage vocabulary with display metadata.
func (s *Service) Stages() []StageInfo {
	cfg := s.reg.Stages()
	cls := s.reg.Classification()

	stages := cfg.CoreStages()
	infos := make([]StageInfo, 0, len(stages))
	for _, id := range stages {
		infos = append(infos, StageInfo{
			ID:                  id,
			Label:               domain.StageDisplayName(id),
			StagnationThreshold: cfg.StagnationThreshold(id),
			BaseConfidence:      cfg.BaseConfidence(id),
			ImpliedStatus:       cls.StatusForStage(id),
		})
	}
	return infos
}

// StageInfo is one core stage with its scoring parameters.
type StageInfo struct {
	ID                  string `json:"id"`
	Label               string `json:"label"`
	StagnationThreshold int    `json:"stagnation_threshold_days"`
	BaseConfidence      int    `json:"base_confidence"`
	ImpliedStatus       string `json:"implied_status"`
}
