// Package transport defines response DTOs for the pipeline API.
package transport

import (
	"stageflow_backend/internal/pipeline/domain"
)

// TemplateResponse is a pipeline template with its ordered stages.
type TemplateResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Stages      []domain.StageDescriptor `json:"stages"`
}

// MapStageResponse is the result of one stage translation.
type MapStageResponse struct {
	Stage          string `json:"stage"`
	TargetTemplate string `json:"target_template"`
	MappedStage    string `json:"mapped_stage"`
	ImpliedStatus  string `json:"implied_status"`
}

// ToTemplateResponse maps a domain template.
func ToTemplateResponse(template domain.Template) TemplateResponse {
	return TemplateResponse{
		ID:          template.ID,
		Name:        template.Name,
		Description: template.Description,
		Stages:      template.Stages,
	}
}

// ToTemplateResponses maps a template list.
func ToTemplateResponses(templates []domain.Template) []TemplateResponse {
	responses := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, ToTemplateResponse(template))
	}
	return responses
}
