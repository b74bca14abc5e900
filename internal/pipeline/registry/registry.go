// Package registry assembles the immutable pipeline configuration consumed by
// the rest of the application: stage vocabulary, status classification,
// templates, and translation tables. A Registry is built once at startup and
// injected; nothing mutates it afterwards.
package registry

import (
	"fmt"
	"os"

	"stageflow_backend/internal/pipeline/domain"
	"stageflow_backend/platform/config"

	"gopkg.in/yaml.v3"
)

// Registry is the process-wide pipeline configuration.
type Registry struct {
	stages            *domain.StageConfig
	classification    *domain.StatusClassification
	mappings          *domain.StageMappings
	templates         map[string]domain.Template
	order             []string
	defaultTemplateID string
}

// New builds a Registry from the bundled templates plus any custom templates
// found in the configured YAML file.
func New(cfg config.PipelineConfig) (*Registry, error) {
	r := &Registry{
		stages:            domain.NewStageConfig(),
		classification:    domain.NewStatusClassification(),
		mappings:          domain.NewStageMappings(),
		templates:         make(map[string]domain.Template),
		defaultTemplateID: cfg.GetDefaultTemplateID(),
	}

	for _, tpl := range domain.BuiltinTemplates() {
		r.templates[tpl.ID] = tpl
		r.order = append(r.order, tpl.ID)
	}

	if path := cfg.GetPipelineTemplatesFile(); path != "" {
		custom, err := loadTemplatesFile(path)
		if err != nil {
			return nil, fmt.Errorf("load pipeline templates file: %w", err)
		}
		for _, tpl := range custom {
			if _, exists := r.templates[tpl.ID]; exists {
				return nil, fmt.Errorf("custom template %q shadows a built-in template", tpl.ID)
			}
			r.templates[tpl.ID] = tpl
			r.order = append(r.order, tpl.ID)
		}
	}

	if _, ok := r.templates[r.defaultTemplateID]; !ok {
		return nil, fmt.Errorf("default template %q is not registered", r.defaultTemplateID)
	}

	return r, nil
}

// Template returns the template with the given id.
func (r *Registry) Template(id string) (domain.Template, bool) {
	tpl, ok := r.templates[id]
	return tpl, ok
}

// Templates returns all registered templates in registration order.
func (r *Registry) Templates() []domain.Template {
	out := make([]domain.Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.templates[id])
	}
	return out
}

// MapStage translates a stage id into the target template's vocabulary.
func (r *Registry) MapStage(stageID, targetTemplateID string) string {
	return r.mappings.MapStage(stageID, targetTemplateID)
}

// Stages returns the per-stage scoring configuration.
func (r *Registry) Stages() *domain.StageConfig {
	return r.stages
}

// Classification returns the won/lost stage classification.
func (r *Registry) Classification() *domain.StatusClassification {
	return r.classification
}

// DefaultTemplateID returns the template assigned to organizations that have
// not chosen one.
func (r *Registry) DefaultTemplateID() string {
	return r.defaultTemplateID
}

type templatesFile struct {
	Templates []domain.Template `yaml:"templates"`
}

func loadTemplatesFile(path string) ([]domain.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file templatesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	for _, tpl := range file.Templates {
		if tpl.ID == "" || tpl.Name == "" {
			return nil, fmt.Errorf("template missing id or name")
		}
		if len(tpl.Stages) < 2 {
			return nil, fmt.Errorf("template %q needs at least two stages", tpl.ID)
		}
		seen := make(map[string]struct{}, len(tpl.Stages))
		for _, stage := range tpl.Stages {
			if !domain.ValidStageID(stage.ID) {
				return nil, fmt.Errorf("template %q has invalid stage id %q", tpl.ID, stage.ID)
			}
			if _, dup := seen[stage.ID]; dup {
				return nil, fmt.Errorf("template %q repeats stage id %q", tpl.ID, stage.ID)
			}
			seen[stage.ID] = struct{}{}
		}
	}

	return file.Templates, nil
}
