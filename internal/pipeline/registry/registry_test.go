package registry

import (
	"os"
	"path/filepath"
	"testing"
)

type fakeConfig struct {
	file      string
	defaultID string
}

func (f fakeConfig) GetPipelineTemplatesFile() string { return f.file }
func (f fakeConfig) GetDefaultTemplateID() string     { return f.defaultID }

func TestNewRegistryBuiltins(t *testing.T) {
	r, err := New(fakeConfig{defaultID: "default"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if len(r.Templates()) != 5 {
		t.Errorf("expected 5 built-in templates, got %d", len(r.Templates()))
	}
	if _, ok := r.Template("saas"); !ok {
		t.Error("saas template missing")
	}
	if r.DefaultTemplateID() != "default" {
		t.Errorf("default template id = %q", r.DefaultTemplateID())
	}
}

func TestNewRegistryUnknownDefault(t *testing.T) {
	if _, err := New(fakeConfig{defaultID: "nonexistent"}); err == nil {
		t.Fatal("expected error for unregistered default template")
	}
}

func TestNewRegistryLoadsCustomTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `templates:
  - id: healthcare
    name: Healthcare
    description: Clinic onboarding pipeline
    stages:
      - id: lead
        name: Lead
      - id: credential_check
        name: Credential Check
      - id: closed_won
        name: Closed Won
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := New(fakeConfig{file: path, defaultID: "default"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tpl, ok := r.Template("healthcare")
	if !ok {
		t.Fatal("healthcare template not loaded")
	}
	if len(tpl.Stages) != 3 {
		t.Errorf("healthcare has %d stages", len(tpl.Stages))
	}
}

func TestNewRegistryRejectsInvalidStageID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `templates:
  - id: broken
    name: Broken
    stages:
      - id: Lead
        name: Lead
      - id: done
        name: Done
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(fakeConfig{file: path, defaultID: "default"}); err == nil {
		t.Fatal("expected error for invalid stage id")
	}
}

func TestNewRegistryRejectsShadowingTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `templates:
  - id: saas
    name: Shadow
    stages:
      - id: lead
        name: Lead
      - id: closed_won
        name: Closed Won
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(fakeConfig{file: path, defaultID: "default"}); err == nil {
		t.Fatal("expected error when custom template shadows a built-in")
	}
}
