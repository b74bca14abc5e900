package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stageflow_backend/internal/analytics/pool"
	dealdomain "stageflow_backend/internal/deals/domain"
	pipedomain "stageflow_backend/internal/pipeline/domain"
	"stageflow_backend/internal/scoring"
	"stageflow_backend/platform/apperr"
	"stageflow_backend/platform/logger"
)

type fakeRepo struct {
	deals []*dealdomain.Deal
	err   error
}

func (f *fakeRepo) List(ctx context.Context, orgID string) ([]*dealdomain.Deal, error) {
	return f.deals, f.err
}

func (f *fakeRepo) Get(ctx context.Context, orgID, dealID string) (*dealdomain.Deal, error) {
	return nil, apperr.NotFound("deal not found")
}

func (f *fakeRepo) Upsert(ctx context.Context, deal *dealdomain.Deal) error { return nil }

func (f *fakeRepo) UpdateStage(ctx context.Context, orgID, dealID, stage, status string) error {
	return nil
}

func (f *fakeRepo) UpdateConfidence(ctx context.Context, orgID, dealID string, confidence float64) error {
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, orgID, dealID string) error { return nil }

func (f *fakeRepo) ActiveTemplate(ctx context.Context, orgID string) (string, error) {
	return "default", nil
}

func (f *fakeRepo) SetActiveTemplate(ctx context.Context, orgID, templateID string) error {
	return nil
}

type fakeTemplates struct {
	stages []string
}

func (f *fakeTemplates) ActiveTemplateID(ctx context.Context, organizationID string) (string, error) {
	return "default", nil
}

func (f *fakeTemplates) TemplateStages(templateID string) ([]string, error) {
	return f.stages, nil
}

func newTestService(repo *fakeRepo, stages []string) *Service {
	engine := scoring.NewEngine(pipedomain.NewStageConfig())
	return New(repo, &fakeTemplates{stages: stages}, engine, 2, logger.New("development"))
}

func floatptr(v float64) *float64 { return &v }
func strptr(s string) *string     { return &s }

func sampleDeals() []*dealdomain.Deal {
	owner := strptr("rep-1")
	recent := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	return []*dealdomain.Deal{
		{ID: "d1", OrganizationID: "org-1", Client: "Acme", Stage: "lead", Status: dealdomain.StatusActive,
			Value: floatptr(12000), AssignedTo: owner, CreatedAt: recent, UpdatedAt: recent},
		{ID: "d2", OrganizationID: "org-1", Client: "Globex", Stage: "old_stage", Status: dealdomain.StatusActive,
			CreatedAt: recent, UpdatedAt: recent},
		{ID: "d3", OrganizationID: "org-1", Client: "Initech", Stage: "closed_won", Status: dealdomain.StatusWon,
			Value: floatptr(60000), AssignedTo: owner, CreatedAt: recent, UpdatedAt: recent},
	}
}

func TestBatchRunsAllComputations(t *testing.T) {
	repo := &fakeRepo{deals: sampleDeals()}
	svc := newTestService(repo, []string{"lead", "qualified", "closed_won", "closed_lost"})
	defer svc.Close()

	result, err := svc.Batch(context.Background(), "org-1")
	if err != nil {
		t.Fatal(err)
	}

	if result.Analytics.TotalDeals != 3 || result.Analytics.WonDeals != 1 {
		t.Errorf("analytics = %+v", result.Analytics)
	}
	if result.Health.TotalDeals != 3 || result.Health.OrphanedDeals != 1 {
		t.Errorf("health = %+v", result.Health)
	}
	if len(result.Health.OrphanedStages) != 1 || result.Health.OrphanedStages[0] != "old_stage" {
		t.Errorf("orphaned stages = %v", result.Health.OrphanedStages)
	}
	if len(result.Confidence) != 3 {
		t.Errorf("confidence scores = %v", result.Confidence)
	}
	if result.Confidence["d3"] != 100 {
		t.Errorf("won deal confidence = %d, want 100", result.Confidence["d3"])
	}

	// d2 has no value and no owner, so it must show up at risk.
	found := false
	for _, report := range result.Risks {
		if report.DealID == "d2" {
			found = true
		}
	}
	if !found {
		t.Errorf("risks = %+v, want report for d2", result.Risks)
	}
}

func TestRisksExcludesClosedDeals(t *testing.T) {
	repo := &fakeRepo{deals: sampleDeals()}
	svc := newTestService(repo, []string{"lead", "closed_won"})
	defer svc.Close()

	risks, err := svc.Risks(context.Background(), "org-1")
	if err != nil {
		t.Fatal(err)
	}
	for _, report := range risks {
		if report.DealID == "d3" {
			t.Errorf("closed deal d3 reported at risk: %+v", report)
		}
	}
}

func TestHealthEmptyOrganization(t *testing.T) {
	svc := newTestService(&fakeRepo{}, []string{"lead"})
	defer svc.Close()

	health, err := svc.Health(context.Background(), "org-1")
	if err != nil {
		t.Fatal(err)
	}
	if health.HealthPercentage != 100 {
		t.Errorf("empty org health = %v, want 100", health.HealthPercentage)
	}
}

func TestDispatchPropagatesRepositoryError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection reset")}
	svc := newTestService(repo, []string{"lead"})
	defer svc.Close()

	if _, err := svc.Analytics(context.Background(), "org-1"); err == nil {
		t.Fatal("expected repository error")
	}
}

func TestBatchAfterCloseTimesOut(t *testing.T) {
	repo := &fakeRepo{deals: sampleDeals()}
	svc := newTestService(repo, []string{"lead"})
	svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := svc.Batch(ctx, "org-1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestRunRejectsUnknownKind(t *testing.T) {
	svc := newTestService(&fakeRepo{}, []string{"lead"})
	defer svc.Close()

	if _, err := svc.run(context.Background(), pool.Task{Kind: "nonsense", Payload: snapshot{}}); err == nil {
		t.Fatal("expected error for unknown task kind")
	}
	if _, err := svc.run(context.Background(), pool.Task{Kind: TaskDealAnalytics, Payload: "bogus"}); err == nil {
		t.Fatal("expected error for bad payload type")
	}
}
