// Package service runs analytics computations on the worker pool. Every
// task receives a complete snapshot of the organization's deals, so tasks
// share no state and a slow computation never blocks an unrelated one.
package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stageflow_backend/internal/analytics/pool"
	dealdomain "stageflow_backend/internal/deals/domain"
	"stageflow_backend/internal/deals/repository"
	"stageflow_backend/internal/scoring"
	"stageflow_backend/platform/logger"
)

// Task kinds understood by the runner.
const (
	TaskDealAnalytics   = "deal_analytics"
	TaskPipelineHealth  = "pipeline_health"
	TaskConfidenceBatch = "confidence_batch"
	TaskRiskDetection   = "risk_detection"
	TaskBatchAnalytics  = "batch_analytics"
)

// TemplateSource resolves an organization's active stage list.
type TemplateSource interface {
	ActiveTemplateID(ctx context.Context, organizationID string) (string, error)
	TemplateStages(templateID string) ([]string, error)
}

// snapshot is the self-contained payload handed to a pool task.
type snapshot struct {
	deals  []*dealdomain.Deal
	stages []string
}

// HealthSnapshot mirrors the recovery health report, computed in-memory
// over a snapshot instead of against the store.
type HealthSnapshot struct {
	TotalDeals       int      `json:"totalDeals"`
	ValidDeals       int      `json:"validDeals"`
	OrphanedDeals    int      `json:"orphanedDeals"`
	HealthPercentage float64  `json:"healthPercentage"`
	OrphanedStages   []string `json:"orphanedStages"`
}

// BatchResult bundles all four computations from one batchAnalytics run.
type BatchResult struct {
	Analytics  scoring.DealAnalytics `json:"analytics"`
	Health     HealthSnapshot        `json:"health"`
	Confidence map[string]int        `json:"confidence"`
	Risks      []scoring.RiskReport  `json:"risks"`
}

// Service dispatches analytics tasks to the worker pool.
type Service struct {
	repo      repository.DealsRepository
	templates TemplateSource
	engine    *scoring.Engine
	workers   *pool.Pool
	log       *logger.Logger
}

// New creates the analytics service and starts its worker pool.
func New(repo repository.DealsRepository, templates TemplateSource, engine *scoring.Engine, poolSize int, log *logger.Logger) *Service {
	s := &Service{
		repo:      repo,
		templates: templates,
		engine:    engine,
		log:       log,
	}
	s.workers = pool.New(poolSize, pool.RunnerFunc(s.run), log)
	return s
}

// Close terminates the worker pool. Queued tasks are abandoned.
func (s *Service) Close() {
	s.workers.Terminate()
}

// Batch runs all four analytics computations inside a single pool task.
func (s *Service) Batch(ctx context.Context, organizationID string) (BatchResult, error) {
	result, err := s.dispatch(ctx, organizationID, TaskBatchAnalytics)
	if err != nil {
		return BatchResult{}, err
	}
	return result.(BatchResult), nil
}

// Analytics aggregates the organization's deal set.
func (s *Service) Analytics(ctx context.Context, organizationID string) (scoring.DealAnalytics, error) {
	result, err := s.dispatch(ctx, organizationID, TaskDealAnalytics)
	if err != nil {
		return scoring.DealAnalytics{}, err
	}
	return result.(scoring.DealAnalytics), nil
}

// Risks returns the at-risk deal reports, highest risk first.
func (s *Service) Risks(ctx context.Context, organizationID string) ([]scoring.RiskReport, error) {
	result, err := s.dispatch(ctx, organizationID, TaskRiskDetection)
	if err != nil {
		return nil, err
	}
	return result.([]scoring.RiskReport), nil
}

// Health computes the pipeline health snapshot.
func (s *Service) Health(ctx context.Context, organizationID string) (HealthSnapshot, error) {
	result, err := s.dispatch(ctx, organizationID, TaskPipelineHealth)
	if err != nil {
		return HealthSnapshot{}, err
	}
	return result.(HealthSnapshot), nil
}

// ConfidenceScores computes the current confidence score per deal.
func (s *Service) ConfidenceScores(ctx context.Context, organizationID string) (map[string]int, error) {
	result, err := s.dispatch(ctx, organizationID, TaskConfidenceBatch)
	if err != nil {
		return nil, err
	}
	return result.(map[string]int), nil
}

// dispatch snapshots the organization and races the pool task against the
// caller's context. The pool has no cancellation of its own.
func (s *Service) dispatch(ctx context.Context, organizationID, kind string) (any, error) {
	snap, err := s.snapshot(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	handle := s.workers.Execute(kind, snap)
	s.log.WithOrg(organizationID).Debug("analytics task queued",
		"task_id", handle.ID.String(),
		"kind", kind,
	)
	return handle.Wait(ctx)
}

func (s *Service) snapshot(ctx context.Context, organizationID string) (snapshot, error) {
	deals, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return snapshot{}, err
	}

	templateID, err := s.templates.ActiveTemplateID(ctx, organizationID)
	if err != nil {
		return snapshot{}, err
	}
	stages, err := s.templates.TemplateStages(templateID)
	if err != nil {
		return snapshot{}, err
	}

	return snapshot{deals: deals, stages: stages}, nil
}

// run executes one pool task. It is the pool's single Runner.
func (s *Service) run(ctx context.Context, task pool.Task) (any, error) {
	snap, ok := task.Payload.(snapshot)
	if !ok {
		return nil, fmt.Errorf("analytics task %s: unexpected payload %T", task.Kind, task.Payload)
	}

	switch task.Kind {
	case TaskDealAnalytics:
		return scoring.Aggregate(snap.deals), nil
	case TaskPipelineHealth:
		return computeHealth(snap), nil
	case TaskConfidenceBatch:
		return s.computeConfidence(snap), nil
	case TaskRiskDetection:
		return s.computeRisks(snap), nil
	case TaskBatchAnalytics:
		return s.computeBatch(ctx, snap)
	default:
		return nil, fmt.Errorf("unknown analytics task kind %q", task.Kind)
	}
}

// computeBatch fans the four computations out inside the single unit
// invocation so a batch costs one pool slot, not four.
func (s *Service) computeBatch(ctx context.Context, snap snapshot) (BatchResult, error) {
	var result BatchResult

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Analytics = scoring.Aggregate(snap.deals)
		return nil
	})
	g.Go(func() error {
		result.Health = computeHealth(snap)
		return nil
	})
	g.Go(func() error {
		result.Confidence = s.computeConfidence(snap)
		return nil
	})
	g.Go(func() error {
		result.Risks = s.computeRisks(snap)
		return nil
	})
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}
	return result, nil
}

func (s *Service) computeConfidence(snap snapshot) map[string]int {
	profiles, globalWinRate := scoring.BuildPerformanceProfiles(snap.deals)
	scores := make(map[string]int, len(snap.deals))
	for _, deal := range snap.deals {
		scores[deal.ID] = s.engine.DealConfidence(deal, profiles, globalWinRate)
	}
	return scores
}

func (s *Service) computeRisks(snap snapshot) []scoring.RiskReport {
	profiles, globalWinRate := scoring.BuildPerformanceProfiles(snap.deals)
	return s.engine.AtRiskDeals(snap.deals, profiles, globalWinRate)
}

func computeHealth(snap snapshot) HealthSnapshot {
	valid := make(map[string]bool, len(snap.stages))
	for _, stage := range snap.stages {
		valid[stage] = true
	}

	health := HealthSnapshot{
		TotalDeals:     len(snap.deals),
		OrphanedStages: []string{},
	}
	seen := map[string]bool{}
	for _, deal := range snap.deals {
		if valid[deal.Stage] {
			health.ValidDeals++
			continue
		}
		health.OrphanedDeals++
		if !seen[deal.Stage] {
			seen[deal.Stage] = true
			health.OrphanedStages = append(health.OrphanedStages, deal.Stage)
		}
	}

	if health.TotalDeals == 0 {
		health.HealthPercentage = 100
	} else {
		health.HealthPercentage = float64(health.ValidDeals) / float64(health.TotalDeals) * 100
	}
	return health
}
