// Package service implements orphan recovery and pipeline migration. The
// storage collaborator's errors propagate untouched; this service performs
// no retries of its own.
package service

import (
	"context"
	"sort"
	"strings"

	dealdomain "stageflow_backend/internal/deals/domain"
	"stageflow_backend/internal/deals/repository"
	domainevents "stageflow_backend/internal/events"
	"stageflow_backend/internal/pipeline/registry"
	"stageflow_backend/internal/recovery/cache"
	"stageflow_backend/internal/recovery/transport"
	"stageflow_backend/internal/scheduler"
	"stageflow_backend/platform/apperr"
	"stageflow_backend/platform/events"
	"stageflow_backend/platform/logger"
)

// Service finds deals stranded in stages outside the active template and
// moves them to the closest match.
type Service struct {
	repo  repository.DealsRepository
	reg   *registry.Registry
	cache *cache.TemplateCache
	sched scheduler.RecalcScheduler
	bus   events.Bus
	log   *logger.Logger
}

// New creates a new recovery service.
func New(repo repository.DealsRepository, reg *registry.Registry, log *logger.Logger) *Service {
	return &Service{repo: repo, reg: reg, log: log}
}

// SetCache attaches the Redis template cache. Optional.
func (s *Service) SetCache(c *cache.TemplateCache) { s.cache = c }

// SetScheduler attaches the background job client. Optional.
func (s *Service) SetScheduler(sched scheduler.RecalcScheduler) { s.sched = sched }

// SetEventBus attaches the event bus. Optional.
func (s *Service) SetEventBus(bus events.Bus) { s.bus = bus }

// ActiveTemplateID resolves the organization's active template, preferring
// the cache over the repository. Organizations without a stored selection,
// or with a selection the registry no longer knows, get the default.
func (s *Service) ActiveTemplateID(ctx context.Context, organizationID string) (string, error) {
	if s.cache != nil {
		if cached, found, err := s.cache.Get(ctx, organizationID); err == nil && found {
			if _, ok := s.reg.Template(cached); ok {
				return cached, nil
			}
		} else if err != nil {
			s.log.WithOrg(organizationID).Warn("template cache read failed", "error", err)
		}
	}

	templateID, err := s.repo.ActiveTemplate(ctx, organizationID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			templateID = s.reg.DefaultTemplateID()
		} else {
			return "", err
		}
	}
	if _, ok := s.reg.Template(templateID); !ok {
		templateID = s.reg.DefaultTemplateID()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, organizationID, templateID); err != nil {
			s.log.WithOrg(organizationID).Warn("template cache write failed", "error", err)
		}
	}
	return templateID, nil
}

// TemplateStages returns the ordered stage ids of a registered template.
func (s *Service) TemplateStages(templateID string) ([]string, error) {
	template, ok := s.reg.Template(templateID)
	if !ok {
		return nil, apperr.NotFound("pipeline template not found")
	}
	return template.StageIDs(), nil
}

// FindOrphanedDeals returns every deal whose stage is not in currentStages.
func (s *Service) FindOrphanedDeals(ctx context.Context, organizationID string, currentStages []string) ([]*dealdomain.Deal, error) {
	deals, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	valid := stageSet(currentStages)
	var orphaned []*dealdomain.Deal
	for _, deal := range deals {
		if !valid[deal.Stage] {
			orphaned = append(orphaned, deal)
		}
	}
	return orphaned, nil
}

// MapStageToClosestMatch places an orphaned stage into the destination stage
// list by position, not meaning: the heuristic only inspects the old id for
// a handful of telltale substrings.
func (s *Service) MapStageToClosestMatch(oldStage string, newStages []string) string {
	if len(newStages) == 0 {
		return oldStage
	}

	lower := strings.ToLower(oldStage)
	has := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(lower, sub) {
				return true
			}
		}
		return false
	}

	switch {
	// lost before won/closed: ids like closed_lost match both.
	case has("lost"):
		cls := s.reg.Classification()
		for _, stage := range newStages {
			if cls.IsLostType(stage) {
				return stage
			}
		}
		return newStages[len(newStages)-1]
	case has("won", "closed"):
		if len(newStages) < 2 {
			return newStages[len(newStages)-1]
		}
		return newStages[len(newStages)-2]
	case has("lead", "prospect"):
		return newStages[0]
	case has("contact", "discovery", "qualif"):
		if len(newStages) < 2 {
			return newStages[0]
		}
		return newStages[1]
	case has("quote", "proposal"):
		return newStages[len(newStages)/2]
	default:
		return newStages[0]
	}
}

// RecoverOrphanedDeals maps every orphaned deal to its closest match in
// currentStages. Each deal lands in exactly one of fixed, skipped, or
// errors; a failing write never aborts the run. Dry runs report the same
// counts and change list without writing.
func (s *Service) RecoverOrphanedDeals(ctx context.Context, organizationID string, currentStages []string, dryRun bool) (transport.RecoveryResult, error) {
	orphaned, err := s.FindOrphanedDeals(ctx, organizationID, currentStages)
	if err != nil {
		return transport.RecoveryResult{}, err
	}

	result := transport.RecoveryResult{DryRun: dryRun, Changes: []transport.StageChange{}}
	for _, deal := range orphaned {
		newStage := s.MapStageToClosestMatch(deal.Stage, currentStages)
		if newStage == deal.Stage {
			result.Skipped++
			continue
		}

		if !dryRun {
			status := s.reg.Classification().StatusForStage(newStage)
			if err := s.repo.UpdateStage(ctx, organizationID, deal.ID, newStage, status); err != nil {
				s.log.WithOrg(organizationID).Error("orphan recovery write failed",
					"deal_id", deal.ID, "error", err)
				result.Errors++
				continue
			}
		}

		result.Fixed++
		result.Changes = append(result.Changes, transport.StageChange{
			DealID:   deal.ID,
			Client:   deal.Client,
			OldStage: deal.Stage,
			NewStage: newStage,
		})
	}

	if !dryRun && s.bus != nil && result.Fixed > 0 {
		s.bus.Publish(ctx, domainevents.NewDealsRecovered(organizationID, result.Fixed, result.Skipped, result.Errors))
	}

	s.log.MigrationEvent("orphan_recovery", organizationID, result.Fixed, dryRun)
	return result, nil
}

// PipelineHealth reports how much of the organization's deal set still fits
// the given stage list. An empty deal set is perfectly healthy.
func (s *Service) PipelineHealth(ctx context.Context, organizationID string, currentStages []string) (transport.HealthReport, error) {
	deals, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return transport.HealthReport{}, err
	}

	valid := stageSet(currentStages)
	report := transport.HealthReport{
		TotalDeals:     len(deals),
		OrphanedStages: []string{},
	}
	orphanedStages := map[string]struct{}{}
	for _, deal := range deals {
		if valid[deal.Stage] {
			report.ValidDeals++
		} else {
			report.OrphanedDeals++
			orphanedStages[deal.Stage] = struct{}{}
		}
	}

	if report.TotalDeals == 0 {
		report.HealthPercentage = 100
	} else {
		report.HealthPercentage = float64(report.ValidDeals) / float64(report.TotalDeals) * 100
	}

	for stage := range orphanedStages {
		report.OrphanedStages = append(report.OrphanedStages, stage)
	}
	sort.Strings(report.OrphanedStages)
	return report, nil
}

// MigratePipeline moves every deal into the destination template's
// vocabulary, using the curated translation tables first and the positional
// heuristic for stages the tables do not cover. Only a non-dry run that
// changed at least one deal persists the new active template, invalidates
// the cache, and schedules a confidence recalculation. Concurrent
// migrations for the same organization are deliberately not serialized.
func (s *Service) MigratePipeline(ctx context.Context, organizationID, fromTemplateID, toTemplateID string, dryRun bool) (transport.MigrationResult, error) {
	if _, ok := s.reg.Template(fromTemplateID); !ok {
		return transport.MigrationResult{}, apperr.Validation("unknown pipeline template: " + fromTemplateID)
	}
	target, ok := s.reg.Template(toTemplateID)
	if !ok {
		return transport.MigrationResult{}, apperr.Validation("unknown pipeline template: " + toTemplateID)
	}

	deals, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return transport.MigrationResult{}, err
	}

	targetStages := target.StageIDs()
	targetSet := stageSet(targetStages)

	result := transport.MigrationResult{
		FromTemplate: fromTemplateID,
		ToTemplate:   toTemplateID,
		DryRun:       dryRun,
		Changes:      []transport.StageChange{},
	}

	for _, deal := range deals {
		newStage := s.reg.MapStage(deal.Stage, toTemplateID)
		if !targetSet[newStage] {
			newStage = s.MapStageToClosestMatch(deal.Stage, targetStages)
		}
		if newStage == deal.Stage {
			result.Skipped++
			continue
		}

		if !dryRun {
			status := s.reg.Classification().StatusForStage(newStage)
			if err := s.repo.UpdateStage(ctx, organizationID, deal.ID, newStage, status); err != nil {
				s.log.WithOrg(organizationID).Error("migration write failed",
					"deal_id", deal.ID, "error", err)
				result.Errors++
				continue
			}
		}

		result.Changed++
		result.Changes = append(result.Changes, transport.StageChange{
			DealID:   deal.ID,
			Client:   deal.Client,
			OldStage: deal.Stage,
			NewStage: newStage,
		})
	}

	if !dryRun && result.Changed > 0 {
		if err := s.repo.SetActiveTemplate(ctx, organizationID, toTemplateID); err != nil {
			return transport.MigrationResult{}, err
		}
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, organizationID); err != nil {
				s.log.WithOrg(organizationID).Warn("template cache invalidation failed", "error", err)
			}
		}
		if s.sched != nil {
			if err := s.sched.ScheduleConfidenceRecalc(ctx, scheduler.ConfidenceRecalcPayload{OrganizationID: organizationID}); err != nil {
				s.log.WithOrg(organizationID).Warn("confidence recalc enqueue failed", "error", err)
			}
		}
		if s.bus != nil {
			s.bus.Publish(ctx, domainevents.NewPipelineMigrated(organizationID, fromTemplateID, toTemplateID, result.Changed))
		}
	}

	s.log.MigrationEvent("pipeline_migration", organizationID, result.Changed, dryRun)
	return result, nil
}

func stageSet(stages []string) map[string]bool {
	set := make(map[string]bool, len(stages))
	for _, stage := range stages {
		set[stage] = true
	}
	return set
}
