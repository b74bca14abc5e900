// Package service implements deal ingestion and lifecycle operations on top
// of the normalizer.
package service

import (
	"context"
	"fmt"

	dealdomain "stageflow_backend/internal/deals/domain"
	"stageflow_backend/internal/deals/repository"
	"stageflow_backend/internal/deals/transport"
	domainevents "stageflow_backend/internal/events"
	"stageflow_backend/internal/pipeline/registry"
	"stageflow_backend/platform/apperr"
	"stageflow_backend/platform/events"
	"stageflow_backend/platform/logger"
)

// Service coordinates deal reads and writes. Every inbound record passes
// through the normalizer before it reaches storage.
type Service struct {
	repo repository.DealsRepository
	reg  *registry.Registry
	log  *logger.Logger
	bus  events.Bus
}

// New creates a new deals service.
func New(repo repository.DealsRepository, reg *registry.Registry, log *logger.Logger) *Service {
	return &Service{repo: repo, reg: reg, log: log}
}

// SetEventBus attaches the event bus. Optional; without it no events fire.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// List returns the organization's deals.
func (s *Service) List(ctx context.Context, organizationID string) ([]*dealdomain.Deal, error) {
	deals, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return deals, nil
}

// Get returns a single deal.
func (s *Service) Get(ctx context.Context, organizationID, dealID string) (*dealdomain.Deal, error) {
	return s.repo.Get(ctx, organizationID, dealID)
}

// Ingest normalizes and stores a batch of raw records. Records that fail
// normalization, belong to another organization, or violate the outcome
// invariants are rejected individually; the rest are upserted. A rejected
// record never fails the batch.
func (s *Service) Ingest(ctx context.Context, organizationID string, records []map[string]any) (transport.IngestResult, error) {
	result := transport.IngestResult{}

	for i, raw := range records {
		deal := dealdomain.Normalize(raw, s.reg.Classification())
		if deal == nil {
			result.Rejected = append(result.Rejected, transport.RejectedRecord{
				Index:  i,
				Reason: "record lacks a string id or organization_id",
			})
			continue
		}
		if deal.OrganizationID != organizationID {
			result.Rejected = append(result.Rejected, transport.RejectedRecord{
				Index:  i,
				Reason: "record belongs to a different organization",
			})
			continue
		}
		if violations := dealdomain.ValidateOutcome(deal); len(violations) > 0 {
			result.Rejected = append(result.Rejected, transport.RejectedRecord{
				Index:  i,
				Reason: violations[0],
			})
			continue
		}

		if err := s.repo.Upsert(ctx, deal); err != nil {
			return transport.IngestResult{}, fmt.Errorf("ingest deal %s: %w", deal.ID, err)
		}
		result.Accepted++
	}

	s.log.WithOrg(organizationID).Info("deals ingested",
		"accepted", result.Accepted,
		"rejected", len(result.Rejected),
	)
	return result, nil
}

// UpdateStage moves a deal to a new stage, synchronizing status and clearing
// outcome fields when the move reactivates a closed deal. The stage must
// pass format validation; custom stages are allowed with a warning.
func (s *Service) UpdateStage(ctx context.Context, organizationID, dealID, stage string) (*dealdomain.Deal, string, error) {
	validation := dealdomain.ValidateStage(stage, s.reg.Stages())
	if !validation.Valid {
		return nil, "", apperr.Validation(validation.Error)
	}

	deal, err := s.repo.Get(ctx, organizationID, dealID)
	if err != nil {
		return nil, "", err
	}

	oldStage := deal.Stage
	wasClosed := deal.IsClosed()

	updated := *deal
	updated.Stage = stage
	next := dealdomain.SyncStageStatus(&updated, s.reg.Classification())
	if wasClosed && next.Status == dealdomain.StatusActive {
		next = dealdomain.ClearOutcomeFields(next)
	}

	if err := s.repo.Upsert(ctx, next); err != nil {
		return nil, "", err
	}

	if s.bus != nil && oldStage != next.Stage {
		s.bus.Publish(ctx, domainevents.NewDealStageChanged(organizationID, dealID, oldStage, next.Stage))
	}

	return next, validation.Warning, nil
}

// SetOutcome closes or reactivates a deal, applying the outcome fields and
// enforcing the outcome invariants. Violations block the write.
func (s *Service) SetOutcome(ctx context.Context, organizationID, dealID string, req transport.SetOutcomeRequest) (*dealdomain.Deal, error) {
	deal, err := s.repo.Get(ctx, organizationID, dealID)
	if err != nil {
		return nil, err
	}

	updated := *deal
	updated.Status = req.Status
	if req.Status == dealdomain.StatusActive {
		updated = *dealdomain.ClearOutcomeFields(&updated)
	} else {
		updated.LostReason = req.LostReason
		updated.LostReasonNotes = req.LostReasonNotes
		updated.DisqualifiedReasonCategory = req.DisqualifiedReasonCategory
		updated.DisqualifiedReasonNotes = req.DisqualifiedReasonNotes
		updated.OutcomeReasonCategory = req.OutcomeReasonCategory
		updated.OutcomeNotes = req.OutcomeNotes
	}

	if violations := dealdomain.ValidateOutcome(&updated); len(violations) > 0 {
		return nil, apperr.Validation("outcome fields are inconsistent").WithDetails(violations)
	}

	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes a deal.
func (s *Service) Delete(ctx context.Context, organizationID, dealID string) error {
	return s.repo.Delete(ctx, organizationID, dealID)
}

// ValidateStage exposes the tri-state stage check for the API.
func (s *Service) ValidateStage(stage string) dealdomain.StageValidation {
	return dealdomain.ValidateStage(stage, s.reg.Stages())
}
