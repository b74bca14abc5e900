package repository

import (
	"context"
	"errors"
	"fmt"

	"stageflow_backend/platform/apperr"

	dealdomain "stageflow_backend/internal/deals/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dealNotFoundMsg = "deal not found"
const organizationNotFoundMsg = "organization not found"

// DealsRepository is the storage collaborator for deals and the per-org
// active template selection. Errors from the store propagate untouched.
type DealsRepository interface {
	List(ctx context.Context, organizationID string) ([]*dealdomain.Deal, error)
	Get(ctx context.Context, organizationID, dealID string) (*dealdomain.Deal, error)
	Upsert(ctx context.Context, deal *dealdomain.Deal) error
	UpdateStage(ctx context.Context, organizationID, dealID, stage, status string) error
	UpdateConfidence(ctx context.Context, organizationID, dealID string, confidence float64) error
	Delete(ctx context.Context, organizationID, dealID string) error

	ActiveTemplate(ctx context.Context, organizationID string) (string, error)
	SetActiveTemplate(ctx context.Context, organizationID, templateID string) error
}

// Repository provides database operations for deals.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new deals repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const dealColumns = `
	id, organization_id, client, client_phone, stage, status,
	value, assigned_to, confidence, probability,
	lost_reason, lost_reason_notes,
	disqualified_reason_category, disqualified_reason_notes,
	outcome_reason_category, outcome_notes,
	created_at, updated_at
`

func scanDeal(row pgx.Row) (*dealdomain.Deal, error) {
	var deal dealdomain.Deal
	err := row.Scan(
		&deal.ID,
		&deal.OrganizationID,
		&deal.Client,
		&deal.ClientPhone,
		&deal.Stage,
		&deal.Status,
		&deal.Value,
		&deal.AssignedTo,
		&deal.Confidence,
		&deal.Probability,
		&deal.LostReason,
		&deal.LostReasonNotes,
		&deal.DisqualifiedReasonCategory,
		&deal.DisqualifiedReasonNotes,
		&deal.OutcomeReasonCategory,
		&deal.OutcomeNotes,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *Repository) List(ctx context.Context, organizationID string) ([]*dealdomain.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE organization_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []*dealdomain.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}

	return deals, nil
}

func (r *Repository) Get(ctx context.Context, organizationID, dealID string) (*dealdomain.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE organization_id = $1 AND id = $2
	`

	deal, err := scanDeal(r.pool.QueryRow(ctx, query, organizationID, dealID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(dealNotFoundMsg)
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}

	return deal, nil
}

func (r *Repository) Upsert(ctx context.Context, deal *dealdomain.Deal) error {
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (organization_id, id) DO UPDATE SET
			client = EXCLUDED.client,
			client_phone = EXCLUDED.client_phone,
			stage = EXCLUDED.stage,
			status = EXCLUDED.status,
			value = EXCLUDED.value,
			assigned_to = EXCLUDED.assigned_to,
			confidence = EXCLUDED.confidence,
			probability = EXCLUDED.probability,
			lost_reason = EXCLUDED.lost_reason,
			lost_reason_notes = EXCLUDED.lost_reason_notes,
			disqualified_reason_category = EXCLUDED.disqualified_reason_category,
			disqualified_reason_notes = EXCLUDED.disqualified_reason_notes,
			outcome_reason_category = EXCLUDED.outcome_reason_category,
			outcome_notes = EXCLUDED.outcome_notes,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		deal.ID,
		deal.OrganizationID,
		deal.Client,
		deal.ClientPhone,
		deal.Stage,
		deal.Status,
		deal.Value,
		deal.AssignedTo,
		deal.Confidence,
		deal.Probability,
		deal.LostReason,
		deal.LostReasonNotes,
		deal.DisqualifiedReasonCategory,
		deal.DisqualifiedReasonNotes,
		deal.OutcomeReasonCategory,
		deal.OutcomeNotes,
		deal.CreatedAt,
		deal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert deal: %w", err)
	}

	return nil
}

func (r *Repository) UpdateStage(ctx context.Context, organizationID, dealID, stage, status string) error {
	query := `
		UPDATE deals
		SET stage = $3, status = $4, updated_at = now()::text
		WHERE organization_id = $1 AND id = $2
	`

	tag, err := r.pool.Exec(ctx, query, organizationID, dealID, stage, status)
	if err != nil {
		return fmt.Errorf("update deal stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(dealNotFoundMsg)
	}

	return nil
}

func (r *Repository) UpdateConfidence(ctx context.Context, organizationID, dealID string, confidence float64) error {
	query := `
		UPDATE deals
		SET confidence = $3
		WHERE organization_id = $1 AND id = $2
	`

	tag, err := r.pool.Exec(ctx, query, organizationID, dealID, confidence)
	if err != nil {
		return fmt.Errorf("update deal confidence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(dealNotFoundMsg)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, organizationID, dealID string) error {
	query := `DELETE FROM deals WHERE organization_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, organizationID, dealID)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(dealNotFoundMsg)
	}

	return nil
}

func (r *Repository) ActiveTemplate(ctx context.Context, organizationID string) (string, error) {
	query := `SELECT active_template_id FROM organizations WHERE id = $1`

	var templateID string
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(&templateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound(organizationNotFoundMsg)
		}
		return "", fmt.Errorf("get active template: %w", err)
	}

	return templateID, nil
}

func (r *Repository) SetActiveTemplate(ctx context.Context, organizationID, templateID string) error {
	query := `
		INSERT INTO organizations (id, active_template_id, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			active_template_id = EXCLUDED.active_template_id,
			updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query, organizationID, templateID)
	if err != nil {
		return fmt.Errorf("set active template: %w", err)
	}

	return nil
}

// Compile-time check that Repository implements DealsRepository.
var _ DealsRepository = (*Repository)(nil)
