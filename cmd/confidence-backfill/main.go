package main

import (
	"context"
	"time"

	"stageflow_backend/internal/deals/repository"
	pipedomain "stageflow_backend/internal/pipeline/domain"
	"stageflow_backend/internal/scoring"
	"stageflow_backend/platform/config"
	"stageflow_backend/platform/db"
	"stageflow_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Recomputes and persists confidence scores for every open deal across all
// organizations. Run once after deploying scoring changes; day-to-day
// recalculation goes through the asynq worker.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting confidence backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)
	engine := scoring.NewEngine(pipedomain.NewStageConfig())

	orgIDs, err := listOrganizationIDs(ctx, pool)
	if err != nil {
		log.Error("failed to list organizations", "error", err)
		panic("failed to list organizations: " + err.Error())
	}

	var processed, updated, failed int
	for _, orgID := range orgIDs {
		n, err := backfillOrganization(ctx, repo, engine, orgID)
		if err != nil {
			log.WithOrg(orgID).Error("confidence backfill failed", "error", err)
			failed++
			continue
		}
		processed++
		updated += n
		log.WithOrg(orgID).Info("confidence backfill complete", "updated", n)
	}

	log.Info("confidence backfill finished",
		"organizations", processed,
		"failed", failed,
		"deals_updated", updated,
	)
}

func listOrganizationIDs(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx, `SELECT DISTINCT organization_id FROM deals ORDER BY organization_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func backfillOrganization(parentCtx context.Context, repo repository.DealsRepository, engine *scoring.Engine, orgID string) (int, error) {
	ctx, cancel := context.WithTimeout(parentCtx, 60*time.Second)
	defer cancel()

	deals, err := repo.List(ctx, orgID)
	if err != nil {
		return 0, err
	}

	profiles, globalWinRate := scoring.BuildPerformanceProfiles(deals)

	updated := 0
	for _, deal := range deals {
		if deal.IsClosed() {
			continue
		}
		score := engine.DealConfidence(deal, profiles, globalWinRate)
		if err := repo.UpdateConfidence(ctx, orgID, deal.ID, float64(score)); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
