package scheduler

import (
	"context"
	"fmt"

	"stageflow_backend/internal/deals/repository"
	"stageflow_backend/internal/scoring"
	"stageflow_backend/platform/config"
	"stageflow_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   repository.DealsRepository
	engine *scoring.Engine
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, engine *scoring.Engine, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		engine: engine,
		log:    log,
	}

	mux.HandleFunc(TaskConfidenceRecalc, w.handleConfidenceRecalc)

	return w, nil
}

// handleConfidenceRecalc recomputes and persists confidence for every open
// deal in the organization. Closed deals keep their terminal scores.
func (w *Worker) handleConfidenceRecalc(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseConfidenceRecalcPayload(task)
	if err != nil {
		return err
	}
	if payload.OrganizationID == "" {
		return fmt.Errorf("confidence recalc: organization id missing")
	}

	deals, err := w.repo.List(ctx, payload.OrganizationID)
	if err != nil {
		return err
	}

	profiles, globalWinRate := scoring.BuildPerformanceProfiles(deals)

	updated := 0
	for _, deal := range deals {
		if deal.IsClosed() {
			continue
		}
		score := w.engine.DealConfidence(deal, profiles, globalWinRate)
		if err := w.repo.UpdateConfidence(ctx, payload.OrganizationID, deal.ID, float64(score)); err != nil {
			return fmt.Errorf("persist confidence for deal %s: %w", deal.ID, err)
		}
		updated++
	}

	w.log.WithOrg(payload.OrganizationID).Info("confidence recalculated",
		"deals", len(deals),
		"updated", updated,
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
