package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/filmgraph-labs/filmgraph/internal/store"
	"github.com/filmgraph-labs/filmgraph/internal/store/postgres"
)

// Runner executes queued ingestion jobs and journals their outcome.
// The store may be nil when Postgres is not configured; ingestion
// then runs unjournaled.
type Runner struct {
	service *Service
	store   *store.Store
	logger  *slog.Logger
}

func NewRunner(service *Service, s *store.Store, logger *slog.Logger) *Runner {
	return &Runner{service: service, store: s, logger: logger}
}

// Run processes a single queued ingestion message. It is the
// Consumer handler shape; the result counts live on the run row.
func (r *Runner) Run(ctx context.Context, msg Message) error {
	_, err := r.Execute(ctx, msg)
	return err
}

// Execute ingests one film: mark the run as running, ingest, then
// record the per-task counts or the failure on the run row.
func (r *Runner) Execute(ctx context.Context, msg Message) (*Result, error) {
	r.logger.Info("ingest run started",
		slog.String("run_id", msg.RunID.String()),
		slog.Int64("film_id", msg.FilmID),
		slog.String("trigger", msg.Trigger))

	r.setStatus(ctx, msg.RunID, "running", nil)

	result, err := r.service.IngestFilm(ctx, msg.FilmID)
	if err != nil {
		errMsg := err.Error()
		r.setStatus(ctx, msg.RunID, "failed", &errMsg)
		return nil, fmt.Errorf("ingest film %d: %w", msg.FilmID, err)
	}

	if r.store != nil && msg.RunID != uuid.Nil {
		if err := r.store.UpdateIngestRunStats(ctx, postgres.UpdateIngestRunStatsParams{
			ID:         msg.RunID,
			CastTotal:  int32(result.CastTotal),
			CastMerged: int32(result.Merged),
			CastFailed: int32(result.Failed),
		}); err != nil {
			r.logger.Warn("update run stats failed",
				slog.String("run_id", msg.RunID.String()),
				slog.String("error", err.Error()))
		}
	}
	r.setStatus(ctx, msg.RunID, "completed", nil)

	r.logger.Info("ingest run completed",
		slog.String("run_id", msg.RunID.String()),
		slog.Int64("film_id", msg.FilmID),
		slog.Int("cast_total", result.CastTotal),
		slog.Int("merged", result.Merged),
		slog.Int("failed", result.Failed))

	return result, nil
}

func (r *Runner) setStatus(ctx context.Context, runID uuid.UUID, status string, errMsg *string) {
	if r.store == nil || runID == uuid.Nil {
		return
	}
	if err := r.store.UpdateIngestRunStatus(ctx, postgres.UpdateIngestRunStatusParams{
		ID:           runID,
		Status:       status,
		ErrorMessage: errMsg,
	}); err != nil {
		r.logger.Warn("update run status failed",
			slog.String("run_id", runID.String()),
			slog.String("status", status),
			slog.String("error", err.Error()))
	}
}
