package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/filmgraph-labs/filmgraph/internal/ingest"
	"github.com/filmgraph-labs/filmgraph/internal/store"
	"github.com/filmgraph-labs/filmgraph/internal/store/postgres"
	"github.com/filmgraph-labs/filmgraph/pkg/apierr"
)

// IngestHandler triggers film ingestions and exposes the run journal.
// With a queue the trigger returns 202 and a worker picks the job up;
// without one the ingestion runs inline and the response carries the
// per-task counts.
type IngestHandler struct {
	logger   *slog.Logger
	store    *store.Store
	producer *ingest.Producer
	runner   *ingest.Runner
}

func NewIngestHandler(logger *slog.Logger, s *store.Store, producer *ingest.Producer, runner *ingest.Runner) *IngestHandler {
	return &IngestHandler{logger: logger, store: s, producer: producer, runner: runner}
}

func (h *IngestHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	filmID, err := strconv.ParseInt(chi.URLParam(r, "filmID"), 10, 64)
	if err != nil || filmID <= 0 {
		writeAPIError(w, h.logger, apierr.InvalidFilmID())
		return
	}

	var runID uuid.UUID
	if h.store != nil {
		run, err := h.store.CreateIngestRun(r.Context(), postgres.CreateIngestRunParams{
			FilmID:  filmID,
			Trigger: "api",
		})
		if err != nil {
			writeAPIError(w, h.logger, apierr.IngestRunCreateFailed(err))
			return
		}
		runID = run.ID
	}

	msg := ingest.Message{RunID: runID, FilmID: filmID, Trigger: "api"}

	if h.producer != nil {
		if _, err := h.producer.Enqueue(r.Context(), msg); err != nil {
			writeAPIError(w, h.logger, apierr.IngestEnqueueFailed(err))
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"run_id":  runID,
			"film_id": filmID,
			"status":  "queued",
		})
		return
	}

	result, err := h.runner.Execute(r.Context(), msg)
	if err != nil {
		writeAPIError(w, h.logger, apierr.IngestFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":     runID,
		"film_id":    filmID,
		"status":     "completed",
		"cast_total": result.CastTotal,
		"merged":     result.Merged,
		"failed":     result.Failed,
	})
}

func (h *IngestHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeAPIError(w, h.logger, apierr.DatabaseNotReady())
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.store.ListIngestRuns(r.Context(), postgres.ListIngestRunsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.IngestRunListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ingest_runs": runs,
		"total":       len(runs),
	})
}

func (h *IngestHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeAPIError(w, h.logger, apierr.DatabaseNotReady())
		return
	}

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRunID())
		return
	}

	run, err := h.store.GetIngestRun(r.Context(), runID)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.IngestRunNotFound())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, run)
}
