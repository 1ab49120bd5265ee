package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/filmgraph-labs/filmgraph/internal/catalog"
	"github.com/filmgraph-labs/filmgraph/internal/graph"
)

// Merger is the graph-store surface the service writes through.
// *graph.Client satisfies it; tests substitute fakes.
type Merger interface {
	MergeCastRole(ctx context.Context, p graph.MergeParams) error
	MergeFilm(ctx context.Context, filmID int64, title string, popularity float64, year *int) error
}

// CreditSource is the catalog surface the service reads from.
type CreditSource interface {
	FilmDetail(ctx context.Context, filmID int64) (*catalog.FilmDetail, error)
	FilmCredits(ctx context.Context, filmID int64) ([]catalog.CastEntry, error)
}

// Result reports the outcome of one film ingestion. CastTotal counts
// the retained cast entries; Merged + Failed == CastTotal.
type Result struct {
	CastTotal int
	Merged    int
	Failed    int
}

// Service ingests one film: fetch detail and credits, filter the
// cast, and fan one merge task out per retained entry under the
// shared concurrency cap.
type Service struct {
	catalog     CreditSource
	graph       Merger
	sem         *semaphore.Weighted
	taskTimeout time.Duration
	logger      *slog.Logger
}

// NewService builds an ingest service. The semaphore is owned by the
// caller and shared process-wide: it caps simultaneous graph merges
// across every in-flight ingestion, not per request.
func NewService(credits CreditSource, merger Merger, sem *semaphore.Weighted, taskTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		catalog:     credits,
		graph:       merger,
		sem:         sem,
		taskTimeout: taskTimeout,
		logger:      logger,
	}
}

// IngestFilm fetches and merges one film. Catalog failures fail the
// whole ingestion; a single merge failure is counted in the result
// and never aborts sibling tasks. The call returns only after every
// spawned task has finished.
func (s *Service) IngestFilm(ctx context.Context, filmID int64) (*Result, error) {
	detail, err := s.catalog.FilmDetail(ctx, filmID)
	if err != nil {
		return nil, fmt.Errorf("fetch film %d: %w", filmID, err)
	}

	cast, err := s.catalog.FilmCredits(ctx, filmID)
	if err != nil {
		return nil, fmt.Errorf("fetch credits for film %d: %w", filmID, err)
	}

	year := catalog.ParseYear(detail.ReleaseDate)
	retained := catalog.FilterCast(cast)

	if len(retained) == 0 {
		// Zero tasks is valid; still make sure the film node exists.
		if err := s.graph.MergeFilm(ctx, filmID, detail.Title, detail.Popularity, year); err != nil {
			return nil, fmt.Errorf("merge film %d: %w", filmID, err)
		}
		s.logger.Info("film ingested with empty filtered cast",
			slog.Int64("film_id", filmID),
			slog.String("title", detail.Title))
		return &Result{}, nil
	}

	// One slot per task; each goroutine owns its own slot, so no
	// synchronisation beyond the WaitGroup is required.
	taskErrs := make([]error, len(retained))
	var wg sync.WaitGroup

	for i, entry := range retained {
		wg.Add(1)
		go func(i int, entry catalog.CastEntry) {
			defer wg.Done()
			taskErrs[i] = s.mergeOne(ctx, filmID, detail, year, entry)
		}(i, entry)
	}

	wg.Wait()

	result := &Result{CastTotal: len(retained)}
	for i, err := range taskErrs {
		if err != nil {
			result.Failed++
			s.logger.Error("cast merge failed",
				slog.Int64("film_id", filmID),
				slog.Int64("actor_id", retained[i].ID),
				slog.String("credit_id", retained[i].CreditID),
				slog.String("error", err.Error()))
			continue
		}
		result.Merged++
	}

	s.logger.Info("film ingested",
		slog.Int64("film_id", filmID),
		slog.String("title", detail.Title),
		slog.Int("cast_total", result.CastTotal),
		slog.Int("merged", result.Merged),
		slog.Int("failed", result.Failed))

	return result, nil
}

// mergeOne acquires a concurrency slot, then performs a single
// atomic actor/film/role merge bounded by the task timeout. The slot
// is released unconditionally.
func (s *Service) mergeOne(ctx context.Context, filmID int64, detail *catalog.FilmDetail, year *int, entry catalog.CastEntry) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire merge slot: %w", err)
	}
	defer s.sem.Release(1)

	taskCtx := ctx
	if s.taskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, s.taskTimeout)
		defer cancel()
	}

	return s.graph.MergeCastRole(taskCtx, graph.MergeParams{
		ActorID:         entry.ID,
		ActorName:       entry.Name,
		ActorPopularity: entry.Popularity,
		FilmID:          filmID,
		Title:           detail.Title,
		FilmPopularity:  detail.Popularity,
		Year:            year,
		CreditID:        entry.CreditID,
		Character:       entry.Character,
	})
}
