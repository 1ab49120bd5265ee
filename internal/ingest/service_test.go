package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/filmgraph-labs/filmgraph/internal/catalog"
	"github.com/filmgraph-labs/filmgraph/internal/graph"
)

type fakeCatalog struct {
	detail     catalog.FilmDetail
	cast       []catalog.CastEntry
	detailErr  error
	creditsErr error
}

func (f *fakeCatalog) FilmDetail(ctx context.Context, filmID int64) (*catalog.FilmDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	d := f.detail
	return &d, nil
}

func (f *fakeCatalog) FilmCredits(ctx context.Context, filmID int64) ([]catalog.CastEntry, error) {
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	return f.cast, nil
}

// fakeMerger records merges and tracks the peak number of merges
// executing concurrently.
type fakeMerger struct {
	mu         sync.Mutex
	merges     []graph.MergeParams
	filmMerges int

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
	delay       time.Duration
	failCredits map[string]bool
}

func (f *fakeMerger) MergeCastRole(ctx context.Context, p graph.MergeParams) error {
	cur := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.inFlight.Add(-1)

	if f.failCredits[p.CreditID] {
		return errors.New("constraint violation")
	}

	f.mu.Lock()
	f.merges = append(f.merges, p)
	f.mu.Unlock()
	return nil
}

func (f *fakeMerger) MergeFilm(ctx context.Context, filmID int64, title string, popularity float64, year *int) error {
	f.mu.Lock()
	f.filmMerges++
	f.mu.Unlock()
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func actingEntry(id int64, creditID string) catalog.CastEntry {
	return catalog.CastEntry{
		ID:                 id,
		Name:               "Actor",
		Popularity:         5.0,
		KnownForDepartment: "Acting",
		Character:          "Someone",
		CreditID:           creditID,
	}
}

func TestIngestFilm_ConcurrencyCap(t *testing.T) {
	cast := make([]catalog.CastEntry, 10)
	for i := range cast {
		cast[i] = actingEntry(int64(i+1), string(rune('a'+i)))
	}

	merger := &fakeMerger{delay: 10 * time.Millisecond}
	svc := NewService(
		&fakeCatalog{detail: catalog.FilmDetail{Title: "The Matrix", Popularity: 98.1, ReleaseDate: "1999-03-31"}, cast: cast},
		merger,
		semaphore.NewWeighted(2),
		time.Second,
		discardLogger(),
	)

	result, err := svc.IngestFilm(context.Background(), 603)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CastTotal != 10 || result.Merged != 10 || result.Failed != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
	if max := merger.maxInFlight.Load(); max > 2 {
		t.Errorf("concurrency cap violated: %d merges in flight", max)
	}
}

func TestIngestFilm_FailureDoesNotAbortSiblings(t *testing.T) {
	cast := []catalog.CastEntry{
		actingEntry(1, "c1"),
		actingEntry(2, "c2"),
		actingEntry(3, "c3"),
		actingEntry(4, "c4"),
		actingEntry(5, "c5"),
	}

	merger := &fakeMerger{failCredits: map[string]bool{"c2": true, "c4": true}}
	svc := NewService(
		&fakeCatalog{detail: catalog.FilmDetail{Title: "Film"}, cast: cast},
		merger,
		semaphore.NewWeighted(16),
		time.Second,
		discardLogger(),
	)

	result, err := svc.IngestFilm(context.Background(), 1)
	if err != nil {
		t.Fatalf("task failures must not fail the ingestion: %v", err)
	}
	if result.CastTotal != 5 || result.Merged != 3 || result.Failed != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(merger.merges) != 3 {
		t.Errorf("expected 3 successful merges, got %d", len(merger.merges))
	}
}

func TestIngestFilm_EmptyFilteredCast(t *testing.T) {
	// None of these survive the filter.
	cast := []catalog.CastEntry{
		{ID: 1, KnownForDepartment: "Directing", Popularity: 9.0},
		{ID: 2, KnownForDepartment: "Acting", Popularity: 0.1},
	}

	merger := &fakeMerger{}
	svc := NewService(
		&fakeCatalog{detail: catalog.FilmDetail{Title: "Obscure", Popularity: 1.0, ReleaseDate: "1971-01-01"}, cast: cast},
		merger,
		semaphore.NewWeighted(16),
		time.Second,
		discardLogger(),
	)

	result, err := svc.IngestFilm(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CastTotal != 0 || result.Merged != 0 || result.Failed != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(merger.merges) != 0 {
		t.Errorf("expected zero cast merges, got %d", len(merger.merges))
	}
	if merger.filmMerges != 1 {
		t.Errorf("expected the film node to be merged once, got %d", merger.filmMerges)
	}
}

func TestIngestFilm_CatalogErrorFailsRequest(t *testing.T) {
	svc := NewService(
		&fakeCatalog{detailErr: errors.New("catalog API error (status 404)")},
		&fakeMerger{},
		semaphore.NewWeighted(16),
		time.Second,
		discardLogger(),
	)

	if _, err := svc.IngestFilm(context.Background(), 999); err == nil {
		t.Fatal("expected error when the catalog fetch fails")
	}
}

func TestIngestFilm_MergeParams(t *testing.T) {
	cast := []catalog.CastEntry{{
		ID:                 6384,
		Name:               "Keanu Reeves",
		Popularity:         10.5,
		KnownForDepartment: "Acting",
		Character:          "Neo",
		CreditID:           "52fe425bc3a36847f80181c1",
	}}

	merger := &fakeMerger{}
	svc := NewService(
		&fakeCatalog{detail: catalog.FilmDetail{Title: "The Matrix", Popularity: 98.1, ReleaseDate: "1999-03-31"}, cast: cast},
		merger,
		semaphore.NewWeighted(16),
		time.Second,
		discardLogger(),
	)

	if _, err := svc.IngestFilm(context.Background(), 603); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merger.merges) != 1 {
		t.Fatalf("expected 1 merge, got %d", len(merger.merges))
	}
	p := merger.merges[0]
	if p.ActorID != 6384 || p.FilmID != 603 || p.CreditID != "52fe425bc3a36847f80181c1" {
		t.Errorf("unexpected identity params: %+v", p)
	}
	if p.Character != "Neo" || p.Title != "The Matrix" {
		t.Errorf("unexpected attribute params: %+v", p)
	}
	if p.Year == nil || *p.Year != 1999 {
		t.Errorf("expected year 1999, got %v", p.Year)
	}
}

func TestIngestFilm_MalformedReleaseDate(t *testing.T) {
	cast := []catalog.CastEntry{actingEntry(1, "c1")}

	merger := &fakeMerger{}
	svc := NewService(
		&fakeCatalog{detail: catalog.FilmDetail{Title: "Undated", Popularity: 1.0, ReleaseDate: "soon"}, cast: cast},
		merger,
		semaphore.NewWeighted(16),
		time.Second,
		discardLogger(),
	)

	result, err := svc.IngestFilm(context.Background(), 7)
	if err != nil {
		t.Fatalf("a malformed release date must not fail ingestion: %v", err)
	}
	if result.Merged != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if merger.merges[0].Year != nil {
		t.Errorf("expected nil year, got %d", *merger.merges[0].Year)
	}
}

// Two requests against the same service share the semaphore, so the
// cap holds across concurrent ingestions, not just within one.
func TestIngestFilm_CapSharedAcrossRequests(t *testing.T) {
	cast := make([]catalog.CastEntry, 6)
	for i := range cast {
		cast[i] = actingEntry(int64(i+1), string(rune('a'+i)))
	}

	merger := &fakeMerger{delay: 10 * time.Millisecond}
	svc := NewService(
		&fakeCatalog{detail: catalog.FilmDetail{Title: "Film"}, cast: cast},
		merger,
		semaphore.NewWeighted(3),
		time.Second,
		discardLogger(),
	)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.IngestFilm(context.Background(), 1); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if max := merger.maxInFlight.Load(); max > 3 {
		t.Errorf("shared cap violated across requests: %d in flight", max)
	}
}
