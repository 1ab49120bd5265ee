package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filmgraph-labs/filmgraph/internal/catalog"
	"github.com/filmgraph-labs/filmgraph/pkg/apierr"
	"github.com/filmgraph-labs/filmgraph/pkg/models"
)

type fakeSearcher struct {
	hits []catalog.SearchHit
	err  error
}

func (f *fakeSearcher) SearchFilms(ctx context.Context, query string) ([]catalog.SearchHit, error) {
	return f.hits, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSearchHandler_MissingTitle(t *testing.T) {
	h := NewSearchHandler(testLogger(), &fakeSearcher{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/film", nil)
	w := httptest.NewRecorder()

	h.Search(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeTitleRequired {
		t.Errorf("expected code %s, got %s", apierr.CodeTitleRequired, resp.Error.Code)
	}
}

func TestSearchHandler_SortsByPopularityDescending(t *testing.T) {
	h := NewSearchHandler(testLogger(), &fakeSearcher{hits: []catalog.SearchHit{
		{ID: 1, Title: "B", ReleaseDate: "2003-11-05", Popularity: 10.0},
		{ID: 2, Title: "A", ReleaseDate: "1999-03-31", Popularity: 98.1},
		{ID: 3, Title: "C", ReleaseDate: "", Popularity: 45.5},
	}}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/film?title=matrix", nil)
	w := httptest.NewRecorder()

	h.Search(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var films []models.Film
	if err := json.NewDecoder(w.Body).Decode(&films); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(films) != 3 {
		t.Fatalf("expected 3 films, got %d", len(films))
	}
	if films[0].ID != 2 || films[1].ID != 3 || films[2].ID != 1 {
		t.Errorf("unexpected order: %+v", films)
	}
	if films[0].Year == nil || *films[0].Year != 1999 {
		t.Errorf("expected year 1999 on first hit, got %v", films[0].Year)
	}
	if films[1].Year != nil {
		t.Errorf("expected absent year for empty release date")
	}
}

func TestSearchHandler_CatalogError(t *testing.T) {
	h := NewSearchHandler(testLogger(), &fakeSearcher{err: errors.New("upstream down")}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/film?title=x", nil)
	w := httptest.NewRecorder()

	h.Search(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}
