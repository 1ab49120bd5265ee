package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/filmgraph-labs/filmgraph/internal/catalog"
	"github.com/filmgraph-labs/filmgraph/pkg/apierr"
	"github.com/filmgraph-labs/filmgraph/pkg/models"
)

const searchCacheTTL = 5 * time.Minute

// Searcher is the catalog surface the search handler needs.
type Searcher interface {
	SearchFilms(ctx context.Context, query string) ([]catalog.SearchHit, error)
}

// SearchHandler proxies film search to the catalog, sorted by
// descending popularity. Results are cached in Valkey when available.
type SearchHandler struct {
	logger  *slog.Logger
	catalog Searcher
	cache   valkey.Client
}

func NewSearchHandler(logger *slog.Logger, c Searcher, cache valkey.Client) *SearchHandler {
	return &SearchHandler{logger: logger, catalog: c, cache: cache}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeAPIError(w, h.logger, apierr.TitleRequired())
		return
	}

	if body, ok := h.cached(r.Context(), title); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	hits, err := h.catalog.SearchFilms(r.Context(), title)
	if err != nil {
		writeAPIError(w, h.logger, apierr.CatalogRequestFailed(err))
		return
	}

	films := make([]models.Film, 0, len(hits))
	for _, hit := range hits {
		films = append(films, models.Film{
			ID:         hit.ID,
			Title:      hit.Title,
			Year:       catalog.ParseYear(hit.ReleaseDate),
			Popularity: hit.Popularity,
		})
	}

	// The catalog returns results unsorted.
	sort.SliceStable(films, func(i, j int) bool {
		return films[i].Popularity > films[j].Popularity
	})

	h.storeCache(r.Context(), title, films)

	writeJSON(w, http.StatusOK, films)
}

func searchCacheKey(title string) string {
	return "filmgraph:search:" + title
}

func (h *SearchHandler) cached(ctx context.Context, title string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	resp := h.cache.Do(ctx, h.cache.B().Get().Key(searchCacheKey(title)).Build())
	if resp.Error() != nil {
		return nil, false
	}
	body, err := resp.AsBytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

func (h *SearchHandler) storeCache(ctx context.Context, title string, films []models.Film) {
	if h.cache == nil {
		return
	}
	body, err := json.Marshal(films)
	if err != nil {
		return
	}
	resp := h.cache.Do(ctx, h.cache.B().Set().
		Key(searchCacheKey(title)).Value(string(body)).
		Ex(searchCacheTTL).Build())
	if err := resp.Error(); err != nil {
		h.logger.Warn("search cache store failed", slog.String("error", err.Error()))
	}
}
