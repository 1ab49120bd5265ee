package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	apihandler "github.com/filmgraph-labs/filmgraph/internal/api/handler"
	apimw "github.com/filmgraph-labs/filmgraph/internal/api/middleware"
	"github.com/filmgraph-labs/filmgraph/internal/graph"
	"github.com/filmgraph-labs/filmgraph/internal/ingest"
	"github.com/filmgraph-labs/filmgraph/internal/store"
)

// RouterDeps holds the router's dependencies. Store, Producer and
// Cache are optional; Runner is required when Producer is absent so
// ingestion can run inline.
type RouterDeps struct {
	Graph    *graph.Client
	Catalog  apihandler.Searcher
	Store    *store.Store
	Producer *ingest.Producer
	Runner   *ingest.Runner
	Cache    valkey.Client
}

func NewRouter(logger *slog.Logger, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS)
	r.Use(chimw.Recoverer)

	if deps == nil {
		deps = &RouterDeps{}
	}

	// Health checks
	var pool *pgxpool.Pool
	if deps.Store != nil {
		pool = deps.Store.Pool()
	}
	health := apihandler.NewHealthHandler(pool, deps.Graph)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		search := apihandler.NewSearchHandler(logger, deps.Catalog, deps.Cache)
		r.Get("/search/film", search.Search)

		graphH := apihandler.NewGraphHandler(logger, deps.Graph)
		r.Get("/graph", graphH.Export)

		ingestH := apihandler.NewIngestHandler(logger, deps.Store, deps.Producer, deps.Runner)
		r.Post("/graph/films/{filmID}", ingestH.Trigger)
		r.Route("/ingest-runs", func(r chi.Router) {
			r.Get("/", ingestH.ListRuns)
			r.Get("/{runID}", ingestH.GetRun)
		})
	})

	return r
}
