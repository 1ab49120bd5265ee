package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmgraph-labs/filmgraph/internal/graph"
	"github.com/filmgraph-labs/filmgraph/pkg/apierr"
)

type HealthHandler struct {
	pool  *pgxpool.Pool
	graph *graph.Client
}

func NewHealthHandler(pool *pgxpool.Pool, g *graph.Client) *HealthHandler {
	return &HealthHandler{pool: pool, graph: g}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			writeAPIError(w, nil, apierr.DatabaseNotReady())
			return
		}
	}
	if h.graph != nil {
		if err := h.graph.Verify(r.Context()); err != nil {
			writeAPIError(w, nil, apierr.GraphUnavailable())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
