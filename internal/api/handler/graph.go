package handler

import (
	"log/slog"
	"net/http"

	"github.com/filmgraph-labs/filmgraph/internal/graph"
	"github.com/filmgraph-labs/filmgraph/pkg/apierr"
)

// GraphHandler serves the whole-graph export.
type GraphHandler struct {
	logger *slog.Logger
	graph  *graph.Client
}

func NewGraphHandler(logger *slog.Logger, g *graph.Client) *GraphHandler {
	return &GraphHandler{logger: logger, graph: g}
}

func (h *GraphHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h.graph == nil {
		writeAPIError(w, h.logger, apierr.GraphUnavailable())
		return
	}

	export, err := h.graph.Export(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.GraphExportFailed(err))
		return
	}

	h.logger.Info("graph exported",
		slog.Int("actors", len(export.Actors)),
		slog.Int("films", len(export.Films)),
		slog.Int("roles", len(export.Roles)))

	writeJSON(w, http.StatusOK, export)
}
