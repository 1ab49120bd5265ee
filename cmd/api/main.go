package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/semaphore"

	"github.com/filmgraph-labs/filmgraph/internal/api"
	"github.com/filmgraph-labs/filmgraph/internal/catalog"
	"github.com/filmgraph-labs/filmgraph/internal/config"
	"github.com/filmgraph-labs/filmgraph/internal/graph"
	"github.com/filmgraph-labs/filmgraph/internal/ingest"
	"github.com/filmgraph-labs/filmgraph/internal/store"
	"github.com/filmgraph-labs/filmgraph/internal/store/postgres"
	vk "github.com/filmgraph-labs/filmgraph/internal/store/valkey"
)

func main() {
	_ = godotenv.Load(".env") // ignore error if .env missing

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Neo4j (required — the graph is the system of record)
	graphClient, err := graph.NewClient(cfg.Neo4j)
	if err != nil {
		logger.Error("failed to connect to neo4j", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer graphClient.Close(ctx)
	if err := graphClient.EnsureConstraints(ctx); err != nil {
		logger.Error("neo4j ensure constraints failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to neo4j")

	deps := &api.RouterDeps{Graph: graphClient}

	// Catalog client
	catalogClient := catalog.NewClient(cfg.Catalog)
	deps.Catalog = catalogClient

	// Postgres (optional — enables the ingest run journal)
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Warn("postgres connection failed, ingest runs will not be journaled", slog.String("error", err.Error()))
	} else {
		deps.Store = store.New(pool)
		defer pool.Close()
		logger.Info("connected to postgres")
	}

	// Valkey (optional — enables the ingest queue and search cache)
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey connection failed, ingestion runs inline", slog.String("error", err.Error()))
	} else {
		deps.Producer = ingest.NewProducer(vkClient)
		deps.Cache = vkClient
		defer vkClient.Close()
		logger.Info("connected to valkey")
	}

	// Ingest service for the inline path. The semaphore is the
	// process-wide cap on simultaneous graph merges.
	sem := semaphore.NewWeighted(cfg.Ingest.MaxConcurrentMerges)
	service := ingest.NewService(catalogClient, graphClient, sem, cfg.Ingest.TaskTimeout, logger)
	deps.Runner = ingest.NewRunner(service, deps.Store, logger)

	router := api.NewRouter(logger, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
