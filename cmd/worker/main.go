package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/semaphore"

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Valkey (required — the worker consumes the ingest stream)
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Error("failed to connect to valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer vkClient.Close()
	logger.Info("connected to valkey")

	// Neo4j (required)
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

	// Postgres (optional — enables the ingest run journal)
	var s *store.Store
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Warn("postgres connection failed, ingest runs will not be journaled", slog.String("error", err.Error()))
	} else {
		s = store.New(pool)
		defer pool.Close()
		logger.Info("connected to postgres")
	}

	catalogClient := catalog.NewClient(cfg.Catalog)

	sem := semaphore.NewWeighted(cfg.Ingest.MaxConcurrentMerges)
	service := ingest.NewService(catalogClient, graphClient, sem, cfg.Ingest.TaskTimeout, logger)
	runner := ingest.NewRunner(service, s, logger)

	consumer := ingest.NewConsumer(vkClient, "worker-1", logger)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Error("failed to ensure consumer group", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting ingest worker, consuming from stream", slog.String("stream", ingest.StreamName))
	if err := consumer.Consume(ctx, runner.Run); err != nil {
		if ctx.Err() == nil {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	logger.Info("worker stopped")
}
