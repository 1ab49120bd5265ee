package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Neo4j    Neo4jConfig
	Valkey   ValkeyConfig
	Catalog  CatalogConfig
	Ingest   IngestConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
}

// CatalogConfig points at the TMDB API. ReadAccessToken is the v4 read
// token sent as a bearer credential on every request.
type CatalogConfig struct {
	BaseURL         string
	ReadAccessToken string
	Timeout         time.Duration
}

// IngestConfig bounds the merge fan-out. MaxConcurrentMerges is shared
// across all in-flight ingestions, not per request.
type IngestConfig struct {
	MaxConcurrentMerges int64
	TaskTimeout         time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 3000),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "filmgraph"),
			Password: getEnv("DB_PASSWORD", "filmgraph"),
			Name:     getEnv("DB_NAME", "filmgraph"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "neo4j://localhost:7687"),
			User:     getEnv("NEO4J_USERNAME", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "filmgraph"),
		},
		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
		},
		Catalog: CatalogConfig{
			BaseURL:         getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ReadAccessToken: getEnv("TMDB_READ_ACCESS_TOKEN", ""),
			Timeout:         time.Duration(getEnvInt("TMDB_TIMEOUT_SECS", 15)) * time.Second,
		},
		Ingest: IngestConfig{
			MaxConcurrentMerges: int64(getEnvInt("INGEST_MAX_CONCURRENT_MERGES", 16)),
			TaskTimeout:         time.Duration(getEnvInt("INGEST_TASK_TIMEOUT_SECS", 30)) * time.Second,
		},
	}

	if cfg.Catalog.ReadAccessToken == "" {
		return nil, fmt.Errorf("TMDB_READ_ACCESS_TOKEN is required")
	}
	if cfg.Ingest.MaxConcurrentMerges < 1 {
		return nil, fmt.Errorf("INGEST_MAX_CONCURRENT_MERGES must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
