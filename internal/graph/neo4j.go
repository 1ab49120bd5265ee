package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/filmgraph-labs/filmgraph/internal/config"
)

// Client wraps the Neo4j driver and provides the merge and export
// operations of the film graph.
type Client struct {
	driver neo4j.DriverWithContext
}

// NewClient creates a new Neo4j client from configuration.
func NewClient(cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Client{driver: driver}, nil
}

// EnsureConstraints creates uniqueness constraints on Film(id) and
// Actor(id) if they do not exist. Idempotent, safe on every start;
// the backing indexes also keep MERGE-by-id fast.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	session := c.Session(ctx)
	defer session.Close(ctx)
	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, CreateConstraintFilmID, nil); err != nil {
			return struct{}{}, fmt.Errorf("create film id constraint: %w", err)
		}
		if _, err := tx.Run(ctx, CreateConstraintActorID, nil); err != nil {
			return struct{}{}, fmt.Errorf("create actor id constraint: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// Close releases the Neo4j driver resources.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Verify checks connectivity to Neo4j.
func (c *Client) Verify(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Session returns a new write session.
func (c *Client) Session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// ReadSession returns a new read session for export queries.
func (c *Client) ReadSession(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}
