package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/filmgraph-labs/filmgraph/pkg/models"
)

// Export reads the whole graph: all actors, all films, and all
// actor→role→film triples.
func (c *Client) Export(ctx context.Context) (*models.GraphExport, error) {
	actors, err := c.Actors(ctx)
	if err != nil {
		return nil, err
	}
	films, err := c.Films(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := c.Roles(ctx)
	if err != nil {
		return nil, err
	}
	return &models.GraphExport{Actors: actors, Films: films, Roles: roles}, nil
}

// Actors returns every actor node.
func (c *Client) Actors(ctx context.Context) ([]models.Actor, error) {
	records, err := c.readAll(ctx, MatchAllActors)
	if err != nil {
		return nil, fmt.Errorf("match actors: %w", err)
	}

	actors := make([]models.Actor, 0, len(records))
	for _, rec := range records {
		actors = append(actors, models.Actor{
			ID:         recInt(rec, "id"),
			Name:       recString(rec, "name"),
			Popularity: recFloat(rec, "popularity"),
			Features:   recInt(rec, "features"),
		})
	}
	return actors, nil
}

// Films returns every film node.
func (c *Client) Films(ctx context.Context) ([]models.Film, error) {
	records, err := c.readAll(ctx, MatchAllFilms)
	if err != nil {
		return nil, fmt.Errorf("match films: %w", err)
	}

	films := make([]models.Film, 0, len(records))
	for _, rec := range records {
		film := models.Film{
			ID:         recInt(rec, "id"),
			Title:      recString(rec, "title"),
			Popularity: recFloat(rec, "popularity"),
		}
		if v, ok := rec.Get("year"); ok && v != nil {
			if y, ok := v.(int64); ok {
				yi := int(y)
				film.Year = &yi
			}
		}
		films = append(films, film)
	}
	return films, nil
}

// Roles returns every Actor→ROLE→Film edge.
func (c *Client) Roles(ctx context.Context) ([]models.Role, error) {
	records, err := c.readAll(ctx, MatchAllRoles)
	if err != nil {
		return nil, fmt.Errorf("match roles: %w", err)
	}

	roles := make([]models.Role, 0, len(records))
	for _, rec := range records {
		roles = append(roles, models.Role{
			ID:        recString(rec, "id"),
			ActorID:   recInt(rec, "actorId"),
			FilmID:    recInt(rec, "filmId"),
			Character: recString(rec, "character"),
		})
	}
	return roles, nil
}

func (c *Client) readAll(ctx context.Context, cypher string) ([]*neo4j.Record, error) {
	session := c.ReadSession(ctx)
	defer session.Close(ctx)

	records, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) ([]*neo4j.Record, error) {
		result, err := tx.Run(ctx, cypher, nil)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func recInt(rec *neo4j.Record, key string) int64 {
	if v, ok := rec.Get(key); ok {
		if i, ok := v.(int64); ok {
			return i
		}
	}
	return 0
}

func recString(rec *neo4j.Record, key string) string {
	if v, ok := rec.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func recFloat(rec *neo4j.Record, key string) float64 {
	if v, ok := rec.Get(key); ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}
