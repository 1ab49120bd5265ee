package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MergeParams carries the named parameters of one cast-role merge.
// Year is nil when the catalog release date was missing or
// unparsable; the film is then stored without a year property.
type MergeParams struct {
	ActorID         int64
	ActorName       string
	ActorPopularity float64
	FilmID          int64
	Title           string
	FilmPopularity  float64
	Year            *int
	CreditID        string
	Character       string
}

// MergeCastRole performs one idempotent actor/film/role merge as a
// single transaction. Concurrent merges for the same actor serialize
// at the store, not in this client.
func (c *Client) MergeCastRole(ctx context.Context, p MergeParams) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	params := map[string]any{
		"actorId":         p.ActorID,
		"actorName":       p.ActorName,
		"actorPopularity": p.ActorPopularity,
		"filmId":          p.FilmID,
		"title":           p.Title,
		"filmPopularity":  p.FilmPopularity,
		"year":            yearParam(p.Year),
		"creditId":        p.CreditID,
		"character":       p.Character,
	}

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, MergeCastRole, params)
		return struct{}{}, err
	})
	return err
}

// MergeFilm ensures the film node exists on its own. Used when the
// filtered cast is empty and no role merge will create it.
func (c *Client) MergeFilm(ctx context.Context, filmID int64, title string, popularity float64, year *int) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, MergeFilmOnly, map[string]any{
			"filmId":         filmID,
			"title":          title,
			"filmPopularity": popularity,
			"year":           yearParam(year),
		})
		return struct{}{}, err
	})
	return err
}

func yearParam(year *int) any {
	if year == nil {
		return nil
	}
	return int64(*year)
}
