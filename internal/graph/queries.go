package graph

// Cypher constants for the film graph. All values are bound as named
// parameters; nothing user-controlled is ever interpolated into the
// query text.
const (
	// CreateConstraintFilmID ensures Film(id) is unique and indexed.
	CreateConstraintFilmID = `CREATE CONSTRAINT film_id_unique IF NOT EXISTS FOR (f:Film) REQUIRE f.id IS UNIQUE`
	// CreateConstraintActorID ensures Actor(id) is unique and indexed.
	CreateConstraintActorID = `CREATE CONSTRAINT actor_id_unique IF NOT EXISTS FOR (a:Actor) REQUIRE a.id IS UNIQUE`

	// MergeCastRole is the single atomic upsert behind each task: the
	// actor is created with features=1 or has its counter incremented,
	// the film is created with all attributes set-on-create only, and
	// the ROLE edge is created once per credit id. Running it twice
	// with the same inputs changes nothing except a.features, which
	// counts role-merges by contract.
	MergeCastRole = `
MERGE (a:Actor {id: $actorId})
ON CREATE
    SET a.name = $actorName,
        a.popularity = $actorPopularity,
        a.features = 1
ON MATCH
    SET a.features = coalesce(a.features, 0) + 1

MERGE (f:Film {id: $filmId})
ON CREATE
    SET f.title = $title,
        f.popularity = $filmPopularity,
        f.year = $year

MERGE (a)-[r:ROLE {id: $creditId}]->(f)
ON CREATE
    SET r.character = $character
`

	// MergeFilmOnly ensures the Film node exists when the filtered
	// cast is empty, so an ingested film is visible in the export even
	// with zero retained actors.
	MergeFilmOnly = `
MERGE (f:Film {id: $filmId})
ON CREATE
    SET f.title = $title,
        f.popularity = $filmPopularity,
        f.year = $year
`

	// MatchAllActors returns every actor node as scalar columns.
	MatchAllActors = `
MATCH (a:Actor)
RETURN a.id AS id, a.name AS name, a.popularity AS popularity, a.features AS features
`

	// MatchAllFilms returns every film node as scalar columns.
	MatchAllFilms = `
MATCH (f:Film)
RETURN f.id AS id, f.title AS title, f.year AS year, f.popularity AS popularity
`

	// MatchAllRoles returns every Actor→ROLE→Film triple.
	MatchAllRoles = `
MATCH (a:Actor)-[r:ROLE]->(f:Film)
RETURN r.id AS id, a.id AS actorId, f.id AS filmId, r.character AS character
`
)
