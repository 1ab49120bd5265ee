package models

// Actor is a person node in the film graph. Features counts the
// role-merges ever recorded for this actor, across every ingestion.
type Actor struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Popularity float64 `json:"popularity"`
	Features   int64   `json:"features"`
}

// Film is a film node. Year is absent when the catalog's release date
// was missing or unparsable; all attributes are set on first create
// and never updated afterwards.
type Film struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Year       *int    `json:"year"`
	Popularity float64 `json:"popularity"`
}

// Role is a directed Actor→Film edge, identified by the catalog's
// credit id.
type Role struct {
	ID        string `json:"id"`
	ActorID   int64  `json:"actor_id"`
	FilmID    int64  `json:"film_id"`
	Character string `json:"character"`
}

// GraphExport is the wire shape of the whole-graph read endpoint.
type GraphExport struct {
	Actors []Actor `json:"actors"`
	Films  []Film  `json:"films"`
	Roles  []Role  `json:"roles"`
}
