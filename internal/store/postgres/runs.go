package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx operations the queries need, satisfied by
// both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// IngestRun is one journaled ingestion of a film. The cast counters
// record how many of the retained cast entries merged successfully.
type IngestRun struct {
	ID           uuid.UUID `json:"id"`
	FilmID       int64     `json:"film_id"`
	Trigger      string    `json:"trigger"`
	Status       string    `json:"status"`
	CastTotal    int32     `json:"cast_total"`
	CastMerged   int32     `json:"cast_merged"`
	CastFailed   int32     `json:"cast_failed"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const ingestRunColumns = `id, film_id, trigger, status, cast_total, cast_merged, cast_failed, error_message, created_at, updated_at`

func scanIngestRun(row pgx.Row) (IngestRun, error) {
	var r IngestRun
	err := row.Scan(
		&r.ID, &r.FilmID, &r.Trigger, &r.Status,
		&r.CastTotal, &r.CastMerged, &r.CastFailed,
		&r.ErrorMessage, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

type CreateIngestRunParams struct {
	FilmID  int64
	Trigger string
}

func (q *Queries) CreateIngestRun(ctx context.Context, arg CreateIngestRunParams) (IngestRun, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO ingest_runs (id, film_id, trigger, status)
		 VALUES ($1, $2, $3, 'queued')
		 RETURNING `+ingestRunColumns,
		uuid.New(), arg.FilmID, arg.Trigger)
	return scanIngestRun(row)
}

type UpdateIngestRunStatusParams struct {
	ID           uuid.UUID
	Status       string
	ErrorMessage *string
}

func (q *Queries) UpdateIngestRunStatus(ctx context.Context, arg UpdateIngestRunStatusParams) error {
	_, err := q.db.Exec(ctx,
		`UPDATE ingest_runs
		 SET status = $2, error_message = $3, updated_at = now()
		 WHERE id = $1`,
		arg.ID, arg.Status, arg.ErrorMessage)
	return err
}

type UpdateIngestRunStatsParams struct {
	ID         uuid.UUID
	CastTotal  int32
	CastMerged int32
	CastFailed int32
}

func (q *Queries) UpdateIngestRunStats(ctx context.Context, arg UpdateIngestRunStatsParams) error {
	_, err := q.db.Exec(ctx,
		`UPDATE ingest_runs
		 SET cast_total = $2, cast_merged = $3, cast_failed = $4, updated_at = now()
		 WHERE id = $1`,
		arg.ID, arg.CastTotal, arg.CastMerged, arg.CastFailed)
	return err
}

func (q *Queries) GetIngestRun(ctx context.Context, id uuid.UUID) (IngestRun, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+ingestRunColumns+` FROM ingest_runs WHERE id = $1`, id)
	return scanIngestRun(row)
}

type ListIngestRunsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListIngestRuns(ctx context.Context, arg ListIngestRunsParams) ([]IngestRun, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+ingestRunColumns+`
		 FROM ingest_runs
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []IngestRun
	for rows.Next() {
		r, err := scanIngestRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
