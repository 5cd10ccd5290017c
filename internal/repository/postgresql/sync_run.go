package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type migration struct {
	Index       int
	Description string
	Query       string
}

var migrations = []migration{
	{
		Index:       1,
		Description: "Create table: sync_runs",
		Query: `
		CREATE TABLE IF NOT EXISTS sync_runs (
			id text primary key,
			kind text not null,
			status text not null,
			range_from date,
			range_to date,
			fetched int not null default 0,
			dropped int not null default 0,
			written int not null default 0,
			failed int not null default 0,
			error text,
			started_at timestamptz not null,
			finished_at timestamptz not null
		);`,
	},
	{
		Index:       2,
		Description: "Create index: sync_runs started_at",
		Query:       `CREATE INDEX IF NOT EXISTS sync_runs_started_at_idx ON sync_runs (started_at DESC);`,
	},
	{
		Index:       3,
		Description: "Create table: sync_run_outcomes",
		Query: `
		CREATE TABLE IF NOT EXISTS sync_run_outcomes (
			run_id text not null references sync_runs(id) on delete cascade,
			position int not null,
			key text,
			success boolean not null,
			status_code int,
			payload jsonb,
			error text,
			primary key (run_id, position)
		);`,
	},
}

type syncRunRepository struct {
	db *database.DB
}

// NewSyncRunRepository creates the PostgreSQL-backed run journal
func NewSyncRunRepository(db *database.DB) syncrun.Journal {
	return &syncRunRepository{db: db}
}

// EnsureSchema applies the journal migrations. Every statement is idempotent.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	for _, m := range migrations {
		if _, err := db.Exec(ctx, m.Query); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Index, m.Description, err)
		}
		slog.Debug("Applied migration", "index", m.Index, "description", m.Description)
	}
	return nil
}

// Record stores a run and its write outcomes atomically
func (r *syncRunRepository) Record(ctx context.Context, run syncrun.Run) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			INSERT INTO sync_runs (id, kind, status, range_from, range_to, fetched, dropped, written, failed, error, started_at, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		_, err := q.Exec(ctx, query,
			run.ID,
			string(run.Kind),
			string(run.Status),
			run.RangeFrom,
			run.RangeTo,
			run.Fetched,
			run.Dropped,
			run.Written,
			run.Failed,
			run.Error,
			run.StartedAt,
			run.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sync run: %w", err)
		}

		for i, o := range run.Outcomes {
			var payload []byte
			if len(o.Payload) > 0 {
				payload = o.Payload
			}
			_, err := q.Exec(ctx, `
				INSERT INTO sync_run_outcomes (run_id, position, key, success, status_code, payload, error)
				VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, 0), $6, NULLIF($7, ''))
			`, run.ID, i, o.Key, o.Success, o.StatusCode, payload, o.Error)
			if err != nil {
				return fmt.Errorf("failed to insert outcome %d of run %s: %w", i, run.ID, err)
			}
		}
		return nil
	})
}

// ListRecent returns the latest runs without their outcomes
func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncrun.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, kind, status, range_from, range_to, fetched, dropped, written, failed, error, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	runs := []syncrun.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync runs: %w", err)
	}

	return runs, nil
}

// GetByID returns a run with its outcomes in write order
func (r *syncRunRepository) GetByID(ctx context.Context, id string) (syncrun.Run, error) {
	q := GetQuerier(ctx, r.db)

	row := q.QueryRow(ctx, `
		SELECT id, kind, status, range_from, range_to, fetched, dropped, written, failed, error, started_at, finished_at
		FROM sync_runs
		WHERE id = $1
	`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return syncrun.Run{}, syncrun.ErrRunNotFound
		}
		return syncrun.Run{}, err
	}

	rows, err := q.Query(ctx, `
		SELECT COALESCE(key, ''), success, COALESCE(status_code, 0), payload, COALESCE(error, '')
		FROM sync_run_outcomes
		WHERE run_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("failed to load outcomes of run %s: %w", id, err)
	}
	defer rows.Close()

	run.Outcomes = []syncrun.WriteOutcome{}
	for rows.Next() {
		var o syncrun.WriteOutcome
		var payload []byte
		if err := rows.Scan(&o.Key, &o.Success, &o.StatusCode, &payload, &o.Error); err != nil {
			return syncrun.Run{}, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Payload = payload
		run.Outcomes = append(run.Outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return syncrun.Run{}, fmt.Errorf("failed to iterate outcomes: %w", err)
	}

	return run, nil
}

func scanRun(row pgx.Row) (syncrun.Run, error) {
	var run syncrun.Run
	var kind, status string
	err := row.Scan(
		&run.ID,
		&kind,
		&status,
		&run.RangeFrom,
		&run.RangeTo,
		&run.Fetched,
		&run.Dropped,
		&run.Written,
		&run.Failed,
		&run.Error,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return syncrun.Run{}, err
		}
		return syncrun.Run{}, fmt.Errorf("failed to scan sync run: %w", err)
	}
	run.Kind = syncrun.Kind(kind)
	run.Status = syncrun.Status(status)
	return run, nil
}
