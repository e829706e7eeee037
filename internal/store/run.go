package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/zackiles/bluebird-queue/internal/models"
	srvErrors "github.com/zackiles/bluebird-queue/pkg/errors"
)

// RunStore persists the run log using DuckDB.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Get retrieves a single run by id.
func (s *RunStore) Get(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, queryGetRun, id.String())

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewRunNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Save stores or updates a run.
func (s *RunStore) Save(ctx context.Context, run *models.Run) error {
	_, err := s.db.ExecContext(ctx, queryUpsertRun,
		run.ID.String(),
		string(run.State),
		run.Error,
		run.JobCount,
		run.ResultCount,
	)
	return err
}

// Delete removes a run from the log.
func (s *RunStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, queryDeleteRun, id.String())
	return err
}

func (s *RunStore) List(ctx context.Context, opts ...ListOption) ([]models.Run, error) {
	builder := sq.Select(
		"id",
		"state",
		"error",
		"job_count",
		"result_count",
		"created_at",
		"updated_at",
	).From("runs")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

func (s *RunStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("runs")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*models.Run, error) {
	var run models.Run
	var id, state string
	err := row.Scan(
		&id,
		&state,
		&run.Error,
		&run.JobCount,
		&run.ResultCount,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	run.State = models.RunState(state)
	return &run, nil
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByState(states ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(states) == 0 {
			return b
		}
		return b.Where(sq.Eq{"state": states})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("created_at DESC", "id")
	}
}
