package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// PostgresSystemStateRepository implements SystemStateRepository using
// PostgreSQL with pgxpool
type PostgresSystemStateRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSystemStateRepository creates a new PostgresSystemStateRepository
func NewPostgresSystemStateRepository(pool *pgxpool.Pool) *PostgresSystemStateRepository {
	return &PostgresSystemStateRepository{pool: pool}
}

const systemStateColumns = `
	id, is_priority_mode, is_open_for_all,
	priority_timer_started_at, priority_timer_duration_seconds,
	created_at, updated_at
`

// Get returns the singleton state
func (r *PostgresSystemStateRepository) Get(ctx context.Context) (*domain.SystemState, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.system_state.get")
	defer span.End()

	query := `SELECT ` + systemStateColumns + ` FROM system_state ORDER BY created_at LIMIT 1`

	state, err := scanSystemState(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not initialized")
			return nil, domain.ErrStateNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get system state: %w", err)
	}

	span.SetAttributes(attribute.String("mode", string(state.Mode())))
	span.SetStatus(codes.Ok, "")
	return state, nil
}

// Bootstrap creates the singleton row if missing and returns it
func (r *PostgresSystemStateRepository) Bootstrap(ctx context.Context, timerDuration time.Duration) (*domain.SystemState, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.system_state.bootstrap")
	defer span.End()

	// Partial unique index on (TRUE) keeps this a single-row table;
	// the conflict target makes repeated bootstraps no-ops
	query := `
		INSERT INTO system_state (is_priority_mode, is_open_for_all, priority_timer_duration_seconds)
		VALUES (FALSE, FALSE, $1)
		ON CONFLICT (singleton) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, int64(timerDuration.Seconds())); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to bootstrap system state: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return r.Get(ctx)
}

// StartPriorityWindow flips to priority mode and anchors the timer
func (r *PostgresSystemStateRepository) StartPriorityWindow(ctx context.Context, now time.Time) (*domain.SystemState, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.system_state.start_priority")
	defer span.End()

	// Both flags written in one statement so the mutual exclusion can
	// never be observed violated
	query := `
		UPDATE system_state SET
			is_priority_mode = TRUE,
			is_open_for_all = FALSE,
			priority_timer_started_at = $1,
			updated_at = $1
		RETURNING ` + systemStateColumns

	state, err := scanSystemState(r.pool.QueryRow(ctx, query, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not initialized")
			return nil, domain.ErrStateNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to start priority window: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return state, nil
}

// OpenForAll flips to open-for-all
func (r *PostgresSystemStateRepository) OpenForAll(ctx context.Context) (*domain.SystemState, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.system_state.open_for_all")
	defer span.End()

	query := `
		UPDATE system_state SET
			is_priority_mode = FALSE,
			is_open_for_all = TRUE,
			priority_timer_started_at = NULL,
			updated_at = NOW()
		RETURNING ` + systemStateColumns

	state, err := scanSystemState(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not initialized")
			return nil, domain.ErrStateNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to open for all: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return state, nil
}

// Pause clears both modes
func (r *PostgresSystemStateRepository) Pause(ctx context.Context) (*domain.SystemState, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.system_state.pause")
	defer span.End()

	query := `
		UPDATE system_state SET
			is_priority_mode = FALSE,
			is_open_for_all = FALSE,
			priority_timer_started_at = NULL,
			updated_at = NOW()
		RETURNING ` + systemStateColumns

	state, err := scanSystemState(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not initialized")
			return nil, domain.ErrStateNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to pause system: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return state, nil
}

// TryAutoStart starts a priority window only when every trigger guard
// passes, in a single conditional UPDATE. RowsAffected tells us which
// of two overlapping invocations actually fired.
func (r *PostgresSystemStateRepository) TryAutoStart(ctx context.Context, now time.Time, refireGuard time.Duration) (bool, *domain.SystemState, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.system_state.try_auto_start")
	defer span.End()

	query := `
		UPDATE system_state SET
			is_priority_mode = TRUE,
			is_open_for_all = FALSE,
			priority_timer_started_at = $1,
			updated_at = $1
		WHERE is_priority_mode = FALSE
			AND is_open_for_all = FALSE
			AND (priority_timer_started_at IS NULL OR priority_timer_started_at < $2)
		RETURNING ` + systemStateColumns

	state, err := scanSystemState(r.pool.QueryRow(ctx, query, now, now.Add(-refireGuard)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A guard held: mode already active or timer started recently
			span.SetAttributes(attribute.Bool("started", false))
			span.SetStatus(codes.Ok, "guard held")
			return false, nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, nil, fmt.Errorf("failed to auto-start priority window: %w", err)
	}

	span.SetAttributes(attribute.Bool("started", true))
	span.SetStatus(codes.Ok, "")
	return true, state, nil
}

// scanSystemState scans a row into a SystemState
func scanSystemState(row pgx.Row) (*domain.SystemState, error) {
	state := &domain.SystemState{}
	var (
		startedAt       *time.Time
		durationSeconds int64
	)

	err := row.Scan(
		&state.ID,
		&state.IsPriorityMode,
		&state.IsOpenForAll,
		&startedAt,
		&durationSeconds,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.PriorityTimerStartedAt = startedAt
	state.PriorityTimerDuration = time.Duration(durationSeconds) * time.Second
	return state, nil
}

// Ensure PostgresSystemStateRepository implements SystemStateRepository
var _ SystemStateRepository = (*PostgresSystemStateRepository)(nil)
