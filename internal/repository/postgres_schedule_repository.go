package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// PostgresScheduleRepository implements ScheduleRepository using PostgreSQL
type PostgresScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleRepository creates a new PostgresScheduleRepository
func NewPostgresScheduleRepository(pool *pgxpool.Pool) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{pool: pool}
}

const scheduleColumns = `id, day_of_week, start_time, is_active, created_by, created_at, updated_at`

func (r *PostgresScheduleRepository) Create(ctx context.Context, rule *domain.AutoScheduleRule) (*domain.AutoScheduleRule, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.schedule.create")
	defer span.End()

	span.SetAttributes(
		attribute.Int("day_of_week", rule.DayOfWeek),
		attribute.String("start_time", rule.StartTime),
	)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO auto_schedule (day_of_week, start_time, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING `+scheduleColumns,
		rule.DayOfWeek, rule.StartTime, rule.IsActive, rule.CreatedBy,
	)
	created, err := scanScheduleRule(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create schedule rule: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return created, nil
}

func (r *PostgresScheduleRepository) GetByID(ctx context.Context, id string) (*domain.AutoScheduleRule, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.schedule.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("rule_id", id))

	row := r.pool.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM auto_schedule WHERE id = $1`, id,
	)
	rule, err := scanScheduleRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get schedule rule: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return rule, nil
}

func (r *PostgresScheduleRepository) List(ctx context.Context) ([]*domain.AutoScheduleRule, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.schedule.list")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleColumns+` FROM auto_schedule ORDER BY day_of_week ASC, start_time ASC`,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list schedule rules: %w", err)
	}

	rules, err := collectScheduleRules(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(rules)))
	span.SetStatus(codes.Ok, "")
	return rules, nil
}

func (r *PostgresScheduleRepository) ListActiveForDay(ctx context.Context, dayOfWeek int) ([]*domain.AutoScheduleRule, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.schedule.list_active_for_day")
	defer span.End()

	span.SetAttributes(attribute.Int("day_of_week", dayOfWeek))

	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM auto_schedule
		WHERE is_active = TRUE AND day_of_week = $1
		ORDER BY start_time ASC`,
		dayOfWeek,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list active schedule rules: %w", err)
	}

	rules, err := collectScheduleRules(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(rules)))
	span.SetStatus(codes.Ok, "")
	return rules, nil
}

func (r *PostgresScheduleRepository) Update(ctx context.Context, rule *domain.AutoScheduleRule) (*domain.AutoScheduleRule, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.schedule.update")
	defer span.End()

	span.SetAttributes(attribute.String("rule_id", rule.ID))

	row := r.pool.QueryRow(ctx, `
		UPDATE auto_schedule
		SET day_of_week = $2, start_time = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+scheduleColumns,
		rule.ID, rule.DayOfWeek, rule.StartTime, rule.IsActive,
	)
	updated, err := scanScheduleRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to update schedule rule: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return updated, nil
}

func (r *PostgresScheduleRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.schedule.delete")
	defer span.End()

	span.SetAttributes(attribute.String("rule_id", id))

	tag, err := r.pool.Exec(ctx, `DELETE FROM auto_schedule WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete schedule rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func scanScheduleRule(row pgx.Row) (*domain.AutoScheduleRule, error) {
	rule := &domain.AutoScheduleRule{}
	err := row.Scan(
		&rule.ID,
		&rule.DayOfWeek,
		&rule.StartTime,
		&rule.IsActive,
		&rule.CreatedBy,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func collectScheduleRules(rows pgx.Rows) ([]*domain.AutoScheduleRule, error) {
	defer rows.Close()

	var rules []*domain.AutoScheduleRule
	for rows.Next() {
		rule := &domain.AutoScheduleRule{}
		if err := rows.Scan(
			&rule.ID,
			&rule.DayOfWeek,
			&rule.StartTime,
			&rule.IsActive,
			&rule.CreatedBy,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rules: %w", err)
	}
	return rules, nil
}

// Ensure PostgresScheduleRepository implements ScheduleRepository
var _ ScheduleRepository = (*PostgresScheduleRepository)(nil)
