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

// queueLockID is the advisory lock serializing every write to the
// priority queue. Joins, removals and sweeps all take it, so a join
// can never read capacity mid-sweep and positions stay dense.
const queueLockID int64 = 824473

// PostgresQueueRepository implements QueueRepository using PostgreSQL
// with pgxpool
type PostgresQueueRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresQueueRepository creates a new PostgresQueueRepository
func NewPostgresQueueRepository(pool *pgxpool.Pool) *PostgresQueueRepository {
	return &PostgresQueueRepository{pool: pool}
}

const queueColumns = `id, user_id, position, gender_category, joined_at`

// Join inserts an entry at position count+1 after checking capacity,
// all inside one locked transaction
func (r *PostgresQueueRepository) Join(ctx context.Context, entry *domain.QueueEntry, policy domain.CapacityPolicy) (*domain.QueueEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.queue.join")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", entry.UserID),
		attribute.String("category", entry.GenderCategory),
	)

	var stored *domain.QueueEntry
	err := r.withQueueLock(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM priority_queue WHERE user_id = $1)`,
			entry.UserID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check queue membership: %w", err)
		}
		if exists {
			return domain.ErrAlreadyInQueue
		}

		counts, err := categoryCounts(ctx, tx)
		if err != nil {
			return err
		}
		if err := policy.Admit(counts, entry.GenderCategory); err != nil {
			return err
		}

		total := 0
		for _, n := range counts {
			total += n
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO priority_queue (user_id, position, gender_category, joined_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING `+queueColumns,
			entry.UserID, total+1, entry.GenderCategory,
		)
		stored, err = scanQueueEntry(row)
		if err != nil {
			return fmt.Errorf("failed to insert queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("position", stored.Position))
	span.SetStatus(codes.Ok, "")
	return stored, nil
}

// LeaveByUser removes the entry for userID and renumbers
func (r *PostgresQueueRepository) LeaveByUser(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.queue.leave")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	err := r.withQueueLock(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM priority_queue WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to remove queue entry: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotInQueue
		}
		return renumber(ctx, tx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// RemoveByID removes the entry by its id and renumbers
func (r *PostgresQueueRepository) RemoveByID(ctx context.Context, entryID string) (*domain.QueueEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.queue.remove_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("entry_id", entryID))

	var removed *domain.QueueEntry
	err := r.withQueueLock(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`DELETE FROM priority_queue WHERE id = $1 RETURNING `+queueColumns,
			entryID,
		)
		var err error
		removed, err = scanQueueEntry(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrEntryNotFound
			}
			return fmt.Errorf("failed to remove queue entry: %w", err)
		}
		return renumber(ctx, tx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return removed, nil
}

// Clear removes every entry
func (r *PostgresQueueRepository) Clear(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.queue.clear")
	defer span.End()

	err := r.withQueueLock(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM priority_queue`); err != nil {
			return fmt.Errorf("failed to clear queue: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListOrdered returns all entries ordered by position ascending
func (r *PostgresQueueRepository) ListOrdered(ctx context.Context) ([]*domain.QueueEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.queue.list")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+queueColumns+` FROM priority_queue ORDER BY position ASC`,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	defer rows.Close()

	entries, err := collectQueueEntries(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(entries)))
	span.SetStatus(codes.Ok, "")
	return entries, nil
}

// Contains reports whether userID holds a queue slot
func (r *PostgresQueueRepository) Contains(ctx context.Context, userID string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.queue.contains")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM priority_queue WHERE user_id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check queue membership: %w", err)
	}

	span.SetAttributes(attribute.Bool("in_queue", exists))
	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// SweepIdle evicts idle entries whose user never booked after joining,
// then renumbers, all in one locked transaction
func (r *PostgresQueueRepository) SweepIdle(ctx context.Context, cutoff time.Time) ([]*domain.QueueEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.queue.sweep")
	defer span.End()

	span.SetAttributes(attribute.String("cutoff", cutoff.Format(time.RFC3339)))

	var evicted []*domain.QueueEntry
	err := r.withQueueLock(ctx, func(tx pgx.Tx) error {
		// A booking created at or after the join means the player used
		// their slot; they are exempt from idle eviction
		rows, err := tx.Query(ctx, `
			DELETE FROM priority_queue q
			WHERE q.joined_at < $1
				AND NOT EXISTS (
					SELECT 1 FROM bookings b
					WHERE b.user_id = q.user_id AND b.created_at >= q.joined_at
				)
			RETURNING `+queueColumns,
			cutoff,
		)
		if err != nil {
			return fmt.Errorf("failed to evict idle entries: %w", err)
		}
		evicted, err = collectQueueEntries(rows)
		if err != nil {
			return err
		}
		if len(evicted) == 0 {
			return nil
		}
		return renumber(ctx, tx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("evicted", len(evicted)))
	span.SetStatus(codes.Ok, "")
	return evicted, nil
}

// withQueueLock runs fn inside a transaction holding the queue
// advisory lock. The lock is released at commit/rollback.
func (r *PostgresQueueRepository) withQueueLock(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin queue transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, queueLockID); err != nil {
		return fmt.Errorf("failed to acquire queue lock: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit queue transaction: %w", err)
	}
	return nil
}

// renumber reassigns dense positions 1..N preserving the current order
func renumber(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		UPDATE priority_queue q SET position = ranked.new_position
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position ASC) AS new_position
			FROM priority_queue
		) ranked
		WHERE q.id = ranked.id AND q.position <> ranked.new_position
	`)
	if err != nil {
		return fmt.Errorf("failed to renumber queue: %w", err)
	}
	return nil
}

// categoryCounts returns the current per-category occupancy
func categoryCounts(ctx context.Context, tx pgx.Tx) (map[string]int, error) {
	rows, err := tx.Query(ctx,
		`SELECT gender_category, COUNT(*) FROM priority_queue GROUP BY gender_category`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count queue entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan queue counts: %w", err)
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue counts: %w", err)
	}
	return counts, nil
}

// scanQueueEntry scans a single row into a QueueEntry
func scanQueueEntry(row pgx.Row) (*domain.QueueEntry, error) {
	entry := &domain.QueueEntry{}
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Position,
		&entry.GenderCategory,
		&entry.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// collectQueueEntries drains rows into a slice
func collectQueueEntries(rows pgx.Rows) ([]*domain.QueueEntry, error) {
	defer rows.Close()

	var entries []*domain.QueueEntry
	for rows.Next() {
		entry := &domain.QueueEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Position,
			&entry.GenderCategory,
			&entry.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue entries: %w", err)
	}
	return entries, nil
}

// Ensure PostgresQueueRepository implements QueueRepository
var _ QueueRepository = (*PostgresQueueRepository)(nil)
