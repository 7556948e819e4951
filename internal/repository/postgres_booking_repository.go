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

// PostgresBookingRepository implements BookingRepository using PostgreSQL
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

const bookingColumns = `id, user_id, player_name, player_level, created_at, updated_at`

func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", booking.UserID))

	row := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (user_id, player_name, player_level, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING `+bookingColumns,
		booking.UserID, booking.PlayerName, booking.PlayerLevel,
	)
	created, err := scanBooking(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return created, nil
}

func (r *PostgresBookingRepository) List(ctx context.Context) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at ASC`,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking := &domain.Booking{}
		if err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.PlayerName,
			&booking.PlayerLevel,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

func (r *PostgresBookingRepository) HasBookingSince(ctx context.Context, userID string, since time.Time) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.has_since")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE user_id = $1 AND created_at >= $2)`,
		userID, since,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check bookings: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

func (r *PostgresBookingRepository) Delete(ctx context.Context, id, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", id),
		attribute.String("user_id", userID),
	)

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM bookings WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *PostgresBookingRepository) DeleteAll(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.delete_all")
	defer span.End()

	if _, err := r.pool.Exec(ctx, `DELETE FROM bookings`); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete bookings: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.PlayerName,
		&booking.PlayerLevel,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// PostgresProfileRepository implements ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.profile.get_by_user_id")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	profile := &domain.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, name, phone, gender_category FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.UserID, &profile.Name, &profile.Phone, &profile.GenderCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return profile, nil
}

// Ensure implementations satisfy their interfaces
var (
	_ BookingRepository = (*PostgresBookingRepository)(nil)
	_ ProfileRepository = (*PostgresProfileRepository)(nil)
)
