package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("not found")
)

// unpaidStatuses are the statuses an expired hold moves to EXPIRED
var unpaidStatuses = []string{
	string(models.BookingStatusCreated),
	string(models.BookingStatusPendingForPayment),
	string(models.BookingStatusPaymentFailed),
}

// Repository handles database operations for the worker
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetHoldExpiry returns when the slot hold of a booking expires
func (r *Repository) GetHoldExpiry(ctx context.Context, bookingID string) (time.Time, error) {
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT expires_at FROM slot_holds WHERE booking_id = $1
	`, bookingID).Scan(&expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to get hold expiry: %w", err)
	}
	return expiresAt, nil
}

// ExpireHold drops a lapsed hold and moves a still-unpaid booking to EXPIRED.
// It reports whether the booking status changed.
func (r *Repository) ExpireHold(ctx context.Context, bookingID string, asOf time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		DELETE FROM slot_holds WHERE booking_id = $1 AND expires_at <= $2
	`, bookingID, asOf)
	if err != nil {
		return false, fmt.Errorf("failed to release slot hold: %w", err)
	}
	if result.RowsAffected() == 0 {
		return false, ErrNotFound
	}

	result, err = tx.Exec(ctx, `
		UPDATE hall_bookings
		SET booking_status = $1, updated_at = NOW()
		WHERE booking_id = $2 AND booking_status = ANY($3)
	`, string(models.BookingStatusExpired), bookingID, unpaidStatuses)
	if err != nil {
		return false, fmt.Errorf("failed to expire booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit hold expiry: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
