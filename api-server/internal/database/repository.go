package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid slot date range")
)

//go:embed schema.sql
var schemaSQL string

// Repository handles all database operations of the console
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the console tables if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// --- Search ---

// TenantSearch adapts the repository to a single tenant's search collaborator
type TenantSearch struct {
	repo     *Repository
	tenantID string
}

// ForTenant returns a search collaborator scoped to tenantID
func (r *Repository) ForTenant(tenantID string) *TenantSearch {
	return &TenantSearch{repo: r, tenantID: tenantID}
}

// Search implements search.SearchCollaborator
func (s *TenantSearch) Search(ctx context.Context, filter search.FilterState) ([]models.Booking, int, error) {
	return s.repo.SearchBookings(ctx, s.tenantID, filter)
}

// SearchBookings returns one page of a tenant's bookings and the total match count
func (r *Repository) SearchBookings(ctx context.Context, tenantID string, filter search.FilterState) ([]models.Booking, int, error) {
	q := buildSearchQuery(tenantID, filter)

	var total int
	countSQL := "SELECT COUNT(*) FROM hall_bookings b " + q.where()
	if err := r.pool.QueryRow(ctx, countSQL, q.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	where := q.where()
	page := q.pageClause(filter)
	query := `
		SELECT b.booking_id, b.booking_no, b.tenant_id, b.community_hall_code, b.booking_status,
		       b.applicant_name, b.applicant_mobile_no, b.created_at,
		       (SELECT MIN(s.booking_date) FROM booking_slots s WHERE s.booking_id = b.booking_id) AS commencement_date
		FROM hall_bookings b
		` + where + `
		` + orderBy(filter) + `
		` + page

	rows, err := r.pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var found []bookingRow
	for rows.Next() {
		var b bookingRow
		err := rows.Scan(
			&b.BookingID, &b.BookingNo, &b.TenantID, &b.CommunityHallCode, &b.BookingStatus,
			&b.ApplicantName, &b.ApplicantMobileNo, &b.CreatedAt, &b.CommencementDate,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		found = append(found, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read bookings: %w", err)
	}

	ids := make([]string, len(found))
	for i, b := range found {
		ids[i] = b.BookingID
	}
	slots, err := r.slotsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	bookings := make([]models.Booking, 0, len(found))
	for _, b := range found {
		bookings = append(bookings, b.toModel(slots[b.BookingID]))
	}
	return bookings, total, nil
}

func (r *Repository) slotsFor(ctx context.Context, bookingIDs []string) (map[string][]models.BookingSlot, error) {
	out := make(map[string][]models.BookingSlot, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT booking_id, booking_date, hall_code
		FROM booking_slots
		WHERE booking_id = ANY($1)
		ORDER BY booking_date, hall_code
	`, bookingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s slotRow
		if err := rows.Scan(&s.BookingID, &s.BookingDate, &s.HallCode); err != nil {
			return nil, fmt.Errorf("failed to scan booking slot: %w", err)
		}
		out[s.BookingID] = append(out[s.BookingID], s.toModel())
	}
	return out, rows.Err()
}

// --- Mutation ---

// Submit persists the updated booking record. Cancelling a booking drops its slot hold.
func (r *Repository) Submit(ctx context.Context, booking models.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE hall_bookings
		SET booking_status = $1, community_hall_code = $2, applicant_name = $3,
		    applicant_mobile_no = $4, updated_at = NOW()
		WHERE booking_id = $5 AND tenant_id = $6
	`, string(booking.BookingStatus), booking.CommunityHallCode, booking.ApplicantDetail.ApplicantName,
		booking.ApplicantDetail.ApplicantMobileNo, booking.BookingID, booking.TenantID)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	if booking.BookingStatus == models.BookingStatusCancelled {
		if _, err := tx.Exec(ctx, `DELETE FROM slot_holds WHERE booking_id = $1`, booking.BookingID); err != nil {
			return fmt.Errorf("failed to release slot hold: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// --- Catalog ---

// ListHallCodes returns the community halls of a tenant
func (r *Repository) ListHallCodes(ctx context.Context, tenantID string) ([]models.CommunityHall, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, name FROM community_halls
		WHERE tenant_id = $1
		ORDER BY name, code
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query community halls: %w", err)
	}
	defer rows.Close()

	var halls []models.CommunityHall
	for rows.Next() {
		var h models.CommunityHall
		if err := rows.Scan(&h.Code, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan community hall: %w", err)
		}
		halls = append(halls, h)
	}
	return halls, rows.Err()
}

// --- Slot availability ---

// SlotAvailability reports, per date of the query range, whether another booking
// has already finalized the hall slot
func (r *Repository) SlotAvailability(ctx context.Context, q models.SlotAvailabilityQuery) ([]models.HallSlotAvailability, error) {
	start, end, err := parseRange(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT d::date,
		       EXISTS (
		           SELECT 1 FROM booking_slots s
		           JOIN hall_bookings b ON b.booking_id = s.booking_id
		           WHERE b.tenant_id = $1
		             AND b.community_hall_code = $2
		             AND s.hall_code = $3
		             AND s.booking_date = d::date
		             AND b.booking_id <> $4
		             AND b.booking_status = $5
		       ) AS booked
		FROM generate_series($6::date, $7::date, interval '1 day') AS d
		ORDER BY d
	`, q.TenantID, q.CommunityHallCode, q.HallCode, q.BookingID, string(models.BookingStatusBooked), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query slot availability: %w", err)
	}
	defer rows.Close()

	var slots []models.HallSlotAvailability
	for rows.Next() {
		var date time.Time
		var booked bool
		if err := rows.Scan(&date, &booked); err != nil {
			return nil, fmt.Errorf("failed to scan slot availability: %w", err)
		}
		status := models.SlotStatusAvailable
		if booked {
			status = models.SlotStatusBooked
		}
		slots = append(slots, models.HallSlotAvailability{
			CommunityHallCode: q.CommunityHallCode,
			HallCode:          q.HallCode,
			BookingDate:       date.Format(models.DateLayout),
			SlotStatus:        status,
		})
	}
	return slots, rows.Err()
}

// HoldSlots records or extends the payment hold of a booking
func (r *Repository) HoldSlots(ctx context.Context, bookingID string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO slot_holds (booking_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (booking_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`, bookingID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to hold slots: %w", err)
	}
	return nil
}

// GetHoldExpiry returns when the hold of a booking expires
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

func parseRange(q models.SlotAvailabilityQuery) (time.Time, time.Time, error) {
	start, err := time.Parse(models.DateLayout, q.BookingStartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q", ErrInvalidRange, q.BookingStartDate)
	}
	end, err := time.Parse(models.DateLayout, q.BookingEndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q", ErrInvalidRange, q.BookingEndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s after %s", ErrInvalidRange, q.BookingStartDate, q.BookingEndDate)
	}
	return start, end, nil
}
