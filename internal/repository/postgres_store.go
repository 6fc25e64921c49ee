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

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/pkg/telemetry"
)

// PostgresStore implements InventoryRepository and BookingRepository using
// PostgreSQL. Create and Reset run inside a transaction with the affected
// slot rows locked, so concurrent bookings of the same slot cannot both
// succeed.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var (
	_ InventoryRepository = (*PostgresStore)(nil)
	_ BookingRepository   = (*PostgresStore)(nil)
)

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// SeedSlots inserts the slot inventory if missing. Existing rows keep their
// booking state.
func (s *PostgresStore) SeedSlots(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.seed")
	defer span.End()

	query := `
		INSERT INTO slots (id, category, price, is_booked)
		VALUES ($1, $2, $3, false)
		ON CONFLICT (id) DO NOTHING
	`

	for _, slot := range domain.AllSlots() {
		if _, err := s.pool.Exec(ctx, query, slot.ID, string(slot.Category), slot.Price); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to seed slot %s: %w", slot.ID, err)
		}
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetAll returns every slot in layout order
func (s *PostgresStore) GetAll(ctx context.Context) ([]*domain.Slot, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.get_all")
	defer span.End()

	query := `
		SELECT id, category, price, is_booked, booked_at, booked_by
		FROM slots
		ORDER BY category, id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	var slots []*domain.Slot
	for rows.Next() {
		slot := &domain.Slot{}
		var category string
		if err := rows.Scan(&slot.ID, &category, &slot.Price, &slot.IsBooked, &slot.BookedAt, &slot.BookedBy); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slot.Category = domain.SlotCategory(category)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate slots: %w", err)
	}

	span.SetAttributes(attribute.Int("slot_count", len(slots)))
	span.SetStatus(codes.Ok, "")
	return slots, nil
}

// IsAvailable reports whether all given slots exist and are unbooked
func (s *PostgresStore) IsAvailable(ctx context.Context, slotIDs []string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.is_available")
	defer span.End()

	query := `
		SELECT count(*)
		FROM slots
		WHERE id = ANY($1) AND is_booked = false
	`

	var available int
	if err := s.pool.QueryRow(ctx, query, slotIDs).Scan(&available); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check availability: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return available == len(slotIDs), nil
}

// Stats returns occupancy counts per category
func (s *PostgresStore) Stats(ctx context.Context) (map[domain.SlotCategory]*domain.SlotStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.stats")
	defer span.End()

	query := `
		SELECT category,
		       count(*) AS total,
		       count(*) FILTER (WHERE is_booked) AS booked
		FROM slots
		GROUP BY category
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[domain.SlotCategory]*domain.SlotStats)
	for rows.Next() {
		var category string
		var total, booked int
		if err := rows.Scan(&category, &total, &booked); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats[domain.SlotCategory(category)] = &domain.SlotStats{
			Total:     total,
			Booked:    booked,
			Available: total - booked,
		}
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate stats: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return stats, nil
}

// Reset releases every booked slot and removes all bookings
func (s *PostgresStore) Reset(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.reset")
	defer span.End()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE slots
		SET is_booked = false, booked_at = NULL, booked_by = NULL
		WHERE is_booked = true
	`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to release slots: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bookings`); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to delete bookings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to commit reset: %w", err)
	}

	released := int(tag.RowsAffected())
	span.SetAttributes(attribute.Int("slots_released", released))
	span.SetStatus(codes.Ok, "")
	return released, nil
}

// Create atomically checks availability, marks the slots booked, and
// persists the booking. The slot rows are locked for the duration of the
// transaction.
func (s *PostgresStore) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_reference", booking.Reference),
		attribute.String("user_id", booking.UserID),
		attribute.Int("slot_count", len(booking.SlotIDs)),
	)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, category, is_booked
		FROM slots
		WHERE id = ANY($1)
		FOR UPDATE
	`, booking.SlotIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to lock slots: %w", err)
	}

	found := make(map[string]struct{}, len(booking.SlotIDs))
	var unavailable []string
	for rows.Next() {
		var id, category string
		var isBooked bool
		if err := rows.Scan(&id, &category, &isBooked); err != nil {
			rows.Close()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to scan slot: %w", err)
		}
		if domain.SlotCategory(category) == booking.Category {
			found[id] = struct{}{}
		}
		if isBooked {
			unavailable = append(unavailable, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to iterate slots: %w", err)
	}

	var unknown []string
	for _, id := range booking.SlotIDs {
		if _, ok := found[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		span.SetStatus(codes.Error, "unknown slots")
		return &domain.UnknownSlotsError{SlotIDs: unknown}
	}
	if len(unavailable) > 0 {
		span.SetStatus(codes.Error, "slots unavailable")
		return &domain.SlotsUnavailableError{SlotIDs: unavailable}
	}

	now := time.Now()
	if _, err := tx.Exec(ctx, `
		UPDATE slots
		SET is_booked = true, booked_at = $1, booked_by = $2
		WHERE id = ANY($3)
	`, now, booking.UserID, booking.SlotIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to mark slots booked: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO bookings (
			id, reference, user_id, category, slot_ids,
			base_amount, platform_fee, night_surcharge, total_fees, grand_total,
			is_night_time, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13
		)
	`,
		booking.ID,
		booking.Reference,
		booking.UserID,
		string(booking.Category),
		booking.SlotIDs,
		booking.BaseAmount,
		booking.PlatformFee,
		booking.NightSurcharge,
		booking.TotalFees,
		booking.GrandTotal,
		booking.IsNightTime,
		string(booking.Status),
		booking.CreatedAt,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByReference returns the booking with the given reference
func (s *PostgresStore) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_reference")
	defer span.End()

	span.SetAttributes(attribute.String("booking_reference", reference))

	query := `
		SELECT id, reference, user_id, category, slot_ids,
		       base_amount, platform_fee, night_surcharge, total_fees, grand_total,
		       is_night_time, status, created_at
		FROM bookings
		WHERE reference = $1
	`

	booking, err := scanBooking(s.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// GetByUserID returns a user's bookings, most recent first
func (s *PostgresStore) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `
		SELECT id, reference, user_id, category, slot_ids,
		       base_amount, platform_fee, night_surcharge, total_fees, grand_total,
		       is_night_time, status, created_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("booking_count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// ExistsReference reports whether a booking reference is already in use
func (s *PostgresStore) ExistsReference(ctx context.Context, reference string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.exists_reference")
	defer span.End()

	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE reference = $1)`, reference).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check reference: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var category, status string

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&category,
		&booking.SlotIDs,
		&booking.BaseAmount,
		&booking.PlatformFee,
		&booking.NightSurcharge,
		&booking.TotalFees,
		&booking.GrandTotal,
		&booking.IsNightTime,
		&status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Category = domain.SlotCategory(category)
	booking.Status = domain.BookingStatus(status)
	return booking, nil
}
