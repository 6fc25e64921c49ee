package repository

import (
	"context"

	"github.com/EobardThawne2/parking-beta/internal/domain"
)

// InventoryRepository manages the parking slot inventory
type InventoryRepository interface {
	// GetAll returns every slot with its current booking state
	GetAll(ctx context.Context) ([]*domain.Slot, error)

	// IsAvailable reports whether all given slots exist and are unbooked
	IsAvailable(ctx context.Context, slotIDs []string) (bool, error)

	// Stats returns occupancy counts per category
	Stats(ctx context.Context) (map[domain.SlotCategory]*domain.SlotStats, error)

	// Reset releases every booked slot and removes all bookings,
	// returning the number of slots released
	Reset(ctx context.Context) (int, error)
}

// BookingRepository manages booking records
type BookingRepository interface {
	// Create atomically verifies slot availability, marks the slots booked,
	// and persists the booking. If any slot is unavailable or unknown no
	// state changes.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByReference returns the booking with the given reference
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)

	// GetByUserID returns a user's bookings, most recent first
	GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error)

	// ExistsReference reports whether a booking reference is already in use
	ExistsReference(ctx context.Context, reference string) (bool, error)
}

// UserRepository manages user accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Count(ctx context.Context) (int, error)
}
