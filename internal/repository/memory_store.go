package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/EobardThawne2/parking-beta/internal/domain"
)

// MemoryStore is an in-memory implementation of InventoryRepository and
// BookingRepository. A single mutex guards both the slot inventory and the
// booking records so that Create and Reset are atomic with respect to each
// other.
type MemoryStore struct {
	mu       sync.Mutex
	slots    map[string]*domain.Slot
	order    []string
	bookings map[string]*domain.Booking // keyed by reference
}

var (
	_ InventoryRepository = (*MemoryStore)(nil)
	_ BookingRepository   = (*MemoryStore)(nil)
)

// NewMemoryStore creates a store seeded with the full slot inventory
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		slots:    make(map[string]*domain.Slot, domain.TotalSlotCount),
		order:    make([]string, 0, domain.TotalSlotCount),
		bookings: make(map[string]*domain.Booking),
	}
	for _, slot := range domain.AllSlots() {
		s.slots[slot.ID] = slot
		s.order = append(s.order, slot.ID)
	}
	return s
}

// GetAll returns every slot in layout order
func (s *MemoryStore) GetAll(ctx context.Context) ([]*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]*domain.Slot, 0, len(s.order))
	for _, id := range s.order {
		slots = append(slots, cloneSlot(s.slots[id]))
	}
	return slots, nil
}

// IsAvailable reports whether all given slots exist and are unbooked
func (s *MemoryStore) IsAvailable(ctx context.Context, slotIDs []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range slotIDs {
		slot, ok := s.slots[id]
		if !ok || slot.IsBooked {
			return false, nil
		}
	}
	return true, nil
}

// Stats returns occupancy counts per category
func (s *MemoryStore) Stats(ctx context.Context) (map[domain.SlotCategory]*domain.SlotStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[domain.SlotCategory]*domain.SlotStats{
		domain.CategoryVIP:       {},
		domain.CategoryExecutive: {},
		domain.CategoryNormal:    {},
	}

	for _, slot := range s.slots {
		st := stats[slot.Category]
		st.Total++
		if slot.IsBooked {
			st.Booked++
		} else {
			st.Available++
		}
	}

	return stats, nil
}

// Reset releases every booked slot and removes all bookings
func (s *MemoryStore) Reset(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	released := 0
	for _, slot := range s.slots {
		if slot.IsBooked {
			released++
		}
		slot.IsBooked = false
		slot.BookedAt = nil
		slot.BookedBy = nil
	}

	s.bookings = make(map[string]*domain.Booking)

	return released, nil
}

// Create atomically checks availability, marks the slots booked, and stores
// the booking. On conflict nothing changes.
func (s *MemoryStore) Create(ctx context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.Reference]; exists {
		return domain.ErrReferenceExists
	}

	var unknown, unavailable []string
	for _, id := range booking.SlotIDs {
		slot, ok := s.slots[id]
		if !ok || slot.Category != booking.Category {
			unknown = append(unknown, id)
			continue
		}
		if slot.IsBooked {
			unavailable = append(unavailable, id)
		}
	}

	if len(unknown) > 0 {
		return &domain.UnknownSlotsError{SlotIDs: unknown}
	}
	if len(unavailable) > 0 {
		return &domain.SlotsUnavailableError{SlotIDs: unavailable}
	}

	now := time.Now()
	for _, id := range booking.SlotIDs {
		slot := s.slots[id]
		slot.IsBooked = true
		bookedAt := now
		userID := booking.UserID
		slot.BookedAt = &bookedAt
		slot.BookedBy = &userID
	}

	s.bookings[booking.Reference] = cloneBooking(booking)

	return nil
}

// GetByReference returns the booking with the given reference
func (s *MemoryStore) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[reference]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(booking), nil
}

// GetByUserID returns a user's bookings, most recent first
func (s *MemoryStore) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bookings []*domain.Booking
	for _, booking := range s.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, cloneBooking(booking))
		}
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})

	return bookings, nil
}

// ExistsReference reports whether a booking reference is already in use
func (s *MemoryStore) ExistsReference(ctx context.Context, reference string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.bookings[reference]
	return ok, nil
}

func cloneSlot(s *domain.Slot) *domain.Slot {
	clone := *s
	if s.BookedAt != nil {
		t := *s.BookedAt
		clone.BookedAt = &t
	}
	if s.BookedBy != nil {
		u := *s.BookedBy
		clone.BookedBy = &u
	}
	return &clone
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	clone := *b
	clone.SlotIDs = append([]string(nil), b.SlotIDs...)
	return &clone
}
