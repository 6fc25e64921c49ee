package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/EobardThawne2/parking-beta/internal/domain"
)

func newTestBooking(userID string, category domain.SlotCategory, slotIDs ...string) *domain.Booking {
	return &domain.Booking{
		ID:          uuid.New().String(),
		Reference:   mustReference(),
		UserID:      userID,
		Category:    category,
		SlotIDs:     slotIDs,
		BaseAmount:  len(slotIDs) * domain.PriceVIP,
		PlatformFee: 18,
		TotalFees:   18,
		GrandTotal:  len(slotIDs)*domain.PriceVIP + 18,
		Status:      domain.BookingStatusActive,
		CreatedAt:   time.Now(),
	}
}

func mustReference() string {
	ref, err := domain.NewReference()
	if err != nil {
		panic(err)
	}
	return ref
}

func TestMemoryStoreSeedsFullInventory(t *testing.T) {
	store := NewMemoryStore()

	slots, err := store.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	if len(slots) != domain.TotalSlotCount {
		t.Errorf("slot count = %d, want %d", len(slots), domain.TotalSlotCount)
	}

	for _, slot := range slots {
		if slot.IsBooked {
			t.Errorf("slot %s booked on fresh store", slot.ID)
		}
	}
}

func TestMemoryStoreCreateBooking(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	booking := newTestBooking("user-1", domain.CategoryVIP, "V1", "V2")
	if err := store.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	available, err := store.IsAvailable(ctx, []string{"V1", "V2"})
	if err != nil {
		t.Fatalf("IsAvailable() error = %v", err)
	}
	if available {
		t.Error("booked slots still reported available")
	}

	got, err := store.GetByReference(ctx, booking.Reference)
	if err != nil {
		t.Fatalf("GetByReference() error = %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", got.UserID)
	}
	if len(got.SlotIDs) != 2 {
		t.Errorf("SlotIDs = %v, want 2 slots", got.SlotIDs)
	}
}

func TestMemoryStoreCreateRejectsBookedSlots(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Create(ctx, newTestBooking("user-1", domain.CategoryVIP, "V1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := store.Create(ctx, newTestBooking("user-2", domain.CategoryVIP, "V1", "V2"))
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("Create() error = %v, want ErrSlotUnavailable", err)
	}

	var conflict *domain.SlotsUnavailableError
	if !errors.As(err, &conflict) {
		t.Fatal("error is not SlotsUnavailableError")
	}
	if len(conflict.SlotIDs) != 1 || conflict.SlotIDs[0] != "V1" {
		t.Errorf("conflicting slots = %v, want [V1]", conflict.SlotIDs)
	}

	// V2 must not have been booked by the failed request
	available, err := store.IsAvailable(ctx, []string{"V2"})
	if err != nil {
		t.Fatalf("IsAvailable() error = %v", err)
	}
	if !available {
		t.Error("V2 was booked by a rejected request")
	}
}

func TestMemoryStoreCreateRejectsUnknownSlots(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Create(ctx, newTestBooking("user-1", domain.CategoryVIP, "V1", "V99"))
	if !errors.Is(err, domain.ErrUnknownSlot) {
		t.Fatalf("Create() error = %v, want ErrUnknownSlot", err)
	}

	// Category mismatch is treated as unknown
	err = store.Create(ctx, newTestBooking("user-1", domain.CategoryVIP, "N1"))
	if !errors.Is(err, domain.ErrUnknownSlot) {
		t.Fatalf("Create() error = %v, want ErrUnknownSlot for category mismatch", err)
	}

	available, err := store.IsAvailable(ctx, []string{"V1", "N1"})
	if err != nil {
		t.Fatalf("IsAvailable() error = %v", err)
	}
	if !available {
		t.Error("rejected requests mutated inventory")
	}
}

func TestMemoryStoreConcurrentCreateSameSlot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Create(ctx, newTestBooking(uuid.New().String(), domain.CategoryNormal, "N5"))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrSlotUnavailable) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("successful bookings = %d, want exactly 1", succeeded)
	}
}

func TestMemoryStoreStats(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Create(ctx, newTestBooking("user-1", domain.CategoryVIP, "V1", "V2", "V3")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	vip := stats[domain.CategoryVIP]
	if vip.Total != domain.CountVIP {
		t.Errorf("vip total = %d, want %d", vip.Total, domain.CountVIP)
	}
	if vip.Booked != 3 {
		t.Errorf("vip booked = %d, want 3", vip.Booked)
	}
	if vip.Available != domain.CountVIP-3 {
		t.Errorf("vip available = %d, want %d", vip.Available, domain.CountVIP-3)
	}

	executive := stats[domain.CategoryExecutive]
	if executive.Total != domain.CountExecutive || executive.Booked != 0 {
		t.Errorf("executive stats = %+v, want untouched", executive)
	}
}

func TestMemoryStoreReset(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Create(ctx, newTestBooking("user-1", domain.CategoryVIP, "V1", "V2")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	booking := newTestBooking("user-2", domain.CategoryNormal, "N1")
	if err := store.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	released, err := store.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if released != 3 {
		t.Errorf("released = %d, want 3", released)
	}

	if _, err := store.GetByReference(ctx, booking.Reference); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Errorf("GetByReference() after reset error = %v, want ErrBookingNotFound", err)
	}

	available, err := store.IsAvailable(ctx, []string{"V1", "V2", "N1"})
	if err != nil {
		t.Fatalf("IsAvailable() error = %v", err)
	}
	if !available {
		t.Error("slots still booked after reset")
	}

	// Reset on an empty store is a no-op
	released, err = store.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if released != 0 {
		t.Errorf("released = %d, want 0", released)
	}
}

func TestMemoryStoreGetByUserIDOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := newTestBooking("user-1", domain.CategoryVIP, "V1")
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := newTestBooking("user-1", domain.CategoryVIP, "V2")
	second.CreatedAt = time.Now()

	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, newTestBooking("user-2", domain.CategoryVIP, "V3")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	bookings, err := store.GetByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}

	if len(bookings) != 2 {
		t.Fatalf("booking count = %d, want 2", len(bookings))
	}
	if bookings[0].Reference != second.Reference {
		t.Error("bookings not ordered most recent first")
	}
}

func TestMemoryStoreExistsReference(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	booking := newTestBooking("user-1", domain.CategoryVIP, "V1")
	if err := store.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	exists, err := store.ExistsReference(ctx, booking.Reference)
	if err != nil {
		t.Fatalf("ExistsReference() error = %v", err)
	}
	if !exists {
		t.Error("ExistsReference() = false for stored booking")
	}

	exists, err = store.ExistsReference(ctx, "0000000000000000")
	if err != nil {
		t.Fatalf("ExistsReference() error = %v", err)
	}
	if exists {
		t.Error("ExistsReference() = true for unknown reference")
	}
}
