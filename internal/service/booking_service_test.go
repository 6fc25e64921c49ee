package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/internal/dto"
	"github.com/EobardThawne2/parking-beta/internal/repository"
)

// mockEventPublisher records published events
type mockEventPublisher struct {
	created []*domain.Booking
	resets  int
	err     error
}

func (m *mockEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, booking)
	return nil
}

func (m *mockEventPublisher) PublishBookingsReset(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.resets++
	return nil
}

func (m *mockEventPublisher) Close() error { return nil }

func newTestBookingService(publisher EventPublisher) *BookingService {
	store := repository.NewMemoryStore()
	svc := NewBookingService(store, store, nil, publisher)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 14, 0, 0, 0, time.Local)
	}
	return svc
}

func TestBookSlotsSuccess(t *testing.T) {
	publisher := &mockEventPublisher{}
	svc := newTestBookingService(publisher)

	resp, err := svc.BookSlots(context.Background(), "user-1", &dto.BookSlotsRequest{
		Type:  "vip",
		Slots: []string{"V1", "V2"},
	})
	if err != nil {
		t.Fatalf("BookSlots() error = %v", err)
	}

	if len(resp.BookingReference) != domain.ReferenceLength {
		t.Errorf("reference length = %d, want %d", len(resp.BookingReference), domain.ReferenceLength)
	}
	if !domain.IsValidReference(resp.BookingReference) {
		t.Errorf("reference %q is not valid", resp.BookingReference)
	}
	if resp.Pricing.BaseAmount != 1000 {
		t.Errorf("BaseAmount = %d, want 1000", resp.Pricing.BaseAmount)
	}
	if resp.Pricing.GrandTotal != 1018 {
		t.Errorf("GrandTotal = %d, want 1018", resp.Pricing.GrandTotal)
	}
	if len(publisher.created) != 1 {
		t.Errorf("published events = %d, want 1", len(publisher.created))
	}
}

func TestBookSlotsConflict(t *testing.T) {
	svc := newTestBookingService(&mockEventPublisher{})
	ctx := context.Background()

	if _, err := svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"V1"}}); err != nil {
		t.Fatalf("BookSlots() error = %v", err)
	}

	_, err := svc.BookSlots(ctx, "user-2", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"V1", "V2"}})
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("BookSlots() error = %v, want ErrSlotUnavailable", err)
	}

	// The whole request must have been rejected
	resp, err := svc.BookSlots(ctx, "user-3", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"V2"}})
	if err != nil {
		t.Fatalf("BookSlots() on V2 error = %v, want success", err)
	}
	if resp.BookedSlots[0] != "V2" {
		t.Errorf("BookedSlots = %v, want [V2]", resp.BookedSlots)
	}
}

func TestBookSlotsValidation(t *testing.T) {
	svc := newTestBookingService(&mockEventPublisher{})
	ctx := context.Background()

	_, err := svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "premium", Slots: []string{"V1"}})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("invalid category error = %v, want ErrInvalidCategory", err)
	}

	_, err = svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "vip", Slots: nil})
	if !errors.Is(err, domain.ErrNoSlotsSelected) {
		t.Errorf("empty slots error = %v, want ErrNoSlotsSelected", err)
	}

	_, err = svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"V1", "V1"}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("duplicate slots error = %v, want ErrInvalidInput", err)
	}

	_, err = svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"X9"}})
	if !errors.Is(err, domain.ErrUnknownSlot) {
		t.Errorf("unknown slot error = %v, want ErrUnknownSlot", err)
	}
}

func TestBookSlotsPublishFailureDoesNotFailBooking(t *testing.T) {
	svc := newTestBookingService(&mockEventPublisher{err: errors.New("broker down")})

	if _, err := svc.BookSlots(context.Background(), "user-1", &dto.BookSlotsRequest{Type: "normal", Slots: []string{"N1"}}); err != nil {
		t.Fatalf("BookSlots() error = %v, want success despite publish failure", err)
	}
}

func TestGetParkingStatus(t *testing.T) {
	svc := newTestBookingService(&mockEventPublisher{})
	ctx := context.Background()

	if _, err := svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "executive", Slots: []string{"E0101", "E0520"}}); err != nil {
		t.Fatalf("BookSlots() error = %v", err)
	}

	status, err := svc.GetParkingStatus(ctx)
	if err != nil {
		t.Fatalf("GetParkingStatus() error = %v", err)
	}

	executive := status["executive"]
	if executive.Price != domain.PriceExecutive {
		t.Errorf("executive price = %d, want %d", executive.Price, domain.PriceExecutive)
	}
	if len(executive.Slots) != domain.CountExecutive {
		t.Errorf("executive slots = %d, want %d", len(executive.Slots), domain.CountExecutive)
	}
	if len(executive.Booked) != 2 {
		t.Errorf("executive booked = %v, want 2 entries", executive.Booked)
	}
	if len(status["vip"].Booked) != 0 {
		t.Errorf("vip booked = %v, want empty", status["vip"].Booked)
	}
}

func TestGetBookingByReferenceOwnership(t *testing.T) {
	svc := newTestBookingService(&mockEventPublisher{})
	ctx := context.Background()

	resp, err := svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"V1"}})
	if err != nil {
		t.Fatalf("BookSlots() error = %v", err)
	}

	if _, err := svc.GetBookingByReference(ctx, resp.BookingReference, "user-1", false); err != nil {
		t.Errorf("owner lookup error = %v", err)
	}

	if _, err := svc.GetBookingByReference(ctx, resp.BookingReference, "user-2", false); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Errorf("non-owner lookup error = %v, want ErrBookingNotFound", err)
	}

	if _, err := svc.GetBookingByReference(ctx, resp.BookingReference, "admin-1", true); err != nil {
		t.Errorf("admin lookup error = %v", err)
	}

	if _, err := svc.GetBookingByReference(ctx, "not-a-reference", "user-1", false); !errors.Is(err, domain.ErrInvalidReference) {
		t.Errorf("malformed reference error = %v, want ErrInvalidReference", err)
	}
}

func TestCalculateFees(t *testing.T) {
	svc := newTestBookingService(&mockEventPublisher{})
	ctx := context.Background()

	base := 500
	fees, err := svc.CalculateFees(ctx, &dto.CalculateFeesRequest{BaseAmount: &base})
	if err != nil {
		t.Fatalf("CalculateFees() error = %v", err)
	}
	if fees.GrandTotal != 518 {
		t.Errorf("GrandTotal = %d, want 518", fees.GrandTotal)
	}

	fees, err = svc.CalculateFees(ctx, &dto.CalculateFeesRequest{Type: "normal", SlotCount: 3})
	if err != nil {
		t.Fatalf("CalculateFees() error = %v", err)
	}
	if fees.BaseAmount != 3*domain.PriceNormal {
		t.Errorf("BaseAmount = %d, want %d", fees.BaseAmount, 3*domain.PriceNormal)
	}

	negative := -10
	if _, err := svc.CalculateFees(ctx, &dto.CalculateFeesRequest{BaseAmount: &negative}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative base error = %v, want ErrInvalidInput", err)
	}

	if _, err := svc.CalculateFees(ctx, &dto.CalculateFeesRequest{Type: "vip", SlotCount: 0}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("zero count error = %v, want ErrInvalidInput", err)
	}

	if _, err := svc.CalculateFees(ctx, &dto.CalculateFeesRequest{}); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("empty request error = %v, want ErrInvalidCategory", err)
	}
}

func TestResetAll(t *testing.T) {
	publisher := &mockEventPublisher{}
	svc := newTestBookingService(publisher)
	ctx := context.Background()

	if _, err := svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"V1", "V2", "V3"}}); err != nil {
		t.Fatalf("BookSlots() error = %v", err)
	}

	resp, err := svc.ResetAll(ctx)
	if err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}
	if resp.SlotsReleased != 3 {
		t.Errorf("SlotsReleased = %d, want 3", resp.SlotsReleased)
	}
	if publisher.resets != 1 {
		t.Errorf("reset events = %d, want 1", publisher.resets)
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats["vip"].Booked != 0 {
		t.Errorf("vip booked after reset = %d, want 0", stats["vip"].Booked)
	}
}

func TestGetUserBookings(t *testing.T) {
	svc := newTestBookingService(&mockEventPublisher{})
	ctx := context.Background()

	if _, err := svc.BookSlots(ctx, "user-1", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"V1"}}); err != nil {
		t.Fatalf("BookSlots() error = %v", err)
	}
	if _, err := svc.BookSlots(ctx, "user-2", &dto.BookSlotsRequest{Type: "vip", Slots: []string{"V2"}}); err != nil {
		t.Fatalf("BookSlots() error = %v", err)
	}

	resp, err := svc.GetUserBookings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserBookings() error = %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("Count = %d, want 1", resp.Count)
	}
	if resp.Bookings[0].Slots[0] != "V1" {
		t.Errorf("Slots = %v, want [V1]", resp.Bookings[0].Slots)
	}
}

func TestTimeInfo(t *testing.T) {
	svc := newTestBookingService(&mockEventPublisher{})
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 3, 0, 0, 0, time.Local)
	}

	info := svc.TimeInfo()
	if !info.IsNightTime {
		t.Error("IsNightTime = false at 03:00, want true")
	}
	if info.Hour != 3 {
		t.Errorf("Hour = %d, want 3", info.Hour)
	}
	if info.PlatformFee != 18 || info.NightSurcharge != 12 {
		t.Errorf("fee schedule = %d/%d, want 18/12", info.PlatformFee, info.NightSurcharge)
	}
}
