package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/internal/dto"
	"github.com/EobardThawne2/parking-beta/internal/pricing"
	"github.com/EobardThawne2/parking-beta/internal/repository"
	"github.com/EobardThawne2/parking-beta/pkg/logger"
	"github.com/EobardThawne2/parking-beta/pkg/telemetry"
)

// referenceAttempts bounds the collision retry loop when generating a
// booking reference
const referenceAttempts = 5

// BookingService handles slot reservations and inventory queries
type BookingService struct {
	inventoryRepo repository.InventoryRepository
	bookingRepo   repository.BookingRepository
	userRepo      repository.UserRepository
	publisher     EventPublisher
	now           func() time.Time
}

// NewBookingService creates a new BookingService
func NewBookingService(
	inventoryRepo repository.InventoryRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
) *BookingService {
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	return &BookingService{
		inventoryRepo: inventoryRepo,
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		publisher:     publisher,
		now:           time.Now,
	}
}

// BookSlots reserves the requested slots for a user. Either every slot is
// booked or none are.
func (s *BookingService) BookSlots(ctx context.Context, userID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.book_slots")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("category", req.Type),
		attribute.Int("slot_count", len(req.Slots)),
	)

	if !domain.IsValidCategory(req.Type) {
		span.SetStatus(codes.Error, "invalid category")
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCategory, req.Type)
	}
	if len(req.Slots) == 0 {
		span.SetStatus(codes.Error, "no slots")
		return nil, domain.ErrNoSlotsSelected
	}
	if hasDuplicates(req.Slots) {
		span.SetStatus(codes.Error, "duplicate slots")
		return nil, fmt.Errorf("%w: duplicate slot ids", domain.ErrInvalidInput)
	}

	category := domain.SlotCategory(req.Type)
	bookedAt := s.now()

	fees, err := pricing.Calculate(category, len(req.Slots), bookedAt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	reference, err := s.newUniqueReference(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking := &domain.Booking{
		ID:             uuid.New().String(),
		Reference:      reference,
		UserID:         userID,
		Category:       category,
		SlotIDs:        append([]string(nil), req.Slots...),
		BaseAmount:     fees.BaseAmount,
		PlatformFee:    fees.PlatformFee,
		NightSurcharge: fees.NightSurcharge,
		TotalFees:      fees.TotalFees,
		GrandTotal:     fees.GrandTotal,
		IsNightTime:    fees.IsNightTime,
		Status:         domain.BookingStatusActive,
		CreatedAt:      bookedAt,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("booking_reference", reference))

	// Event delivery is best-effort and never fails the booking
	if err := s.publisher.PublishBookingCreated(ctx, booking); err != nil {
		logger.Get().Warn("failed to publish booking created event",
			zap.String("booking_reference", reference),
			zap.Error(err),
		)
	}

	resp := &dto.BookSlotsResponse{
		Message:          fmt.Sprintf("Successfully booked %d slot(s)", len(req.Slots)),
		BookingReference: reference,
		BookedSlots:      booking.SlotIDs,
		Pricing:          fees,
	}

	if s.userRepo != nil {
		if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
			resp.User = dto.NewUserResponse(user)
		}
	}

	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// GetParkingStatus returns every zone with its slots and booked slot IDs
func (s *BookingService) GetParkingStatus(ctx context.Context) (dto.ParkingStatusResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.parking_status")
	defer span.End()

	slots, err := s.inventoryRepo.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	status := dto.ParkingStatusResponse{}
	for _, category := range []domain.SlotCategory{domain.CategoryVIP, domain.CategoryExecutive, domain.CategoryNormal} {
		price, _ := domain.CategoryPrice(category)
		status[string(category)] = &dto.ZoneStatus{
			Price:  price,
			Slots:  []string{},
			Booked: []string{},
		}
	}

	for _, slot := range slots {
		zone, ok := status[string(slot.Category)]
		if !ok {
			continue
		}
		zone.Slots = append(zone.Slots, slot.ID)
		if slot.IsBooked {
			zone.Booked = append(zone.Booked, slot.ID)
		}
	}

	span.SetStatus(codes.Ok, "")
	return status, nil
}

// GetUserBookings returns a user's bookings, most recent first
func (s *BookingService) GetUserBookings(ctx context.Context, userID string) (*dto.MyBookingsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.user_bookings")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := &dto.MyBookingsResponse{
		Bookings: make([]*dto.BookingResponse, 0, len(bookings)),
		Count:    len(bookings),
	}
	for _, booking := range bookings {
		resp.Bookings = append(resp.Bookings, dto.NewBookingResponse(booking))
	}

	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// GetBookingByReference returns a single booking. Regular users can only see
// their own bookings; admins can see any.
func (s *BookingService) GetBookingByReference(ctx context.Context, reference, userID string, isAdmin bool) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get_by_reference")
	defer span.End()

	span.SetAttributes(attribute.String("booking_reference", reference))

	if !domain.IsValidReference(reference) {
		span.SetStatus(codes.Error, "invalid reference")
		return nil, domain.ErrInvalidReference
	}

	booking, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if booking.UserID != userID && !isAdmin {
		// Do not reveal that the booking exists
		span.SetStatus(codes.Error, "not owner")
		return nil, domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewBookingResponse(booking), nil
}

// CalculateFees computes a fee breakdown for a base amount, or for a
// category and slot count
func (s *BookingService) CalculateFees(ctx context.Context, req *dto.CalculateFeesRequest) (*pricing.FeeBreakdown, error) {
	_, span := telemetry.StartSpan(ctx, "service.booking.calculate_fees")
	defer span.End()

	at := s.now()

	if req.BaseAmount != nil {
		if *req.BaseAmount < 0 {
			span.SetStatus(codes.Error, "negative base amount")
			return nil, fmt.Errorf("%w: base_amount must not be negative", domain.ErrInvalidInput)
		}
		span.SetStatus(codes.Ok, "")
		return pricing.CalculateForBase(*req.BaseAmount, at), nil
	}

	if !domain.IsValidCategory(req.Type) {
		span.SetStatus(codes.Error, "invalid category")
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCategory, req.Type)
	}
	if req.SlotCount <= 0 {
		span.SetStatus(codes.Error, "invalid slot count")
		return nil, fmt.Errorf("%w: slot_count must be positive", domain.ErrInvalidInput)
	}

	fees, err := pricing.Calculate(domain.SlotCategory(req.Type), req.SlotCount, at)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return fees, nil
}

// GetStats returns occupancy counts per zone
func (s *BookingService) GetStats(ctx context.Context) (dto.BookingStatsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.stats")
	defer span.End()

	stats, err := s.inventoryRepo.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := dto.BookingStatsResponse{}
	for category, st := range stats {
		resp[string(category)] = &dto.ZoneStats{
			Total:     st.Total,
			Booked:    st.Booked,
			Available: st.Available,
		}
	}

	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// ResetAll releases every booked slot and removes all bookings
func (s *BookingService) ResetAll(ctx context.Context) (*dto.ResetBookingsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.reset_all")
	defer span.End()

	released, err := s.inventoryRepo.Reset(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("slots_released", released))

	if err := s.publisher.PublishBookingsReset(ctx); err != nil {
		logger.Get().Warn("failed to publish bookings reset event", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "")
	return &dto.ResetBookingsResponse{
		Message:       "All bookings have been reset",
		SlotsReleased: released,
	}, nil
}

// TimeInfo reports the server clock and the active fee schedule
func (s *BookingService) TimeInfo() *dto.TimeInfoResponse {
	now := s.now()
	return &dto.TimeInfoResponse{
		ServerTime:     now,
		Hour:           now.Hour(),
		IsNightTime:    pricing.IsNightTime(now),
		PlatformFee:    pricing.PlatformFee,
		NightSurcharge: pricing.NightSurcharge,
	}
}

func (s *BookingService) newUniqueReference(ctx context.Context) (string, error) {
	for i := 0; i < referenceAttempts; i++ {
		reference, err := domain.NewReference()
		if err != nil {
			return "", err
		}

		exists, err := s.bookingRepo.ExistsReference(ctx, reference)
		if err != nil {
			return "", err
		}
		if !exists {
			return reference, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique booking reference after %d attempts", referenceAttempts)
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
