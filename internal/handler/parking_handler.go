package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/internal/dto"
	"github.com/EobardThawne2/parking-beta/internal/service"
	"github.com/EobardThawne2/parking-beta/pkg/middleware"
	"github.com/EobardThawne2/parking-beta/pkg/response"
	"github.com/EobardThawne2/parking-beta/pkg/telemetry"
)

// ParkingHandler handles parking status and booking endpoints
type ParkingHandler struct {
	bookingService *service.BookingService
}

// NewParkingHandler creates a new ParkingHandler
func NewParkingHandler(bookingService *service.BookingService) *ParkingHandler {
	return &ParkingHandler{bookingService: bookingService}
}

// ParkingStatus handles GET /api/parking-status
func (h *ParkingHandler) ParkingStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.parking.status")
	defer span.End()

	status, err := h.bookingService.GetParkingStatus(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, status)
}

// BookSlots handles POST /api/book-slots
func (h *ParkingHandler) BookSlots(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.parking.book_slots")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "missing identity")
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.BookSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "bad request")
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("category", req.Type),
		attribute.Int("slot_count", len(req.Slots)),
	)

	resp, err := h.bookingService.BookSlots(ctx, userID, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Created(c, resp)
}

// MyBookings handles GET /api/my-bookings
func (h *ParkingHandler) MyBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.parking.my_bookings")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "missing identity")
		response.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.bookingService.GetUserBookings(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, resp)
}

// GetBooking handles GET /api/booking/:reference
func (h *ParkingHandler) GetBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.parking.get_booking")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "missing identity")
		response.Unauthorized(c, "Authentication required")
		return
	}

	role, _ := middleware.GetUserRole(c)
	reference := c.Param("reference")

	span.SetAttributes(attribute.String("booking_reference", reference))

	resp, err := h.bookingService.GetBookingByReference(ctx, reference, userID, domain.UserRole(role).HasAdminAccess())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, resp)
}

// CalculateFees handles POST /api/calculate-fees
func (h *ParkingHandler) CalculateFees(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.parking.calculate_fees")
	defer span.End()

	var req dto.CalculateFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "bad request")
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	fees, err := h.bookingService.CalculateFees(ctx, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, fees)
}

// TimeInfo handles GET /api/time-info
func (h *ParkingHandler) TimeInfo(c *gin.Context) {
	_, span := telemetry.StartSpan(c.Request.Context(), "handler.parking.time_info")
	defer span.End()

	span.SetStatus(codes.Ok, "")
	response.Success(c, h.bookingService.TimeInfo())
}
