package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/EobardThawne2/parking-beta/internal/service"
	"github.com/EobardThawne2/parking-beta/pkg/logger"
	"github.com/EobardThawne2/parking-beta/pkg/middleware"
	"github.com/EobardThawne2/parking-beta/pkg/response"
	"github.com/EobardThawne2/parking-beta/pkg/telemetry"
)

// AdminHandler handles admin-only endpoints
type AdminHandler struct {
	bookingService *service.BookingService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(bookingService *service.BookingService) *AdminHandler {
	return &AdminHandler{bookingService: bookingService}
}

// ResetBookings handles POST /api/reset-bookings
func (h *AdminHandler) ResetBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.reset_bookings")
	defer span.End()

	resp, err := h.bookingService.ResetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	adminID, _ := middleware.GetUserID(c)
	logger.Get().Warn("all bookings reset",
		zap.String("admin_id", adminID),
		zap.Int("slots_released", resp.SlotsReleased),
	)

	span.SetStatus(codes.Ok, "")
	response.Success(c, resp)
}

// BookingStats handles GET /api/booking-stats
func (h *AdminHandler) BookingStats(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.booking_stats")
	defer span.End()

	stats, err := h.bookingService.GetStats(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, stats)
}
