package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/pkg/response"
)

// handleError maps domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSlotUnavailable), errors.Is(err, domain.ErrUnknownSlot):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", err.Error(), "")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		response.Error(c, http.StatusConflict, "USER_EXISTS", "An account with this email already exists", "")
	case errors.Is(err, domain.ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found", "")
	case errors.Is(err, domain.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", "")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", "")
	case errors.Is(err, domain.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", "")
	case errors.Is(err, domain.ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required", "")
	case domain.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), "")
	default:
		response.InternalError(c, err)
	}
}
