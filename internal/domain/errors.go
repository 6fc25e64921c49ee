package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	// Slot errors
	ErrSlotUnavailable = errors.New("slot is already booked")
	ErrUnknownSlot     = errors.New("unknown slot")
	ErrInvalidCategory = errors.New("invalid slot category")
	ErrNoSlotsSelected = errors.New("no slots selected")

	// Booking errors
	ErrBookingNotFound  = errors.New("booking not found")
	ErrReferenceExists  = errors.New("booking reference already exists")
	ErrInvalidReference = errors.New("invalid booking reference")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access denied")

	// Validation errors
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPassword = errors.New("password does not meet requirements")
	ErrInvalidInput    = errors.New("invalid input")
)

// SlotsUnavailableError reports the specific slots that were already booked
type SlotsUnavailableError struct {
	SlotIDs []string
}

func (e *SlotsUnavailableError) Error() string {
	return fmt.Sprintf("slots already booked: %s", strings.Join(e.SlotIDs, ", "))
}

func (e *SlotsUnavailableError) Is(target error) bool {
	return target == ErrSlotUnavailable
}

// UnknownSlotsError reports slot IDs that do not exist in the requested category
type UnknownSlotsError struct {
	SlotIDs []string
}

func (e *UnknownSlotsError) Error() string {
	return fmt.Sprintf("invalid slots: %s", strings.Join(e.SlotIDs, ", "))
}

func (e *UnknownSlotsError) Is(target error) bool {
	return target == ErrUnknownSlot
}

// IsNotFoundError checks if the error is a not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, ErrUserAlreadyExists) ||
		errors.Is(err, ErrReferenceExists)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrNoSlotsSelected) ||
		errors.Is(err, ErrInvalidReference) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrInvalidInput)
}

// IsAuthError checks if the error is an authentication error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidToken)
}
