package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ReferenceLength is the length of a booking reference string
const ReferenceLength = 16

// Booking groups the slots reserved in a single request under one reference
type Booking struct {
	ID             string        `json:"id"`
	Reference      string        `json:"reference"`
	UserID         string        `json:"user_id"`
	Category       SlotCategory  `json:"category"`
	SlotIDs        []string      `json:"slot_ids"`
	BaseAmount     int           `json:"base_amount"`
	PlatformFee    int           `json:"platform_fee"`
	NightSurcharge int           `json:"night_surcharge"`
	TotalFees      int           `json:"total_fees"`
	GrandTotal     int           `json:"grand_total"`
	IsNightTime    bool          `json:"is_night_time"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// NewReference generates a random booking reference: 16 uppercase hex characters
func NewReference() (string, error) {
	buf := make([]byte, ReferenceLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// IsValidReference reports whether s has the shape of a booking reference
func IsValidReference(s string) bool {
	if len(s) != ReferenceLength {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return true
}

// BookingEventType identifies the kind of booking event
type BookingEventType string

const (
	BookingEventCreated BookingEventType = "booking.created"
	BookingEventReset   BookingEventType = "booking.reset"
)

// BookingEvent is the message published to the event stream
type BookingEvent struct {
	EventID   string           `json:"event_id"`
	EventType BookingEventType `json:"event_type"`
	Booking   *Booking         `json:"booking,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewBookingEvent creates an event for a booking
func NewBookingEvent(eventType BookingEventType, booking *Booking, eventID string) *BookingEvent {
	return &BookingEvent{
		EventID:   eventID,
		EventType: eventType,
		Booking:   booking,
		Timestamp: time.Now().UTC(),
	}
}

// Key returns the partition key for the event
func (e *BookingEvent) Key() string {
	if e.Booking != nil && e.Booking.Reference != "" {
		return e.Booking.Reference
	}
	return e.EventID
}
