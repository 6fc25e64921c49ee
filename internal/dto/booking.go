package dto

import (
	"time"

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/internal/pricing"
)

// BookSlotsRequest is the payload for reserving slots
type BookSlotsRequest struct {
	Type  string   `json:"type" binding:"required"`
	Slots []string `json:"slots" binding:"required"`
}

// BookSlotsResponse is returned after a successful reservation
type BookSlotsResponse struct {
	Message          string                `json:"message"`
	BookingReference string                `json:"booking_reference"`
	BookedSlots      []string              `json:"booked_slots"`
	Pricing          *pricing.FeeBreakdown `json:"pricing"`
	User             *UserResponse         `json:"user,omitempty"`
}

// CalculateFeesRequest computes fees either for a raw base amount or for a
// category and slot count
type CalculateFeesRequest struct {
	BaseAmount *int   `json:"base_amount,omitempty"`
	Type       string `json:"type,omitempty"`
	SlotCount  int    `json:"slot_count,omitempty"`
}

// ZoneStatus describes one parking zone in the public status view
type ZoneStatus struct {
	Price  int      `json:"price"`
	Slots  []string `json:"slots"`
	Booked []string `json:"booked"`
}

// ParkingStatusResponse maps each zone name to its status
type ParkingStatusResponse map[string]*ZoneStatus

// BookingResponse is one booking in a user's history
type BookingResponse struct {
	Reference      string    `json:"reference"`
	Category       string    `json:"category"`
	Slots          []string  `json:"slots"`
	BaseAmount     int       `json:"base_amount"`
	PlatformFee    int       `json:"platform_fee"`
	NightSurcharge int       `json:"night_surcharge"`
	TotalFees      int       `json:"total_fees"`
	GrandTotal     int       `json:"grand_total"`
	IsNightTime    bool      `json:"is_night_time"`
	Status         string    `json:"status"`
	BookingTime    time.Time `json:"booking_time"`
}

// MyBookingsResponse lists a user's bookings, most recent first
type MyBookingsResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Count    int                `json:"count"`
}

// ZoneStats summarizes occupancy for one zone
type ZoneStats struct {
	Total     int `json:"total"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}

// BookingStatsResponse maps each zone name to its occupancy summary
type BookingStatsResponse map[string]*ZoneStats

// ResetBookingsResponse is returned after clearing all bookings
type ResetBookingsResponse struct {
	Message       string `json:"message"`
	SlotsReleased int    `json:"slots_released"`
}

// TimeInfoResponse exposes the server clock and the active fee schedule
type TimeInfoResponse struct {
	ServerTime     time.Time `json:"server_time"`
	Hour           int       `json:"hour"`
	IsNightTime    bool      `json:"is_night_time"`
	PlatformFee    int       `json:"platform_fee"`
	NightSurcharge int       `json:"night_surcharge"`
}

// NewBookingResponse converts a domain booking to its API representation
func NewBookingResponse(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		Reference:      b.Reference,
		Category:       string(b.Category),
		Slots:          b.SlotIDs,
		BaseAmount:     b.BaseAmount,
		PlatformFee:    b.PlatformFee,
		NightSurcharge: b.NightSurcharge,
		TotalFees:      b.TotalFees,
		GrandTotal:     b.GrandTotal,
		IsNightTime:    b.IsNightTime,
		Status:         string(b.Status),
		BookingTime:    b.CreatedAt,
	}
}
