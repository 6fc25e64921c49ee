package pricing

import (
	"time"

	"github.com/EobardThawne2/parking-beta/internal/domain"
)

// Fee constants in whole currency units
const (
	// PlatformFee is charged once per booking regardless of slot count
	PlatformFee = 18

	// NightSurcharge is added for bookings made between midnight and 05:00
	NightSurcharge = 12

	// Night window boundaries, local time
	nightStartHour = 0
	nightEndHour   = 5
)

// FeeBreakdown itemizes the charges for a booking
type FeeBreakdown struct {
	BaseAmount     int  `json:"base_amount"`
	PlatformFee    int  `json:"platform_fee"`
	NightSurcharge int  `json:"night_surcharge"`
	TotalFees      int  `json:"total_fees"`
	GrandTotal     int  `json:"grand_total"`
	IsNightTime    bool `json:"is_night_time"`
}

// IsNightTime reports whether t falls inside the night surcharge window
func IsNightTime(t time.Time) bool {
	hour := t.Hour()
	return hour >= nightStartHour && hour < nightEndHour
}

// CalculateForBase computes the fee breakdown for an arbitrary base amount
func CalculateForBase(baseAmount int, at time.Time) *FeeBreakdown {
	night := IsNightTime(at)

	surcharge := 0
	if night {
		surcharge = NightSurcharge
	}

	totalFees := PlatformFee + surcharge

	return &FeeBreakdown{
		BaseAmount:     baseAmount,
		PlatformFee:    PlatformFee,
		NightSurcharge: surcharge,
		TotalFees:      totalFees,
		GrandTotal:     baseAmount + totalFees,
		IsNightTime:    night,
	}
}

// Calculate computes the fee breakdown for booking slotCount slots of a category
func Calculate(category domain.SlotCategory, slotCount int, at time.Time) (*FeeBreakdown, error) {
	price, err := domain.CategoryPrice(category)
	if err != nil {
		return nil, err
	}

	return CalculateForBase(price*slotCount, at), nil
}
