package domain

import (
	"fmt"
	"time"
)

// SlotCategory identifies a parking zone
type SlotCategory string

const (
	CategoryVIP       SlotCategory = "vip"
	CategoryExecutive SlotCategory = "executive"
	CategoryNormal    SlotCategory = "normal"
)

// Per-slot prices in whole currency units
const (
	PriceVIP       = 500
	PriceExecutive = 350
	PriceNormal    = 320
)

// Zone sizes
const (
	CountVIP       = 10
	ExecutiveRows  = 5
	ExecutiveCols  = 20
	CountExecutive = ExecutiveRows * ExecutiveCols
	CountNormal    = 11
	TotalSlotCount = CountVIP + CountExecutive + CountNormal
)

// Slot represents a single parking slot
type Slot struct {
	ID       string       `json:"id"`
	Category SlotCategory `json:"category"`
	Price    int          `json:"price"`
	IsBooked bool         `json:"is_booked"`
	BookedAt *time.Time   `json:"booked_at,omitempty"`
	BookedBy *string      `json:"booked_by,omitempty"`
}

// SlotStats summarizes occupancy for one category
type SlotStats struct {
	Total     int `json:"total"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}

// IsValidCategory reports whether s names a known slot category
func IsValidCategory(s string) bool {
	switch SlotCategory(s) {
	case CategoryVIP, CategoryExecutive, CategoryNormal:
		return true
	}
	return false
}

// CategoryPrice returns the per-slot price for a category
func CategoryPrice(category SlotCategory) (int, error) {
	switch category {
	case CategoryVIP:
		return PriceVIP, nil
	case CategoryExecutive:
		return PriceExecutive, nil
	case CategoryNormal:
		return PriceNormal, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
}

// CategorySlotIDs returns all slot IDs belonging to a category, in layout order.
// VIP slots are V1..V10, executive slots E0101..E0520 (row then column), and
// normal slots N1..N11.
func CategorySlotIDs(category SlotCategory) []string {
	switch category {
	case CategoryVIP:
		ids := make([]string, 0, CountVIP)
		for i := 1; i <= CountVIP; i++ {
			ids = append(ids, fmt.Sprintf("V%d", i))
		}
		return ids
	case CategoryExecutive:
		ids := make([]string, 0, CountExecutive)
		for row := 1; row <= ExecutiveRows; row++ {
			for col := 1; col <= ExecutiveCols; col++ {
				ids = append(ids, fmt.Sprintf("E%02d%02d", row, col))
			}
		}
		return ids
	case CategoryNormal:
		ids := make([]string, 0, CountNormal)
		for i := 1; i <= CountNormal; i++ {
			ids = append(ids, fmt.Sprintf("N%d", i))
		}
		return ids
	}
	return nil
}

// AllSlots returns the full slot inventory in its initial unbooked state
func AllSlots() []*Slot {
	slots := make([]*Slot, 0, TotalSlotCount)
	for _, category := range []SlotCategory{CategoryVIP, CategoryExecutive, CategoryNormal} {
		price, _ := CategoryPrice(category)
		for _, id := range CategorySlotIDs(category) {
			slots = append(slots, &Slot{
				ID:       id,
				Category: category,
				Price:    price,
			})
		}
	}
	return slots
}
