package pricing

import (
	"testing"
	"time"

	"github.com/EobardThawne2/parking-beta/internal/domain"
)

func dayTime() time.Time {
	return time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)
}

func nightTime() time.Time {
	return time.Date(2025, 6, 15, 2, 0, 0, 0, time.Local)
}

func TestCalculateVIPDaytime(t *testing.T) {
	fees, err := Calculate(domain.CategoryVIP, 2, dayTime())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if fees.BaseAmount != 1000 {
		t.Errorf("BaseAmount = %d, want 1000", fees.BaseAmount)
	}
	if fees.PlatformFee != 18 {
		t.Errorf("PlatformFee = %d, want 18", fees.PlatformFee)
	}
	if fees.NightSurcharge != 0 {
		t.Errorf("NightSurcharge = %d, want 0", fees.NightSurcharge)
	}
	if fees.TotalFees != 18 {
		t.Errorf("TotalFees = %d, want 18", fees.TotalFees)
	}
	if fees.GrandTotal != 1018 {
		t.Errorf("GrandTotal = %d, want 1018", fees.GrandTotal)
	}
	if fees.IsNightTime {
		t.Error("IsNightTime = true, want false")
	}
}

func TestCalculateNightSurcharge(t *testing.T) {
	fees, err := Calculate(domain.CategoryNormal, 1, nightTime())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if !fees.IsNightTime {
		t.Error("IsNightTime = false, want true")
	}
	if fees.NightSurcharge != 12 {
		t.Errorf("NightSurcharge = %d, want 12", fees.NightSurcharge)
	}
	if fees.TotalFees != 30 {
		t.Errorf("TotalFees = %d, want 30", fees.TotalFees)
	}
	if fees.GrandTotal != 320+30 {
		t.Errorf("GrandTotal = %d, want 350", fees.GrandTotal)
	}
}

func TestCalculatePlatformFeeIsFlat(t *testing.T) {
	one, err := Calculate(domain.CategoryExecutive, 1, dayTime())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	five, err := Calculate(domain.CategoryExecutive, 5, dayTime())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if one.PlatformFee != five.PlatformFee {
		t.Errorf("PlatformFee changed with slot count: %d vs %d", one.PlatformFee, five.PlatformFee)
	}
	if five.BaseAmount != 5*350 {
		t.Errorf("BaseAmount = %d, want %d", five.BaseAmount, 5*350)
	}
}

func TestCalculateInvalidCategory(t *testing.T) {
	_, err := Calculate(domain.SlotCategory("premium"), 1, dayTime())
	if err == nil {
		t.Fatal("Calculate() expected error for invalid category")
	}
}

func TestCalculateForBase(t *testing.T) {
	fees := CalculateForBase(750, dayTime())

	if fees.BaseAmount != 750 {
		t.Errorf("BaseAmount = %d, want 750", fees.BaseAmount)
	}
	if fees.GrandTotal != 768 {
		t.Errorf("GrandTotal = %d, want 768", fees.GrandTotal)
	}
}

func TestIsNightTimeBoundaries(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{0, true},
		{4, true},
		{5, false},
		{12, false},
		{23, false},
	}

	for _, tt := range tests {
		at := time.Date(2025, 6, 15, tt.hour, 0, 0, 0, time.Local)
		if got := IsNightTime(at); got != tt.want {
			t.Errorf("IsNightTime(hour=%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}
