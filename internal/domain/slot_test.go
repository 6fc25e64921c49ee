package domain

import "testing"

func TestCategorySlotIDs(t *testing.T) {
	vip := CategorySlotIDs(CategoryVIP)
	if len(vip) != CountVIP {
		t.Errorf("vip count = %d, want %d", len(vip), CountVIP)
	}
	if vip[0] != "V1" || vip[len(vip)-1] != "V10" {
		t.Errorf("vip range = %s..%s, want V1..V10", vip[0], vip[len(vip)-1])
	}

	executive := CategorySlotIDs(CategoryExecutive)
	if len(executive) != CountExecutive {
		t.Errorf("executive count = %d, want %d", len(executive), CountExecutive)
	}
	if executive[0] != "E0101" {
		t.Errorf("first executive slot = %s, want E0101", executive[0])
	}
	if executive[len(executive)-1] != "E0520" {
		t.Errorf("last executive slot = %s, want E0520", executive[len(executive)-1])
	}
	// Row boundary: the 20th slot ends row 1, the 21st starts row 2
	if executive[19] != "E0120" || executive[20] != "E0201" {
		t.Errorf("row boundary = %s, %s, want E0120, E0201", executive[19], executive[20])
	}

	normal := CategorySlotIDs(CategoryNormal)
	if len(normal) != CountNormal {
		t.Errorf("normal count = %d, want %d", len(normal), CountNormal)
	}
	if normal[len(normal)-1] != "N11" {
		t.Errorf("last normal slot = %s, want N11", normal[len(normal)-1])
	}

	if ids := CategorySlotIDs(SlotCategory("premium")); ids != nil {
		t.Errorf("unknown category returned %v, want nil", ids)
	}
}

func TestAllSlots(t *testing.T) {
	slots := AllSlots()
	if len(slots) != TotalSlotCount {
		t.Fatalf("total = %d, want %d", len(slots), TotalSlotCount)
	}

	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if _, dup := seen[slot.ID]; dup {
			t.Errorf("duplicate slot ID %s", slot.ID)
		}
		seen[slot.ID] = struct{}{}

		price, err := CategoryPrice(slot.Category)
		if err != nil {
			t.Errorf("slot %s has invalid category %s", slot.ID, slot.Category)
			continue
		}
		if slot.Price != price {
			t.Errorf("slot %s price = %d, want %d", slot.ID, slot.Price, price)
		}
		if slot.IsBooked {
			t.Errorf("slot %s initially booked", slot.ID)
		}
	}
}

func TestCategoryPrice(t *testing.T) {
	tests := []struct {
		category SlotCategory
		want     int
	}{
		{CategoryVIP, 500},
		{CategoryExecutive, 350},
		{CategoryNormal, 320},
	}
	for _, tt := range tests {
		got, err := CategoryPrice(tt.category)
		if err != nil {
			t.Errorf("CategoryPrice(%s) error = %v", tt.category, err)
		}
		if got != tt.want {
			t.Errorf("CategoryPrice(%s) = %d, want %d", tt.category, got, tt.want)
		}
	}

	if _, err := CategoryPrice(SlotCategory("premium")); err == nil {
		t.Error("CategoryPrice() expected error for unknown category")
	}
}
