package agent

import (
	"testing"

	"calleroo/models"
)

func TestGetSpecUnknownType(t *testing.T) {
	t.Parallel()
	if _, err := GetSpec("DOG_WALKER"); err == nil {
		t.Fatal("expected error for unknown agent type")
	}
}

func TestNextSlotDeclarationOrder(t *testing.T) {
	t.Parallel()
	spec, err := GetSpec("SICK_CALLER")
	if err != nil {
		t.Fatal(err)
	}

	slots := models.SlotValues{}
	next, ok := NextSlot(spec, slots)
	if !ok || next.Name != "employer_name" {
		t.Fatalf("expected employer_name first, got %q", next.Name)
	}

	slots["employer_name"] = "Coles Broadway"
	next, ok = NextSlot(spec, slots)
	if !ok || next.Name != "employer_phone" {
		t.Fatalf("expected employer_phone next, got %q", next.Name)
	}
}

func TestNextSlotSkipsOptional(t *testing.T) {
	t.Parallel()
	spec, _ := GetSpec("SICK_CALLER")
	slots := models.SlotValues{
		"employer_name":    "Coles",
		"employer_phone":   "+61298765432",
		"caller_name":      "Sam",
		"shift_date":       "2026-09-01",
		"shift_start_time": "09:00",
		"reason_category":  "SICK",
	}
	if _, ok := NextSlot(spec, slots); ok {
		t.Fatal("optional slots should not block completion")
	}
	if !AllRequiredFilled(spec, slots) {
		t.Fatal("all required slots are filled")
	}
}

func TestGenericProductName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		generic bool
	}{
		{"", true},
		{"rod", true},
		{"fishing rod", true},
		{"Shimano Sienna 2500 spinning reel", false},
		{"garden hose", true},
		{"Makita DHP484Z 18V hammer drill", false},
	}
	for _, c := range cases {
		if got := IsGenericProductName(c.name); got != c.generic {
			t.Errorf("IsGenericProductName(%q) = %v, want %v", c.name, got, c.generic)
		}
	}
}

func TestStockCheckerConditionalDetails(t *testing.T) {
	t.Parallel()
	spec, _ := GetSpec("STOCK_CHECKER")

	// Generic product makes product_details required.
	slots := models.SlotValues{
		"retailer_name": "BCF",
		"product_name":  "fishing rod",
	}
	next, ok := NextSlot(spec, slots)
	if !ok || next.Name != "product_details" {
		t.Fatalf("expected product_details for generic product, got %q", next.Name)
	}

	// Declining details surfaces broad_ok instead.
	slots["product_details"] = "not sure"
	next, ok = NextSlot(spec, slots)
	if !ok || next.Name != "broad_ok" {
		t.Fatalf("expected broad_ok after 'not sure', got %q", next.Name)
	}

	// Approval retires both conditional slots.
	slots["broad_ok"] = "YES"
	next, ok = NextSlot(spec, slots)
	if !ok || next.Name != "quantity" {
		t.Fatalf("expected quantity after broad approval, got %q", next.Name)
	}
}

func TestStockCheckerSpecificProductSkipsDetails(t *testing.T) {
	t.Parallel()
	spec, _ := GetSpec("STOCK_CHECKER")
	slots := models.SlotValues{
		"retailer_name": "JB Hi-Fi",
		"product_name":  "Sony WH-1000XM5 wireless headphones",
	}
	next, ok := NextSlot(spec, slots)
	if !ok || next.Name != "quantity" {
		t.Fatalf("specific product should go straight to quantity, got %q", next.Name)
	}
}

func TestMissingRequired(t *testing.T) {
	t.Parallel()
	spec, _ := GetSpec("RESTAURANT_RESERVATION")
	slots := models.SlotValues{"restaurant_name": "Icebergs", "party_size": "4"}
	missing := MissingRequired(spec, slots)
	if len(missing) != 2 || missing[0] != "date" || missing[1] != "time" {
		t.Fatalf("unexpected missing slots: %v", missing)
	}
}

func TestQuickReplies(t *testing.T) {
	t.Parallel()
	spec, _ := GetSpec("SICK_CALLER")
	slot, ok := spec.SlotByName("reason_category")
	if !ok {
		t.Fatal("reason_category not found")
	}
	qr := slot.QuickReplies()
	if len(qr) != 4 || qr[0].Value != "SICK" {
		t.Fatalf("unexpected quick replies: %v", qr)
	}

	yn, _ := spec.SlotByName("employer_name")
	if yn.QuickReplies() != nil {
		t.Fatal("text slot should have no quick replies")
	}
}

func TestListSpecsCatalogOrder(t *testing.T) {
	t.Parallel()
	specs := ListSpecs()
	if len(specs) != 4 {
		t.Fatalf("expected 4 agents in the catalog, got %d", len(specs))
	}
	want := []string{"SICK_CALLER", "STOCK_CHECKER", "RESTAURANT_RESERVATION", "CANCEL_APPOINTMENT"}
	for i, agentType := range want {
		if specs[i].AgentType != agentType {
			t.Fatalf("catalog position %d: got %s, want %s", i, specs[i].AgentType, agentType)
		}
		if specs[i].Title == "" || len(specs[i].Slots) == 0 {
			t.Fatalf("agent %s is missing its title or slots", agentType)
		}
	}
}

func TestShouldAskFollowsConditionalRules(t *testing.T) {
	t.Parallel()
	spec, err := GetSpec("STOCK_CHECKER")
	if err != nil {
		t.Fatal(err)
	}
	slot, ok := spec.SlotByName("product_details")
	if !ok {
		t.Fatal("STOCK_CHECKER should declare product_details")
	}
	if ShouldAsk(slot, models.SlotValues{"product_name": "Makita 18V cordless drill"}) {
		t.Fatal("a specific product needs no extra details")
	}
	if !ShouldAsk(slot, models.SlotValues{"product_name": "chickens"}) {
		t.Fatal("a generic product should trigger the details question")
	}
}
