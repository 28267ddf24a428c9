package conversation

import (
	"strings"
	"testing"

	"calleroo/models"
	"calleroo/services/agent"
)

func sickSlots() models.SlotValues {
	return models.SlotValues{
		"employer_name":    "Coles Broadway",
		"employer_phone":   "+61298765432",
		"caller_name":      "Sam",
		"shift_date":       "2026-09-01",
		"shift_start_time": "09:00",
		"reason_category":  "SICK",
	}
}

func TestDecideAsksFirstQuestion(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("SICK_CALLER")
	turn := Decide(spec, models.SlotValues{}, "", "", "")
	if turn.NextAction != models.ActionAskQuestion {
		t.Fatalf("next action = %s", turn.NextAction)
	}
	if turn.Question == nil || turn.Question.SlotName != "employer_name" {
		t.Fatalf("unexpected question: %+v", turn.Question)
	}
}

func TestDecideAllFilledShowsConfirmation(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("SICK_CALLER")
	turn := Decide(spec, sickSlots(), "", "", "")
	if turn.NextAction != models.ActionConfirm {
		t.Fatalf("next action = %s", turn.NextAction)
	}
	if turn.Confirmation == nil || turn.Confirmation.Title != "Call In Sick" {
		t.Fatalf("unexpected card: %+v", turn.Confirmation)
	}
}

func TestDecideConfirmDirectSlotCompletes(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("SICK_CALLER")
	turn := Decide(spec, sickSlots(), models.ClientActionConfirm, "", "")
	if turn.NextAction != models.ActionComplete {
		t.Fatalf("next action = %s", turn.NextAction)
	}
}

func TestDecideConfirmPlaceAgentTriggersFindPlace(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("RESTAURANT_RESERVATION")
	slots := models.SlotValues{
		"restaurant_name": "Icebergs",
		"party_size":      "4",
		"date":            "2026-09-05",
		"time":            "19:00",
	}
	turn := Decide(spec, slots, models.ClientActionConfirm, "", "")
	if turn.NextAction != models.ActionFindPlace {
		t.Fatalf("next action = %s", turn.NextAction)
	}
	if !turn.SetConfirmedFlag {
		t.Fatal("confirm should set the confirmed-details flag")
	}
	if turn.PlaceSearch == nil || turn.PlaceSearch.Query != "Icebergs" {
		t.Fatalf("unexpected place search: %+v", turn.PlaceSearch)
	}
}

func TestDecideConfirmedAndResolvedCompletes(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("RESTAURANT_RESERVATION")
	slots := models.SlotValues{
		"restaurant_name":              "Icebergs",
		"party_size":                   "4",
		"date":                         "2026-09-05",
		"time":                         "19:00",
		models.ConfirmedCoreDetailsKey: "true",
		PlaceIDSlot:                    "ChIJabc123",
		PlacePhoneSlot:                 "+61293651234",
	}
	turn := Decide(spec, slots, "", "", "")
	if turn.NextAction != models.ActionComplete {
		t.Fatalf("next action = %s, want COMPLETE (no second card)", turn.NextAction)
	}
}

func TestDecideConfirmedButUnresolvedFindsPlace(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("RESTAURANT_RESERVATION")
	slots := models.SlotValues{
		"restaurant_name":              "Icebergs",
		"party_size":                   "4",
		"date":                         "2026-09-05",
		"time":                         "19:00",
		models.ConfirmedCoreDetailsKey: "true",
	}
	turn := Decide(spec, slots, "", "", "")
	if turn.NextAction != models.ActionFindPlace {
		t.Fatalf("next action = %s", turn.NextAction)
	}
}

func TestDecideRejectReturnsQuestion(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("SICK_CALLER")
	turn := Decide(spec, sickSlots(), models.ClientActionReject, "", "")
	if turn.NextAction != models.ActionAskQuestion {
		t.Fatalf("next action = %s", turn.NextAction)
	}
	if turn.AssistantMessage != "What would you like to change?" {
		t.Fatalf("assistant message = %q", turn.AssistantMessage)
	}
}

func TestDecideDontKnowPhoneTriggersFindPlace(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("SICK_CALLER")
	slots := models.SlotValues{"employer_name": "Coles Broadway"}
	turn := Decide(spec, slots, "", "I don't know the number", "employer_phone")
	if turn.NextAction != models.ActionFindPlace {
		t.Fatalf("next action = %s", turn.NextAction)
	}

	// The same message on a text slot is just an answer.
	turn = Decide(spec, models.SlotValues{}, "", "I don't know", "employer_name")
	if turn.NextAction != models.ActionAskQuestion {
		t.Fatalf("text slot should not trigger place search, got %s", turn.NextAction)
	}
}

func TestConfirmationCardOmitsEmptyAndUnsureLines(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("SICK_CALLER")
	slots := sickSlots() // no expected_return_date, no note_for_team
	card := BuildConfirmationCard(spec, slots)

	for _, line := range card.Lines {
		if strings.HasPrefix(line, "Return:") || strings.HasPrefix(line, "Note:") {
			t.Errorf("line with missing value should be omitted: %q", line)
		}
	}
	if len(card.Lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %v", len(card.Lines), card.Lines)
	}

	slots["note_for_team"] = "not sure"
	card = BuildConfirmationCard(spec, slots)
	for _, line := range card.Lines {
		if strings.HasPrefix(line, "Note:") {
			t.Errorf("'not sure' value should omit the line: %q", line)
		}
	}
}

func TestConfirmationCardFormatsReasonLabel(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("SICK_CALLER")
	card := BuildConfirmationCard(spec, sickSlots())

	found := false
	for _, line := range card.Lines {
		if line == "Reason: I'm sick" {
			found = true
		}
		if strings.Contains(line, "SICK") {
			t.Errorf("raw enum value leaked into card: %q", line)
		}
	}
	if !found {
		t.Fatalf("reason label missing from card: %v", card.Lines)
	}
}

func TestConfirmationCardStableID(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("SICK_CALLER")
	a := BuildConfirmationCard(spec, sickSlots())
	b := BuildConfirmationCard(spec, sickSlots())
	if a.ID == "" || a.ID != b.ID {
		t.Fatalf("card ID should be stable, got %q vs %q", a.ID, b.ID)
	}

	changed := sickSlots()
	changed["caller_name"] = "Alex"
	c := BuildConfirmationCard(spec, changed)
	if c.ID == a.ID {
		t.Fatal("different content should produce a different card ID")
	}
}

func TestBuildPlaceSearchParamsFallbacks(t *testing.T) {
	t.Parallel()
	spec, _ := agent.GetSpec("STOCK_CHECKER")

	params := BuildPlaceSearchParams(spec, models.SlotValues{
		"retailer_name":  "BCF",
		"store_location": "Newcastle",
	})
	if params.Query != "BCF" || params.Area != "Newcastle" {
		t.Fatalf("unexpected params: %+v", params)
	}

	params = BuildPlaceSearchParams(spec, models.SlotValues{})
	if params.Query != "store" || params.Area != "Australia" {
		t.Fatalf("fallback params: %+v", params)
	}
}
