package conversation

import (
	"context"
	"testing"

	"calleroo/models"
)

type memoryStateStore struct {
	states map[string]*models.ConversationState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: map[string]*models.ConversationState{}}
}

func (m *memoryStateStore) Get(_ context.Context, id string) (*models.ConversationState, error) {
	return m.states[id], nil
}

func (m *memoryStateStore) Set(_ context.Context, state *models.ConversationState) error {
	m.states[state.ConversationID] = state
	return nil
}

func (m *memoryStateStore) Clear(_ context.Context, id string) error {
	delete(m.states, id)
	return nil
}

type memoryDecisionCache struct {
	decisions map[string]*models.TurnResponse
}

func newMemoryDecisionCache() *memoryDecisionCache {
	return &memoryDecisionCache{decisions: map[string]*models.TurnResponse{}}
}

func (m *memoryDecisionCache) Get(_ context.Context, key string, action models.ClientAction) (*models.TurnResponse, error) {
	return m.decisions[key+":"+string(action)], nil
}

func (m *memoryDecisionCache) Put(_ context.Context, key string, action models.ClientAction, resp *models.TurnResponse) error {
	m.decisions[key+":"+string(action)] = resp
	return nil
}

func newTestService() *DefaultConversationService {
	return NewConversationService(newMemoryStateStore(), NewExtractor(nil), nil)
}

func TestProcessTurnFullSickCallerProgression(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.ProcessTurn(ctx, models.TurnRequest{
		AgentType: "SICK_CALLER",
		Action:    models.ClientActionMessage,
		Message:   "start",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ConversationID == "" {
		t.Fatal("conversation ID should be assigned")
	}
	convID := resp.ConversationID

	answers := []struct {
		slot    string
		message string
	}{
		{"employer_name", "Coles Broadway"},
		{"employer_phone", "0298765432"},
		{"caller_name", "Sam"},
		{"shift_date", "tomorrow"},
		{"shift_start_time", "9am"},
	}
	for _, a := range answers {
		if resp.Question == nil || resp.Question.SlotName != a.slot {
			t.Fatalf("expected question for %s, got %+v", a.slot, resp.Question)
		}
		resp, err = svc.ProcessTurn(ctx, models.TurnRequest{
			ConversationID: convID,
			AgentType:      "SICK_CALLER",
			Action:         models.ClientActionMessage,
			Message:        a.message,
			SlotName:       a.slot,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	// reason_category via quick reply.
	resp, err = svc.ProcessTurn(ctx, models.TurnRequest{
		ConversationID: convID,
		AgentType:      "SICK_CALLER",
		Action:         models.ClientActionMessage,
		Message:        "SICK",
		SlotName:       "reason_category",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.NextAction != models.ActionConfirm {
		t.Fatalf("expected CONFIRM after last required slot, got %s", resp.NextAction)
	}
	if resp.Slots.Get("employer_phone") != "+61298765432" {
		t.Fatalf("phone not normalized: %q", resp.Slots.Get("employer_phone"))
	}

	resp, err = svc.ProcessTurn(ctx, models.TurnRequest{
		ConversationID: convID,
		AgentType:      "SICK_CALLER",
		Action:         models.ClientActionConfirm,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.NextAction != models.ActionComplete {
		t.Fatalf("expected COMPLETE after confirm, got %s", resp.NextAction)
	}
}

func TestProcessTurnSelectPlaceCompletesAfterConfirm(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	seed := map[string]string{
		"restaurant_name": "Icebergs",
		"party_size":      "4",
		"date":            "2026-09-05",
		"time":            "19:00",
	}
	var resp *models.TurnResponse
	var err error
	convID := ""
	for slot, msg := range seed {
		resp, err = svc.ProcessTurn(ctx, models.TurnRequest{
			ConversationID: convID,
			AgentType:      "RESTAURANT_RESERVATION",
			Action:         models.ClientActionMessage,
			Message:        msg,
			SlotName:       slot,
		})
		if err != nil {
			t.Fatal(err)
		}
		convID = resp.ConversationID
	}

	resp, err = svc.ProcessTurn(ctx, models.TurnRequest{
		ConversationID: convID,
		AgentType:      "RESTAURANT_RESERVATION",
		Action:         models.ClientActionConfirm,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.NextAction != models.ActionFindPlace {
		t.Fatalf("expected FIND_PLACE after confirm, got %s", resp.NextAction)
	}

	resp, err = svc.ProcessTurn(ctx, models.TurnRequest{
		ConversationID: convID,
		AgentType:      "RESTAURANT_RESERVATION",
		Action:         models.ClientActionSelectPlace,
		Place: &models.PlaceCandidate{
			PlaceID: "ChIJicebergs",
			Name:    "Icebergs Dining Room",
			Phone:   "0293651234",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.NextAction != models.ActionComplete {
		t.Fatalf("expected COMPLETE after place selection, got %s", resp.NextAction)
	}
	if resp.Slots.Get(PlacePhoneSlot) != "+61293651234" {
		t.Fatalf("place phone not normalized: %q", resp.Slots.Get(PlacePhoneSlot))
	}
}

func TestProcessTurnStartOverClearsSlots(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.ProcessTurn(ctx, models.TurnRequest{
		AgentType: "SICK_CALLER",
		Action:    models.ClientActionMessage,
		Message:   "Coles",
		SlotName:  "employer_name",
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err = svc.ProcessTurn(ctx, models.TurnRequest{
		ConversationID: resp.ConversationID,
		AgentType:      "SICK_CALLER",
		Action:         models.ClientActionStartOver,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Slots.Has("employer_name") {
		t.Fatal("start over should clear collected slots")
	}
	if resp.Question == nil || resp.Question.SlotName != "employer_name" {
		t.Fatalf("expected first question again, got %+v", resp.Question)
	}
}

func TestProcessTurnIdempotentReplay(t *testing.T) {
	svc := NewConversationService(newMemoryStateStore(), NewExtractor(nil), newMemoryDecisionCache())
	ctx := context.Background()

	first, err := svc.ProcessTurn(ctx, models.TurnRequest{
		AgentType:      "SICK_CALLER",
		Action:         models.ClientActionMessage,
		Message:        "Coles Broadway",
		SlotName:       "employer_name",
		IdempotencyKey: "turn-1",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Same key and action with a different utterance replays the original
	// decision instead of processing the new message.
	replay, err := svc.ProcessTurn(ctx, models.TurnRequest{
		ConversationID: first.ConversationID,
		AgentType:      "SICK_CALLER",
		Action:         models.ClientActionMessage,
		Message:        "actually Woolworths",
		SlotName:       "employer_name",
		IdempotencyKey: "turn-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if replay.NextAction != first.NextAction {
		t.Fatalf("replay changed next action: %s vs %s", replay.NextAction, first.NextAction)
	}
	if replay.Question == nil || first.Question == nil || replay.Question.SlotName != first.Question.SlotName {
		t.Fatalf("replay changed question: %+v vs %+v", replay.Question, first.Question)
	}
	if replay.Slots.Get("employer_name") != "Coles Broadway" {
		t.Fatalf("replay should not apply the new utterance, got %q", replay.Slots.Get("employer_name"))
	}
}

func TestProcessTurnUnknownAgent(t *testing.T) {
	svc := newTestService()
	if _, err := svc.ProcessTurn(context.Background(), models.TurnRequest{
		AgentType: "PIZZA_ORDER",
		Action:    models.ClientActionMessage,
	}); err == nil {
		t.Fatal("expected error for unknown agent type")
	}
}

func TestProcessTurnSeedsClientSubmittedSlots(t *testing.T) {
	svc := newTestService()

	resp, err := svc.ProcessTurn(context.Background(), models.TurnRequest{
		AgentType: "SICK_CALLER",
		Action:    models.ClientActionMessage,
		Message:   "hi, I need to call in sick",
		Slots: models.SlotValues{
			"employer_name": "Coles Broadway",
			"caller_name":   "Sam",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Slots.Get("employer_name") != "Coles Broadway" {
		t.Fatalf("client slot not merged: %q", resp.Slots.Get("employer_name"))
	}
	if resp.Question != nil && resp.Question.SlotName == "employer_name" {
		t.Fatal("a seeded slot should not be asked again")
	}
}

func TestProcessTurnClientSlotOverridesStored(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.ProcessTurn(ctx, models.TurnRequest{
		AgentType: "SICK_CALLER",
		Action:    models.ClientActionMessage,
		Message:   "Coles Broadway",
		SlotName:  "employer_name",
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.ProcessTurn(ctx, models.TurnRequest{
		ConversationID: first.ConversationID,
		AgentType:      "SICK_CALLER",
		Action:         models.ClientActionMessage,
		Message:        "0298765432",
		SlotName:       "employer_phone",
		Slots:          models.SlotValues{"employer_name": "Woolworths Town Hall"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Slots.Get("employer_name") != "Woolworths Town Hall" {
		t.Fatalf("client-submitted value should win: %q", resp.Slots.Get("employer_name"))
	}
}

func TestProcessTurnIgnoresClientInternalFlags(t *testing.T) {
	svc := newTestService()

	resp, err := svc.ProcessTurn(context.Background(), models.TurnRequest{
		AgentType: "SICK_CALLER",
		Action:    models.ClientActionMessage,
		Message:   "hello",
		Slots: models.SlotValues{
			models.ConfirmedCoreDetailsKey: "true",
			"employer_name":                "",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Slots.Has(models.ConfirmedCoreDetailsKey) {
		t.Fatal("the confirmation flag stays server-owned")
	}
	if resp.Slots.Has("employer_name") {
		t.Fatal("empty client values must not fill slots")
	}
}
