package conversation

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"calleroo/models"
	"calleroo/services/agent"
)

// The planner is the single source of truth for conversation flow. It is
// fully deterministic: no model call ever decides what happens next.

// Slot names written by the client after the place search flow.
const (
	PlaceIDSlot    = "place_id"
	PlacePhoneSlot = "place_phone"
)

// PlannedTurn is the planner's decision for one turn.
type PlannedTurn struct {
	NextAction       models.NextAction
	Question         *models.Question
	Confirmation     *models.ConfirmationCard
	PlaceSearch      *models.PlaceSearchParams
	AssistantMessage string
	// SetConfirmedFlag asks the caller to persist the confirmed-details
	// marker alongside the other slots.
	SetConfirmedFlag bool
}

// Phrases that mean the user wants us to look the number up instead.
var findPlaceKeywords = []string{
	"don't know",
	"dont know",
	"not sure",
	"find it",
	"look it up",
	"search for it",
	"i don't have",
	"i dont have",
	"can you find",
	"help me find",
	"find the number",
	"look up the number",
	"search",
	"find",
}

// IsPlaceResolved reports whether a place has been selected: both the
// place ID and an E.164 phone number are present.
func IsPlaceResolved(slots models.SlotValues) bool {
	return slots.Has(PlaceIDSlot) && slots.Has(PlacePhoneSlot)
}

// HasConfirmedDetails reports whether the user already approved the
// confirmation card. The flag prevents a second card after place selection.
func HasConfirmedDetails(slots models.SlotValues) bool {
	return strings.EqualFold(slots.Get(models.ConfirmedCoreDetailsKey), "true")
}

func shouldTriggerFindPlace(message string, currentSlot *models.SlotSpec) bool {
	if currentSlot == nil || currentSlot.InputType != models.InputPhone {
		return false
	}
	lower := strings.ToLower(message)
	for _, kw := range findPlaceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func buildQuestion(slot models.SlotSpec) *models.Question {
	return &models.Question{
		SlotName:     slot.Name,
		Prompt:       slot.Prompt,
		InputType:    string(slot.InputType),
		QuickReplies: slot.QuickReplies(),
		Placeholder:  slot.Placeholder,
	}
}

var reasonLabels = map[string]string{
	"SICK":                "I'm sick",
	"CARER":               "Caring for someone",
	"MENTAL_HEALTH":       "Mental health day",
	"MEDICAL_APPOINTMENT": "Medical appointment",
}

// FormatSlotValueForDisplay renders a raw slot value for the confirmation
// card; enum codes map to their spoken labels.
func FormatSlotValueForDisplay(slotName, value string) string {
	if slotName == "reason_category" {
		if label, ok := reasonLabels[value]; ok {
			return label
		}
	}
	return value
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// BuildConfirmationCard fills the spec's card template from the slots.
// Lines referencing empty or "not sure" values are dropped entirely.
func BuildConfirmationCard(spec models.AgentSpec, slots models.SlotValues) *models.ConfirmationCard {
	var lines []string
	for _, tpl := range spec.ConfirmLines {
		line := tpl
		skip := false
		for _, match := range placeholderPattern.FindAllStringSubmatch(tpl, -1) {
			name := match[1]
			value := slots.Get(name)
			if value == "" || models.IsUnknown(value) {
				skip = true
				break
			}
			line = strings.ReplaceAll(line, "{"+name+"}", FormatSlotValueForDisplay(name, value))
		}
		if !skip {
			lines = append(lines, line)
		}
	}

	h := fnv.New32a()
	h.Write([]byte(spec.ConfirmTitle + "|" + strings.Join(lines, "|")))

	return &models.ConfirmationCard{
		ID:           fmt.Sprintf("%x", h.Sum32()),
		Title:        spec.ConfirmTitle,
		Lines:        lines,
		ConfirmLabel: "Yes, that's correct",
		RejectLabel:  "No, let me change something",
	}
}

// BuildPlaceSearchParams derives the place search seed from the spec's
// configured slots, with fallbacks so query and area are never empty.
func BuildPlaceSearchParams(spec models.AgentSpec, slots models.SlotValues) *models.PlaceSearchParams {
	query := ""
	if spec.PlaceQuerySlot != "" {
		query = slots.Get(spec.PlaceQuerySlot)
	}
	if query == "" {
		for _, name := range []string{"retailer_name", "restaurant_name", "business_name"} {
			if v := slots.Get(name); v != "" {
				query = v
				break
			}
		}
	}
	if query == "" {
		query = "store"
	}

	area := ""
	if spec.PlaceAreaSlot != "" {
		area = slots.Get(spec.PlaceAreaSlot)
	}
	if area == "" {
		for _, name := range []string{"store_location", "suburb_or_area", "business_location", "location"} {
			if v := slots.Get(name); v != "" {
				area = v
				break
			}
		}
	}
	if area == "" {
		area = "Australia"
	}

	return &models.PlaceSearchParams{Query: query, Area: area}
}

// Decide picks the next conversation action.
//
// PLACE-sourced agents walk: questions -> confirmation card -> place
// search -> complete, with the confirmed-details flag suppressing a second
// card after the place is picked. DIRECT_SLOT agents go straight from the
// card to complete.
func Decide(spec models.AgentSpec, slots models.SlotValues, clientAction models.ClientAction, userMessage, currentQuestionSlot string) PlannedTurn {
	// Confirmation approval.
	if clientAction == models.ClientActionConfirm {
		if spec.PhoneSource == models.PhoneSourcePlace && !IsPlaceResolved(slots) {
			return PlannedTurn{
				NextAction:       models.ActionFindPlace,
				PlaceSearch:      BuildPlaceSearchParams(spec, slots),
				AssistantMessage: "Great! Now let's find the store to call.",
				SetConfirmedFlag: true,
			}
		}
		return PlannedTurn{
			NextAction:       models.ActionComplete,
			AssistantMessage: "Great! I'll place the call now.",
			SetConfirmedFlag: true,
		}
	}

	// Rejection re-opens the first missing slot, or asks what to change.
	if clientAction == models.ClientActionReject {
		if next, ok := agent.NextSlot(spec, slots); ok {
			return PlannedTurn{
				NextAction:       models.ActionAskQuestion,
				Question:         buildQuestion(next),
				AssistantMessage: "No problem! " + next.Prompt,
			}
		}
		return PlannedTurn{
			NextAction:       models.ActionAskQuestion,
			AssistantMessage: "What would you like to change?",
		}
	}

	var currentSlot *models.SlotSpec
	if currentQuestionSlot != "" {
		if s, ok := spec.SlotByName(currentQuestionSlot); ok {
			currentSlot = &s
		}
	}

	// "I don't know the number" on a phone slot hands off to place search.
	if shouldTriggerFindPlace(userMessage, currentSlot) {
		return PlannedTurn{
			NextAction:       models.ActionFindPlace,
			PlaceSearch:      BuildPlaceSearchParams(spec, slots),
			AssistantMessage: "I'll help you find the number.",
		}
	}

	next, hasNext := agent.NextSlot(spec, slots)
	if !hasNext {
		if spec.PhoneSource == models.PhoneSourcePlace && HasConfirmedDetails(slots) {
			if IsPlaceResolved(slots) {
				return PlannedTurn{
					NextAction:       models.ActionComplete,
					AssistantMessage: "Great! I'll place the call now.",
				}
			}
			return PlannedTurn{
				NextAction:       models.ActionFindPlace,
				PlaceSearch:      BuildPlaceSearchParams(spec, slots),
				AssistantMessage: "Now let's find the store to call.",
			}
		}
		return PlannedTurn{
			NextAction:       models.ActionConfirm,
			Confirmation:     BuildConfirmationCard(spec, slots),
			AssistantMessage: "Let me confirm the details:",
		}
	}

	return PlannedTurn{
		NextAction:       models.ActionAskQuestion,
		Question:         buildQuestion(next),
		AssistantMessage: next.Prompt,
	}
}
