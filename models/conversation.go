package models

import "strings"

// NextAction tells the client what to do after a conversation turn.
type NextAction string

const (
	ActionAskQuestion NextAction = "ASK_QUESTION"
	ActionConfirm     NextAction = "CONFIRM"
	ActionFindPlace   NextAction = "FIND_PLACE"
	ActionComplete    NextAction = "COMPLETE"
)

// ClientAction classifies what the user just did in the app.
type ClientAction string

const (
	ClientActionMessage     ClientAction = "MESSAGE"
	ClientActionConfirm     ClientAction = "CONFIRM"
	ClientActionReject      ClientAction = "REJECT"
	ClientActionSelectPlace ClientAction = "SELECT_PLACE"
	ClientActionStartOver   ClientAction = "START_OVER"
)

// Confidence grades how sure the extraction layer is about a parsed value.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Sentinel values a slot can hold when the user explicitly does not know.
const (
	ValueNotSure  = "not sure"
	ValueNotSure2 = "not_sure"
	ValueUnsure   = "unsure"
)

// SlotValues holds the filled slots for a conversation. Values are stored
// as strings; the internal confirmation flag lives alongside user slots.
type SlotValues map[string]string

// ConfirmedCoreDetailsKey marks that the user has approved the confirmation
// card; it is never surfaced as a user-facing slot.
const ConfirmedCoreDetailsKey = "_confirmed_core_details"

// Get returns the trimmed value for a slot, or "" when absent.
func (v SlotValues) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// Has reports whether a slot holds a non-empty value.
func (v SlotValues) Has(name string) bool {
	return v.Get(name) != ""
}

// IsUnknown reports whether the value is one of the "don't know" sentinels.
func IsUnknown(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case ValueNotSure, ValueNotSure2, ValueUnsure:
		return true
	}
	return false
}

// Question is the prompt the client should render next.
type Question struct {
	SlotName     string   `json:"slot_name"`
	Prompt       string   `json:"prompt"`
	InputType    string   `json:"input_type"`
	QuickReplies []Choice `json:"quick_replies,omitempty"`
	Placeholder  string   `json:"placeholder,omitempty"`
}

// ConfirmationCard summarizes the collected details for user approval.
type ConfirmationCard struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Lines        []string `json:"lines"`
	ConfirmLabel string   `json:"confirm_label"`
	RejectLabel  string   `json:"reject_label"`
}

// PlaceSearchParams seed the place lookup screen on FIND_PLACE.
type PlaceSearchParams struct {
	Query string `json:"query"`
	Area  string `json:"area"`
}

// TurnRequest is one user turn in the slot-filling conversation.
type TurnRequest struct {
	ConversationID string          `json:"conversation_id"`
	AgentType      string          `json:"agent_type" binding:"required"`
	Action         ClientAction    `json:"action" binding:"required"`
	Message        string          `json:"message,omitempty"`
	SlotName       string          `json:"slot_name,omitempty"`
	Slots          SlotValues      `json:"slots,omitempty"`
	Place          *PlaceCandidate `json:"place,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// TurnResponse is the planner's decision rendered for the client.
type TurnResponse struct {
	ConversationID string             `json:"conversation_id"`
	NextAction     NextAction         `json:"next_action"`
	Question       *Question          `json:"question,omitempty"`
	Confirmation   *ConfirmationCard  `json:"confirmation,omitempty"`
	PlaceSearch    *PlaceSearchParams `json:"place_search,omitempty"`
	Slots          SlotValues         `json:"slots"`
	Confidence     Confidence         `json:"confidence,omitempty"`
}

// ConversationState is what persists between turns in Redis.
type ConversationState struct {
	ConversationID string          `json:"conversation_id"`
	AgentType      string          `json:"agent_type"`
	Slots          SlotValues      `json:"slots"`
	Place          *PlaceCandidate `json:"place,omitempty"`
	UpdatedAt      int64           `json:"updated_at"`
}
