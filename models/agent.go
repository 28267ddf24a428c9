package models

// InputType constrains how a slot value is collected and parsed.
type InputType string

const (
	InputText   InputType = "TEXT"
	InputChoice InputType = "CHOICE"
	InputYesNo  InputType = "YES_NO"
	InputDate   InputType = "DATE"
	InputTime   InputType = "TIME"
	InputPhone  InputType = "PHONE"
	InputNumber InputType = "NUMBER"
)

// PhoneSource says where the callee phone number for an agent comes from.
type PhoneSource string

const (
	PhoneSourcePlace      PhoneSource = "PLACE"
	PhoneSourceDirectSlot PhoneSource = "DIRECT_SLOT"
)

// PhoneFlowMode says how the live call is conducted: a fixed spoken script
// or a generated back-and-forth dialog.
type PhoneFlowMode string

const (
	PhoneFlowDeterministicScript PhoneFlowMode = "DETERMINISTIC_SCRIPT"
	PhoneFlowLLMDialog           PhoneFlowMode = "LLM_DIALOG"
)

// PhoneFlow configures the live phone call for an agent. Templates use
// {slot_name} placeholders filled from the collected slots.
type PhoneFlow struct {
	Mode                 PhoneFlowMode `json:"mode"`
	GreetingTemplate     string        `json:"-"`
	MessageTemplate      string        `json:"-"`
	SystemPromptTemplate string        `json:"-"`
}

// Choice is a selectable option for a CHOICE slot.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SlotSpec declares a single piece of information an agent needs from the user.
// RequiredIf and AskIf name predicate rules evaluated against the current slot
// values; an empty rule name means unconditional.
type SlotSpec struct {
	Name        string    `json:"name"`
	Prompt      string    `json:"prompt"`
	InputType   InputType `json:"input_type"`
	Required    bool      `json:"required"`
	RequiredIf  string    `json:"required_if,omitempty"`
	AskIf       string    `json:"ask_if,omitempty"`
	Choices     []Choice  `json:"choices,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// QuickReplies returns the tappable options the client should render for
// this slot, or nil when free text is expected.
func (s SlotSpec) QuickReplies() []Choice {
	switch s.InputType {
	case InputChoice:
		return s.Choices
	case InputYesNo:
		return []Choice{{Value: "YES", Label: "Yes"}, {Value: "NO", Label: "No"}}
	default:
		return nil
	}
}

// AgentSpec is the full declaration of one call agent: the slots it fills,
// how it confirms them, and how it sources the number to dial.
type AgentSpec struct {
	AgentType    string     `json:"agent_type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Slots        []SlotSpec `json:"slots"`
	ConfirmTitle string     `json:"confirm_title"`
	ConfirmLines []string   `json:"confirm_lines"`

	PhoneSource     PhoneSource `json:"phone_source"`
	DirectPhoneSlot string      `json:"direct_phone_slot,omitempty"`
	PlaceQuerySlot  string      `json:"place_query_slot,omitempty"`
	PlaceAreaSlot   string      `json:"place_area_slot,omitempty"`
	PhoneFlow       PhoneFlow   `json:"phone_flow"`

	ObjectiveTemplate string `json:"-"`
	ScriptTemplate    string `json:"-"`
}

// SlotByName returns the slot declaration with the given name.
func (a AgentSpec) SlotByName(name string) (SlotSpec, bool) {
	for _, s := range a.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return SlotSpec{}, false
}
