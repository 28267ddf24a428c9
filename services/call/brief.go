package call

import (
	"fmt"
	"regexp"
	"strings"

	"calleroo/models"
	"calleroo/services/agent"
	"calleroo/services/conversation"
)

var briefPlaceholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Spoken phrasings for the sick-caller reason categories. The raw enum value
// never reaches the phone line.
var spokenReasons = map[string]string{
	"SICK":                "They're feeling unwell.",
	"CARER":               "They need to care for someone.",
	"MENTAL_HEALTH":       "They're taking a mental health day.",
	"MEDICAL_APPOINTMENT": "They have a medical appointment.",
}

// Slots tried in order for the callee's display name.
var calleeNameSlots = []string{"employer_name", "restaurant_name", "retailer_name", "business_name"}

// BuildBrief assembles everything the phone agent needs before dialing. For
// a deterministic-script agent the script is the fully rendered greeting and
// message; for an LLM-dialog agent it is the rendered script template the
// model works from.
func BuildBrief(spec models.AgentSpec, slots models.SlotValues) (models.CallBrief, error) {
	phone, err := calleePhone(spec, slots)
	if err != nil {
		return models.CallBrief{}, err
	}

	brief := models.CallBrief{
		AgentType:   spec.AgentType,
		Objective:   renderTemplate(spec.ObjectiveTemplate, slots),
		CalleeName:  calleeName(slots),
		CalleePhone: phone,
		Slots:       slots,
	}

	if spec.PhoneFlow.Mode == models.PhoneFlowDeterministicScript {
		greeting := renderTemplate(spec.PhoneFlow.GreetingTemplate, slots)
		message := renderTemplate(spec.PhoneFlow.MessageTemplate, slots)
		brief.Script = strings.TrimSpace(greeting + " " + message)
	} else {
		brief.Script = renderTemplate(spec.ScriptTemplate, slots)
	}
	return brief, nil
}

func calleePhone(spec models.AgentSpec, slots models.SlotValues) (string, error) {
	slotName := conversation.PlacePhoneSlot
	if spec.PhoneSource == models.PhoneSourceDirectSlot {
		slotName = spec.DirectPhoneSlot
	}
	phone := slots.Get(slotName)
	if phone == "" {
		return "", fmt.Errorf("no phone number in slot %q", slotName)
	}
	return phone, nil
}

func calleeName(slots models.SlotValues) string {
	for _, name := range calleeNameSlots {
		if v := slots.Get(name); v != "" && !models.IsUnknown(v) {
			return v
		}
	}
	return ""
}

// renderTemplate substitutes {slot} placeholders. Derived placeholders
// resolve from related slots; a derived sentence renders empty when its
// source slot was skipped.
func renderTemplate(template string, slots models.SlotValues) string {
	rendered := briefPlaceholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := strings.Trim(match, "{}")
		switch name {
		case "reason_spoken":
			return spokenReasons[slots.Get("reason_category")]
		case "expected_return_sentence":
			if v := slots.Get("expected_return_date"); v != "" && !models.IsUnknown(v) {
				return "They expect to be back on " + v + ". "
			}
			return ""
		case "note_sentence":
			if v := slots.Get("note_for_team"); v != "" && !models.IsUnknown(v) {
				return "They asked me to pass on: " + v + ". "
			}
			return ""
		}
		value := slots.Get(name)
		if value == "" || models.IsUnknown(value) {
			return ""
		}
		return conversation.FormatSlotValueForDisplay(name, value)
	})
	return strings.Join(strings.Fields(rendered), " ")
}

// SystemPrompt returns the per-agent system prompt for the live dialog,
// falling back to the shared phone-agent prompt.
func SystemPrompt(spec models.AgentSpec) string {
	if spec.PhoneFlow.SystemPromptTemplate != "" {
		return spec.PhoneFlow.SystemPromptTemplate
	}
	return phoneAgentSystemPrompt
}

// BriefForAgent is a convenience wrapper that resolves the agent spec first.
func BriefForAgent(agentType string, slots models.SlotValues) (models.CallBrief, error) {
	spec, err := agent.GetSpec(agentType)
	if err != nil {
		return models.CallBrief{}, err
	}
	return BuildBrief(spec, slots)
}
