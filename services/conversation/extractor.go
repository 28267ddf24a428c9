package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"calleroo/models"
	ai "calleroo/services/intelligence"
	"calleroo/utils"
)

// ExtractionOutcome reports what a turn's message yielded.
type ExtractionOutcome struct {
	Values     models.SlotValues
	Confidence models.Confidence
	ModelUsed  bool
}

// Extractor parses user messages into slot values. Deterministic parsers
// run first; the generator is consulted only for non-TEXT slots they
// cannot handle.
type Extractor struct {
	gen ai.Generator
}

func NewExtractor(gen ai.Generator) *Extractor {
	return &Extractor{gen: gen}
}

// Extract parses the message against the slot currently being asked.
func (e *Extractor) Extract(ctx context.Context, spec models.AgentSpec, message, currentSlot string, existing models.SlotValues) ExtractionOutcome {
	logger := utils.GetLogger()
	message = strings.TrimSpace(message)
	if message == "" || currentSlot == "" {
		return ExtractionOutcome{Values: models.SlotValues{}, Confidence: models.ConfidenceLow}
	}

	slot, ok := spec.SlotByName(currentSlot)
	if !ok {
		return ExtractionOutcome{Values: models.SlotValues{}, Confidence: models.ConfidenceLow}
	}

	if value, parsed := ExtractSlotDeterministic(message, slot); parsed {
		return ExtractionOutcome{
			Values:     models.SlotValues{slot.Name: value},
			Confidence: models.ConfidenceHigh,
		}
	}

	// TEXT slots never reach here (any non-empty message parses), so a
	// miss means a typed slot the parsers could not read.
	if e.gen == nil {
		return ExtractionOutcome{Values: models.SlotValues{}, Confidence: models.ConfidenceLow}
	}

	prompt := BuildExtractionPrompt(spec, message, currentSlot, existing)
	raw, err := e.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		logger.Warn("extraction model call failed", zap.String("slot", currentSlot), zap.Error(err))
		return ExtractionOutcome{Values: models.SlotValues{}, Confidence: models.ConfidenceLow, ModelUsed: true}
	}

	values := parseExtractionResponse(raw, spec)
	if len(values) == 0 {
		return ExtractionOutcome{Values: models.SlotValues{}, Confidence: models.ConfidenceLow, ModelUsed: true}
	}
	return ExtractionOutcome{Values: values, Confidence: models.ConfidenceMedium, ModelUsed: true}
}

// BuildExtractionPrompt describes the agent's slots and asks the model to
// pull values out of the message as JSON.
func BuildExtractionPrompt(spec models.AgentSpec, message, currentSlot string, existing models.SlotValues) string {
	var sb strings.Builder
	sb.WriteString("Extract slot values from the user's message for a phone call assistant.\n\n")
	sb.WriteString("Slots:\n")
	for _, s := range spec.Slots {
		sb.WriteString(fmt.Sprintf("- %s (%s)", s.Name, s.InputType))
		if len(s.Choices) > 0 {
			vals := make([]string, 0, len(s.Choices))
			for _, c := range s.Choices {
				vals = append(vals, fmt.Sprintf("%q", c.Value))
			}
			sb.WriteString(" allowed values: " + strings.Join(vals, ", "))
		}
		sb.WriteString("\n")
	}
	if len(existing) > 0 {
		sb.WriteString("\nAlready collected:\n")
		for name, value := range existing {
			if strings.HasPrefix(name, "_") {
				continue
			}
			sb.WriteString(fmt.Sprintf("- %s: %s\n", name, value))
		}
	}
	sb.WriteString(fmt.Sprintf("\nCurrently asking for: %s\n", currentSlot))
	sb.WriteString(fmt.Sprintf("User message: %q\n\n", message))
	sb.WriteString("Dates must be ISO yyyy-mm-dd, times 24-hour HH:MM, phone numbers E.164.\n")
	sb.WriteString(`Respond with JSON only: {"extractedData": {"slot_name": "value"}}. Omit slots the message does not answer.`)
	return sb.String()
}

func parseExtractionResponse(raw string, spec models.AgentSpec) models.SlotValues {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var parsed struct {
		ExtractedData map[string]any `json:"extractedData"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	values := models.SlotValues{}
	for name, v := range parsed.ExtractedData {
		if _, known := spec.SlotByName(name); !known {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s != "" && s != "<nil>" {
			values[name] = s
		}
	}
	return values
}
