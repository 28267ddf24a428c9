package agent

import "calleroo/models"

// IsRequiredNow reports whether a slot must be filled given the current
// values: unconditionally required, or its required_if rule fires.
func IsRequiredNow(slot models.SlotSpec, slots models.SlotValues) bool {
	if slot.Required {
		return true
	}
	return EvalRule(slot.RequiredIf, slots)
}

// ShouldAsk reports whether a slot should be offered to the user at all:
// required now, or its ask_if rule fires.
func ShouldAsk(slot models.SlotSpec, slots models.SlotValues) bool {
	if IsRequiredNow(slot, slots) {
		return true
	}
	return EvalRule(slot.AskIf, slots)
}

// NextSlot scans the spec's slots in declaration order and returns the
// first unfilled one that is required now, or whose ask_if rule fires.
// Conditional requirements are re-evaluated on every call, so answering
// one slot can surface or retire another.
func NextSlot(spec models.AgentSpec, slots models.SlotValues) (models.SlotSpec, bool) {
	for _, s := range spec.Slots {
		if slots.Has(s.Name) {
			continue
		}
		if ShouldAsk(s, slots) {
			return s, true
		}
	}
	return models.SlotSpec{}, false
}

// MissingRequired lists the names of slots that are required now and empty.
func MissingRequired(spec models.AgentSpec, slots models.SlotValues) []string {
	var missing []string
	for _, s := range spec.Slots {
		if IsRequiredNow(s, slots) && !slots.Has(s.Name) {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

// AllRequiredFilled reports whether every currently required slot has a value.
func AllRequiredFilled(spec models.AgentSpec, slots models.SlotValues) bool {
	_, hasNext := NextSlot(spec, slots)
	return !hasNext
}
