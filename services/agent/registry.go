package agent

import (
	"fmt"

	"calleroo/models"
)

// Registry of all supported call agents, keyed by agent type. Each spec is
// fully declarative; the planner and extractor read these without any
// per-agent branching.
var registry = map[string]models.AgentSpec{
	"SICK_CALLER":            sickCallerSpec,
	"STOCK_CHECKER":          stockCheckerSpec,
	"RESTAURANT_RESERVATION": restaurantReservationSpec,
	"CANCEL_APPOINTMENT":     cancelAppointmentSpec,
}

// GetSpec returns the agent spec for the given type.
func GetSpec(agentType string) (models.AgentSpec, error) {
	spec, ok := registry[agentType]
	if !ok {
		return models.AgentSpec{}, fmt.Errorf("unknown agent type: %q", agentType)
	}
	return spec, nil
}

// ListSpecs returns all registered agent specs for the catalog endpoint.
func ListSpecs() []models.AgentSpec {
	out := make([]models.AgentSpec, 0, len(registry))
	for _, t := range []string{"SICK_CALLER", "STOCK_CHECKER", "RESTAURANT_RESERVATION", "CANCEL_APPOINTMENT"} {
		out = append(out, registry[t])
	}
	return out
}

var sickCallerSpec = models.AgentSpec{
	AgentType:   "SICK_CALLER",
	Title:       "Call in Sick",
	Description: "Notify your workplace that you are unwell",
	Slots: []models.SlotSpec{
		{
			Name:      "employer_name",
			Required:  true,
			InputType: models.InputText,
			Prompt:    "Who should I call to notify? (e.g., your manager's name or company name)",
		},
		{
			Name:      "employer_phone",
			Required:  true,
			InputType: models.InputPhone,
			Prompt:    "What's their phone number?",
		},
		{
			Name:      "caller_name",
			Required:  true,
			InputType: models.InputText,
			Prompt:    "What name should I give them? (your name)",
		},
		{
			Name:      "shift_date",
			Required:  true,
			InputType: models.InputDate,
			Prompt:    "When is your shift?",
		},
		{
			Name:      "shift_start_time",
			Required:  true,
			InputType: models.InputTime,
			Prompt:    "What time does your shift start?",
		},
		{
			Name:      "reason_category",
			Required:  true,
			InputType: models.InputChoice,
			Prompt:    "What's the reason for calling in?",
			Choices: []models.Choice{
				{Label: "I'm sick", Value: "SICK"},
				{Label: "Caring for someone", Value: "CARER"},
				{Label: "Mental health day", Value: "MENTAL_HEALTH"},
				{Label: "Medical appointment", Value: "MEDICAL_APPOINTMENT"},
			},
		},
		{
			Name:      "expected_return_date",
			Required:  false,
			InputType: models.InputDate,
			Prompt:    "When do you expect to return? (optional)",
		},
		{
			Name:      "note_for_team",
			Required:  false,
			InputType: models.InputText,
			Prompt:    "Any message for your team? (optional)",
		},
	},
	ConfirmTitle: "Call In Sick",
	ConfirmLines: []string{
		"Calling: {employer_name}",
		"Phone: {employer_phone}",
		"Your name: {caller_name}",
		"Shift: {shift_date} at {shift_start_time}",
		"Reason: {reason_category}",
		"Return: {expected_return_date}",
		"Note: {note_for_team}",
	},
	PhoneSource:     models.PhoneSourceDirectSlot,
	DirectPhoneSlot: "employer_phone",
	PhoneFlow: models.PhoneFlow{
		Mode:             models.PhoneFlowDeterministicScript,
		GreetingTemplate: "Hi—I'm Calleroo, the mobile app, calling on behalf of {caller_name}.",
		MessageTemplate: "{caller_name} won't be able to make their shift on {shift_date} at {shift_start_time}. " +
			"{reason_spoken} {expected_return_sentence}{note_sentence}Thanks for your help.",
	},
	ObjectiveTemplate: "Notify {employer_name} that {caller_name} cannot attend their shift on {shift_date}",
	ScriptTemplate: "Call {employer_name} at {employer_phone} to notify them that {caller_name} " +
		"cannot attend their shift on {shift_date} at {shift_start_time}. Reason: {reason_category}.",
}

var stockCheckerSpec = models.AgentSpec{
	AgentType:   "STOCK_CHECKER",
	Title:       "Stock Check",
	Description: "Check product availability at retailers",
	Slots: []models.SlotSpec{
		{
			Name:      "retailer_name",
			Required:  true,
			InputType: models.InputText,
			Prompt:    "Which retailer should I call?",
		},
		{
			Name:      "product_name",
			Required:  true,
			InputType: models.InputText,
			Prompt:    "What product are you looking for?",
		},
		{
			Name:       "product_details",
			Required:   false,
			RequiredIf: RuleNeedsProductDetails,
			InputType:  models.InputText,
			Prompt:     "Do you know the brand/model or key specs (size/voltage/type)? If not, say 'not sure'.",
		},
		{
			Name:       "broad_ok",
			Required:   false,
			RequiredIf: RuleNeedsBroadOK,
			InputType:  models.InputYesNo,
			Prompt:     "This is pretty broad, so the store may ask for more detail. Do you still want me to call and ask generally?",
		},
		{
			Name:      "quantity",
			Required:  true,
			InputType: models.InputNumber,
			Prompt:    "How many do you need?",
		},
		{
			Name:      "store_location",
			Required:  true,
			InputType: models.InputText,
			Prompt:    "Which suburb or area should I search in?",
		},
		{
			Name:      "brand",
			Required:  false,
			InputType: models.InputText,
			Prompt:    "Any specific brand? (optional)",
		},
		{
			Name:      "model",
			Required:  false,
			InputType: models.InputText,
			Prompt:    "Any specific model? (optional)",
		},
		{
			Name:      "variant",
			Required:  false,
			InputType: models.InputText,
			Prompt:    "Any specific variant (size, color)? (optional)",
		},
	},
	ConfirmTitle: "Check Stock",
	ConfirmLines: []string{
		"Retailer: {retailer_name}",
		"Product: {product_name}",
		"Details: {product_details}",
		"Quantity: {quantity}",
		"Location: {store_location}",
	},
	PhoneSource:    models.PhoneSourcePlace,
	PlaceQuerySlot: "retailer_name",
	PlaceAreaSlot:  "store_location",
	PhoneFlow: models.PhoneFlow{
		Mode:             models.PhoneFlowLLMDialog,
		GreetingTemplate: "Hi—I'm Calleroo, the mobile app, calling on behalf of a customer.",
		SystemPromptTemplate: "You are calling {retailer_name} to check stock for a customer.\n" +
			"Item: {product_name}.\n" +
			"Details (if provided): {product_details}.\n" +
			"Quantity needed: {quantity}.\n\n" +
			"Be polite and practical. Identify yourself as Calleroo (an AI assistant from a mobile app) calling on behalf of the customer.\n" +
			"Say the full item name once, then refer to it as 'the item' or 'this item' (do not keep repeating the full name).\n" +
			"Ask if it's in stock. If not, ask ETA or the nearest store that has it.\n",
	},
	ObjectiveTemplate: "Check if {retailer_name} has {quantity}x {product_name} in stock",
	ScriptTemplate: "Call {retailer_name} to check availability of {product_name}. " +
		"Customer needs {quantity} units near {store_location}.",
}

var restaurantReservationSpec = models.AgentSpec{
	AgentType:   "RESTAURANT_RESERVATION",
	Title:       "Book Restaurant",
	Description: "Book a table at a restaurant",
	Slots: []models.SlotSpec{
		{
			Name:      "restaurant_name",
			Required:  true,
			InputType: models.InputText,
			Prompt:    "Which restaurant would you like to book?",
		},
		{
			Name:      "party_size",
			Required:  true,
			InputType: models.InputNumber,
			Prompt:    "How many people?",
		},
		{
			Name:      "date",
			Required:  true,
			InputType: models.InputDate,
			Prompt:    "What date would you like to book for?",
		},
		{
			Name:      "time",
			Required:  true,
			InputType: models.InputTime,
			Prompt:    "What time would you prefer?",
		},
		{
			Name:      "suburb_or_area",
			Required:  false,
			InputType: models.InputText,
			Prompt:    "Which suburb or area? (optional if restaurant name is unique)",
		},
		{
			Name:      "share_contact",
			Required:  false,
			InputType: models.InputYesNo,
			Prompt:    "Should I share your contact details with the restaurant?",
		},
	},
	ConfirmTitle: "Book Restaurant",
	ConfirmLines: []string{
		"Restaurant: {restaurant_name}",
		"Party size: {party_size} people",
		"Date: {date}",
		"Time: {time}",
	},
	PhoneSource:    models.PhoneSourcePlace,
	PlaceQuerySlot: "restaurant_name",
	PlaceAreaSlot:  "suburb_or_area",
	PhoneFlow: models.PhoneFlow{
		Mode: models.PhoneFlowLLMDialog,
		SystemPromptTemplate: "You are calling {restaurant_name} to make a reservation. " +
			"Request a table for {party_size} people on {date} at {time}. " +
			"Be polite, identify yourself as an AI assistant making a booking on behalf of a customer.",
	},
	ObjectiveTemplate: "Book a table for {party_size} at {restaurant_name} on {date} at {time}",
	ScriptTemplate:    "Call {restaurant_name} to book a table for {party_size} people on {date} at {time}.",
}

var cancelAppointmentSpec = models.AgentSpec{
	AgentType:   "CANCEL_APPOINTMENT",
	Title:       "Cancel Appointment",
	Description: "Cancel an existing booking",
	Slots: []models.SlotSpec{
		{
			Name:      "business_name",
			Required:  true,
			InputType: models.InputText,
			Prompt:    "What's the name of the business where you have the appointment?",
		},
		{
			Name:      "appointment_day",
			Required:  true,
			InputType: models.InputDate,
			Prompt:    "What day is your appointment?",
		},
		{
			Name:      "appointment_time",
			Required:  true,
			InputType: models.InputTime,
			Prompt:    "What time is the appointment?",
		},
		{
			Name:      "customer_name",
			Required:  true,
			InputType: models.InputText,
			Prompt:    "What name is the booking under?",
		},
		{
			Name:      "business_location",
			Required:  false,
			InputType: models.InputText,
			Prompt:    "Which location/branch? (optional if only one location)",
		},
		{
			Name:      "cancel_reason",
			Required:  false,
			InputType: models.InputText,
			Prompt:    "Any reason to provide? (optional)",
		},
		{
			Name:      "reschedule_intent",
			Required:  false,
			InputType: models.InputYesNo,
			Prompt:    "Would you like to reschedule?",
		},
	},
	ConfirmTitle: "Cancel Appointment",
	ConfirmLines: []string{
		"Business: {business_name}",
		"Appointment: {appointment_day} at {appointment_time}",
		"Name on booking: {customer_name}",
	},
	PhoneSource:    models.PhoneSourcePlace,
	PlaceQuerySlot: "business_name",
	PlaceAreaSlot:  "business_location",
	PhoneFlow: models.PhoneFlow{
		Mode: models.PhoneFlowLLMDialog,
		SystemPromptTemplate: "You are calling {business_name} to cancel an appointment. " +
			"The appointment is on {appointment_day} at {appointment_time} under the name {customer_name}. " +
			"Be polite, identify yourself as an AI assistant, and confirm the cancellation.",
	},
	ObjectiveTemplate: "Cancel appointment at {business_name} on {appointment_day} at {appointment_time}",
	ScriptTemplate: "Call {business_name} to cancel the appointment on {appointment_day} at {appointment_time} " +
		"under the name {customer_name}.",
}
