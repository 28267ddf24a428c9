package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Agents       *AgentsHandler
	Conversation *ConversationHandler
	Places       *PlacesHandler
	Calls        *CallHandler
	Telephony    *TelephonyHandler
	Tasks        *TaskHandler
}
