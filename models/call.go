package models

import "time"

// CallStatus tracks a live or finished call run.
type CallStatus string

const (
	CallStatusQueued     CallStatus = "QUEUED"
	CallStatusDialing    CallStatus = "DIALING"
	CallStatusInProgress CallStatus = "IN_PROGRESS"
	CallStatusCompleted  CallStatus = "COMPLETED"
	CallStatusFailed     CallStatus = "FAILED"
	CallStatusBusy       CallStatus = "BUSY"
	CallStatusNoAnswer   CallStatus = "NO_ANSWER"
	CallStatusCanceled   CallStatus = "CANCELED"
)

// CallOutcome is the post-call verdict on whether the objective was met.
type CallOutcome string

const (
	OutcomeSuccess      CallOutcome = "SUCCESS"
	OutcomePartial      CallOutcome = "PARTIAL"
	OutcomeFailed       CallOutcome = "FAILED"
	OutcomeUndetermined CallOutcome = "UNDETERMINED"
)

// CallBrief is everything the phone agent needs before dialing: who to call,
// what to achieve, and the collected slot values for reference.
type CallBrief struct {
	AgentType   string     `json:"agent_type"`
	Objective   string     `json:"objective"`
	Script      string     `json:"script"`
	CalleeName  string     `json:"callee_name"`
	CalleePhone string     `json:"callee_phone"`
	Slots       SlotValues `json:"slots"`
}

// TranscriptEntry is one utterance in the call transcript.
type TranscriptEntry struct {
	Role string    `json:"role" bson:"role"` // "agent" or "callee"
	Text string    `json:"text" bson:"text"`
	At   time.Time `json:"at" bson:"at"`
}

// StartCallRequest launches a call from a completed conversation.
type StartCallRequest struct {
	ConversationID string          `json:"conversation_id"`
	AgentType      string          `json:"agent_type" binding:"required"`
	Slots          SlotValues      `json:"slots" binding:"required"`
	Place          *PlaceCandidate `json:"place,omitempty"`
}

// StartCallResponse acknowledges a launched call.
type StartCallResponse struct {
	CallID string     `json:"call_id"`
	Status CallStatus `json:"status"`
}

// CallResult is the structured post-call summary shown to the user.
type CallResult struct {
	Outcome CallOutcome       `json:"outcome" bson:"outcome"`
	Summary string            `json:"summary" bson:"summary"`
	Details map[string]string `json:"details,omitempty" bson:"details,omitempty"`
}

// FormattedCallResult is the user-facing rendering of a finished call:
// a short title, a plain-English summary, key facts, and suggested next
// steps, plus a cleaned transcript when one exists.
type FormattedCallResult struct {
	Title               string            `json:"title"`
	Summary             string            `json:"summary"`
	Bullets             []string          `json:"bullets"`
	NextSteps           []string          `json:"next_steps"`
	FormattedTranscript string            `json:"formatted_transcript,omitempty"`
	Facts               map[string]string `json:"facts,omitempty"`
}

// CallStatusResponse reports live progress to the polling client.
type CallStatusResponse struct {
	CallID string      `json:"call_id"`
	Status CallStatus  `json:"status"`
	Result *CallResult `json:"result,omitempty"`
}

// CallRecord is the archived document written to Mongo once a call ends.
type CallRecord struct {
	CallID       string            `json:"call_id" bson:"call_id"`
	UserID       string            `json:"user_id,omitempty" bson:"user_id,omitempty"`
	AgentType    string            `json:"agent_type" bson:"agent_type"`
	CalleeName   string            `json:"callee_name" bson:"callee_name"`
	CalleePhone  string            `json:"callee_phone" bson:"callee_phone"`
	Objective    string            `json:"objective" bson:"objective"`
	Status       CallStatus        `json:"status" bson:"status"`
	Result       *CallResult       `json:"result,omitempty" bson:"result,omitempty"`
	Transcript   []TranscriptEntry `json:"transcript" bson:"transcript"`
	RecordingURL string            `json:"recording_url,omitempty" bson:"recording_url,omitempty"`
	StartedAt    time.Time         `json:"started_at" bson:"started_at"`
	EndedAt      time.Time         `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
}
