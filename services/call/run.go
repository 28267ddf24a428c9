package call

import (
	"fmt"
	"sync"
	"time"

	"calleroo/models"
)

// genPhase is the lifecycle of one background reply generation.
type genPhase int

const (
	genIdle genPhase = iota
	genRunning
	genReady
	genFailed
)

// CallRun is the mutable state of one live telephony session. Webhook turns
// and the background generation goroutine share it, so every accessor takes
// the run lock. The generation cycle has a single writer at each stage: the
// gather turn flips the run into genRunning, the generation goroutine alone
// moves it to genReady or genFailed, and poll turns consume the reply with an
// atomic check-and-clear.
type CallRun struct {
	mu sync.Mutex

	CallID         string
	ConversationID string
	AgentType      string
	PhoneE164      string
	Brief          models.CallBrief

	status          models.CallStatus
	durationSeconds int
	recordingURL    string
	transcript      []models.TranscriptEntry
	result          *models.CallResult
	startedAt       time.Time
	endedAt         time.Time

	phase         genPhase
	pendingSpeech string
	pendingReply  string
	genStartedAt  time.Time

	lastQuestion string
	terminal     bool
}

func NewCallRun(callID, conversationID string, brief models.CallBrief) *CallRun {
	return &CallRun{
		CallID:         callID,
		ConversationID: conversationID,
		AgentType:      brief.AgentType,
		PhoneE164:      brief.CalleePhone,
		Brief:          brief,
		status:         models.CallStatusQueued,
		startedAt:      time.Now(),
	}
}

func (r *CallRun) Status() models.CallStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *CallRun) SetStatus(status models.CallStatus, durationSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	if durationSeconds > 0 {
		r.durationSeconds = durationSeconds
	}
	switch status {
	case models.CallStatusCompleted, models.CallStatusFailed,
		models.CallStatusBusy, models.CallStatusNoAnswer, models.CallStatusCanceled:
		r.endedAt = time.Now()
	}
}

func (r *CallRun) SetRecordingURL(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordingURL = url
}

func (r *CallRun) RecordingURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordingURL
}

func (r *CallRun) SetResult(result *models.CallResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = result
}

func (r *CallRun) Result() *models.CallResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// AppendTranscript records one speaker-labeled utterance.
func (r *CallRun) AppendTranscript(role, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcript = append(r.transcript, models.TranscriptEntry{
		Role: role,
		Text: text,
		At:   time.Now(),
	})
}

// Transcript returns a copy of the transcript so far.
func (r *CallRun) Transcript() []models.TranscriptEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.TranscriptEntry, len(r.transcript))
	copy(out, r.transcript)
	return out
}

// TranscriptText renders the transcript as speaker-labeled lines for prompts.
func (r *CallRun) TranscriptText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	text := ""
	for _, e := range r.transcript {
		label := "User"
		if e.Role == RoleAgent {
			label = "Assistant"
		}
		text += fmt.Sprintf("%s: %s\n", label, e.Text)
	}
	return text
}

// BeginGeneration moves the run into the generating phase. It refuses while
// another cycle is in flight or after the run has gone terminal, so at most
// one generation exists per call at a time.
func (r *CallRun) BeginGeneration(userSpeech string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminal || r.phase == genRunning {
		return false
	}
	r.phase = genRunning
	r.pendingSpeech = userSpeech
	r.pendingReply = ""
	r.genStartedAt = time.Now()
	return true
}

// FinishGeneration publishes the reply. Only the generation goroutine calls
// this.
func (r *CallRun) FinishGeneration(reply string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingReply = reply
	r.phase = genReady
}

// FailGeneration records a fallback reply so the poll loop keeps making
// progress instead of spinning until the ceiling.
func (r *CallRun) FailGeneration(fallback string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingReply = fallback
	r.phase = genFailed
}

// ConsumeReply atomically takes the pending reply if one is ready. Two
// concurrent poll turns cannot both receive it.
func (r *CallRun) ConsumeReply() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != genReady && r.phase != genFailed {
		return "", false
	}
	reply := r.pendingReply
	r.pendingReply = ""
	r.pendingSpeech = ""
	r.phase = genIdle
	return reply, true
}

// Generating reports whether a cycle is still in flight.
func (r *CallRun) Generating() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase == genRunning
}

// GenerationElapsed is the time since the current cycle started.
func (r *CallRun) GenerationElapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.genStartedAt.IsZero() {
		return 0
	}
	return time.Since(r.genStartedAt)
}

func (r *CallRun) PendingSpeech() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingSpeech
}

func (r *CallRun) LastQuestion() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastQuestion
}

func (r *CallRun) SetLastQuestion(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuestion = q
}

// MarkTerminal flags that the agent has said goodbye. Later webhook turns
// must not speak again.
func (r *CallRun) MarkTerminal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminal = true
}

func (r *CallRun) IsTerminal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminal
}

func (r *CallRun) StartedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startedAt
}

func (r *CallRun) EndedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endedAt
}

// Transcript speaker roles.
const (
	RoleAgent  = "agent"
	RoleCallee = "callee"
)

// RunStore keeps live call runs addressable by call ID and by the
// conversation that launched them. Webhooks arrive keyed by conversation ID,
// status callbacks by call ID.
type RunStore interface {
	Put(run *CallRun)
	Get(callID string) (*CallRun, bool)
	GetByConversation(conversationID string) (*CallRun, bool)
	Delete(callID string)
}

// MemoryRunStore holds runs in process memory. A run only matters while its
// call is live on this instance; finished runs are archived to Mongo and
// dropped.
type MemoryRunStore struct {
	mu     sync.RWMutex
	byCall map[string]*CallRun
	byConv map[string]*CallRun
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		byCall: map[string]*CallRun{},
		byConv: map[string]*CallRun{},
	}
}

func (s *MemoryRunStore) Put(run *CallRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCall[run.CallID] = run
	if run.ConversationID != "" {
		s.byConv[run.ConversationID] = run
	}
}

func (s *MemoryRunStore) Get(callID string) (*CallRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.byCall[callID]
	return run, ok
}

func (s *MemoryRunStore) GetByConversation(conversationID string) (*CallRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.byConv[conversationID]
	return run, ok
}

func (s *MemoryRunStore) Delete(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.byCall[callID]
	if !ok {
		return
	}
	delete(s.byCall, callID)
	if run.ConversationID != "" {
		delete(s.byConv, run.ConversationID)
	}
}
