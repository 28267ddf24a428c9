package call

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"calleroo/models"
	ai "calleroo/services/intelligence"
	"calleroo/utils"
)

const (
	silenceFirstRetry  = "I'm sorry, I didn't catch that."
	silenceLaterRetry  = "Hello? Is anyone there?"
	silenceGoodbye     = "I haven't heard anything, so I'll end the call here. Goodbye."
	timeoutGoodbye     = "I'm sorry, I'm having technical difficulties. Please try again later. Goodbye."
	noRunApology       = "Hello, this is Calleroo. I apologize, but there was a technical issue. Please have a nice day."
	generationFallback = "Sorry, one moment. Could you repeat that?"
	repeatAck          = "No worries—take your time. Let me know when you're ready."
)

// Orchestrator drives one webhook turn of a live call into a directive list.
// It never answers a webhook with silence: every branch emits directives.
type Orchestrator struct {
	runs RunStore
	gen  ai.Generator

	basePath          string
	listenTimeoutSecs int
	maxSilenceRetries int
	pollCeiling       time.Duration
	pollAttemptWrap   int
}

// OrchestratorOptions tunes the live-call timing behavior. Zero values fall
// back to the tested defaults.
type OrchestratorOptions struct {
	BasePath          string
	ListenTimeoutSecs int
	MaxSilenceRetries int
	PollCeiling       time.Duration
	PollAttemptWrap   int
}

func NewOrchestrator(runs RunStore, gen ai.Generator, opts OrchestratorOptions) *Orchestrator {
	if opts.BasePath == "" {
		opts.BasePath = "/telephony"
	}
	if opts.ListenTimeoutSecs <= 0 {
		opts.ListenTimeoutSecs = 6
	}
	if opts.MaxSilenceRetries <= 0 {
		opts.MaxSilenceRetries = 1
	}
	if opts.PollCeiling <= 0 {
		opts.PollCeiling = 20 * time.Second
	}
	if opts.PollAttemptWrap <= 0 {
		opts.PollAttemptWrap = 3
	}
	return &Orchestrator{
		runs:              runs,
		gen:               gen,
		basePath:          opts.BasePath,
		listenTimeoutSecs: opts.ListenTimeoutSecs,
		maxSilenceRetries: opts.MaxSilenceRetries,
		pollCeiling:       opts.PollCeiling,
		pollAttemptWrap:   opts.PollAttemptWrap,
	}
}

func (o *Orchestrator) gatherURL(conversationID string, turn, retry int) string {
	return fmt.Sprintf("%s/gather?conversationId=%s&turn=%d&retry=%d",
		o.basePath, url.QueryEscape(conversationID), turn, retry)
}

func (o *Orchestrator) pollURL(conversationID string, turn, attempt int) string {
	return fmt.Sprintf("%s/poll?conversationId=%s&turn=%d&attempt=%d",
		o.basePath, url.QueryEscape(conversationID), turn, attempt)
}

// VoiceTurn answers the first webhook of a call. The agent waits for the
// callee to speak first, so the listen carries no prompt.
func (o *Orchestrator) VoiceTurn(conversationID string) []Directive {
	run, ok := o.runs.GetByConversation(conversationID)
	if !ok {
		utils.GetLogger().Warn("voice turn for unknown conversation",
			zap.String("conversationID", conversationID))
		return []Directive{Hangup{Say: noRunApology}}
	}
	if run.IsTerminal() {
		return []Directive{Hangup{}}
	}
	run.SetStatus(models.CallStatusInProgress, 0)
	return []Directive{Listen{
		ActionURL:      o.gatherURL(conversationID, 0, 0),
		TimeoutSeconds: o.listenTimeoutSecs,
	}}
}

// GatherTurn handles recognized speech for one turn. Empty speech burns the
// retry budget; a pure hold phrase gets one acknowledgment without starting
// generation; anything else kicks off a background generation cycle and
// returns a filler plus a redirect into the poll loop.
func (o *Orchestrator) GatherTurn(conversationID string, turn, retry int, speech string) []Directive {
	run, ok := o.runs.GetByConversation(conversationID)
	if !ok {
		return []Directive{Hangup{Say: noRunApology}}
	}
	if run.IsTerminal() {
		return []Directive{Hangup{}}
	}

	speech = strings.TrimSpace(speech)
	if speech == "" {
		if retry >= o.maxSilenceRetries {
			run.MarkTerminal()
			return []Directive{Hangup{Say: silenceGoodbye}}
		}
		prompt := silenceFirstRetry
		if retry > 0 {
			prompt = silenceLaterRetry
		}
		return []Directive{Listen{
			Say:            prompt,
			ActionURL:      o.gatherURL(conversationID, turn, retry+1),
			TimeoutSeconds: o.listenTimeoutSecs,
		}}
	}

	run.AppendTranscript(RoleCallee, speech)

	if IsPureHoldPhrase(speech) {
		run.AppendTranscript(RoleAgent, holdAcknowledgement)
		return []Directive{Listen{
			Say:            holdAcknowledgement,
			ActionURL:      o.gatherURL(conversationID, turn+1, 0),
			TimeoutSeconds: o.listenTimeoutSecs,
		}}
	}

	if run.BeginGeneration(speech) {
		go o.generateReply(run, speech)
	}
	return []Directive{
		Speak{Text: fillerFor(0)},
		Pause{Seconds: 1},
		Redirect{URL: o.pollURL(conversationID, turn, 0)},
	}
}

// PollTurn checks whether the background reply is ready. Ready replies are
// consumed atomically and spoken inside a listen; in-flight cycles get
// another filler until the ceiling, after which the call ends gracefully.
func (o *Orchestrator) PollTurn(conversationID string, turn, attempt int) []Directive {
	run, ok := o.runs.GetByConversation(conversationID)
	if !ok {
		return []Directive{Hangup{}}
	}
	if run.IsTerminal() {
		return []Directive{Hangup{}}
	}

	if reply, ready := run.ConsumeReply(); ready {
		run.AppendTranscript(RoleAgent, reply)
		if strings.Contains(strings.ToLower(reply), "goodbye") {
			run.MarkTerminal()
			return []Directive{Hangup{Say: reply}}
		}
		return []Directive{Listen{
			Say:            reply,
			ActionURL:      o.gatherURL(conversationID, turn+1, 0),
			TimeoutSeconds: o.listenTimeoutSecs,
		}}
	}

	if run.GenerationElapsed() >= o.pollCeiling {
		run.MarkTerminal()
		utils.GetLogger().Warn("generation exceeded poll ceiling",
			zap.String("callID", run.CallID),
			zap.Duration("ceiling", o.pollCeiling))
		return []Directive{Hangup{Say: timeoutGoodbye}}
	}

	next := attempt + 1
	if next > o.pollAttemptWrap {
		next = 0
	}
	return []Directive{
		Speak{Text: fillerFor(attempt)},
		Pause{Seconds: 1},
		Redirect{URL: o.pollURL(conversationID, turn, next)},
	}
}

// generateReply runs as the single background writer of the pending reply.
// Any failure still publishes a fallback so the poll loop makes progress.
func (o *Orchestrator) generateReply(run *CallRun, userSpeech string) {
	logger := utils.GetLogger()
	started := time.Now()

	reply, err := o.generate(context.Background(), run, userSpeech)
	if err != nil {
		logger.Error("agent reply generation failed",
			zap.String("callID", run.CallID),
			zap.Error(err))
		run.FailGeneration(generationFallback)
		return
	}

	// A regenerated question is replaced with a wait acknowledgment unless
	// the callee's speech carried new information.
	if question := extractQuestion(reply); question != "" {
		last := run.LastQuestion()
		if last != "" && isSameQuestion(question, last) && !ContainsInfo(userSpeech) {
			logger.Info("suppressing repeated question",
				zap.String("callID", run.CallID))
			run.FinishGeneration(repeatAck)
			return
		}
		run.SetLastQuestion(question)
	}

	logger.Info("agent reply generated",
		zap.String("callID", run.CallID),
		zap.Duration("elapsed", time.Since(started)))
	run.FinishGeneration(reply)
}

func (o *Orchestrator) generate(ctx context.Context, run *CallRun, userSpeech string) (string, error) {
	if o.gen == nil {
		return "", fmt.Errorf("no generator configured")
	}
	slotsJSON, _ := json.Marshal(run.Brief.Slots)
	prompt := fmt.Sprintf(`%s

Conversation so far:
%s
Context:
Agent type: %s
Objective: %s
Slots: %s

Latest user said:
%q

What should you say next?`,
		phoneAgentSystemPrompt,
		run.TranscriptText(),
		run.AgentType,
		run.Brief.Script,
		slotsJSON,
		userSpeech,
	)

	reply, err := o.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	reply = strings.Trim(strings.TrimSpace(reply), `"'`)
	if reply == "" {
		return "", fmt.Errorf("empty reply from model")
	}
	return reply, nil
}
