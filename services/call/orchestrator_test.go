package call

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"calleroo/models"
)

type fakeGenerator struct {
	reply string
	err   error
	block chan struct{}
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	return f.reply, f.err
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

func newTestRun() *CallRun {
	return NewCallRun("CA123456789", "test-conv-123", models.CallBrief{
		AgentType:   "STOCK_CHECKER",
		Objective:   "Check stock availability",
		Script:      "Check stock availability",
		CalleePhone: "+61400000000",
		Slots:       models.SlotValues{"product_name": "Test Product"},
	})
}

func newTestOrchestrator(gen *fakeGenerator, opts OrchestratorOptions) (*Orchestrator, *CallRun) {
	runs := NewMemoryRunStore()
	run := newTestRun()
	runs.Put(run)
	return NewOrchestrator(runs, gen, opts), run
}

func directiveURLs(directives []Directive) string {
	var urls []string
	for _, d := range directives {
		switch v := d.(type) {
		case Listen:
			urls = append(urls, v.ActionURL)
		case Redirect:
			urls = append(urls, v.URL)
		}
	}
	return strings.Join(urls, " ")
}

func TestVoiceTurnWaitsForCallee(t *testing.T) {
	t.Parallel()
	orch, _ := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	directives := orch.VoiceTurn("test-conv-123")
	if len(directives) != 1 {
		t.Fatalf("expected one directive, got %d", len(directives))
	}
	listen, ok := directives[0].(Listen)
	if !ok {
		t.Fatalf("expected Listen, got %T", directives[0])
	}
	if listen.Say != "" {
		t.Fatalf("agent must wait for callee to speak first, got %q", listen.Say)
	}
	if !strings.Contains(listen.ActionURL, "turn=0") {
		t.Fatalf("expected turn=0 in action URL: %s", listen.ActionURL)
	}
}

func TestVoiceTurnUnknownConversationHangsUp(t *testing.T) {
	t.Parallel()
	orch, _ := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	directives := orch.VoiceTurn("nope")
	hangup, ok := directives[0].(Hangup)
	if !ok {
		t.Fatalf("expected Hangup, got %T", directives[0])
	}
	if hangup.Say == "" {
		t.Fatal("expected an apology before hanging up")
	}
}

func TestGatherTurnStartsGenerationWithFiller(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: "Got it.", block: make(chan struct{})}
	orch, run := newTestOrchestrator(gen, OrchestratorOptions{})

	directives := orch.GatherTurn("test-conv-123", 0, 0, "Hello, this is a test")
	if len(directives) != 3 {
		t.Fatalf("expected filler, pause, redirect; got %d directives", len(directives))
	}
	if _, ok := directives[0].(Speak); !ok {
		t.Fatalf("expected Speak filler first, got %T", directives[0])
	}
	if _, ok := directives[1].(Pause); !ok {
		t.Fatalf("expected Pause second, got %T", directives[1])
	}
	redirect, ok := directives[2].(Redirect)
	if !ok {
		t.Fatalf("expected Redirect third, got %T", directives[2])
	}
	if !strings.Contains(redirect.URL, "/poll") || !strings.Contains(redirect.URL, "attempt=0") {
		t.Fatalf("expected poll redirect with attempt=0: %s", redirect.URL)
	}
	if !run.Generating() {
		t.Fatal("generation should be in flight")
	}
	close(gen.block)
}

func TestGatherTurnSilenceRetry(t *testing.T) {
	t.Parallel()
	orch, _ := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	directives := orch.GatherTurn("test-conv-123", 1, 0, "")
	listen, ok := directives[0].(Listen)
	if !ok {
		t.Fatalf("expected Listen re-prompt, got %T", directives[0])
	}
	if listen.Say != silenceFirstRetry {
		t.Fatalf("unexpected re-prompt: %q", listen.Say)
	}
	if !strings.Contains(listen.ActionURL, "retry=1") {
		t.Fatalf("expected retry=1 in action URL: %s", listen.ActionURL)
	}
}

func TestGatherTurnMaxRetriesHangsUp(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{MaxSilenceRetries: 1})

	directives := orch.GatherTurn("test-conv-123", 1, 1, "")
	hangup, ok := directives[0].(Hangup)
	if !ok {
		t.Fatalf("expected Hangup, got %T", directives[0])
	}
	if !strings.Contains(hangup.Say, "I haven't heard anything") {
		t.Fatalf("unexpected hangup message: %q", hangup.Say)
	}
	if !run.IsTerminal() {
		t.Fatal("run should be terminal after silence hangup")
	}
}

func TestGatherTurnPureHoldAcknowledged(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	directives := orch.GatherTurn("test-conv-123", 1, 0, "just a sec, checking")
	listen, ok := directives[0].(Listen)
	if !ok {
		t.Fatalf("expected Listen acknowledgment, got %T", directives[0])
	}
	if listen.Say != holdAcknowledgement {
		t.Fatalf("unexpected hold acknowledgment: %q", listen.Say)
	}
	if run.Generating() {
		t.Fatal("a pure hold must not start generation")
	}
}

func TestGatherTurnHoldWithInformationGenerates(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: "Great, thanks.", block: make(chan struct{})}
	orch, run := newTestOrchestrator(gen, OrchestratorOptions{})

	directives := orch.GatherTurn("test-conv-123", 1, 0, "yeah we have eight")
	if _, ok := directives[0].(Speak); !ok {
		t.Fatalf("expected filler Speak, got %T", directives[0])
	}
	if !run.Generating() {
		t.Fatal("speech carrying information must start generation")
	}
	close(gen.block)
}

func TestGatherTurnRefusesSecondGenerationCycle(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	if !run.BeginGeneration("first utterance") {
		t.Fatal("first cycle should start")
	}
	directives := orch.GatherTurn("test-conv-123", 1, 0, "second utterance while busy")
	if _, ok := directives[2].(Redirect); !ok {
		t.Fatalf("expected redirect to poll, got %T", directives[2])
	}
	if run.PendingSpeech() != "first utterance" {
		t.Fatalf("in-flight cycle overwritten: %q", run.PendingSpeech())
	}
}

func TestPollTurnDeliversReadyReply(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	run.BeginGeneration("do you have it")
	run.FinishGeneration("Hello, how can I help you?")

	directives := orch.PollTurn("test-conv-123", 1, 0)
	listen, ok := directives[0].(Listen)
	if !ok {
		t.Fatalf("expected Listen with reply, got %T", directives[0])
	}
	if listen.Say != "Hello, how can I help you?" {
		t.Fatalf("unexpected reply: %q", listen.Say)
	}
	if !strings.Contains(listen.ActionURL, "/gather") {
		t.Fatalf("reply should listen back into gather: %s", listen.ActionURL)
	}
	if _, ready := run.ConsumeReply(); ready {
		t.Fatal("reply must be consumed exactly once")
	}
}

func TestPollTurnContinuesWhenNotReady(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	run.BeginGeneration("still thinking")
	directives := orch.PollTurn("test-conv-123", 1, 0)
	if _, ok := directives[0].(Speak); !ok {
		t.Fatalf("expected filler Speak, got %T", directives[0])
	}
	if !strings.Contains(directiveURLs(directives), "attempt=1") {
		t.Fatalf("expected attempt incremented: %s", directiveURLs(directives))
	}
}

func TestPollTurnWrapsAttemptCounter(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	run.BeginGeneration("still thinking")
	directives := orch.PollTurn("test-conv-123", 1, 3)
	if !strings.Contains(directiveURLs(directives), "attempt=0") {
		t.Fatalf("expected attempt wrapped to 0: %s", directiveURLs(directives))
	}
}

func TestPollTurnTimeoutHangsUp(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{
		PollCeiling: time.Millisecond,
	})

	run.BeginGeneration("never finishes")
	time.Sleep(5 * time.Millisecond)

	directives := orch.PollTurn("test-conv-123", 1, 0)
	hangup, ok := directives[0].(Hangup)
	if !ok {
		t.Fatalf("expected Hangup, got %T", directives[0])
	}
	if !strings.Contains(hangup.Say, "technical difficulties") {
		t.Fatalf("unexpected hangup message: %q", hangup.Say)
	}
	if !run.IsTerminal() {
		t.Fatal("run should be terminal after poll timeout")
	}
}

func TestPollTurnGoodbyeMarksTerminal(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})

	run.BeginGeneration("thanks, that's all")
	run.FinishGeneration("Thanks for your help. Goodbye.")

	directives := orch.PollTurn("test-conv-123", 2, 0)
	hangup, ok := directives[0].(Hangup)
	if !ok {
		t.Fatalf("expected Hangup after goodbye, got %T", directives[0])
	}
	if hangup.Say != "Thanks for your help. Goodbye." {
		t.Fatalf("goodbye should be spoken before hanging up: %q", hangup.Say)
	}
	if !run.IsTerminal() {
		t.Fatal("run should be terminal after goodbye")
	}
}

func TestTerminalRunNeverSpeaksAgain(t *testing.T) {
	t.Parallel()
	orch, run := newTestOrchestrator(&fakeGenerator{}, OrchestratorOptions{})
	run.MarkTerminal()

	for _, directives := range [][]Directive{
		orch.GatherTurn("test-conv-123", 3, 0, "hello are you there"),
		orch.PollTurn("test-conv-123", 3, 0),
		orch.VoiceTurn("test-conv-123"),
	} {
		hangup, ok := directives[0].(Hangup)
		if !ok {
			t.Fatalf("terminal run must hang up, got %T", directives[0])
		}
		if hangup.Say != "" {
			t.Fatalf("terminal run must not speak, got %q", hangup.Say)
		}
	}
	if run.Generating() {
		t.Fatal("terminal run must not start generation")
	}
}

func TestGenerateReplySuppressesRepeatedQuestion(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: "Do you have the item in stock?"}
	orch, run := newTestOrchestrator(gen, OrchestratorOptions{})

	run.SetLastQuestion("Do you have the item in stock?")
	run.BeginGeneration("hold on please")
	orch.generateReply(run, "hold on please")

	reply, ready := run.ConsumeReply()
	if !ready {
		t.Fatal("reply should be ready")
	}
	if reply != repeatAck {
		t.Fatalf("repeated question should be replaced, got %q", reply)
	}
}

func TestGenerateReplyAllowsRepeatWithNewInformation(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: "Do you have the item in stock?"}
	orch, run := newTestOrchestrator(gen, OrchestratorOptions{})

	run.SetLastQuestion("Do you have the item in stock?")
	run.BeginGeneration("yes, eight left")
	orch.generateReply(run, "yes, eight left")

	reply, ready := run.ConsumeReply()
	if !ready {
		t.Fatal("reply should be ready")
	}
	if reply != "Do you have the item in stock?" {
		t.Fatalf("new information should allow the question through, got %q", reply)
	}
}

func TestGenerateReplyFailurePublishesFallback(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	orch, run := newTestOrchestrator(gen, OrchestratorOptions{})

	run.BeginGeneration("what's the price")
	orch.generateReply(run, "what's the price")

	reply, ready := run.ConsumeReply()
	if !ready {
		t.Fatal("a failed generation must still publish a reply")
	}
	if reply != generationFallback {
		t.Fatalf("unexpected fallback: %q", reply)
	}
	if run.Generating() {
		t.Fatal("failed generation must clear the generating flag")
	}
}
