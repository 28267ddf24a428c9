package call

import (
	"context"
	"testing"

	"calleroo/models"
)

func TestParseOutcomeRepairsMissingFields(t *testing.T) {
	t.Parallel()

	result := parseOutcome(`{"success": true, "extractedFacts": {"inStock": true, "quantity": 8}}`)
	if result.Outcome != models.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", result.Outcome)
	}
	if result.Summary != "Call completed" {
		t.Fatalf("missing summary should default, got %q", result.Summary)
	}
	if result.Details["inStock"] != "true" || result.Details["quantity"] != "8" {
		t.Fatalf("facts not flattened: %v", result.Details)
	}
}

func TestParseOutcomeStripsCodeFence(t *testing.T) {
	t.Parallel()

	result := parseOutcome("```json\n{\"success\": false, \"summary\": \"No answer on price.\"}\n```")
	if result.Outcome != models.OutcomeFailed {
		t.Fatalf("expected FAILED, got %s", result.Outcome)
	}
	if result.Summary != "No answer on price." {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
}

func TestParseOutcomeInvalidJSON(t *testing.T) {
	t.Parallel()

	result := parseOutcome("the call was a success: true I think")
	if result.Outcome != models.OutcomeSuccess {
		t.Fatalf("success hint should be honored, got %s", result.Outcome)
	}

	result = parseOutcome("garbled")
	if result.Outcome != models.OutcomeFailed {
		t.Fatalf("expected FAILED for unparseable output, got %s", result.Outcome)
	}
	if result.Summary == "" {
		t.Fatal("a summary must always be set")
	}
}

func TestAnalyzeOutcomeWithoutTranscript(t *testing.T) {
	t.Parallel()
	run := newTestRun()

	result := AnalyzeOutcome(context.Background(), &fakeGenerator{}, run, "")
	if result.Outcome != models.OutcomeUndetermined {
		t.Fatalf("expected UNDETERMINED with no transcript, got %s", result.Outcome)
	}
}

func TestAnalyzeOutcomeUsesEventTranscript(t *testing.T) {
	t.Parallel()
	run := newTestRun()
	run.AppendTranscript(RoleAgent, "Do you have the item in stock?")
	run.AppendTranscript(RoleCallee, "Yes, eight left at $12 each.")

	gen := &fakeGenerator{reply: `{"success": true, "summary": "Item in stock.", "confidence": "HIGH"}`}
	result := AnalyzeOutcome(context.Background(), gen, run, "")
	if result.Outcome != models.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", result.Outcome)
	}
	if result.Summary != "Item in stock." {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
}
