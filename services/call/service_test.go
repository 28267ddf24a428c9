package call

import (
	"context"
	"testing"

	"calleroo/models"
)

func newStatusTestService(run *CallRun) *DefaultCallService {
	runs := NewMemoryRunStore()
	runs.Put(run)
	return NewCallService(nil, runs, nil, nil, nil, nil, nil)
}

func TestHandleStatusUpdateBusyIsDistinctAndTerminal(t *testing.T) {
	t.Parallel()

	run := newTestRun()
	svc := newStatusTestService(run)

	svc.HandleStatusUpdate(context.Background(), run.CallID, "busy", 0)

	if got := run.Status(); got != models.CallStatusBusy {
		t.Fatalf("expected BUSY, got %s", got)
	}
	if run.EndedAt().IsZero() {
		t.Fatal("a busy call should record an end time")
	}
}

func TestHandleStatusUpdateMapsNoAnswer(t *testing.T) {
	t.Parallel()

	run := newTestRun()
	svc := newStatusTestService(run)

	svc.HandleStatusUpdate(context.Background(), run.CallID, "no-answer", 0)
	if got := run.Status(); got != models.CallStatusNoAnswer {
		t.Fatalf("expected NO_ANSWER, got %s", got)
	}
}

func TestHandleStatusUpdateIgnoresUnknownStatus(t *testing.T) {
	t.Parallel()

	run := newTestRun()
	svc := newStatusTestService(run)
	before := run.Status()

	svc.HandleStatusUpdate(context.Background(), run.CallID, "transferring", 0)
	if got := run.Status(); got != before {
		t.Fatalf("unknown status must not change the run, got %s", got)
	}
}
