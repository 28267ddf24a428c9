package call

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	callrecordRepo "calleroo/database/repository/callrecord"
	"calleroo/models"
	"calleroo/services/agent"
	"calleroo/services/conversation"
	ai "calleroo/services/intelligence"
	"calleroo/utils"
)

// Service manages the lifecycle of outbound calls: placing them, tracking
// provider status callbacks, and the post-call transcription and analysis.
type Service interface {
	StartCall(ctx context.Context, req models.StartCallRequest) (*models.StartCallResponse, error)
	StartWithBrief(ctx context.Context, conversationID string, brief models.CallBrief) (*models.StartCallResponse, error)
	CallStatus(ctx context.Context, callID string) (*models.CallStatusResponse, error)
	FormatCallResult(ctx context.Context, callID string) (*models.FormattedCallResult, error)
	HandleStatusUpdate(ctx context.Context, callID, providerStatus string, durationSeconds int)
	HandleRecording(ctx context.Context, callID, recordingURL string)
	Runs() RunStore
	Orchestrator() *Orchestrator
}

type DefaultCallService struct {
	dialer      Dialer
	runs        RunStore
	orch        *Orchestrator
	gen         ai.Generator
	transcriber ai.Transcriber
	records     callrecordRepo.CallRecordRepository
	recordings  RecordingFetcher
}

// RecordingFetcher downloads call audio for transcription. RestDialer
// implements it; tests substitute a fake.
type RecordingFetcher interface {
	FetchRecording(ctx context.Context, recordingURL string) ([]byte, error)
}

func NewCallService(
	dialer Dialer,
	runs RunStore,
	orch *Orchestrator,
	gen ai.Generator,
	transcriber ai.Transcriber,
	records callrecordRepo.CallRecordRepository,
	recordings RecordingFetcher,
) *DefaultCallService {
	return &DefaultCallService{
		dialer:      dialer,
		runs:        runs,
		orch:        orch,
		gen:         gen,
		transcriber: transcriber,
		records:     records,
		recordings:  recordings,
	}
}

func (s *DefaultCallService) Runs() RunStore { return s.runs }

func (s *DefaultCallService) Orchestrator() *Orchestrator { return s.orch }

// StartCall builds the call brief from the agent spec and collected slots,
// dials out, and registers the live run for the webhook loop.
func (s *DefaultCallService) StartCall(ctx context.Context, req models.StartCallRequest) (*models.StartCallResponse, error) {
	spec, err := agent.GetSpec(req.AgentType)
	if err != nil {
		return nil, err
	}
	if missing := agent.MissingRequired(spec, req.Slots); len(missing) > 0 {
		return nil, fmt.Errorf("cannot place call, missing slots: %s", strings.Join(missing, ", "))
	}

	slots := req.Slots
	if req.Place != nil {
		if slots == nil {
			slots = models.SlotValues{}
		}
		slots[conversation.PlaceIDSlot] = req.Place.PlaceID
		if phone := utils.NormalizeE164(req.Place.Phone); phone != "" {
			slots[conversation.PlacePhoneSlot] = phone
		}
	}

	brief, err := BuildBrief(spec, slots)
	if err != nil {
		return nil, err
	}
	return s.StartWithBrief(ctx, req.ConversationID, brief)
}

// StartWithBrief dials out with an already prepared brief. Scheduled direct
// calls use it to launch from the brief stored at scheduling time.
func (s *DefaultCallService) StartWithBrief(ctx context.Context, conversationID string, brief models.CallBrief) (*models.StartCallResponse, error) {
	logger := utils.GetLogger()

	if brief.CalleePhone == "" {
		return nil, fmt.Errorf("call brief has no callee phone")
	}
	if conversationID == "" {
		// Scheduled calls have no prior conversation; webhooks still key
		// the run by conversation id.
		conversationID = uuid.New().String()
	}

	callID, err := s.dialer.Dial(ctx, brief.CalleePhone, conversationID)
	if err != nil {
		return nil, fmt.Errorf("place call: %w", err)
	}

	run := NewCallRun(callID, conversationID, brief)
	run.SetStatus(models.CallStatusDialing, 0)
	s.runs.Put(run)

	if s.records != nil {
		record := models.CallRecord{
			CallID:      callID,
			AgentType:   brief.AgentType,
			CalleeName:  brief.CalleeName,
			CalleePhone: brief.CalleePhone,
			Objective:   brief.Objective,
			Status:      models.CallStatusDialing,
			StartedAt:   run.StartedAt(),
		}
		if _, err := s.records.Create(ctx, record); err != nil {
			logger.Error("failed to create call record", zap.String("callID", callID), zap.Error(err))
		}
	}

	logger.Info("call placed",
		zap.String("callID", callID),
		zap.String("agentType", brief.AgentType),
		zap.String("conversationID", conversationID))

	return &models.StartCallResponse{CallID: callID, Status: models.CallStatusDialing}, nil
}

func (s *DefaultCallService) CallStatus(ctx context.Context, callID string) (*models.CallStatusResponse, error) {
	if run, ok := s.runs.Get(callID); ok {
		return &models.CallStatusResponse{
			CallID: callID,
			Status: run.Status(),
			Result: run.Result(),
		}, nil
	}
	if s.records != nil {
		record, err := s.records.GetByCallID(ctx, callID)
		if err == nil && record != nil {
			return &models.CallStatusResponse{
				CallID: callID,
				Status: record.Status,
				Result: record.Result,
			}, nil
		}
	}
	return nil, fmt.Errorf("call not found: %s", callID)
}

// FormatCallResult renders the call for display. A live run is formatted
// from its in-memory state; finished calls come from the archive.
func (s *DefaultCallService) FormatCallResult(ctx context.Context, callID string) (*models.FormattedCallResult, error) {
	if run, ok := s.runs.Get(callID); ok {
		record := models.CallRecord{
			CallID:     callID,
			AgentType:  run.AgentType,
			CalleeName: run.Brief.CalleeName,
			Objective:  run.Brief.Objective,
			Status:     run.Status(),
			Result:     run.Result(),
			Transcript: run.Transcript(),
			StartedAt:  run.StartedAt(),
			EndedAt:    run.EndedAt(),
		}
		return FormatResult(ctx, s.gen, record), nil
	}
	if s.records != nil {
		record, err := s.records.GetByCallID(ctx, callID)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return FormatResult(ctx, s.gen, *record), nil
		}
	}
	return nil, fmt.Errorf("call not found: %s", callID)
}

// Provider statuses mapped to ours. Unknown statuses keep the run as is.
var providerStatuses = map[string]models.CallStatus{
	"queued":      models.CallStatusQueued,
	"initiated":   models.CallStatusDialing,
	"ringing":     models.CallStatusDialing,
	"answered":    models.CallStatusInProgress,
	"in-progress": models.CallStatusInProgress,
	"completed":   models.CallStatusCompleted,
	"busy":        models.CallStatusBusy,
	"no-answer":   models.CallStatusNoAnswer,
	"failed":      models.CallStatusFailed,
	"canceled":    models.CallStatusCanceled,
}

// HandleStatusUpdate processes a provider status callback. A completed call
// with a recording already on hand kicks off post-call processing.
func (s *DefaultCallService) HandleStatusUpdate(ctx context.Context, callID, providerStatus string, durationSeconds int) {
	logger := utils.GetLogger()

	run, ok := s.runs.Get(callID)
	if !ok {
		logger.Warn("status update for unknown call", zap.String("callID", callID))
		return
	}

	status, known := providerStatuses[providerStatus]
	if !known {
		logger.Warn("unknown provider status",
			zap.String("callID", callID),
			zap.String("status", providerStatus))
		return
	}

	run.SetStatus(status, durationSeconds)
	if s.records != nil {
		if err := s.records.UpdateStatus(ctx, callID, status); err != nil {
			logger.Error("failed to update call record status", zap.String("callID", callID), zap.Error(err))
		}
	}

	logger.Info("call status updated",
		zap.String("callID", callID),
		zap.String("status", string(status)),
		zap.String("duration", strconv.Itoa(durationSeconds)))

	if status == models.CallStatusCompleted && run.RecordingURL() != "" {
		go s.processCompletedCall(context.Background(), run)
	}
}

// HandleRecording stores the recording URL; when the call already completed
// it triggers post-call processing.
func (s *DefaultCallService) HandleRecording(ctx context.Context, callID, recordingURL string) {
	run, ok := s.runs.Get(callID)
	if !ok {
		utils.GetLogger().Warn("recording for unknown call", zap.String("callID", callID))
		return
	}
	run.SetRecordingURL(recordingURL)
	if s.records != nil {
		if err := s.records.SetRecordingURL(ctx, callID, recordingURL); err != nil {
			utils.GetLogger().Error("failed to store recording URL",
				zap.String("callID", callID), zap.Error(err))
		}
	}
	if run.Status() == models.CallStatusCompleted {
		go s.processCompletedCall(context.Background(), run)
	}
}

// processCompletedCall transcribes the recording, analyzes the outcome, and
// archives the run. The event transcript alone is enough when audio
// transcription is unavailable.
func (s *DefaultCallService) processCompletedCall(ctx context.Context, run *CallRun) {
	logger := utils.GetLogger()

	rawTranscript := ""
	if s.transcriber != nil && s.recordings != nil && run.RecordingURL() != "" {
		audio, err := s.recordings.FetchRecording(ctx, run.RecordingURL())
		if err != nil {
			logger.Warn("recording fetch failed",
				zap.String("callID", run.CallID), zap.Error(err))
		} else {
			rawTranscript, err = s.transcriber.Transcribe(ctx, audio, 8000)
			if err != nil {
				logger.Warn("recording transcription failed",
					zap.String("callID", run.CallID), zap.Error(err))
			}
		}
	}

	result := AnalyzeOutcome(ctx, s.gen, run, rawTranscript)
	run.SetResult(result)

	if s.records != nil {
		if err := s.records.SetResult(ctx, run.CallID, *result); err != nil {
			logger.Error("failed to store call result",
				zap.String("callID", run.CallID), zap.Error(err))
		}
		if entries := run.Transcript(); len(entries) > 0 {
			if err := s.records.AppendTranscript(ctx, run.CallID, entries); err != nil {
				logger.Error("failed to store call transcript",
					zap.String("callID", run.CallID), zap.Error(err))
			}
		}
	}

	logger.Info("call processed",
		zap.String("callID", run.CallID),
		zap.String("outcome", string(result.Outcome)))

	s.runs.Delete(run.CallID)
}
