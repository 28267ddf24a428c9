package call

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"calleroo/models"
	ai "calleroo/services/intelligence"
	"calleroo/utils"
)

type outcomeResponse struct {
	Success        *bool                  `json:"success"`
	Summary        string                 `json:"summary"`
	ExtractedFacts map[string]interface{} `json:"extractedFacts"`
	Confidence     string                 `json:"confidence"`
}

// AnalyzeOutcome turns a finished call's transcripts into a structured
// result. The speaker-labeled event transcript is authoritative; the raw
// audio transcript, when present, is supplementary. Malformed model output
// is repaired with defaults rather than surfaced as an error.
func AnalyzeOutcome(ctx context.Context, gen ai.Generator, run *CallRun, rawTranscript string) *models.CallResult {
	logger := utils.GetLogger()

	if gen == nil {
		return &models.CallResult{
			Outcome: models.OutcomeUndetermined,
			Summary: "Call completed, but no analyzer is configured.",
		}
	}

	eventTranscript := run.TranscriptText()
	if eventTranscript == "" && rawTranscript == "" {
		return &models.CallResult{
			Outcome: models.OutcomeUndetermined,
			Summary: "No transcript was captured for this call.",
		}
	}
	if eventTranscript == "" {
		eventTranscript = "(No event transcript recorded)"
	}

	rawSection := "(No raw audio transcript available)"
	if rawTranscript != "" {
		rawSection = "RAW AUDIO TRANSCRIPT (supplementary - may have speaker attribution errors):\n" + rawTranscript
	}

	slotsJSON, _ := json.Marshal(run.Brief.Slots)
	prompt := fmt.Sprintf(outcomeAnalysisPrompt,
		run.AgentType, run.Brief.Script, slotsJSON, eventTranscript, rawSection)

	raw, err := gen.GenerateJSON(ctx, prompt)
	if err != nil {
		logger.Error("outcome analysis failed",
			zap.String("callID", run.CallID),
			zap.Error(err))
		return &models.CallResult{
			Outcome: models.OutcomeUndetermined,
			Summary: "Call completed, but the outcome could not be analyzed.",
		}
	}

	return parseOutcome(raw)
}

// parseOutcome repairs whatever the model returned into a valid result:
// missing fields get defaults, facts are flattened to strings.
func parseOutcome(raw string) *models.CallResult {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed outcomeResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		lower := strings.ToLower(cleaned)
		outcome := models.OutcomeFailed
		if strings.Contains(lower, "success") && strings.Contains(lower, "true") {
			outcome = models.OutcomeSuccess
		}
		return &models.CallResult{
			Outcome: outcome,
			Summary: "Call completed, analysis parsing failed.",
		}
	}

	result := &models.CallResult{
		Outcome: models.OutcomeFailed,
		Summary: parsed.Summary,
	}
	if parsed.Success != nil && *parsed.Success {
		result.Outcome = models.OutcomeSuccess
	}
	if parsed.Success == nil {
		result.Outcome = models.OutcomeUndetermined
	}
	if result.Summary == "" {
		result.Summary = "Call completed"
	}
	if len(parsed.ExtractedFacts) > 0 {
		result.Details = map[string]string{}
		for key, value := range parsed.ExtractedFacts {
			result.Details[key] = fmt.Sprintf("%v", value)
		}
	}
	return result
}
