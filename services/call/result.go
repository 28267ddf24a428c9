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

// Transcript lines with no informational content. Hold acknowledgments are
// kept; only pure fillers and silence prompts are dropped.
var fillerTranscriptLines = map[string]struct{}{
	"one moment":                     {},
	"just a sec":                     {},
	"still checking":                 {},
	"almost there":                   {},
	"i'm sorry, i didn't catch that": {},
	"hello? is anyone there":         {},
}

type formattedResponse struct {
	Title               string   `json:"title"`
	Summary             string   `json:"summary"`
	Bullets             []string `json:"bullets"`
	NextSteps           []string `json:"nextSteps"`
	FormattedTranscript *string  `json:"formattedTranscript"`
}

// FormatResult renders a finished call for display in the app: a title,
// summary, bullets, and next steps. Calls with nothing to summarize, or
// when no generator is configured, get a deterministic status-based
// rendering; model failures fall back to the same.
func FormatResult(ctx context.Context, gen ai.Generator, record models.CallRecord) *models.FormattedCallResult {
	var facts map[string]string
	if record.Result != nil {
		facts = record.Result.Details
	}

	transcript := cleanTranscript(record.Transcript)
	if gen == nil || (transcript == "" && record.Result == nil) {
		return deterministicResult(record, facts)
	}

	outcomeSection := "Not available"
	if record.Result != nil {
		if b, err := json.Marshal(record.Result); err == nil {
			outcomeSection = string(b)
		}
	}
	transcriptSection := transcript
	if transcriptSection == "" {
		transcriptSection = "Not available"
	}

	prompt := fmt.Sprintf(resultFormatPrompt,
		businessName(record), record.AgentType, string(record.Status),
		durationText(record), "None", outcomeSection, transcriptSection)

	raw, err := gen.GenerateJSON(ctx, prompt)
	if err != nil {
		utils.GetLogger().Error("result formatting failed",
			zap.String("callID", record.CallID),
			zap.Error(err))
		return deterministicResult(record, facts)
	}
	return parseFormatted(raw, record, facts)
}

// parseFormatted repairs the model's response into a complete result; an
// unusable response falls back to the deterministic rendering.
func parseFormatted(raw string, record models.CallRecord, facts map[string]string) *models.FormattedCallResult {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed formattedResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil || parsed.Title == "" {
		return deterministicResult(record, facts)
	}

	if len(parsed.Bullets) > 8 {
		parsed.Bullets = parsed.Bullets[:8]
	}
	if len(parsed.NextSteps) > 4 {
		parsed.NextSteps = parsed.NextSteps[:4]
	}

	result := &models.FormattedCallResult{
		Title:     parsed.Title,
		Summary:   parsed.Summary,
		Bullets:   parsed.Bullets,
		NextSteps: parsed.NextSteps,
		Facts:     facts,
	}
	if parsed.FormattedTranscript != nil {
		result.FormattedTranscript = *parsed.FormattedTranscript
	}
	return result
}

// cleanTranscript relabels the event transcript for the customer and drops
// filler turns before it is handed to the formatter.
func cleanTranscript(entries []models.TranscriptEntry) string {
	var lines []string
	for _, e := range entries {
		key := strings.ToLower(strings.TrimRight(strings.TrimSpace(e.Text), ".!?, "))
		if _, filler := fillerTranscriptLines[key]; filler {
			continue
		}
		speaker := "Business"
		if e.Role == RoleAgent {
			speaker = "Calleroo"
		}
		lines = append(lines, speaker+": "+e.Text)
	}
	return strings.Join(lines, "\n")
}

func deterministicResult(record models.CallRecord, facts map[string]string) *models.FormattedCallResult {
	business := businessName(record)

	var title, summary, statusBullet string
	switch record.Status {
	case models.CallStatusCompleted:
		title = "Call completed"
		summary = fmt.Sprintf("Call to %s completed successfully.", business)
		statusBullet = "Call completed successfully"
	case models.CallStatusBusy:
		title = "Line was busy"
		summary = fmt.Sprintf("The line at %s was busy.", business)
		statusBullet = "The recipient's line was busy"
	case models.CallStatusNoAnswer:
		title = "No answer"
		summary = fmt.Sprintf("%s did not answer the call.", business)
		statusBullet = "The call was not answered"
	case models.CallStatusFailed:
		title = "Call failed"
		summary = fmt.Sprintf("Call to %s failed to connect.", business)
		statusBullet = "The call could not be connected"
	case models.CallStatusCanceled:
		title = "Call canceled"
		summary = fmt.Sprintf("Call to %s was canceled.", business)
		statusBullet = "The call was canceled before connecting"
	default:
		title = fmt.Sprintf("Call %s", strings.ToLower(string(record.Status)))
		summary = fmt.Sprintf("Call to %s ended with status %s.", business, record.Status)
	}

	var bullets []string
	if d := durationText(record); d != "" {
		bullets = append(bullets, "Duration: "+d)
	}
	if statusBullet != "" {
		bullets = append(bullets, statusBullet)
	}

	var nextSteps []string
	switch record.Status {
	case models.CallStatusFailed, models.CallStatusBusy, models.CallStatusNoAnswer:
		nextSteps = append(nextSteps, "Try calling again later")
	case models.CallStatusCompleted:
		nextSteps = append(nextSteps, "Review the call details")
	}
	nextSteps = append(nextSteps, "Start a new call")

	return &models.FormattedCallResult{
		Title:     title,
		Summary:   summary,
		Bullets:   bullets,
		NextSteps: nextSteps,
		Facts:     facts,
	}
}

func businessName(record models.CallRecord) string {
	if record.CalleeName != "" {
		return record.CalleeName
	}
	return "the business"
}

func durationText(record models.CallRecord) string {
	if record.EndedAt.IsZero() || record.EndedAt.Before(record.StartedAt) {
		return ""
	}
	total := int(record.EndedAt.Sub(record.StartedAt).Seconds())
	if total <= 0 {
		return ""
	}
	if total >= 60 {
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	}
	return fmt.Sprintf("%d seconds", total)
}
