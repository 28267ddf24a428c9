package ai

import "context"

// Generator produces model completions. The concrete implementation is
// Gemini; tests substitute a fake.
type Generator interface {
	// GenerateContent returns a plain-text completion for the prompt.
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// GenerateJSON returns a completion constrained to a JSON response.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, sampleRateHertz int32) (string, error)
}
