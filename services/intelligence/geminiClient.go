package ai

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"calleroo/config"
)

type GeminiClient struct {
	model     *genai.GenerativeModel
	jsonModel *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) *GeminiClient {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	modelName := config.AppConfig.GeminiModel
	model := client.GenerativeModel(modelName)

	jsonModel := client.GenerativeModel(modelName)
	jsonModel.ResponseMIMEType = "application/json"

	return &GeminiClient{model: model, jsonModel: jsonModel}
}

func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, g.model, prompt)
}

func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, g.jsonModel, prompt)
}

func generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}
