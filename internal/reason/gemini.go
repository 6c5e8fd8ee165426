package reason

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// GeminiResponder answers query turns through the Gemini API.
type GeminiResponder struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed responder.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiResponder{client: client, model: model}, nil
}

// Answer asks the model to answer the question using only the supplied
// workspace context.
func (r *GeminiResponder) Answer(ctx context.Context, question, contextFragment, language string) (string, error) {
	prompt := buildPrompt(question, contextFragment, language)

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func buildPrompt(question, contextFragment, language string) string {
	var sb strings.Builder
	sb.WriteString("You are the assistant of a personal productivity workspace.\n")
	sb.WriteString("Answer using only the workspace context below. Be brief.\n")
	if language == "es" {
		sb.WriteString("Respond in Spanish.\n")
	}
	sb.WriteString("\n[Workspace Context]\n")
	if strings.TrimSpace(contextFragment) == "" {
		sb.WriteString("(empty)\n")
	} else {
		sb.WriteString(contextFragment)
		sb.WriteString("\n")
	}
	sb.WriteString("\n[Question]\n")
	sb.WriteString(question)
	return sb.String()
}
