package conform

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// GenAIInvoker implements Invoker over the Google GenAI API (Gemini).
type GenAIInvoker struct {
	client *genai.Client
	log    *slog.Logger
}

// NewGenAIInvoker wraps an existing genai client. A nil logger falls back to
// slog.Default().
func NewGenAIInvoker(client *genai.Client, log *slog.Logger) *GenAIInvoker {
	if log == nil {
		log = slog.Default()
	}
	return &GenAIInvoker{client: client, log: log}
}

func (g *GenAIInvoker) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	temp := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
	}

	// Gemini has no system role in contents; the system message becomes the
	// request's system instruction.
	var contents []*genai.Content
	for _, m := range req.Messages {
		part := genai.NewPartFromText(m.Content)
		if m.Role == RoleSystem {
			config.SystemInstruction = genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser)
			continue
		}
		contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("no user content provided")
	}

	g.log.Debug("Generating content", "model", req.Model, "content_count", len(contents))

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoChoices
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no parts in candidate content")
	}
	part := candidate.Content.Parts[0]
	if part.Text == "" {
		return "", fmt.Errorf("no text in first part of response")
	}

	g.log.Debug("Received response", "response_length", len(part.Text))
	return part.Text, nil
}
