package gateway

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGoogleModel is used when no model is configured.
const DefaultGoogleModel = "gemini-1.5-pro"

// Google is a Gateway backed by the Gemini API.
type Google struct {
	client *genai.Client
	model  string
}

// NewGoogle creates a Gemini gateway. Close releases the underlying client.
func NewGoogle(ctx context.Context, apiKey, model string) (*Google, error) {
	if model == "" {
		model = DefaultGoogleModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, classifyTransportError("google", err)
	}
	return &Google{client: client, model: model}, nil
}

// Close releases the client.
func (g *Google) Close() error {
	return g.client.Close()
}

// Generate implements Gateway.
func (g *Google) Generate(ctx context.Context, req Request) (Response, error) {
	model := g.client.GenerativeModel(g.model)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(req)))
	if err != nil {
		return Response{}, classifyTransportError("google", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	output := b.String()
	if output == "" {
		return Response{}, &BackendError{Provider: "google", Message: "empty completion"}
	}

	return buildResponse(req, output), nil
}
