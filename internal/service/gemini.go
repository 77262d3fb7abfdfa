package service

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ideaSchema is the structured-output schema the generative service is asked
// to conform to. The provider does not enforce it, so responses are still
// validated after parsing.
var ideaSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title": {
			Type:        genai.TypeString,
			Description: "A short, catchy title for the date night idea.",
		},
		"description": {
			Type:        genai.TypeString,
			Description: "A detailed, romantic, and engaging description of the date night plan.",
		},
		"suggested_products": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "A list of 2-3 product names from the provided list that would perfectly enhance this date night.",
		},
	},
	Required: []string{"title", "description", "suggested_products"},
}

// GeminiGenerator issues structured-output generation requests to the Gemini
// API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a new Gemini-backed IdeaGenerator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends one prompt with the fixed response schema and returns the
// response's text body. No retry on failure; every failure is terminal for
// this one request.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   ideaSchema,
			Temperature:      genai.Ptr[float32](0.8),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	return text, nil
}
