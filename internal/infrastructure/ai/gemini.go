// Package ai implements the generative-AI client contract against the
// Gemini API.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

var ErrMissingAPIKey = errors.New("gemini api key not configured")

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient dials the Gemini API. The model falls back to a sensible
// default when empty.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// GenerateContent sends one prompt with a system instruction and returns
// the free-text reply. No conversation memory is kept across calls.
func (c *GeminiClient) GenerateContent(ctx context.Context, systemInstruction, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
