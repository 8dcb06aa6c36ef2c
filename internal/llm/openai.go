// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator implements Generator using OpenAI chat completions.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    Config
}

// NewOpenAIGenerator creates a new OpenAI-backed generator.
func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
	}
}

// GenerateTests implements Generator.
func (g *OpenAIGenerator) GenerateTests(ctx context.Context, appSource string) (string, error) {
	return g.complete(ctx, testPrompt(appSource), g.cfg.TestMaxTokens)
}

// GenerateDocs implements Generator.
func (g *OpenAIGenerator) GenerateDocs(ctx context.Context, appSource string) (string, error) {
	return g.complete(ctx, docPrompt(appSource), g.cfg.DocMaxTokens)
}

// complete issues a single chat completion and returns the first choice's
// text verbatim.
func (g *OpenAIGenerator) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       g.cfg.Model,
			Temperature: float32(g.cfg.Temperature),
			MaxTokens:   maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)

	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
