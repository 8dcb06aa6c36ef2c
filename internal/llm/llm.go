// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package llm implements the delegated generation variant: instead of
// template expansion over extracted endpoints, the raw application source is
// sent to a hosted language model and whatever text comes back is written
// out without structural validation.
package llm

import (
	"context"
	"fmt"
)

// Generator produces test and documentation text from raw application source.
type Generator interface {
	// GenerateTests returns pytest-style test source for the given
	// application source.
	GenerateTests(ctx context.Context, appSource string) (string, error)

	// GenerateDocs returns Markdown documentation for the given
	// application source.
	GenerateDocs(ctx context.Context, appSource string) (string, error)
}

// Config holds the provider settings for delegated generation.
type Config struct {
	// Provider selects the LLM provider ("openai")
	Provider string

	// APIKey is the provider API key
	APIKey string

	// Model is the model identifier (e.g., "gpt-4")
	Model string

	// Temperature controls sampling randomness
	Temperature float64

	// TestMaxTokens limits the test completion length
	TestMaxTokens int

	// DocMaxTokens limits the documentation completion length
	DocMaxTokens int
}

// NewGenerator creates a Generator for the configured provider.
func NewGenerator(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// testPrompt builds the fixed test-generation prompt around the source.
func testPrompt(appSource string) string {
	return fmt.Sprintf(`Generate detailed pytest-based unit tests for this FastAPI endpoint:

%s

The tests must cover both success and failure cases.`, appSource)
}

// docPrompt builds the fixed documentation prompt around the source.
func docPrompt(appSource string) string {
	return fmt.Sprintf(`Generate clear and concise technical documentation in Markdown for the following FastAPI endpoints:

%s

Include HTTP methods, request parameters, response structures, and sample responses.`, appSource)
}
