// Package llm rewrites selected articles into plain language with a text-completion service.
// Failures never block publishing, Batch falls back to the original summary.
package llm

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/domain"
)

//go:generate moq -out mocks/simplifier.go -pkg mocks -skip-ensure -fmt goimports . Simplifier

// Simplifier rewrites an article in simple language
type Simplifier interface {
	Simplify(ctx context.Context, article domain.Article) (string, error)
}

// ErrEmptyResponse is returned when the model produced no usable text
var ErrEmptyResponse = errors.New("empty response from llm")

// default system prompt for article simplification
const defaultSystemPrompt = "You are a helpful assistant that explains complex AI topics in simple, " +
	"accessible language for non-technical readers."

const userPromptTemplate = `You are an expert at explaining complex AI and technology concepts to non-technical readers.

Your task: Rewrite the following AI news article in simple, everyday language that anyone can understand.

Guidelines:
- Use simple words and short sentences
- Avoid technical jargon (or explain it in parentheses if necessary)
- Focus on what this means for everyday people
- Keep it engaging and interesting
- Length: 150-200 words
- Maintain the key facts and importance of the story

Original Article:
Title: %s
Source: %s
Content: %s

Write a simplified version that a non-technical person would easily understand:`

// NewSimplifier makes the simplifier for the configured provider.
// Provider "none" returns nil, callers treat nil as "use summary as is".
func NewSimplifier(ctx context.Context, cfg config.LLMConfig) (Simplifier, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil //nolint:nilnil // no simplification configured
	case "openai", "azure":
		return NewOpenAI(cfg), nil
	case "gemini":
		g, err := NewGemini(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("make gemini simplifier: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// buildPrompt makes the user prompt for the article
func buildPrompt(a domain.Article) string {
	return fmt.Sprintf(userPromptTemplate, a.Title, a.Source, a.Summary)
}

func systemPrompt(cfg config.LLMConfig) string {
	if cfg.SystemPrompt != "" {
		return cfg.SystemPrompt
	}
	return defaultSystemPrompt
}

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips any markup from the model output and trims it
func cleanText(s string) (string, error) {
	res := strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
	if res == "" {
		return "", ErrEmptyResponse
	}
	return res, nil
}
