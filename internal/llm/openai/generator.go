// Package openai implements the trip generators on the OpenAI chat
// completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/voyage/internal/llm"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/ports"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT3Dot5Turbo

// Generator implements ports.SuggestionGenerator and ports.ItineraryGenerator.
type Generator struct {
	client *openai.Client
	model  string
}

type settings struct {
	model   string
	baseURL string
}

// Option configures a Generator.
type Option func(*settings)

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithBaseURL points the client at a compatible endpoint (proxies, tests).
func WithBaseURL(url string) Option {
	return func(s *settings) {
		s.baseURL = url
	}
}

// New creates a Generator authenticated with the given API key.
func New(apiKey string, opts ...Option) *Generator {
	s := settings{model: DefaultModel}
	for _, opt := range opts {
		opt(&s)
	}

	cfg := openai.DefaultConfig(apiKey)
	if s.baseURL != "" {
		cfg.BaseURL = s.baseURL
	}
	return &Generator{
		client: openai.NewClientWithConfig(cfg),
		model:  s.model,
	}
}

// NewFactory returns a factory building one Generator per credential.
func NewFactory(opts ...Option) ports.GeneratorFactory {
	return ports.GeneratorFactoryFunc(func(credential string) (ports.Generators, error) {
		if strings.TrimSpace(credential) == "" {
			return ports.Generators{}, domain.ErrEmptyCredential
		}
		g := New(credential, opts...)
		return ports.Generators{Suggestions: g, Itinerary: g}, nil
	})
}

// GenerateSuggestions asks the model for three destinations.
func (g *Generator) GenerateSuggestions(ctx context.Context, details domain.TravelDetails) ([]domain.Destination, error) {
	text, err := g.complete(ctx, llm.SuggestionRequest(details))
	if err != nil {
		return nil, err
	}
	return llm.ParseSuggestions(text)
}

// GenerateItinerary asks the model for a day-by-day plan.
func (g *Generator) GenerateItinerary(ctx context.Context, details domain.TravelDetails, destination string) (string, error) {
	return g.complete(ctx, llm.ItineraryRequest(details, destination))
}

func (g *Generator) complete(ctx context.Context, req llm.Request) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %w", domain.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai: no choices in response", domain.ErrGeneration)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: openai: empty response", domain.ErrGeneration)
	}
	return content, nil
}
