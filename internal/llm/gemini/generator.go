// Package gemini implements the trip generators on Google's Gemini models.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/voyage/internal/llm"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/ports"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when none is configured.
// Flash keeps latency and cost low for both calls.
const DefaultModel = "gemini-2.0-flash"

// Generator implements ports.SuggestionGenerator and ports.ItineraryGenerator.
// A client is opened per call and closed afterwards, so a Generator holds no
// connections between turns.
type Generator struct {
	apiKey     string
	model      string
	clientOpts []option.ClientOption
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithClientOptions appends Google API client options (endpoint, HTTP client).
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(g *Generator) {
		g.clientOpts = append(g.clientOpts, opts...)
	}
}

// New creates a Generator authenticated with the given API key.
func New(apiKey string, opts ...Option) *Generator {
	g := &Generator{apiKey: apiKey, model: DefaultModel}
	for _, opt := range opts {
		opt(g)
	}
	return g
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

// GenerateSuggestions asks the model for three destinations in JSON mode.
func (g *Generator) GenerateSuggestions(ctx context.Context, details domain.TravelDetails) ([]domain.Destination, error) {
	text, err := g.generate(ctx, llm.SuggestionRequest(details))
	if err != nil {
		return nil, err
	}
	return llm.ParseSuggestions(text)
}

// GenerateItinerary asks the model for a day-by-day plan.
func (g *Generator) GenerateItinerary(ctx context.Context, details domain.TravelDetails, destination string) (string, error) {
	return g.generate(ctx, llm.ItineraryRequest(details, destination))
}

func (g *Generator) generate(ctx context.Context, req llm.Request) (string, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.clientOpts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: create client: %w", domain.ErrGeneration, err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	configure(model, req)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", domain.ErrGeneration, err)
	}
	return responseText(resp)
}

func configure(model *genai.GenerativeModel, req llm.Request) {
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	model.SetTemperature(req.Temperature)
	model.SetMaxOutputTokens(int32(req.MaxTokens))
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: gemini: no response candidates", domain.ErrGeneration)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: gemini: empty response", domain.ErrGeneration)
	}
	return text, nil
}
