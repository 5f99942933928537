package ports

import (
	"context"

	"github.com/aretw0/voyage/pkg/domain"
)

// SuggestionGenerator proposes destinations for the collected preferences.
// Implementations return exactly three candidates or an error wrapping
// domain.ErrGeneration.
type SuggestionGenerator interface {
	GenerateSuggestions(ctx context.Context, details domain.TravelDetails) ([]domain.Destination, error)
}

// ItineraryGenerator writes a free-text itinerary for one destination.
type ItineraryGenerator interface {
	GenerateItinerary(ctx context.Context, details domain.TravelDetails, destination string) (string, error)
}

// Generators bundles both calls for one credential.
type Generators struct {
	Suggestions SuggestionGenerator
	Itinerary   ItineraryGenerator
}

// GeneratorFactory builds generators bound to a session credential.
// It must not perform network calls; the credential is only checked
// for being usable by the provider.
type GeneratorFactory interface {
	ForCredential(credential string) (Generators, error)
}

// GeneratorFactoryFunc adapts a function to GeneratorFactory.
type GeneratorFactoryFunc func(credential string) (Generators, error)

// ForCredential calls f(credential).
func (f GeneratorFactoryFunc) ForCredential(credential string) (Generators, error) {
	return f(credential)
}
