// Package testutils holds fakes and fixtures shared by package tests.
package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/ports"
)

// Answers is a complete interview, one answer per question.
var Answers = []string{"Paris", "Flight, 6 hours", "beach sun relax warm sea", "150", "7"}

// Destinations returns three distinct generated candidates.
func Destinations() []domain.Destination {
	return []domain.Destination{
		{Name: "Rome, Italy", Reason: "food and history", TravelTime: "Flight: 2 hours", Description: "Ancient city."},
		{Name: "Oslo, Norway", Reason: "fjords", TravelTime: "Flight: 3 hours", Description: "Nordic capital."},
		{Name: "Crete, Greece", Reason: "beaches", TravelTime: "Flight: 4 hours", Description: "Island life."},
	}
}

// FakeSuggestions is a scripted SuggestionGenerator.
type FakeSuggestions struct {
	mu     sync.Mutex
	calls  int
	Result []domain.Destination
	Err    error
	// Block makes calls wait for the context to end.
	Block bool
}

func (f *FakeSuggestions) GenerateSuggestions(ctx context.Context, _ domain.TravelDetails) ([]domain.Destination, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]domain.Destination(nil), f.Result...), nil
}

// Calls returns how many times the generator was invoked.
func (f *FakeSuggestions) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FakeItinerary is a scripted ItineraryGenerator.
type FakeItinerary struct {
	mu           sync.Mutex
	calls        int
	destinations []string
	Text         string
	Err          error
	Block        bool
}

func (f *FakeItinerary) GenerateItinerary(ctx context.Context, _ domain.TravelDetails, destination string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.destinations = append(f.destinations, destination)
	f.mu.Unlock()

	if f.Block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

// Calls returns how many times the generator was invoked.
func (f *FakeItinerary) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Destinations returns the destinations requested so far.
func (f *FakeItinerary) Destinations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.destinations...)
}

// Factory returns a GeneratorFactory handing out the given fakes for any
// non-empty credential.
func Factory(s ports.SuggestionGenerator, i ports.ItineraryGenerator) ports.GeneratorFactory {
	return ports.GeneratorFactoryFunc(func(credential string) (ports.Generators, error) {
		if credential == "" {
			return ports.Generators{}, domain.ErrEmptyCredential
		}
		return ports.Generators{Suggestions: s, Itinerary: i}, nil
	})
}
