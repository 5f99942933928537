package llm

import (
	"fmt"

	"github.com/aretw0/voyage/pkg/domain"
)

// Request is a provider-neutral completion request.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSON asks providers that support it for a JSON-only response.
	JSON bool
}

const (
	suggestionSystem = "You are a travel planning expert. Provide destination suggestions in JSON format."
	itinerarySystem  = "You are a travel planning expert. Provide detailed itineraries with multiple transportation options and travel times between each location."
)

// SuggestionRequest builds the destination brainstorming request.
func SuggestionRequest(d domain.TravelDetails) Request {
	prompt := fmt.Sprintf(`Based on these travel preferences:
- Starting Location: %s
- Preferred Transport and Travel Time Limit: %s
- Holiday Description (5 words): %s
- Daily Budget: $%s
- Duration: %s days

Please suggest 3 different destinations that match these criteria. For each destination, provide:
1. The destination name
2. Why it matches the five descriptive words
3. Travel time from the starting location
4. Brief description (1-2 sentences)

Format the response as a JSON array with 3 objects, each containing: name, reason, travel_time, description`,
		d.Location, d.TransportAndDuration, d.FiveWords, d.DailyBudget, d.Duration)

	return Request{
		System:      suggestionSystem,
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   800,
		JSON:        true,
	}
}

// ItineraryRequest builds the itinerary request for one destination.
func ItineraryRequest(d domain.TravelDetails, destination string) Request {
	prompt := fmt.Sprintf(`Create a detailed travel itinerary for:
- Destination: %s
- Starting Location: %s
- Preferred Transport: %s
- Holiday Description: %s
- Daily Budget: $%s
- Duration: %s days

Please provide:
1. Day-by-day itinerary with specific activities and attractions
2. For each location/attraction within the destination:
   - Multiple transportation options (e.g., taxi, public transport, walking)
   - Estimated travel times for each option
   - Approximate costs for each transport option
3. Detailed journey from starting location to destination with options
4. Time estimates for each activity
5. Local tips and cultural insights

Format the transportation details clearly, for example:
"From Hotel to Museum:
- Taxi: 15 minutes, $10-15
- Metro: 25 minutes, $2
- Walking: 40 minutes, free"

Do not include hotel recommendations or booking information.`,
		destination, d.Location, d.TransportAndDuration, d.FiveWords, d.DailyBudget, d.Duration)

	return Request{
		System:      itinerarySystem,
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   2000,
	}
}
