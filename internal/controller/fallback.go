package controller

import "github.com/aretw0/voyage/pkg/domain"

// FallbackDestinations is the fixed list shown when suggestion generation fails.
func FallbackDestinations() []domain.Destination {
	return []domain.Destination{
		{
			Name:        "Bali, Indonesia",
			Reason:      "Perfect mix of beach, culture, and relaxation",
			TravelTime:  "Flight: 8-12 hours",
			Description: "Tropical paradise with stunning beaches, rich culture, and affordable luxury.",
		},
		{
			Name:        "Lisbon, Portugal",
			Reason:      "Historic charm with coastal beauty",
			TravelTime:  "Flight: 7-10 hours",
			Description: "Charming European city with beautiful architecture, great food, and nearby beaches.",
		},
		{
			Name:        "Costa Rica",
			Reason:      "Nature, adventure, and eco-tourism",
			TravelTime:  "Flight: 6-9 hours",
			Description: "Diverse landscapes offering rainforests, beaches, and abundant wildlife.",
		},
	}
}
