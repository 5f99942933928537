package controller

import (
	"fmt"
	"strings"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/samber/lo"
)

// Labels of the follow-up actions offered with an itinerary.
const (
	ActionPlanAnother       = "Plan Another Trip"
	ActionChooseDifferent   = "Choose Different Destination"
	ActionRegenerate        = "Regenerate Itinerary"
	ConfirmFindDestinations = "YES - Find Destinations"
)

// Welcome greets the user once the credential is accepted.
const Welcome = "### Hi! I am keen to help you plan your travel."

// Render returns what the host should show for the session's current state,
// followed by the input request for the next event.
func (c *Controller) Render(s *domain.Session) []domain.Effect {
	if s == nil {
		return nil
	}

	var effects []domain.Effect
	ask := domain.InputRequest{Events: Accepted(s.State)}

	switch s.State {
	case domain.StateAwaitingCredential:
		effects = append(effects, domain.Say("### Please enter your API key to begin"))
		ask.Type = domain.InputSecret
		ask.Prompt = "API Key"

	case domain.StateGreeting, domain.StateCollectingInfo:
		if s.QuestionIndex == 0 {
			effects = append(effects, domain.Say(Welcome))
		}
		if s.QuestionIndex < len(domain.Questions) {
			effects = append(effects, domain.Say(domain.Questions[s.QuestionIndex].Prompt))
		}
		ask.Type = domain.InputText
		ask.Prompt = "Your answer..."
		ask.Events = Accepted(domain.StateCollectingInfo)

	case domain.StateSummary:
		effects = append(effects, domain.Say(Summary(s.Details)))
		ask.Type = domain.InputConfirm
		ask.Options = []string{ConfirmFindDestinations}

	case domain.StateDestinationSelection:
		effects = append(effects, domain.Say(Listing(s.Candidates)))
		ask.Type = domain.InputChoice
		ask.Prompt = "Please select your preferred destination:"
		ask.Options = lo.Map(s.Candidates, func(d domain.Destination, _ int) string { return d.Name })

	case domain.StateGeneratingPlan:
		effects = append(effects, domain.Say(fmt.Sprintf("### Your Travel Itinerary for %s\n\n%s", s.SelectedDestination, s.Itinerary)))
		ask.Type = domain.InputAction
		ask.Options = []string{ActionPlanAnother, ActionChooseDifferent, ActionRegenerate}
	}

	return append(effects, domain.Ask(ask))
}

// Summary renders the recap shown before destinations are generated.
func Summary(d domain.TravelDetails) string {
	var b strings.Builder
	b.WriteString("### Here's a summary of your holiday planning requirements:\n\n")
	fmt.Fprintf(&b, "- **Current Location**: %s\n", d.Location)
	fmt.Fprintf(&b, "- **Transport & Travel Time**: %s\n", d.TransportAndDuration)
	fmt.Fprintf(&b, "- **Holiday Description**: %s\n", d.FiveWords)
	fmt.Fprintf(&b, "- **Daily Budget**: $%s\n", d.DailyBudget)
	fmt.Fprintf(&b, "- **Duration**: %s days\n\n", d.Duration)
	b.WriteString("Is this correct?")
	return b.String()
}

// Listing renders the numbered destination candidates.
func Listing(candidates []domain.Destination) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Based on your preferences, here are %d destination suggestions:\n\n", len(candidates))
	for i, d := range candidates {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, d.Name)
		fmt.Fprintf(&b, "- *Why it matches:* %s\n", d.Reason)
		fmt.Fprintf(&b, "- *Travel time:* %s\n", d.TravelTime)
		fmt.Fprintf(&b, "- *Description:* %s\n\n---\n\n", d.Description)
	}
	b.WriteString("Please select your preferred destination:")
	return b.String()
}
