package domain

// ConversationState is the phase a session is in.
type ConversationState string

const (
	StateAwaitingCredential   ConversationState = "awaiting_credential"
	StateGreeting             ConversationState = "greeting"
	StateCollectingInfo       ConversationState = "collecting_info"
	StateSummary              ConversationState = "summary"
	StateDestinationSelection ConversationState = "destination_selection"
	StateGeneratingPlan       ConversationState = "generating_plan"
)

// States lists every conversation state in flow order.
var States = []ConversationState{
	StateAwaitingCredential,
	StateGreeting,
	StateCollectingInfo,
	StateSummary,
	StateDestinationSelection,
	StateGeneratingPlan,
}

// Valid reports whether s is a known state.
func (s ConversationState) Valid() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

// SuggestionStatus tracks whether destination candidates were generated.
type SuggestionStatus string

const (
	// SuggestionPending means no generation was attempted since the last reset.
	SuggestionPending SuggestionStatus = "pending"
	// SuggestionDone means the candidates came from the generator.
	SuggestionDone SuggestionStatus = "done"
	// SuggestionFailed means generation failed and the fallback list was used.
	// It is not retried until the session restarts.
	SuggestionFailed SuggestionStatus = "failed"
)
