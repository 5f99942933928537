package domain

import (
	"context"
	"time"
)

// EventKind names an input the controller understands.
type EventKind string

const (
	EventSubmitCredential  EventKind = "submit_credential"
	EventAnswer            EventKind = "answer"
	EventConfirm           EventKind = "confirm"
	EventPickDestination   EventKind = "pick_destination"
	EventChangeDestination EventKind = "change_destination"
	EventRegenerate        EventKind = "regenerate"
	EventRestart           EventKind = "restart"
)

// EventKinds lists every event kind.
var EventKinds = []EventKind{
	EventSubmitCredential,
	EventAnswer,
	EventConfirm,
	EventPickDestination,
	EventChangeDestination,
	EventRegenerate,
	EventRestart,
}

// Event is a single input from the host.
type Event struct {
	Kind EventKind `json:"type"`
	// Value carries the credential, the answer text or the chosen destination.
	Value string `json:"value,omitempty"`
}

// GenerationKind distinguishes the two LLM calls.
type GenerationKind string

const (
	GenerationSuggestions GenerationKind = "suggestions"
	GenerationItinerary   GenerationKind = "itinerary"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// StateEvent represents entry into or exit from a conversation state.
type StateEvent struct {
	EventBase
	State ConversationState `json:"state"`
}

// GenerationEvent reports the outcome of a generator call.
type GenerationEvent struct {
	EventBase
	Kind     GenerationKind `json:"kind"`
	Duration time.Duration  `json:"duration"`
	Err      error          `json:"-"`
	// Fallback is set when the static suggestion list replaced a failed call.
	Fallback bool `json:"fallback,omitempty"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnStateEnter func(context.Context, *StateEvent)
	OnStateLeave func(context.Context, *StateEvent)
	OnGenerate   func(context.Context, *GenerationEvent)
}
