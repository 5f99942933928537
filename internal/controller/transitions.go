package controller

import (
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/samber/lo"
)

// Transition is one edge of the conversation state machine.
// An empty Event marks an automatic step taken without input.
type Transition struct {
	From  domain.ConversationState
	Event domain.EventKind
	To    domain.ConversationState
	// Note qualifies edges that share a (From, Event) pair.
	Note string
}

var table = []Transition{
	{From: domain.StateAwaitingCredential, Event: domain.EventSubmitCredential, To: domain.StateGreeting},
	{From: domain.StateGreeting, To: domain.StateCollectingInfo},
	{From: domain.StateCollectingInfo, Event: domain.EventAnswer, To: domain.StateCollectingInfo, Note: "more questions"},
	{From: domain.StateCollectingInfo, Event: domain.EventAnswer, To: domain.StateSummary, Note: "last answer"},
	{From: domain.StateSummary, Event: domain.EventConfirm, To: domain.StateDestinationSelection},
	{From: domain.StateDestinationSelection, Event: domain.EventPickDestination, To: domain.StateGeneratingPlan},
	{From: domain.StateGeneratingPlan, Event: domain.EventRegenerate, To: domain.StateGeneratingPlan},
	{From: domain.StateGeneratingPlan, Event: domain.EventChangeDestination, To: domain.StateDestinationSelection},
	{From: domain.StateCollectingInfo, Event: domain.EventRestart, To: domain.StateGreeting},
	{From: domain.StateSummary, Event: domain.EventRestart, To: domain.StateGreeting},
	{From: domain.StateDestinationSelection, Event: domain.EventRestart, To: domain.StateGreeting},
	{From: domain.StateGeneratingPlan, Event: domain.EventRestart, To: domain.StateGreeting},
}

// Transitions returns the state machine edges, for introspection.
func Transitions() []Transition {
	return append([]Transition(nil), table...)
}

// Accepted returns the events a state responds to, in table order.
func Accepted(state domain.ConversationState) []domain.EventKind {
	kinds := lo.FilterMap(table, func(t Transition, _ int) (domain.EventKind, bool) {
		return t.Event, t.From == state && t.Event != ""
	})
	return lo.Uniq(kinds)
}

// Accepts reports whether state responds to kind.
func Accepts(state domain.ConversationState, kind domain.EventKind) bool {
	return lo.Contains(Accepted(state), kind)
}
