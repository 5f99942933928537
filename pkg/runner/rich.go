package runner

import (
	"time"

	"github.com/aretw0/voyage/pkg/domain"
)

// SessionView is the client-facing projection of a session.
// The credential is never included; HasCredential reports whether one is set.
type SessionView struct {
	ID                  string                     `json:"id"`
	State               domain.ConversationState   `json:"state"`
	HasCredential       bool                       `json:"has_credential"`
	Details             domain.TravelDetails       `json:"details"`
	QuestionIndex       int                        `json:"question_index"`
	Candidates          []domain.Destination       `json:"candidates,omitempty"`
	SuggestionStatus    domain.SuggestionStatus    `json:"suggestion_status"`
	SelectedDestination string                     `json:"selected_destination,omitempty"`
	Itinerary           string                     `json:"itinerary,omitempty"`
	Messages            []domain.Message           `json:"messages,omitempty"`
	History             []domain.ConversationState `json:"history,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

// ViewOf projects s for clients.
func ViewOf(s *domain.Session) *SessionView {
	if s == nil {
		return nil
	}
	return &SessionView{
		ID:                  s.ID,
		State:               s.State,
		HasCredential:       s.Credential != "",
		Details:             s.Details,
		QuestionIndex:       s.QuestionIndex,
		Candidates:          s.Candidates,
		SuggestionStatus:    s.SuggestionStatus,
		SelectedDestination: s.SelectedDestination,
		Itinerary:           s.Itinerary,
		Messages:            s.Messages,
		History:             s.History,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// RichResponse combines the session, the effects to perform and what changed,
// for rich clients (Web, MCP).
type RichResponse struct {
	Session *SessionView         `json:"session"`
	Effects []domain.Effect      `json:"effects,omitempty"`
	Input   *domain.InputRequest `json:"input,omitempty"`
	Diff    *domain.SessionDiff  `json:"diff,omitempty"`
}

// NewRichResponse builds the response for a session snapshot.
// diff may be nil.
func NewRichResponse(s *domain.Session, effects []domain.Effect, diff *domain.SessionDiff) *RichResponse {
	return &RichResponse{
		Session: ViewOf(s),
		Effects: effects,
		Input:   domain.PendingInput(effects),
		Diff:    diff,
	}
}
