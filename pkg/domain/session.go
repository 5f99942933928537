package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation log.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Destination is a candidate trip target.
type Destination struct {
	Name        string `json:"name"`
	Reason      string `json:"reason"`
	TravelTime  string `json:"travel_time"`
	Description string `json:"description"`
}

// Session is the full snapshot of one planning conversation.
// Everything the controller needs lives here; nothing is process-global.
type Session struct {
	ID    string            `json:"id"`
	State ConversationState `json:"state"`

	// Credential is the opaque key handed to the generators.
	Credential string `json:"credential,omitempty"`

	Details       TravelDetails `json:"details"`
	QuestionIndex int           `json:"question_index"`

	Candidates          []Destination    `json:"candidates,omitempty"`
	SuggestionStatus    SuggestionStatus `json:"suggestion_status"`
	SelectedDestination string           `json:"selected_destination,omitempty"`

	// Messages is append-only until the next restart.
	Messages []Message `json:"messages,omitempty"`

	// Itinerary is the text of the last itinerary call (or its error message).
	Itinerary string `json:"itinerary,omitempty"`

	// History records the states entered, oldest first.
	History []ConversationState `json:"history,omitempty"`

	// Sealed carries the encrypted payload when the session is stored at rest
	// through the encryption middleware. It is empty on live sessions.
	Sealed string `json:"sealed,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session waiting for its credential.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:               id,
		State:            StateAwaitingCredential,
		SuggestionStatus: SuggestionPending,
		History:          []ConversationState{StateAwaitingCredential},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Candidates != nil {
		c.Candidates = append([]Destination(nil), s.Candidates...)
	}
	if s.Messages != nil {
		c.Messages = append([]Message(nil), s.Messages...)
	}
	if s.History != nil {
		c.History = append([]ConversationState(nil), s.History...)
	}
	return &c
}

// Append adds a message to the log.
func (s *Session) Append(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Reset clears everything collected since the credential was accepted.
// The credential itself is kept.
func (s *Session) Reset() {
	s.Details = TravelDetails{}
	s.QuestionIndex = 0
	s.Candidates = nil
	s.SuggestionStatus = SuggestionPending
	s.SelectedDestination = ""
	s.Messages = nil
	s.Itinerary = ""
}
