package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession("sess-1", now)

	assert.Equal(t, StateAwaitingCredential, s.State)
	assert.Equal(t, SuggestionPending, s.SuggestionStatus)
	assert.Equal(t, []ConversationState{StateAwaitingCredential}, s.History)
	assert.Equal(t, now, s.CreatedAt)
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := &Session{
		ID:         "sess-1",
		Candidates: []Destination{{Name: "Rome"}},
		Messages:   []Message{{Role: RoleUser, Content: "hi"}},
	}

	c := s.Clone()
	c.Candidates[0].Name = "Oslo"
	c.Append(RoleAssistant, "hello")

	assert.Equal(t, "Rome", s.Candidates[0].Name)
	assert.Len(t, s.Messages, 1)
	assert.Len(t, c.Messages, 2)
}

func TestSession_ResetKeepsCredential(t *testing.T) {
	s := &Session{
		Credential:          "sk-test",
		Details:             TravelDetails{Location: "Paris"},
		QuestionIndex:       5,
		Candidates:          []Destination{{Name: "Rome"}},
		SuggestionStatus:    SuggestionFailed,
		SelectedDestination: "Rome",
		Messages:            []Message{{Role: RoleUser, Content: "Paris"}},
		Itinerary:           "Day 1",
	}

	s.Reset()

	assert.Equal(t, "sk-test", s.Credential)
	assert.Equal(t, TravelDetails{}, s.Details)
	assert.Zero(t, s.QuestionIndex)
	assert.Empty(t, s.Candidates)
	assert.Equal(t, SuggestionPending, s.SuggestionStatus)
	assert.Empty(t, s.SelectedDestination)
	assert.Empty(t, s.Messages)
	assert.Empty(t, s.Itinerary)
}

func TestPendingInput(t *testing.T) {
	effects := []Effect{
		Say("hello"),
		Ask(InputRequest{Type: InputConfirm, Events: []EventKind{EventConfirm}}),
	}

	req := PendingInput(effects)
	if assert.NotNil(t, req) {
		assert.Equal(t, InputConfirm, req.Type)
	}
	assert.Nil(t, PendingInput([]Effect{Say("only text")}))
}
