package domain

import (
	"reflect"
)

// SessionDiff represents the changes between two session snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	State         *ConversationState `json:"state,omitempty"`
	QuestionIndex *int               `json:"question_index,omitempty"`

	// Details contains only changed fields. Cleared fields carry "".
	Details map[string]string `json:"details,omitempty"`

	// Candidates is the full list whenever it changed.
	Candidates []Destination `json:"candidates,omitempty"`
	// CandidatesReset is set when a non-empty list was cleared.
	CandidatesReset bool `json:"candidates_reset,omitempty"`

	SelectedDestination *string `json:"selected_destination,omitempty"`

	Messages *MessageDelta `json:"messages,omitempty"`
}

// MessageDelta represents changes to the message log.
// Reset is set when the log was cleared; Appended then holds the whole new log.
type MessageDelta struct {
	Reset    bool      `json:"reset,omitempty"`
	Appended []Message `json:"appended,omitempty"`
}

// Diff calculates the difference between old and new.
// If old is nil, it returns a diff representing the entire new session.
func Diff(old, new *Session) *SessionDiff {
	if new == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: new.ID}

	if old == nil || old.State != new.State {
		diff.State = &new.State
	}
	if old == nil || old.QuestionIndex != new.QuestionIndex {
		diff.QuestionIndex = &new.QuestionIndex
	}
	if old == nil || old.SelectedDestination != new.SelectedDestination {
		diff.SelectedDestination = &new.SelectedDestination
	}
	if old == nil || !reflect.DeepEqual(old.Candidates, new.Candidates) {
		diff.Candidates = new.Candidates
		diff.CandidatesReset = old != nil && len(old.Candidates) > 0 && len(new.Candidates) == 0
	}

	diff.Details = diffDetails(old, new)
	diff.Messages = diffMessages(old, new)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffDetails(old, new *Session) map[string]string {
	delta := make(map[string]string)
	for _, q := range Questions {
		newVal := new.Details.Get(q.Field)
		if old == nil {
			if newVal != "" {
				delta[q.Field] = newVal
			}
			continue
		}
		if old.Details.Get(q.Field) != newVal {
			delta[q.Field] = newVal
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffMessages assumes append-only behavior between restarts.
func diffMessages(old, new *Session) *MessageDelta {
	if old == nil {
		if len(new.Messages) == 0 {
			return nil
		}
		return &MessageDelta{Appended: new.Messages}
	}

	oldLen, newLen := len(old.Messages), len(new.Messages)
	switch {
	case newLen < oldLen:
		return &MessageDelta{Reset: true, Appended: new.Messages}
	case newLen > oldLen:
		return &MessageDelta{Appended: new.Messages[oldLen:]}
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.State == nil &&
		d.QuestionIndex == nil &&
		d.SelectedDestination == nil &&
		d.Candidates == nil &&
		!d.CandidatesReset &&
		len(d.Details) == 0 &&
		d.Messages == nil
}
