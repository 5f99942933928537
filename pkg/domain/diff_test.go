package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	collecting := StateCollectingInfo
	summary := StateSummary
	one := 1
	five := 5

	tests := []struct {
		name     string
		old      *Session
		new      *Session
		wantDiff *SessionDiff
	}{
		{
			name: "No Changes",
			old:  &Session{ID: "sess-1", State: StateCollectingInfo, QuestionIndex: 1, Details: TravelDetails{Location: "Paris"}},
			new:  &Session{ID: "sess-1", State: StateCollectingInfo, QuestionIndex: 1, Details: TravelDetails{Location: "Paris"}},
		},
		{
			name: "Answer Recorded",
			old:  &Session{ID: "sess-1", State: StateCollectingInfo},
			new: &Session{
				ID:            "sess-1",
				State:         StateCollectingInfo,
				QuestionIndex: 1,
				Details:       TravelDetails{Location: "Paris"},
				Messages:      []Message{{Role: RoleUser, Content: "Paris"}},
			},
			wantDiff: &SessionDiff{
				SessionID:     "sess-1",
				QuestionIndex: &one,
				Details:       map[string]string{FieldLocation: "Paris"},
				Messages:      &MessageDelta{Appended: []Message{{Role: RoleUser, Content: "Paris"}}},
			},
		},
		{
			name: "State Change",
			old:  &Session{ID: "sess-1", State: StateCollectingInfo, QuestionIndex: 5},
			new:  &Session{ID: "sess-1", State: StateSummary, QuestionIndex: 5},
			wantDiff: &SessionDiff{
				SessionID: "sess-1",
				State:     &summary,
			},
		},
		{
			name: "Restart Resets Messages",
			old: &Session{
				ID:            "sess-1",
				State:         StateGeneratingPlan,
				QuestionIndex: 5,
				Details:       TravelDetails{Location: "Paris"},
				Messages:      []Message{{Role: RoleUser, Content: "Paris"}},
			},
			new: &Session{ID: "sess-1", State: StateCollectingInfo},
			wantDiff: &SessionDiff{
				SessionID:     "sess-1",
				State:         &collecting,
				QuestionIndex: &[]int{0}[0],
				Details:       map[string]string{FieldLocation: ""},
				Messages:      &MessageDelta{Reset: true},
			},
		},
		{
			name: "Initial Load",
			old:  nil,
			new:  &Session{ID: "sess-1", State: StateSummary, QuestionIndex: 5},
			wantDiff: &SessionDiff{
				SessionID:           "sess-1",
				State:               &summary,
				QuestionIndex:       &five,
				SelectedDestination: &[]string{""}[0],
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			assert.Equal(t, tt.wantDiff, got)
		})
	}
}

func TestDiff_JSON(t *testing.T) {
	old := &Session{ID: "sess-1", State: StateSummary, QuestionIndex: 5}
	new := old.Clone()
	new.State = StateDestinationSelection
	new.Candidates = []Destination{{Name: "Rome"}}

	diff := Diff(old, new)
	require.NotNil(t, diff)

	data, err := json.Marshal(diff)
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.Contains(s, `"state":"destination_selection"`), s)
	assert.True(t, strings.Contains(s, `"name":"Rome"`), s)
	assert.False(t, strings.Contains(s, "question_index"), s)
}

func TestDiff_RestartClearsCandidates(t *testing.T) {
	old := &Session{
		ID:            "s",
		State:         StateDestinationSelection,
		QuestionIndex: 5,
		Candidates:    []Destination{{Name: "Rome"}, {Name: "Oslo"}, {Name: "Crete"}},
	}
	new := &Session{ID: "s", State: StateCollectingInfo}

	diff := Diff(old, new)
	require.NotNil(t, diff)
	assert.True(t, diff.CandidatesReset)
	assert.Nil(t, diff.Candidates)

	data, err := json.Marshal(diff)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"candidates_reset":true`)

	t.Run("Only Candidates Cleared", func(t *testing.T) {
		cleared := old.Clone()
		cleared.Candidates = nil
		diff := Diff(old, cleared)
		require.NotNil(t, diff, "clearing candidates is a change")
		assert.False(t, diff.IsEmpty())
		assert.True(t, diff.CandidatesReset)
	})

	t.Run("Replaced Is Not Reset", func(t *testing.T) {
		replaced := old.Clone()
		replaced.Candidates = []Destination{{Name: "Lima"}}
		diff := Diff(old, replaced)
		require.NotNil(t, diff)
		assert.False(t, diff.CandidatesReset)
		assert.Len(t, diff.Candidates, 1)
	})
}
