package http

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatched(t *testing.T) {
	old := &domain.Session{
		ID:            "s",
		State:         domain.StateDestinationSelection,
		QuestionIndex: 5,
		Candidates:    []domain.Destination{{Name: "Rome"}, {Name: "Oslo"}, {Name: "Crete"}},
	}
	cleared := old.Clone()
	cleared.Candidates = nil

	data, err := json.Marshal(domain.Diff(old, cleared))
	require.NoError(t, err)
	msg := string(data)

	assert.True(t, watched(msg, []string{"candidates"}))
	assert.False(t, watched(msg, []string{"state", "messages"}))
	assert.True(t, watched("not json", []string{"state"}))
}
