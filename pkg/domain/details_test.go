package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTravelDetails_SetIsPositional(t *testing.T) {
	answers := []string{"Paris", "Flight, 6 hours", "beach sun relax warm sea", "150", "7"}

	var d TravelDetails
	for i, a := range answers {
		require.NoError(t, d.Set(i, a))
		assert.Equal(t, i+1, d.Count())
	}

	assert.Equal(t, TravelDetails{
		Location:             "Paris",
		TransportAndDuration: "Flight, 6 hours",
		FiveWords:            "beach sun relax warm sea",
		DailyBudget:          "150",
		Duration:             "7",
	}, d)
}

func TestTravelDetails_SetOutOfRange(t *testing.T) {
	var d TravelDetails
	assert.Error(t, d.Set(-1, "x"))
	assert.Error(t, d.Set(len(Questions), "x"))
	assert.Equal(t, 0, d.Count())
}

func TestTravelDetails_FieldsInQuestionOrder(t *testing.T) {
	d := TravelDetails{Duration: "7", Location: "Rome"}

	assert.Equal(t, []Field{
		{Key: FieldLocation, Value: "Rome"},
		{Key: FieldDuration, Value: "7"},
	}, d.Fields())
}

func TestQuestions_CoverEveryField(t *testing.T) {
	require.Len(t, Questions, 5)
	var d TravelDetails
	for i, q := range Questions {
		require.NoError(t, d.Set(i, "v"))
		assert.Equal(t, "v", d.Get(q.Field), q.Field)
	}
}
