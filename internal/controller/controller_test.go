package controller_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/voyage/internal/controller"
	"github.com/aretw0/voyage/internal/testutils"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ctrl        *controller.Controller
	suggestions *testutils.FakeSuggestions
	itinerary   *testutils.FakeItinerary
}

func newFixture(opts ...controller.Option) *fixture {
	f := &fixture{
		suggestions: &testutils.FakeSuggestions{Result: testutils.Destinations()},
		itinerary:   &testutils.FakeItinerary{Text: "Day 1: arrive and explore."},
	}
	opts = append([]controller.Option{controller.WithClock(func() time.Time { return now })}, opts...)
	f.ctrl = controller.New(testutils.Factory(f.suggestions, f.itinerary), opts...)
	return f
}

func (f *fixture) send(t *testing.T, s *domain.Session, kind domain.EventKind, value string) *domain.Session {
	t.Helper()
	next, effects, err := f.ctrl.Handle(context.Background(), s, domain.Event{Kind: kind, Value: value})
	require.NoError(t, err, "%s(%q) in %s", kind, value, s.State)
	require.NotNil(t, domain.PendingInput(effects), "every accepted event ends with an input request")
	return next
}

// toSummary walks a fresh session through the whole interview.
func (f *fixture) toSummary(t *testing.T) *domain.Session {
	t.Helper()
	s := f.send(t, domain.NewSession("sess-1", now), domain.EventSubmitCredential, "sk-test")
	for _, a := range testutils.Answers {
		s = f.send(t, s, domain.EventAnswer, a)
	}
	return s
}

func (f *fixture) toPlan(t *testing.T) *domain.Session {
	t.Helper()
	s := f.send(t, f.toSummary(t), domain.EventConfirm, "")
	return f.send(t, s, domain.EventPickDestination, "1")
}

func TestCredential(t *testing.T) {
	f := newFixture()
	start := domain.NewSession("sess-1", now)

	t.Run("empty is rejected", func(t *testing.T) {
		for _, cred := range []string{"", "   "} {
			next, effects, err := f.ctrl.Handle(context.Background(), start, domain.Event{Kind: domain.EventSubmitCredential, Value: cred})
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorIs(t, err, domain.ErrEmptyCredential)
			assert.Same(t, start, next)
			assert.Nil(t, effects)
		}
		assert.Equal(t, domain.StateAwaitingCredential, start.State)
	})

	t.Run("accepted moves through greeting to the first question", func(t *testing.T) {
		next, effects, err := f.ctrl.Handle(context.Background(), start, domain.Event{Kind: domain.EventSubmitCredential, Value: "sk-test"})
		require.NoError(t, err)

		assert.Equal(t, domain.StateCollectingInfo, next.State)
		assert.Equal(t, "sk-test", next.Credential)
		assert.Zero(t, next.QuestionIndex)
		assert.Equal(t, []domain.ConversationState{
			domain.StateAwaitingCredential, domain.StateGreeting, domain.StateCollectingInfo,
		}, next.History)

		require.Len(t, effects, 3)
		assert.Equal(t, controller.Welcome, effects[0].Text)
		assert.Equal(t, domain.Questions[0].Prompt, effects[1].Text)
		assert.Equal(t, domain.InputText, effects[2].Input.Type)

		// Input is never mutated.
		assert.Equal(t, domain.StateAwaitingCredential, start.State)
		assert.Empty(t, start.Credential)
	})
}

func TestInterview(t *testing.T) {
	f := newFixture()
	s := f.send(t, domain.NewSession("sess-1", now), domain.EventSubmitCredential, "sk-test")

	for i, a := range testutils.Answers {
		require.Equal(t, domain.StateCollectingInfo, s.State)
		require.Equal(t, i, s.Details.Count())
		s = f.send(t, s, domain.EventAnswer, a)
		assert.LessOrEqual(t, s.QuestionIndex, len(domain.Questions))
	}

	assert.Equal(t, domain.StateSummary, s.State)
	assert.Equal(t, 5, s.QuestionIndex)
	assert.Equal(t, domain.TravelDetails{
		Location:             "Paris",
		TransportAndDuration: "Flight, 6 hours",
		FiveWords:            "beach sun relax warm sea",
		DailyBudget:          "150",
		Duration:             "7",
	}, s.Details)

	// 5 user answers interleaved with the 4 follow-up questions.
	require.Len(t, s.Messages, 9)
	assert.Equal(t, domain.Message{Role: domain.RoleUser, Content: "Paris"}, s.Messages[0])
	assert.Equal(t, domain.Message{Role: domain.RoleAssistant, Content: domain.Questions[1].Prompt}, s.Messages[1])
	assert.Equal(t, domain.Message{Role: domain.RoleUser, Content: "7"}, s.Messages[8])

	effects := f.ctrl.Render(s)
	require.Len(t, effects, 2)
	assert.Contains(t, effects[0].Text, "- **Current Location**: Paris")
	assert.Contains(t, effects[0].Text, "- **Daily Budget**: $150")
	assert.Contains(t, effects[0].Text, "- **Duration**: 7 days")
	assert.Contains(t, effects[0].Text, "Is this correct?")
	assert.Equal(t, domain.InputConfirm, effects[1].Input.Type)
}

func TestInterview_RejectsEmptyAnswer(t *testing.T) {
	f := newFixture()
	s := f.send(t, domain.NewSession("sess-1", now), domain.EventSubmitCredential, "sk-test")

	next, _, err := f.ctrl.Handle(context.Background(), s, domain.Event{Kind: domain.EventAnswer, Value: " \n"})
	assert.ErrorIs(t, err, domain.ErrEmptyAnswer)
	assert.Same(t, s, next)
	assert.Zero(t, s.QuestionIndex)
}

func TestInterview_NoAnswerAfterSummary(t *testing.T) {
	f := newFixture()
	s := f.toSummary(t)

	_, _, err := f.ctrl.Handle(context.Background(), s, domain.Event{Kind: domain.EventAnswer, Value: "extra"})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
	assert.Equal(t, 5, s.Details.Count())
	assert.Equal(t, 5, s.QuestionIndex)
}

func TestConfirm_GeneratesCandidatesOnce(t *testing.T) {
	f := newFixture()
	s := f.send(t, f.toSummary(t), domain.EventConfirm, "")

	assert.Equal(t, domain.StateDestinationSelection, s.State)
	assert.Equal(t, testutils.Destinations(), s.Candidates)
	assert.Equal(t, domain.SuggestionDone, s.SuggestionStatus)
	assert.Equal(t, 1, f.suggestions.Calls())

	effects := f.ctrl.Render(s)
	assert.Contains(t, effects[0].Text, "**2. Oslo, Norway**")
	assert.Equal(t, []string{"Rome, Italy", "Oslo, Norway", "Crete, Greece"}, effects[1].Input.Options)
}

func TestConfirm_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*testutils.FakeSuggestions)
	}{
		{"generator error", func(s *testutils.FakeSuggestions) { s.Err = errors.New("rate limited") }},
		{"wrong count", func(s *testutils.FakeSuggestions) { s.Result = testutils.Destinations()[:2] }},
		{"generation error", func(s *testutils.FakeSuggestions) { s.Err = domain.ErrGeneration }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f.suggestions)

			s := f.send(t, f.toSummary(t), domain.EventConfirm, "")

			assert.Equal(t, domain.StateDestinationSelection, s.State)
			assert.Equal(t, domain.SuggestionFailed, s.SuggestionStatus)
			names := []string{s.Candidates[0].Name, s.Candidates[1].Name, s.Candidates[2].Name}
			assert.Equal(t, []string{"Bali, Indonesia", "Lisbon, Portugal", "Costa Rica"}, names)
		})
	}
}

func TestConfirm_TimeoutFallsBack(t *testing.T) {
	f := newFixture(controller.WithGenerationTimeout(20 * time.Millisecond))
	f.suggestions.Block = true

	s := f.send(t, f.toSummary(t), domain.EventConfirm, "")

	assert.Equal(t, domain.SuggestionFailed, s.SuggestionStatus)
	assert.Equal(t, controller.FallbackDestinations(), s.Candidates)
}

func TestPickDestination(t *testing.T) {
	tests := []struct {
		choice string
		want   string
	}{
		{"1", "Rome, Italy"},
		{" 3 ", "Crete, Greece"},
		{"oslo, norway", "Oslo, Norway"},
	}

	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			f := newFixture()
			s := f.send(t, f.toSummary(t), domain.EventConfirm, "")
			s = f.send(t, s, domain.EventPickDestination, tt.choice)

			assert.Equal(t, domain.StateGeneratingPlan, s.State)
			assert.Equal(t, tt.want, s.SelectedDestination)
			assert.Equal(t, []string{tt.want}, f.itinerary.Destinations())
			assert.Equal(t, "Day 1: arrive and explore.", s.Itinerary)
			assert.Equal(t, domain.Message{Role: domain.RoleAssistant, Content: "Day 1: arrive and explore."}, s.Messages[len(s.Messages)-1])

			effects := f.ctrl.Render(s)
			assert.True(t, strings.HasPrefix(effects[0].Text, "### Your Travel Itinerary for "+tt.want))
			assert.Equal(t, domain.InputAction, effects[1].Input.Type)
		})
	}
}

func TestPickDestination_InvalidChoice(t *testing.T) {
	f := newFixture()
	s := f.send(t, f.toSummary(t), domain.EventConfirm, "")

	for _, choice := range []string{"0", "4", "Atlantis", ""} {
		next, _, err := f.ctrl.Handle(context.Background(), s, domain.Event{Kind: domain.EventPickDestination, Value: choice})
		assert.ErrorIs(t, err, domain.ErrInvalidChoice, choice)
		assert.ErrorIs(t, err, domain.ErrValidation, choice)
		assert.Same(t, s, next)
	}
	assert.Zero(t, f.itinerary.Calls())
}

func TestItineraryFailure(t *testing.T) {
	f := newFixture()
	f.itinerary.Err = errors.New("upstream 500")

	s := f.toPlan(t)

	assert.Equal(t, domain.StateGeneratingPlan, s.State)
	last := s.Messages[len(s.Messages)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.True(t, strings.HasPrefix(last.Content, "Error generating travel plan: "), last.Content)
	assert.Contains(t, last.Content, "upstream 500")
	assert.Equal(t, last.Content, s.Itinerary)

	// The conversation continues: regenerate is still accepted.
	f.itinerary.Err = nil
	s = f.send(t, s, domain.EventRegenerate, "")
	assert.Equal(t, "Day 1: arrive and explore.", s.Itinerary)
}

func TestItineraryEmptyIsFailure(t *testing.T) {
	f := newFixture()
	f.itinerary.Text = "   "

	s := f.toPlan(t)
	assert.True(t, strings.HasPrefix(s.Itinerary, "Error generating travel plan: "))
}

func TestRegenerate_CallsFreshEachTime(t *testing.T) {
	f := newFixture()
	s := f.toPlan(t)
	require.Equal(t, 1, f.itinerary.Calls())

	s = f.send(t, s, domain.EventRegenerate, "")
	s = f.send(t, s, domain.EventRegenerate, "")

	assert.Equal(t, 3, f.itinerary.Calls())
	assert.Equal(t, domain.StateGeneratingPlan, s.State)
	assert.Equal(t, []string{"Rome, Italy", "Rome, Italy", "Rome, Italy"}, f.itinerary.Destinations())
}

func TestChangeDestination_KeepsCandidates(t *testing.T) {
	f := newFixture()
	s := f.toPlan(t)
	candidates := s.Candidates
	details := s.Details

	s = f.send(t, s, domain.EventChangeDestination, "")

	assert.Equal(t, domain.StateDestinationSelection, s.State)
	assert.Empty(t, s.SelectedDestination)
	assert.Equal(t, candidates, s.Candidates)
	assert.Equal(t, details, s.Details)
	assert.Equal(t, 1, f.suggestions.Calls(), "re-entry must not regenerate suggestions")

	s = f.send(t, s, domain.EventPickDestination, "Crete, Greece")
	assert.Equal(t, 2, f.itinerary.Calls())
	assert.Equal(t, "Crete, Greece", s.SelectedDestination)
}

func TestChangeDestination_AfterFallbackDoesNotRetry(t *testing.T) {
	f := newFixture()
	f.suggestions.Err = errors.New("down")
	s := f.toPlan(t)

	f.suggestions.Err = nil
	s = f.send(t, s, domain.EventChangeDestination, "")

	assert.Equal(t, domain.SuggestionFailed, s.SuggestionStatus)
	assert.Equal(t, controller.FallbackDestinations(), s.Candidates)
	assert.Equal(t, 1, f.suggestions.Calls())
}

func TestRestart_FromAnyState(t *testing.T) {
	f := newFixture()

	states := map[string]func(t *testing.T) *domain.Session{
		"collecting_info": func(t *testing.T) *domain.Session {
			s := f.send(t, domain.NewSession("sess-1", now), domain.EventSubmitCredential, "sk-test")
			return f.send(t, s, domain.EventAnswer, "Paris")
		},
		"summary":               f.toSummary,
		"destination_selection": func(t *testing.T) *domain.Session { return f.send(t, f.toSummary(t), domain.EventConfirm, "") },
		"generating_plan":       f.toPlan,
	}

	for name, build := range states {
		t.Run(name, func(t *testing.T) {
			s := build(t)
			require.Equal(t, domain.ConversationState(name), s.State)

			next, effects, err := f.ctrl.Handle(context.Background(), s, domain.Event{Kind: domain.EventRestart})
			require.NoError(t, err)

			assert.Equal(t, domain.StateCollectingInfo, next.State)
			assert.Equal(t, domain.StateGreeting, next.History[len(next.History)-2])
			assert.Empty(t, next.Messages)
			assert.Equal(t, domain.TravelDetails{}, next.Details)
			assert.Zero(t, next.QuestionIndex)
			assert.Empty(t, next.SelectedDestination)
			assert.Empty(t, next.Candidates)
			assert.Equal(t, domain.SuggestionPending, next.SuggestionStatus)
			assert.Equal(t, "sk-test", next.Credential)
			assert.Equal(t, controller.Welcome, effects[0].Text)
		})
	}
}

func TestRestart_RejectedAwaitingCredential(t *testing.T) {
	f := newFixture()
	s := domain.NewSession("sess-1", now)

	next, effects, err := f.ctrl.Handle(context.Background(), s, domain.Event{Kind: domain.EventRestart})
	require.ErrorIs(t, err, domain.ErrInvalidEvent)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Same(t, s, next)
	assert.Nil(t, effects)
	assert.Equal(t, domain.StateAwaitingCredential, s.State)
	assert.Equal(t, []domain.ConversationState{domain.StateAwaitingCredential}, s.History)
	assert.Empty(t, s.Messages)
}

func TestRestart_RegeneratesSuggestions(t *testing.T) {
	f := newFixture()
	s := f.toPlan(t)

	s = f.send(t, s, domain.EventRestart, "")
	for _, a := range testutils.Answers {
		s = f.send(t, s, domain.EventAnswer, a)
	}
	f.send(t, s, domain.EventConfirm, "")

	assert.Equal(t, 2, f.suggestions.Calls())
}

func TestInvalidEvents(t *testing.T) {
	f := newFixture()
	fresh := domain.NewSession("sess-1", now)

	tests := []struct {
		name  string
		s     *domain.Session
		event domain.EventKind
	}{
		{"answer before credential", fresh, domain.EventAnswer},
		{"restart before credential", fresh, domain.EventRestart},
		{"confirm while collecting", f.send(t, fresh, domain.EventSubmitCredential, "sk"), domain.EventConfirm},
		{"pick in summary", f.toSummary(t), domain.EventPickDestination},
		{"regenerate in summary", f.toSummary(t), domain.EventRegenerate},
		{"credential twice", f.toSummary(t), domain.EventSubmitCredential},
		{"unknown kind", fresh, domain.EventKind("dance")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effects, err := f.ctrl.Handle(context.Background(), tt.s, domain.Event{Kind: tt.event, Value: "x"})
			assert.ErrorIs(t, err, domain.ErrInvalidEvent)
			assert.Same(t, tt.s, next)
			assert.Nil(t, effects)
		})
	}
}

func TestHooks(t *testing.T) {
	var entered []domain.ConversationState
	var generations []*domain.GenerationEvent

	f := newFixture(controller.WithHooks(domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) { entered = append(entered, e.State) },
		OnGenerate:   func(_ context.Context, e *domain.GenerationEvent) { generations = append(generations, e) },
	}))
	f.suggestions.Err = errors.New("down")

	f.toPlan(t)

	assert.Equal(t, []domain.ConversationState{
		domain.StateGreeting,
		domain.StateCollectingInfo,
		domain.StateSummary,
		domain.StateDestinationSelection,
		domain.StateGeneratingPlan,
	}, entered)

	require.Len(t, generations, 2)
	assert.Equal(t, domain.GenerationSuggestions, generations[0].Kind)
	assert.True(t, generations[0].Fallback)
	assert.Error(t, generations[0].Err)
	assert.Equal(t, domain.GenerationItinerary, generations[1].Kind)
	assert.NoError(t, generations[1].Err)
	assert.Equal(t, "sess-1", generations[1].SessionID)
}

func TestRender_AwaitingCredential(t *testing.T) {
	f := newFixture()
	effects := f.ctrl.Render(domain.NewSession("sess-1", now))

	require.Len(t, effects, 2)
	assert.Equal(t, domain.InputSecret, effects[1].Input.Type)
	assert.Equal(t, []domain.EventKind{domain.EventSubmitCredential}, effects[1].Input.Events)
}
