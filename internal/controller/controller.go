// Package controller implements the trip-planning conversation as an explicit
// state machine: Handle(session, event) returns the next session snapshot and
// the effects the host should perform.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/voyage/internal/logging"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/ports"
	"github.com/samber/lo"
)

// DefaultGenerationTimeout bounds each generator call.
const DefaultGenerationTimeout = 60 * time.Second

// Controller is the conversation state machine.
// It is stateless between calls; everything lives in the Session.
type Controller struct {
	factory ports.GeneratorFactory
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithGenerationTimeout bounds each generator call. Zero disables the bound.
func WithGenerationTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a Controller that obtains generators from factory.
func New(factory ports.GeneratorFactory, opts ...Option) *Controller {
	c := &Controller{
		factory: factory,
		logger:  logging.NewNop(),
		timeout: DefaultGenerationTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle applies ev to s. The input session is never modified.
// A rejected event returns s itself, no effects and an error wrapping
// domain.ErrValidation.
func (c *Controller) Handle(ctx context.Context, s *domain.Session, ev domain.Event) (*domain.Session, []domain.Effect, error) {
	if s == nil {
		return nil, nil, errors.New("controller: nil session")
	}
	if !Accepts(s.State, ev.Kind) {
		return s, nil, fmt.Errorf("%w: %q in state %q", domain.ErrInvalidEvent, ev.Kind, s.State)
	}

	next := s.Clone()
	var err error

	switch ev.Kind {
	case domain.EventSubmitCredential:
		err = c.submitCredential(ctx, next, ev.Value)
	case domain.EventAnswer:
		err = c.answer(ctx, next, ev.Value)
	case domain.EventConfirm:
		c.enter(ctx, next, domain.StateDestinationSelection)
		c.ensureCandidates(ctx, next)
	case domain.EventPickDestination:
		err = c.pick(ctx, next, ev.Value)
	case domain.EventChangeDestination:
		next.SelectedDestination = ""
		next.Itinerary = ""
		c.enter(ctx, next, domain.StateDestinationSelection)
	case domain.EventRegenerate:
		c.plan(ctx, next)
	case domain.EventRestart:
		c.greet(ctx, next)
	}
	if err != nil {
		return s, nil, err
	}

	next.UpdatedAt = c.now()
	return next, c.Render(next), nil
}

func (c *Controller) submitCredential(ctx context.Context, s *domain.Session, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.ErrEmptyCredential
	}
	if _, err := c.factory.ForCredential(credential); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: credential rejected: %v", domain.ErrValidation, err)
	}

	s.Credential = credential
	c.greet(ctx, s)
	return nil
}

// greet resets the interview and moves through greeting to the first question.
func (c *Controller) greet(ctx context.Context, s *domain.Session) {
	c.enter(ctx, s, domain.StateGreeting)
	s.Reset()
	c.enter(ctx, s, domain.StateCollectingInfo)
}

func (c *Controller) answer(ctx context.Context, s *domain.Session, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyAnswer
	}
	if err := s.Details.Set(s.QuestionIndex, text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}

	s.Append(domain.RoleUser, text)
	s.QuestionIndex++

	if s.QuestionIndex < len(domain.Questions) {
		s.Append(domain.RoleAssistant, domain.Questions[s.QuestionIndex].Prompt)
		return nil
	}
	c.enter(ctx, s, domain.StateSummary)
	return nil
}

func (c *Controller) pick(ctx context.Context, s *domain.Session, choice string) error {
	dest, err := choose(s.Candidates, choice)
	if err != nil {
		return err
	}

	s.SelectedDestination = dest.Name
	c.enter(ctx, s, domain.StateGeneratingPlan)
	c.plan(ctx, s)
	return nil
}

// choose resolves a 1-based index or a case-insensitive name.
func choose(candidates []domain.Destination, choice string) (domain.Destination, error) {
	choice = strings.TrimSpace(choice)
	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], nil
		}
		return domain.Destination{}, fmt.Errorf("%w: %d is not between 1 and %d", domain.ErrInvalidChoice, n, len(candidates))
	}

	dest, ok := lo.Find(candidates, func(d domain.Destination) bool {
		return strings.EqualFold(d.Name, choice)
	})
	if !ok {
		return domain.Destination{}, fmt.Errorf("%w: %q", domain.ErrInvalidChoice, choice)
	}
	return dest, nil
}

// ensureCandidates generates destinations once per candidate lifetime.
func (c *Controller) ensureCandidates(ctx context.Context, s *domain.Session) {
	if s.SuggestionStatus != domain.SuggestionPending {
		return
	}

	start := c.now()
	candidates, err := c.suggest(ctx, s)
	event := &domain.GenerationEvent{
		EventBase: c.base(s),
		Kind:      domain.GenerationSuggestions,
		Duration:  c.now().Sub(start),
		Err:       err,
	}

	if err != nil {
		c.logger.Warn("Suggestion generation failed, using fallback destinations",
			"session_id", s.ID,
			"err", err,
		)
		s.Candidates = FallbackDestinations()
		s.SuggestionStatus = domain.SuggestionFailed
		event.Fallback = true
	} else {
		s.Candidates = candidates
		s.SuggestionStatus = domain.SuggestionDone
	}

	if c.hooks.OnGenerate != nil {
		c.hooks.OnGenerate(ctx, event)
	}
}

func (c *Controller) suggest(ctx context.Context, s *domain.Session) ([]domain.Destination, error) {
	gens, err := c.factory.ForCredential(s.Credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	if gens.Suggestions == nil {
		return nil, fmt.Errorf("%w: no suggestion generator", domain.ErrGeneration)
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	candidates, err := gens.Suggestions.GenerateSuggestions(ctx, s.Details)
	if err != nil {
		return nil, wrapGeneration(err)
	}
	if len(candidates) != 3 {
		return nil, fmt.Errorf("%w: expected 3 destinations, got %d", domain.ErrGeneration, len(candidates))
	}
	return candidates, nil
}

// plan runs a fresh itinerary call. Failures become the itinerary text.
func (c *Controller) plan(ctx context.Context, s *domain.Session) {
	start := c.now()
	text, err := c.itinerary(ctx, s)

	if err != nil {
		c.logger.Warn("Itinerary generation failed",
			"session_id", s.ID,
			"destination", s.SelectedDestination,
			"err", err,
		)
		text = fmt.Sprintf("Error generating travel plan: %v", err)
	}

	s.Itinerary = text
	s.Append(domain.RoleAssistant, text)

	if c.hooks.OnGenerate != nil {
		c.hooks.OnGenerate(ctx, &domain.GenerationEvent{
			EventBase: c.base(s),
			Kind:      domain.GenerationItinerary,
			Duration:  c.now().Sub(start),
			Err:       err,
		})
	}
}

func (c *Controller) itinerary(ctx context.Context, s *domain.Session) (string, error) {
	gens, err := c.factory.ForCredential(s.Credential)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	if gens.Itinerary == nil {
		return "", fmt.Errorf("%w: no itinerary generator", domain.ErrGeneration)
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	text, err := gens.Itinerary.GenerateItinerary(ctx, s.Details, s.SelectedDestination)
	if err != nil {
		return "", wrapGeneration(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty itinerary", domain.ErrGeneration)
	}
	return text, nil
}

func (c *Controller) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func wrapGeneration(err error) error {
	if errors.Is(err, domain.ErrGeneration) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrGeneration, err)
}

// enter moves s to state, firing leave/enter hooks and recording history.
func (c *Controller) enter(ctx context.Context, s *domain.Session, state domain.ConversationState) {
	if c.hooks.OnStateLeave != nil {
		c.hooks.OnStateLeave(ctx, &domain.StateEvent{EventBase: c.base(s), State: s.State})
	}

	s.State = state
	s.History = append(s.History, state)

	if c.hooks.OnStateEnter != nil {
		c.hooks.OnStateEnter(ctx, &domain.StateEvent{EventBase: c.base(s), State: state})
	}
}

func (c *Controller) base(s *domain.Session) domain.EventBase {
	return domain.EventBase{Timestamp: c.now(), SessionID: s.ID}
}
