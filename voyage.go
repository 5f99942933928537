package voyage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/voyage/internal/controller"
	"github.com/aretw0/voyage/internal/logging"
	"github.com/aretw0/voyage/pkg/adapters/memory"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/export"
	"github.com/aretw0/voyage/pkg/ports"
	"github.com/aretw0/voyage/pkg/session"
	"github.com/google/uuid"
)

// Engine is the high-level entry point of the planner.
// It loads a session, advances it through the controller and saves it,
// one turn at a time per session.
type Engine struct {
	controller *controller.Controller
	sessions   *session.Manager
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

var _ ports.Planner = (*Engine)(nil)

type settings struct {
	store   ports.StateStore
	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	timeout time.Duration
	now     func() time.Time
	newID   func() string
}

// Option defines a functional option for configuring the Engine.
type Option func(*settings)

// WithStore sets where sessions are kept. The default is an in-memory store.
func WithStore(store ports.StateStore) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithLocker enables distributed locking across replicas sharing a store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *settings) {
		s.locker = locker
	}
}

// WithLockTTL bounds how long a distributed lock outlives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.lockTTL = ttl
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithGenerationTimeout bounds each generator call. Zero disables the bound,
// which New refuses when a distributed locker is configured.
func WithGenerationTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// WithIDGenerator overrides how IDs are minted for sessions started without one.
func WithIDGenerator(newID func() string) Option {
	return func(s *settings) {
		s.newID = newID
	}
}

// New initializes an Engine that obtains generators from factory.
func New(factory ports.GeneratorFactory, opts ...Option) (*Engine, error) {
	if factory == nil {
		return nil, errors.New("voyage: a generator factory is required")
	}

	cfg := settings{
		logger:  logging.NewNop(),
		timeout: controller.DefaultGenerationTimeout,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.store == nil {
		cfg.store = memory.NewStore()
	}

	managerOpts := []session.Option{
		session.WithLogger(cfg.logger),
		session.WithClock(cfg.now),
	}
	if cfg.locker != nil {
		if cfg.timeout <= 0 {
			return nil, errors.New("voyage: a distributed locker requires a positive generation timeout")
		}
		ttl := cfg.lockTTL
		if ttl <= 0 {
			ttl = session.DefaultLockTTL
		}
		if floor := session.MinLockTTL(cfg.timeout); ttl < floor {
			cfg.logger.Warn("Lock TTL raised to outlive generation calls",
				"lock_ttl", ttl, "generation_timeout", cfg.timeout, "effective", floor)
			ttl = floor
		}
		managerOpts = append(managerOpts, session.WithLocker(cfg.locker), session.WithLockTTL(ttl))
	} else if cfg.lockTTL > 0 {
		managerOpts = append(managerOpts, session.WithLockTTL(cfg.lockTTL))
	}

	return &Engine{
		controller: controller.New(factory,
			controller.WithHooks(cfg.hooks),
			controller.WithLogger(cfg.logger),
			controller.WithGenerationTimeout(cfg.timeout),
			controller.WithClock(cfg.now),
		),
		sessions: session.NewManager(cfg.store, managerOpts...),
		logger:   cfg.logger,
		now:      cfg.now,
		newID:    cfg.newID,
	}, nil
}

// Start creates a session, or resumes it when sessionID already exists.
// An empty sessionID gets a fresh UUID.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.Session, []domain.Effect, error) {
	if sessionID == "" {
		sessionID = e.newID()
	}

	s, created, err := e.sessions.LoadOrStart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if created {
		e.logger.Info("Session started", "session_id", sessionID)
	} else {
		e.logger.Debug("Session resumed", "session_id", sessionID, "state", s.State)
	}
	return s, e.controller.Render(s), nil
}

// Turn is the outcome of one event applied to a stored session.
type Turn struct {
	Previous *domain.Session
	Session  *domain.Session
	Effects  []domain.Effect
}

// Diff reports what the turn changed.
func (t *Turn) Diff() *domain.SessionDiff {
	return domain.Diff(t.Previous, t.Session)
}

// Advance applies event to the stored session under its lock and saves the result.
// A rejected event leaves the stored session untouched.
func (e *Engine) Advance(ctx context.Context, sessionID string, event domain.Event) (*Turn, error) {
	turn := &Turn{}
	next, err := e.sessions.Update(ctx, sessionID, func(current *domain.Session) (*domain.Session, error) {
		next, effects, err := e.controller.Handle(ctx, current, event)
		if err != nil {
			return nil, err
		}
		turn.Previous = current
		turn.Effects = effects
		return next, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			e.logger.Debug("Event rejected", "session_id", sessionID, "event", event.Kind, "err", err)
		}
		return nil, err
	}

	turn.Session = next
	e.logger.Debug("Event applied",
		"session_id", sessionID,
		"event", event.Kind,
		"from", turn.Previous.State,
		"to", next.State,
	)
	return turn, nil
}

// Send applies event to the session and returns the new snapshot.
func (e *Engine) Send(ctx context.Context, sessionID string, event domain.Event) (*domain.Session, []domain.Effect, error) {
	turn, err := e.Advance(ctx, sessionID, event)
	if err != nil {
		return nil, nil, err
	}
	return turn.Session, turn.Effects, nil
}

// View renders a stored session without advancing it.
func (e *Engine) View(ctx context.Context, sessionID string) (*domain.Session, []domain.Effect, error) {
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return s, e.controller.Render(s), nil
}

// Render returns the effects for a session snapshot the caller already holds.
func (e *Engine) Render(s *domain.Session) []domain.Effect {
	return e.controller.Render(s)
}

// Export renders the plain-text travel plan and its suggested file name.
func (e *Engine) Export(ctx context.Context, sessionID string) (string, string, error) {
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return "", "", err
	}
	now := e.now()
	return export.FileName(now), export.Render(s.Details, s.Messages, now), nil
}

// End destroys the session.
func (e *Engine) End(ctx context.Context, sessionID string) error {
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	e.logger.Info("Session ended", "session_id", sessionID)
	return nil
}

// List returns the IDs of stored sessions.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}
