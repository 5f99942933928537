package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/voyage"
	"github.com/aretw0/voyage/internal/config"
	"github.com/aretw0/voyage/internal/llm/gemini"
	"github.com/aretw0/voyage/internal/llm/openai"
	"github.com/aretw0/voyage/internal/logging"
	"github.com/aretw0/voyage/pkg/adapters/file"
	"github.com/aretw0/voyage/pkg/adapters/memory"
	"github.com/aretw0/voyage/pkg/adapters/redis"
	"github.com/aretw0/voyage/pkg/observability"
	"github.com/aretw0/voyage/pkg/persistence/middleware"
	"github.com/aretw0/voyage/pkg/ports"
)

// App is the wired application shared by every command.
type App struct {
	Config  *config.Config
	Engine  *voyage.Engine
	Store   ports.StateStore
	Metrics *observability.Metrics
	Logger  *slog.Logger

	closers []func() error
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

type appSettings struct {
	debug     bool
	logOutput io.Writer
	factory   ports.GeneratorFactory
}

// AppOption configures NewApp.
type AppOption func(*appSettings)

// WithDebug forces debug logging and state hooks.
func WithDebug(debug bool) AppOption {
	return func(s *appSettings) {
		s.debug = debug
	}
}

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) AppOption {
	return func(s *appSettings) {
		s.logOutput = w
	}
}

// WithGeneratorFactory replaces the provider selected by the configuration.
func WithGeneratorFactory(factory ports.GeneratorFactory) AppOption {
	return func(s *appSettings) {
		s.factory = factory
	}
}

// NewApp builds the engine and its dependencies from cfg.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	s := appSettings{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}

	logger := NewLogger(cfg, s.debug, s.logOutput)

	factory := s.factory
	if factory == nil {
		var err error
		if factory, err = NewGeneratorFactory(cfg); err != nil {
			return nil, err
		}
	}

	app := &App{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}

	store, locker, closer, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	app.Store = store

	engineOpts := []voyage.Option{
		voyage.WithStore(store),
		voyage.WithLogger(logger),
		voyage.WithGenerationTimeout(cfg.GenerationTimeout),
		voyage.WithLifecycleHooks(observability.CombineHooks(
			app.Metrics.Hooks(),
			observability.LoggingHooks(logger),
		)),
	}
	if locker != nil {
		engineOpts = append(engineOpts, voyage.WithLocker(locker), voyage.WithLockTTL(cfg.Store.LockTTL))
	}

	engine, err := voyage.New(factory, engineOpts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	app.Engine = engine
	return app, nil
}

// NewLogger configures the application logger.
// It writes to w (stderr by default) to stay out of the chat UI and MCP stdio.
func NewLogger(cfg *config.Config, debug bool, w io.Writer) *slog.Logger {
	level := logging.ParseLevel(cfg.LogLevel)
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level, logging.WithWriter(w), logging.WithJSON(cfg.LogJSON))
}

// NewGeneratorFactory selects the LLM provider.
func NewGeneratorFactory(cfg *config.Config) (ports.GeneratorFactory, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		var opts []openai.Option
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.NewFactory(opts...), nil
	case config.ProviderGemini:
		var opts []gemini.Option
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		return gemini.NewFactory(opts...), nil
	}
	return nil, fmt.Errorf("%w: provider %q", config.ErrInvalid, cfg.Provider)
}

// NewStore builds the configured session store, wrapped with encryption when
// a key is set. The locker is nil unless the store is shared (redis).
func NewStore(cfg *config.Config) (ports.StateStore, ports.DistributedLocker, func() error, error) {
	var (
		store  ports.StateStore
		locker ports.DistributedLocker
		closer func() error
	)

	switch cfg.Store.Kind {
	case config.StoreMemory:
		store = memory.NewStore(memory.WithTTL(cfg.Store.TTL))
	case config.StoreFile:
		store = file.New(cfg.Store.Dir)
	case config.StoreRedis:
		r := redis.New(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB,
			redis.WithTTL(cfg.Store.TTL),
			redis.WithPrefix(cfg.Store.Redis.Prefix),
		)
		store = r
		locker = redis.NewLocker(r.Client(), cfg.Store.Redis.Prefix)
		closer = r.Close
	default:
		return nil, nil, nil, fmt.Errorf("%w: store kind %q", config.ErrInvalid, cfg.Store.Kind)
	}

	if cfg.Store.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.Store.EncryptionKey)
		if err != nil {
			if closer != nil {
				_ = closer()
			}
			return nil, nil, nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
		}
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	return store, locker, closer, nil
}
