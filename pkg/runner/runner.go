package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/voyage/internal/logging"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/ports"
)

// Runner handles the chat loop of one session using the provided IO.
type Runner struct {
	engine ports.Planner

	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// SessionID selects the session to create or resume.
	// Empty starts a new session with a generated ID.
	SessionID string

	// ExportDir is where /export writes travel plans.
	ExportDir string
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithSessionID sets the session to create or resume.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithExportDir sets where exported plans are written.
func WithExportDir(dir string) Option {
	return func(r *Runner) {
		r.ExportDir = dir
	}
}

// NewRunner creates a Runner for engine.
func NewRunner(engine ports.Planner, opts ...Option) *Runner {
	r := &Runner{
		engine:    engine,
		Logger:    logging.NewNop(),
		ExportDir: ".",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run starts or resumes the session and loops until the input ends,
// the user quits or ctx is canceled. An interrupt ends the loop cleanly;
// the session stays stored and can be resumed.
func (r *Runner) Run(ctx context.Context) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	s, effects, err := r.engine.Start(signals.Context(), r.SessionID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	r.SessionID = s.ID
	r.Logger.Debug("Runner started", "session_id", s.ID, "state", s.State)

	for {
		ctx := signals.Context()

		if _, err := r.Handler.Output(ctx, effects); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		req := domain.PendingInput(effects)
		if req == nil {
			return nil
		}

		next, err := r.turn(ctx, *req)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, errQuit) {
				return r.goodbye(ctx)
			}
			signals.CheckRace()
			if signals.Context().Err() != nil {
				r.Logger.Debug("Runner interrupted", "session_id", r.SessionID)
				return r.goodbye(context.Background())
			}
			return err
		}
		effects = next
	}
}

var errQuit = errors.New("quit")

// turn reads replies until one produces a new set of effects.
func (r *Runner) turn(ctx context.Context, req domain.InputRequest) ([]domain.Effect, error) {
	for {
		reply, err := r.Handler.Input(ctx, req)
		if err != nil {
			return nil, err
		}

		if cmd, ok := parseCommand(reply); ok {
			effects, err := r.command(ctx, cmd)
			if err != nil || effects != nil {
				return effects, err
			}
			continue
		}

		ev, err := EventFor(req, reply)
		if err != nil {
			r.system(ctx, fmt.Sprintf("Sorry, I did not understand %q. Type /help for commands.", reply))
			continue
		}

		switch ev.Kind {
		case domain.EventConfirm:
			r.system(ctx, "Finding perfect destinations for you...")
		case domain.EventPickDestination, domain.EventRegenerate:
			r.system(ctx, "Creating your personalized itinerary...")
		}

		_, effects, err := r.engine.Send(ctx, r.SessionID, ev)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				r.system(ctx, err.Error())
				continue
			}
			return nil, fmt.Errorf("failed to apply %s: %w", ev.Kind, err)
		}
		return effects, nil
	}
}

// command runs a slash command. It returns new effects when the conversation moved.
func (r *Runner) command(ctx context.Context, cmd command) ([]domain.Effect, error) {
	switch cmd {
	case cmdQuit:
		return nil, errQuit

	case cmdHelp:
		r.system(ctx, helpText)

	case cmdRestart:
		_, effects, err := r.engine.Send(ctx, r.SessionID, domain.Event{Kind: domain.EventRestart})
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				r.system(ctx, "Nothing to restart yet: please enter your API key first.")
				return nil, nil
			}
			return nil, err
		}
		return effects, nil

	case cmdExport:
		path, err := r.export(ctx)
		if err != nil {
			r.system(ctx, fmt.Sprintf("Export failed: %v", err))
			return nil, nil
		}
		r.system(ctx, "Travel plan saved to "+path)
	}
	return nil, nil
}

func (r *Runner) export(ctx context.Context) (string, error) {
	name, content, err := r.engine.Export(ctx, r.SessionID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.ExportDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(r.ExportDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	r.Logger.Info("Travel plan exported", "session_id", r.SessionID, "path", path)
	return path, nil
}

func (r *Runner) goodbye(ctx context.Context) error {
	r.system(ctx, fmt.Sprintf("Goodbye! Resume this trip with --session %s", r.SessionID))
	return nil
}

func (r *Runner) system(ctx context.Context, msg string) {
	if err := r.Handler.SystemOutput(ctx, msg); err != nil {
		r.Logger.Debug("System output failed", "err", err)
	}
}
