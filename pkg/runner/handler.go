package runner

import (
	"context"

	"github.com/aretw0/voyage/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the effects to the user.
	// Returns true if the effects request input.
	Output(ctx context.Context, effects []domain.Effect) (bool, error)

	// Input reads one reply to req.
	Input(ctx context.Context, req domain.InputRequest) (string, error)

	// SystemOutput presents a meta-message (status, errors, hints),
	// distinct from conversation content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is printed
// (e.g. to ANSI via glamour) without coupling this package to a renderer.
type ContentRenderer func(string) (string, error)
