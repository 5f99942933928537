package ports

import (
	"context"

	"github.com/aretw0/voyage/pkg/domain"
)

// Planner is the host-facing conversation API.
// This is the interface used by adapters (HTTP, MCP, the CLI runner); sessions
// are loaded, advanced and saved behind it.
type Planner interface {
	// Start creates a session (or resumes an existing one) and renders it.
	// An empty ID asks the planner to generate one.
	Start(ctx context.Context, sessionID string) (*domain.Session, []domain.Effect, error)

	// Send applies an event to a session and returns the new snapshot.
	Send(ctx context.Context, sessionID string, event domain.Event) (*domain.Session, []domain.Effect, error)

	// View renders a stored session without advancing it.
	View(ctx context.Context, sessionID string) (*domain.Session, []domain.Effect, error)

	// Export renders the plain-text travel plan and its suggested file name.
	Export(ctx context.Context, sessionID string) (name string, content string, err error)

	// End destroys the session.
	End(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}
