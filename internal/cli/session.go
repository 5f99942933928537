package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/voyage/internal/controller"
	"github.com/aretw0/voyage/internal/presentation/graph"
	"github.com/aretw0/voyage/pkg/ports"
	"github.com/aretw0/voyage/pkg/runner"
)

// ListSessions prints the stored session IDs.
func ListSessions(ctx context.Context, store ports.StateStore, w io.Writer) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}

	if len(ids) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}

	fmt.Fprintln(w, "Active Sessions:")
	for _, id := range ids {
		fmt.Fprintln(w, "- "+id)
	}
	return nil
}

// InspectSession pretty prints a session. The credential is never shown.
func InspectSession(ctx context.Context, store ports.StateStore, sessionID string, w io.Writer) error {
	s, err := store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}

	data, err := json.MarshalIndent(runner.ViewOf(s), "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling session: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// RemoveSessions deletes every listed session, reporting each outcome.
func RemoveSessions(ctx context.Context, store ports.StateStore, ids []string, w io.Writer) error {
	var errs []error
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	return errors.Join(errs...)
}

// PrintGraph writes the Mermaid diagram of the conversation, highlighting
// the path of sessionID when it is set.
func PrintGraph(ctx context.Context, store ports.StateStore, sessionID string, w io.Writer) error {
	var overlay *graph.GraphOverlay
	if sessionID != "" {
		s, err := store.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}
		overlay = graph.OverlayOf(s)
	}
	fmt.Fprint(w, graph.GenerateMermaid(controller.Transitions(), overlay))
	return nil
}

// Exporter renders a session's travel plan.
type Exporter interface {
	Export(ctx context.Context, sessionID string) (string, string, error)
}

// ExportPlan writes the travel plan of sessionID to dir, or to w when
// toStdout is set. It returns the written path.
func ExportPlan(ctx context.Context, exporter Exporter, sessionID, dir string, toStdout bool, w io.Writer) (string, error) {
	name, content, err := exporter.Export(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("error exporting session '%s': %w", sessionID, err)
	}

	if toStdout {
		_, err := io.WriteString(w, content)
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write travel plan: %w", err)
	}
	printSystemMessage(w, "Travel plan saved to %s", path)
	return path, nil
}
