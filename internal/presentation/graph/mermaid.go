package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/voyage/internal/controller"
	"github.com/aretw0/voyage/pkg/domain"
)

// GraphOverlay contains dynamic session data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.ConversationState
	CurrentState  domain.ConversationState
}

// OverlayOf builds the overlay for a session's history.
func OverlayOf(s *domain.Session) *GraphOverlay {
	if s == nil {
		return nil
	}
	return &GraphOverlay{VisitedStates: s.History, CurrentState: s.State}
}

// GenerateMermaid produces a Mermaid flowchart of the conversation states.
// It applies semantic styling:
// - Entry: ((Circle))
// - Generation (LLM call): [[Subroutine]]
// - Waiting for user input: [/Parallelogram/]
// - Transient: [Rectangle]
// Restart edges are dotted. Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(edges []controller.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, state := range domain.States {
		opener, closer := "[", "]"
		switch state {
		case domain.StateAwaitingCredential:
			opener, closer = "((", "))"
		case domain.StateGeneratingPlan:
			opener, closer = "[[", "]]"
		case domain.StateCollectingInfo, domain.StateSummary, domain.StateDestinationSelection:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(string(state)), opener, state, closer)
	}

	for _, t := range edges {
		from := sanitizeMermaidID(string(t.From))
		to := sanitizeMermaidID(string(t.To))

		label := string(t.Event)
		if t.Note != "" {
			label = strings.TrimSpace(label + " (" + t.Note + ")")
		}
		label = strings.ReplaceAll(label, "\"", "'")

		arrow := "-->"
		switch {
		case t.Event == domain.EventRestart:
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		case label != "":
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, to)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, state := range overlay.VisitedStates {
			if state == overlay.CurrentState {
				continue
			}
			safeID := sanitizeMermaidID(string(state))
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
