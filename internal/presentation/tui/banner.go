package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Sea-to-sunset gradient.
	lines := []struct {
		text  string
		color string
	}{
		{`  __   __`, "#22d3ee"},
		{`  \ \ / /__  _   _  __ _  __ _  ___`, "#38bdf8"},
		{`   \ V / _ \| | | |/ _' |/ _' |/ _ \`, "#60a5fa"},
		{`    | | (_) | |_| | (_| | (_| |  __/`, "#fbbf24"},
		{`    |_|\___/ \__, |\__,_|\__, |\___|`, "#fb923c"},
		{`             |___/       |___/`, "#f87171"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  your travel planning assistant  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
