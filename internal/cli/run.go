package cli

import (
	"context"
	"io"

	"github.com/aretw0/voyage"
	"github.com/aretw0/voyage/internal/presentation/tui"
	"github.com/aretw0/voyage/pkg/runner"
)

// ChatOptions contains the configuration of the chat command.
type ChatOptions struct {
	SessionID string
	JSON      bool
	NoColor   bool
}

// RunChat runs an interactive conversation on in/out until the user quits.
func RunChat(ctx context.Context, app *App, opts ChatOptions, in io.Reader, out io.Writer) error {
	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		if !opts.NoColor {
			tui.PrintBanner(out, voyage.Version)
		}
		var textOpts []runner.TextHandlerOption
		if !opts.NoColor {
			if r := tui.NewRenderer(); r != nil {
				textOpts = append(textOpts, runner.WithTextHandlerRenderer(r))
			}
		}
		handler = runner.NewTextHandler(in, out, textOpts...)
	}

	r := runner.NewRunner(app.Engine,
		runner.WithInputHandler(handler),
		runner.WithLogger(app.Logger),
		runner.WithSessionID(opts.SessionID),
		runner.WithExportDir(app.Config.ExportDir),
	)

	app.Logger.Debug("Chat starting", "session_id", opts.SessionID, "json", opts.JSON)
	return handleExecutionError(r.Run(ctx))
}
