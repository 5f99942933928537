/*
Package runner drives a planning session from a terminal or a pipe.

It asks the Engine for the current effects, shows them through an IOHandler,
reads the reply, maps it to an event and sends it back, until the input
stream ends or the user quits. Sessions are saved after every turn, so an
interrupted chat can be resumed with the same session ID.

# Key Components

  - Runner: the chat loop.
  - IOHandler: decouples how effects are shown and replies are read.
  - TextHandler: interactive terminal use, with hidden credential entry.
  - JSONHandler: newline-delimited JSON for scripted hosts.

# Usage

	r := runner.NewRunner(engine,
		runner.WithSessionID("user-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}

Lines starting with a slash are commands: /restart, /export, /help and /quit.
*/
package runner
