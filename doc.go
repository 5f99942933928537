/*
Package voyage is a conversational trip-planning controller.

A session walks a fixed state machine: the user submits an LLM credential,
answers five questions about their trip, confirms the summary, picks one of
three suggested destinations and receives a day-by-day itinerary. The Engine
persists every session through a pluggable store and hands back effects
(messages to show, the next input to request) so it can be embedded in any
host: the bundled CLI, the HTTP API or the MCP server.

# Usage

	factory := openai.NewFactory()
	eng, err := voyage.New(factory)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	sess, effects, err := eng.Start(ctx, "")
	if err != nil {
		log.Fatal(err)
	}

	// Show effects, then feed the user's reply back as an event.
	sess, effects, err = eng.Send(ctx, sess.ID, domain.Event{
		Kind:  domain.EventSubmitCredential,
		Value: os.Getenv("OPENAI_API_KEY"),
	})
*/
package voyage
