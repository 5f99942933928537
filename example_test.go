package voyage_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/voyage"
	"github.com/aretw0/voyage/internal/testutils"
	"github.com/aretw0/voyage/pkg/domain"
)

// Example walks one session from the credential prompt to the destination
// choice, using scripted generators in place of an LLM.
func Example() {
	factory := testutils.Factory(
		&testutils.FakeSuggestions{Result: testutils.Destinations()},
		&testutils.FakeItinerary{Text: "Day 1: arrive."},
	)
	eng, err := voyage.New(factory, voyage.WithIDGenerator(func() string { return "demo" }))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	s, effects, err := eng.Start(ctx, "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.ID, s.State)
	fmt.Println(effects[0].Text)

	s, _, err = eng.Send(ctx, s.ID, domain.Event{Kind: domain.EventSubmitCredential, Value: "sk-demo"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.State)

	for _, answer := range testutils.Answers {
		if s, _, err = eng.Send(ctx, s.ID, domain.Event{Kind: domain.EventAnswer, Value: answer}); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println(s.State)

	_, effects, err = eng.Send(ctx, s.ID, domain.Event{Kind: domain.EventConfirm})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(domain.PendingInput(effects).Options)

	// Output:
	// demo awaiting_credential
	// ### Please enter your API key to begin
	// collecting_info
	// summary
	// [Rome, Italy Oslo, Norway Crete, Greece]
}
