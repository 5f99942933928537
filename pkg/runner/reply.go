package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/voyage/internal/controller"
	"github.com/aretw0/voyage/pkg/domain"
)

// ErrUnrecognizedReply is returned when a reply does not fit the input request.
var ErrUnrecognizedReply = errors.New("unrecognized reply")

// actions maps the follow-up labels offered with an itinerary to their events.
var actions = map[string]domain.EventKind{
	strings.ToLower(controller.ActionPlanAnother):     domain.EventRestart,
	strings.ToLower(controller.ActionChooseDifferent): domain.EventChangeDestination,
	strings.ToLower(controller.ActionRegenerate):      domain.EventRegenerate,
}

// EventFor maps a free-form reply to the event req is waiting for.
// A reply that is itself a JSON event object is passed through unchanged.
func EventFor(req domain.InputRequest, reply string) (domain.Event, error) {
	reply = strings.TrimSpace(reply)

	if strings.HasPrefix(reply, "{") {
		var ev domain.Event
		if err := json.Unmarshal([]byte(reply), &ev); err == nil && ev.Kind != "" {
			return ev, nil
		}
	}

	switch req.Type {
	case domain.InputSecret:
		return domain.Event{Kind: domain.EventSubmitCredential, Value: reply}, nil

	case domain.InputText:
		return domain.Event{Kind: domain.EventAnswer, Value: reply}, nil

	case domain.InputConfirm:
		switch strings.ToLower(reply) {
		case "", "y", "yes", "1", strings.ToLower(controller.ConfirmFindDestinations):
			return domain.Event{Kind: domain.EventConfirm}, nil
		case "n", "no":
			return domain.Event{Kind: domain.EventRestart}, nil
		}

	case domain.InputChoice:
		return domain.Event{Kind: domain.EventPickDestination, Value: reply}, nil

	case domain.InputAction:
		label := strings.ToLower(reply)
		if n, err := strconv.Atoi(reply); err == nil && n >= 1 && n <= len(req.Options) {
			label = strings.ToLower(req.Options[n-1])
		}
		if kind, ok := actions[label]; ok {
			return domain.Event{Kind: kind}, nil
		}
	}

	return domain.Event{}, fmt.Errorf("%w: %q", ErrUnrecognizedReply, reply)
}

// command is a slash command typed instead of a reply.
type command string

const (
	cmdRestart command = "/restart"
	cmdExport  command = "/export"
	cmdHelp    command = "/help"
	cmdQuit    command = "/quit"
)

// parseCommand recognizes slash commands and the bare exit words.
func parseCommand(reply string) (command, bool) {
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "/restart":
		return cmdRestart, true
	case "/export":
		return cmdExport, true
	case "/help", "/?":
		return cmdHelp, true
	case "/quit", "/exit", "exit", "quit":
		return cmdQuit, true
	}
	return "", false
}

const helpText = `Commands:
  /restart  start a new plan (your API key is kept)
  /export   save the travel plan to a text file
  /help     show this help
  /quit     leave; the session can be resumed later`
