package domain

// EffectType tells the host what to do with an Effect.
type EffectType string

const (
	// EffectMessage requests the host to display markdown text.
	EffectMessage EffectType = "message"
	// EffectRequestInput requests the host to collect input.
	EffectRequestInput EffectType = "request_input"
)

// InputType defines the kind of input requested.
type InputType string

const (
	InputSecret  InputType = "secret"
	InputText    InputType = "text"
	InputConfirm InputType = "confirm"
	InputChoice  InputType = "choice"
	// InputAction asks the user to pick one of the follow-up events.
	InputAction InputType = "action"
)

// InputRequest describes the constraints and type of input needed.
type InputRequest struct {
	Type    InputType `json:"type"`
	Prompt  string    `json:"prompt,omitempty"`
	Options []string  `json:"options,omitempty"`
	// Events lists the event kinds the current state accepts.
	Events []EventKind `json:"events"`
}

// Effect is a side effect the controller asks the host to perform.
type Effect struct {
	Type  EffectType    `json:"type"`
	Role  Role          `json:"role,omitempty"`
	Text  string        `json:"text,omitempty"`
	Input *InputRequest `json:"input,omitempty"`
}

// Say builds an assistant message effect.
func Say(text string) Effect {
	return Effect{Type: EffectMessage, Role: RoleAssistant, Text: text}
}

// Ask builds an input request effect.
func Ask(req InputRequest) Effect {
	return Effect{Type: EffectRequestInput, Input: &req}
}

// PendingInput returns the input request among effects, if any.
func PendingInput(effects []Effect) *InputRequest {
	for _, e := range effects {
		if e.Type == EffectRequestInput && e.Input != nil {
			return e.Input
		}
	}
	return nil
}
