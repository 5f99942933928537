package domain

import "fmt"

// Field names of TravelDetails, as used in exports and JSON.
const (
	FieldLocation             = "location"
	FieldTransportAndDuration = "transport_and_duration"
	FieldFiveWords            = "five_words"
	FieldDailyBudget          = "daily_budget"
	FieldDuration             = "duration"
)

// Question is one row of the fixed interview.
type Question struct {
	Field  string
	Prompt string
}

// Questions is the interview, in the order it is asked.
// Answer i is stored in the field of Questions[i].
var Questions = []Question{
	{Field: FieldLocation, Prompt: "Where are you currently located? (This will help me plan your journey from home)"},
	{Field: FieldTransportAndDuration, Prompt: "What is your preferred mode of transport and how long are you willing to travel from your home to your first destination? (e.g., 'Flight, up to 8 hours' or 'Train, maximum 4 hours')"},
	{Field: FieldFiveWords, Prompt: "Please give me five words that describe your ideal holiday and destination."},
	{Field: FieldDailyBudget, Prompt: "What is your daily budget in USD?"},
	{Field: FieldDuration, Prompt: "How many days would you like your holiday to be?"},
}

// TravelDetails holds the answers collected during the interview.
type TravelDetails struct {
	Location             string `json:"location,omitempty"`
	TransportAndDuration string `json:"transport_and_duration,omitempty"`
	FiveWords            string `json:"five_words,omitempty"`
	DailyBudget          string `json:"daily_budget,omitempty"`
	Duration             string `json:"duration,omitempty"`
}

// Field is a populated key/value pair of TravelDetails.
type Field struct {
	Key   string
	Value string
}

// Set stores the answer to the question at index.
func (d *TravelDetails) Set(index int, answer string) error {
	if index < 0 || index >= len(Questions) {
		return fmt.Errorf("question index %d out of range [0,%d)", index, len(Questions))
	}
	*d.slot(Questions[index].Field) = answer
	return nil
}

// Get returns the value stored for a field name.
func (d TravelDetails) Get(field string) string {
	if p := d.slot(field); p != nil {
		return *p
	}
	return ""
}

// Count returns how many fields hold an answer.
func (d TravelDetails) Count() int {
	return len(d.Fields())
}

// Fields returns the populated fields in question order.
func (d TravelDetails) Fields() []Field {
	var out []Field
	for _, q := range Questions {
		if v := d.Get(q.Field); v != "" {
			out = append(out, Field{Key: q.Field, Value: v})
		}
	}
	return out
}

func (d *TravelDetails) slot(field string) *string {
	switch field {
	case FieldLocation:
		return &d.Location
	case FieldTransportAndDuration:
		return &d.TransportAndDuration
	case FieldFiveWords:
		return &d.FiveWords
	case FieldDailyBudget:
		return &d.DailyBudget
	case FieldDuration:
		return &d.Duration
	}
	return nil
}
