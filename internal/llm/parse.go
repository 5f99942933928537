package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/schema"
)

// SuggestionCount is the number of destinations a response must carry.
const SuggestionCount = 3

var suggestionSchema = schema.Slice(schema.Object(schema.Schema{
	"name":        schema.Text(),
	"reason":      schema.Text(),
	"travel_time": schema.Text(),
	"description": schema.Text(),
})).Len(SuggestionCount)

// ParseSuggestions extracts exactly three destinations from a model response.
// Markdown fences and prose around the JSON array are tolerated; anything
// structurally wrong inside it is an error wrapping domain.ErrGeneration.
func ParseSuggestions(raw string) ([]domain.Destination, error) {
	body, err := extractArray(raw)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrGeneration, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON array", domain.ErrGeneration)
	}
	if err := suggestionSchema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("%w: unexpected suggestion shape: %v", domain.ErrGeneration, err)
	}

	items := decoded.([]any)
	out := make([]domain.Destination, 0, len(items))
	for _, item := range items {
		obj := item.(map[string]any)
		out = append(out, domain.Destination{
			Name:        strings.TrimSpace(obj["name"].(string)),
			Reason:      strings.TrimSpace(obj["reason"].(string)),
			TravelTime:  strings.TrimSpace(obj["travel_time"].(string)),
			Description: strings.TrimSpace(obj["description"].(string)),
		})
	}
	return out, nil
}

// extractArray returns the outermost JSON array in s.
func extractArray(s string) ([]byte, error) {
	s = cleanJSONString(s)
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON array in response", domain.ErrGeneration)
	}
	return []byte(s[start : end+1]), nil
}

func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
