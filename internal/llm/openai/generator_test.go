package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletions serves /v1/chat/completions with a canned reply and
// records the last request.
func fakeCompletions(t *testing.T, status int, content string, last *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if last != nil {
			_ = json.NewDecoder(r.Body).Decode(last)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateSuggestions(t *testing.T) {
	reply := `[{"name":"Rome","reason":"food","travel_time":"2h","description":"Old."},
	{"name":"Oslo","reason":"fjords","travel_time":"3h","description":"Cold."},
	{"name":"Crete","reason":"sea","travel_time":"4h","description":"Warm."}]`

	var req map[string]any
	srv := fakeCompletions(t, http.StatusOK, reply, &req)
	g := New("sk-test", WithBaseURL(srv.URL+"/v1"))

	got, err := g.GenerateSuggestions(context.Background(), domain.TravelDetails{Location: "Paris"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Oslo", got[1].Name)

	assert.Equal(t, DefaultModel, req["model"])
	assert.EqualValues(t, 800, req["max_tokens"])
	msgs := req["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestGenerateSuggestions_UnparseableIsGenerationError(t *testing.T) {
	srv := fakeCompletions(t, http.StatusOK, "Sorry, I can't do JSON today.", nil)
	g := New("sk-test", WithBaseURL(srv.URL+"/v1"))

	_, err := g.GenerateSuggestions(context.Background(), domain.TravelDetails{})
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestGenerateItinerary(t *testing.T) {
	var req map[string]any
	srv := fakeCompletions(t, http.StatusOK, "Day 1: arrive.", &req)
	g := New("sk-test", WithBaseURL(srv.URL+"/v1"), WithModel("gpt-4o-mini"))

	got, err := g.GenerateItinerary(context.Background(), domain.TravelDetails{}, "Rome")
	require.NoError(t, err)
	assert.Equal(t, "Day 1: arrive.", got)
	assert.Equal(t, "gpt-4o-mini", req["model"])
}

func TestGenerateItinerary_APIError(t *testing.T) {
	srv := fakeCompletions(t, http.StatusUnauthorized, "", nil)
	g := New("sk-test", WithBaseURL(srv.URL+"/v1"))

	_, err := g.GenerateItinerary(context.Background(), domain.TravelDetails{}, "Rome")
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestGenerateItinerary_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	g := New("sk-test", WithBaseURL(srv.URL+"/v1"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.GenerateItinerary(ctx, domain.TravelDetails{}, "Rome")
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestNewFactory(t *testing.T) {
	f := NewFactory()

	_, err := f.ForCredential("  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	gens, err := f.ForCredential("sk-test")
	require.NoError(t, err)
	assert.NotNil(t, gens.Suggestions)
	assert.NotNil(t, gens.Itinerary)
}
