package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/voyage"
	"github.com/aretw0/voyage/internal/testutils"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := voyage.New(
		testutils.Factory(
			&testutils.FakeSuggestions{Result: testutils.Destinations()},
			&testutils.FakeItinerary{Text: strings.Repeat("Day 1: tapas and flamenco in the old town. ", 4)},
		),
		voyage.WithClock(func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return NewServer(eng)
}

func TestServer_Conversation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	started, err := s.handleStart(ctx, req, StartArgs{SessionID: "trip"})
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingCredential, started.Session.State)
	require.NotNil(t, started.Input)
	assert.Contains(t, started.Input.Events, domain.EventSubmitCredential)

	send := func(kind domain.EventKind, value string) {
		t.Helper()
		_, err := s.handleSendEvent(ctx, req, EventArgs{SessionID: "trip", Type: string(kind), Value: value})
		require.NoError(t, err)
	}
	send(domain.EventSubmitCredential, "sk-test")
	for _, a := range testutils.Answers {
		send(domain.EventAnswer, a)
	}
	send(domain.EventConfirm, "")

	rich, err := s.handleSendEvent(ctx, req, EventArgs{SessionID: "trip", Type: "pick_destination", Value: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Rome, Italy", rich.Session.SelectedDestination)
	require.NotNil(t, rich.Diff)
	require.NotNil(t, rich.Diff.State)
	assert.Equal(t, domain.StateGeneratingPlan, *rich.Diff.State)

	view, err := s.handleGetSession(ctx, req, SessionArgs{SessionID: "trip"})
	require.NoError(t, err)
	assert.Equal(t, domain.StateGeneratingPlan, view.Session.State)

	exported, err := s.handleExport(ctx, req, SessionArgs{SessionID: "trip"})
	require.NoError(t, err)
	assert.Equal(t, "travel_plan_20240501_100000.txt", exported.FileName)
	assert.Contains(t, exported.Content, "tapas and flamenco")
}

func TestServer_SendEventErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleSendEvent(ctx, mcp.CallToolRequest{}, EventArgs{Type: "confirm"})
	assert.Error(t, err)

	_, err = s.handleStart(ctx, mcp.CallToolRequest{}, StartArgs{SessionID: "trip"})
	require.NoError(t, err)

	_, err = s.handleSendEvent(ctx, mcp.CallToolRequest{}, EventArgs{SessionID: "trip", Type: "confirm"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.handleGetSession(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "missing"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServer_Resources(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleStart(ctx, mcp.CallToolRequest{}, StartArgs{SessionID: "trip"})
	require.NoError(t, err)

	var list mcp.ReadResourceRequest
	list.Params.URI = "voyage://sessions"
	contents, err := s.readSessions(ctx, list)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.JSONEq(t, `["trip"]`, contents[0].(mcp.TextResourceContents).Text)

	var exp mcp.ReadResourceRequest
	exp.Params.URI = "voyage://sessions/trip/export"
	contents, err = s.readExport(ctx, exp)
	require.NoError(t, err)
	assert.Contains(t, contents[0].(mcp.TextResourceContents).Text, "Travel Itinerary Plan")

	exp.Params.URI = "voyage://other"
	_, err = s.readExport(ctx, exp)
	assert.Error(t, err)
}
