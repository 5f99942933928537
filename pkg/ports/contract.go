package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Create a session half way through the interview
		session := domain.NewSession(sessionID, now)
		session.State = domain.StateCollectingInfo
		session.Credential = "sk-contract"
		require.NoError(t, session.Details.Set(0, "Paris"))
		session.QuestionIndex = 1
		session.Append(domain.RoleUser, "Paris")
		session.Candidates = []domain.Destination{{Name: "Rome", Reason: "food"}}

		// 2. Save
		err := store.Save(ctx, sessionID, session)
		require.NoError(t, err, "Save should not return error")

		// 3. Load
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.State, loaded.State)
		assert.Equal(t, "sk-contract", loaded.Credential)
		assert.Equal(t, "Paris", loaded.Details.Location)
		assert.Equal(t, 1, loaded.QuestionIndex)
		assert.Equal(t, session.Messages, loaded.Messages)
		assert.Equal(t, session.Candidates, loaded.Candidates)
		assert.True(t, session.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Append(domain.RoleUser, "mutated")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, again.Messages, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Setup
		err := store.Save(ctx, sessionID, domain.NewSession(sessionID, now))
		require.NoError(t, err)

		// Delete
		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		// Verify gone
		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		// Setup: Create 2 sessions
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession(id1, now))
		_ = store.Save(ctx, id2, domain.NewSession(id2, now))

		// Ensure cleanup
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		// List
		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
