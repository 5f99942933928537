package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/voyage/pkg/adapters/memory"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_TTL(t *testing.T) {
	store := memory.NewStore(memory.WithTTL(30*time.Millisecond), memory.WithCleanupInterval(time.Hour))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewSession("s1", time.Now())))
	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "s1")
}
