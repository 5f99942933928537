package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/ports"
)

// MockStore is a map-backed implementation of StateStore for testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data map[string]*domain.Session
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Session),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = session.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestStateStore_Contract(t *testing.T) {
	// The mock doubles as a sanity check of the contract suite itself.
	ports.RunStateStoreContract(t, NewMockStore())
}
