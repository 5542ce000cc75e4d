package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/terraquiz/terraquiz/internal/model"
)

// MemoryStore is a mutex-guarded in-process Store. It backs single-node dev
// deployments without Redis and all of the package tests. State is copied
// through JSON on both paths so callers never share memory with the store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.SessionState, error) {
	s.mu.Lock()
	raw, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}

	var state model.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, state *model.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[id] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
