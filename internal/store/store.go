// Package store persists onboarding profiles keyed by user id.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

var ErrNotFound = errors.New("profile not found")

// ProfileStore saves and loads onboarding answers. Implementations never
// persist the model credential.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (models.ProfileInput, error)
	Save(ctx context.Context, userID string, profile models.ProfileInput) error
}

// MemoryStore keeps profiles for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.ProfileInput
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]models.ProfileInput)}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (models.ProfileInput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return models.ProfileInput{}, ErrNotFound
	}
	return p.Redacted(), nil
}

func (m *MemoryStore) Save(_ context.Context, userID string, profile models.ProfileInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = profile.Redacted()
	return nil
}
