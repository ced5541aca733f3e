package store

import (
	"context"
	"sort"
	"sync"

	"innoport/internal/startup/models"
	id "innoport/pkg/domain"
)

// InMemoryStore keeps startups in a map for tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	startups map[id.StartupID]models.Startup
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{startups: make(map[id.StartupID]models.Startup)}
}

func (s *InMemoryStore) Save(_ context.Context, startup models.Startup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startups[startup.ID] = startup
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, startupID id.StartupID) (models.Startup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if startup, ok := s.startups[startupID]; ok {
		return startup, nil
	}
	return models.Startup{}, ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]models.Startup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.Startup, 0, len(s.startups))
	for _, startup := range s.startups {
		if filter.Verified != nil && startup.IsVerified != *filter.Verified {
			continue
		}
		if filter.Mine && startup.CreatedBy != filter.Caller {
			continue
		}
		results = append(results, startup)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.startups), nil
}
