package store

import (
	"context"
	"sort"
	"sync"

	"innoport/internal/collab/models"
	id "innoport/pkg/domain"
)

// InMemoryStore keeps collaboration requests in a map for tests and local
// development.
type InMemoryStore struct {
	mu      sync.RWMutex
	collabs map[id.CollabID]models.Collaboration
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{collabs: make(map[id.CollabID]models.Collaboration)}
}

func (s *InMemoryStore) Save(_ context.Context, collab models.Collaboration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collabs[collab.ID] = collab
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, collabID id.CollabID) (models.Collaboration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if collab, ok := s.collabs[collabID]; ok {
		return collab, nil
	}
	return models.Collaboration{}, ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]models.Collaboration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.Collaboration
	for _, collab := range s.collabs {
		switch filter.Side {
		case models.SideSent:
			if collab.RequesterID != filter.Caller {
				continue
			}
		case models.SideReceived:
			if collab.ReceiverID != filter.Caller {
				continue
			}
		}
		results = append(results, collab)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collabs), nil
}
