package store

import (
	"context"
	"sort"
	"sync"

	"innoport/internal/patent/models"
	id "innoport/pkg/domain"
)

// InMemoryStore keeps patents in a map for tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	patents map[id.PatentID]models.Patent
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{patents: make(map[id.PatentID]models.Patent)}
}

func (s *InMemoryStore) Save(_ context.Context, patent models.Patent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patents[patent.ID] = patent
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, patentID id.PatentID) (models.Patent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if patent, ok := s.patents[patentID]; ok {
		return patent, nil
	}
	return models.Patent{}, ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]models.Patent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.Patent, 0, len(s.patents))
	for _, patent := range s.patents {
		if filter.Status != nil && patent.Status != *filter.Status {
			continue
		}
		if filter.Mine && patent.CreatedBy != filter.Caller {
			continue
		}
		results = append(results, patent)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patents), nil
}
