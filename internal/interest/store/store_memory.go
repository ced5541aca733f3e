package store

import (
	"context"
	"sort"
	"sync"

	"innoport/internal/interest/models"
)

// InMemoryStore keeps interest records in a slice for tests and local
// development.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []models.Interest
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, interest models.Interest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, interest)
	return nil
}

func (s *InMemoryStore) ListByTarget(_ context.Context, target models.Target) ([]models.Interest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.Interest
	for _, record := range s.records {
		if record.TargetType == target.Type && record.TargetID == target.ID {
			results = append(results, record)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) Total(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, record := range s.records {
		if record.Amount != nil {
			total += *record.Amount
		}
	}
	return total, nil
}
