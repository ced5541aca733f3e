package store

import (
	"context"
	"sort"
	"sync"

	"innoport/internal/research/models"
	id "innoport/pkg/domain"
)

// InMemoryStore keeps projects in a map for tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	projects map[id.ProjectID]models.Project
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{projects: make(map[id.ProjectID]models.Project)}
}

func (s *InMemoryStore) Save(_ context.Context, project models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, projectID id.ProjectID) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if project, ok := s.projects[projectID]; ok {
		return project, nil
	}
	return models.Project{}, ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.Project, 0, len(s.projects))
	for _, project := range s.projects {
		if filter.Status != nil && project.Status != *filter.Status {
			continue
		}
		if filter.Mine && project.CreatedBy != filter.Caller {
			continue
		}
		results = append(results, project)
	}
	// Newest first, matching the portal's listing order.
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects), nil
}
