package store

import (
	"context"
	"sync"

	"innoport/internal/identity/models"
	id "innoport/pkg/domain"
)

// In-memory stores keep local development and tests free of external
// services. They intentionally favor clarity over performance.

type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]models.User
	byEmail map[string]id.UserID
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryUserStore) Save(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		return user, nil
	}
	return models.User{}, ErrNotFound
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byEmail[email]; ok {
		return s.users[userID], nil
	}
	return models.User{}, ErrNotFound
}

type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]models.Profile
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[id.UserID]models.Profile)}
}

func (s *InMemoryProfileStore) Save(_ context.Context, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *InMemoryProfileStore) FindByUser(_ context.Context, userID id.UserID) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return models.Profile{}, ErrNotFound
}

type InMemoryRoleStore struct {
	mu    sync.RWMutex
	roles map[id.UserID]models.RoleAssignment
}

func NewInMemoryRoleStore() *InMemoryRoleStore {
	return &InMemoryRoleStore{roles: make(map[id.UserID]models.RoleAssignment)}
}

func (s *InMemoryRoleStore) Assign(_ context.Context, assignment models.RoleAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[assignment.UserID] = assignment
	return nil
}

func (s *InMemoryRoleStore) FindByUser(_ context.Context, userID id.UserID) (models.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if assignment, ok := s.roles[userID]; ok {
		return assignment, nil
	}
	return models.RoleAssignment{}, ErrNotFound
}
