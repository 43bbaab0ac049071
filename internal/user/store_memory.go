package user

import (
	"context"
	"sync"

	"btoportal/pkg/domain"
	"btoportal/pkg/platform/sentinel"
)

// InMemoryStore holds all user records for the portal's lifetime. State is
// in-memory by design; nothing survives a restart.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]User)}
}

// Create registers a new user keyed by NRIC.
func (s *InMemoryStore) Create(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.NRIC]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.users[u.NRIC] = u
	return nil
}

// FindByNRIC returns a copy of the user record.
func (s *InMemoryStore) FindByNRIC(_ context.Context, nric string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[nric]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &u, nil
}

// ListByRole returns copies of all users holding the given role.
func (s *InMemoryStore) ListByRole(_ context.Context, role domain.Role) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// UpdateCredential replaces the stored credential hash.
func (s *InMemoryStore) UpdateCredential(_ context.Context, nric, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[nric]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.CredentialHash = hash
	s.users[nric] = u
	return nil
}

// UpdateAssignment replaces the officer assignment record under the store
// lock. Callers decide the transition; the store only guards the write.
func (s *InMemoryStore) UpdateAssignment(_ context.Context, nric string, assignment OfficerAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[nric]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.Assignment = assignment
	s.users[nric] = u
	return nil
}
