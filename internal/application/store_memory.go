package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"btoportal/pkg/platform/sentinel"
)

// InMemoryStore holds every application ever submitted. The at-most-one
// active application invariant is enforced here, inside the lock, so the
// duplicate check and the insert are a single atomic step.
type InMemoryStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]Application
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[uuid.UUID]Application)}
}

// CreateIfNoActive inserts the application unless the applicant already holds
// one whose status is Pending or Successful.
func (s *InMemoryStore) CreateIfNoActive(_ context.Context, app Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.ApplicantNRIC == app.ApplicantNRIC && existing.Status.Active() {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.byID[app.ID] = app
	return nil
}

// FindByID returns a copy of the application.
func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &app, nil
}

// ListByApplicant returns copies of all of one applicant's applications.
func (s *InMemoryStore) ListByApplicant(_ context.Context, nric string) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Application
	for _, app := range s.byID {
		if app.ApplicantNRIC == nric {
			out = append(out, app)
		}
	}
	return out, nil
}

// FindByApplicantAndProject returns the applicant's application against one
// project, if any exists regardless of status.
func (s *InMemoryStore) FindByApplicantAndProject(_ context.Context, nric string, projectID int64) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.byID {
		if app.ApplicantNRIC == nric && app.ProjectID == projectID {
			out := app
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns copies of all applications.
func (s *InMemoryStore) List(_ context.Context) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Application, 0, len(s.byID))
	for _, app := range s.byID {
		out = append(out, app)
	}
	return out, nil
}

// Update replaces the stored record for app.ID.
func (s *InMemoryStore) Update(_ context.Context, app Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[app.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byID[app.ID] = app
	return nil
}
