package enquiry

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"btoportal/pkg/platform/sentinel"
)

// InMemoryStore keeps all enquiries for the portal's lifetime.
type InMemoryStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]Enquiry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[uuid.UUID]Enquiry)}
}

// Create stores a new enquiry.
func (s *InMemoryStore) Create(_ context.Context, e Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[e.ID] = e
	return nil
}

// FindByID returns a copy of the enquiry.
func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &e, nil
}

// ListByApplicant returns the applicant's enquiries, oldest first.
func (s *InMemoryStore) ListByApplicant(_ context.Context, nric string) ([]Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Enquiry
	for _, e := range s.byID {
		if e.ApplicantNRIC == nric {
			out = append(out, e)
		}
	}
	sortBySubmission(out)
	return out, nil
}

// List returns all enquiries, oldest first.
func (s *InMemoryStore) List(_ context.Context) ([]Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Enquiry, 0, len(s.byID))
	for _, e := range s.byID {
		out = append(out, e)
	}
	sortBySubmission(out)
	return out, nil
}

// Update replaces the stored record for e.ID.
func (s *InMemoryStore) Update(_ context.Context, e Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byID[e.ID] = e
	return nil
}

// Delete removes an enquiry.
func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func sortBySubmission(es []Enquiry) {
	sort.Slice(es, func(i, j int) bool {
		return es[i].SubmittedAt.Before(es[j].SubmittedAt)
	})
}
