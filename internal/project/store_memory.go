package project

import (
	"context"
	"sync"

	"btoportal/pkg/domain"
	"btoportal/pkg/platform/sentinel"
)

// InMemoryStore is the project registry. All check-then-act sequences on a
// project (unit decrements, officer-slot appends) run under the store lock so
// concurrent callers cannot break the inventory invariants.
type InMemoryStore struct {
	mu       sync.RWMutex
	projects map[int64]*Project
	nextID   int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{projects: make(map[int64]*Project), nextID: 1}
}

// Create registers a project and assigns the next sequential ID.
func (s *InMemoryStore) Create(_ context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.projects[p.ID] = p.clone()
	return nil
}

// FindByID returns a copy of the project record.
func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.clone(), nil
}

// List returns copies of all projects ordered by ID.
func (s *InMemoryStore) List(_ context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.projects))
	for id := int64(1); id < s.nextID; id++ {
		if p, ok := s.projects[id]; ok {
			out = append(out, *p.clone())
		}
	}
	return out, nil
}

// ReduceUnits subtracts count from the flat type's unit count, clamping at
// zero. Unknown flat types are a silent no-op.
func (s *InMemoryStore) ReduceUnits(_ context.Context, id int64, ft domain.FlatType, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	info, ok := p.Flats[ft]
	if !ok {
		return nil
	}
	info.Units -= count
	if info.Units < 0 {
		info.Units = 0
	}
	p.Flats[ft] = info
	return nil
}

// SetVisibility flips the project's visibility flag.
func (s *InMemoryStore) SetVisibility(_ context.Context, id int64, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.Visible = visible
	return nil
}

// UpdateDetails renames a project and/or moves it to another neighborhood.
// Empty arguments leave the corresponding field untouched.
func (s *InMemoryStore) UpdateDetails(_ context.Context, id int64, name, neighborhood string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if name != "" {
		p.Name = name
	}
	if neighborhood != "" {
		p.Neighborhood = neighborhood
	}
	return nil
}

// AppendOfficerIfSlotFree adds an officer to the project's officer set only
// while capacity remains. The check and the append are one atomic step.
func (s *InMemoryStore) AppendOfficerIfSlotFree(_ context.Context, id int64, officerNRIC string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if len(p.Officers) >= p.OfficerSlots {
		return sentinel.ErrCapacityExhausted
	}
	p.Officers = append(p.Officers, officerNRIC)
	return nil
}
