package project

import (
	"time"

	"btoportal/pkg/domain"
)

// FlatInfo is the inventory entry for one flat type within a project.
// Units never goes negative; it is debited only through the store's
// ReduceUnits operation.
type FlatInfo struct {
	Units int
	Price int64
}

// Project is a BTO housing project on offer.
//
// Invariants: every FlatInfo.Units >= 0, and len(Officers) <= OfficerSlots.
// Both are enforced inside the store, under its lock.
type Project struct {
	ID           int64
	Name         string
	Neighborhood string
	Flats        map[domain.FlatType]FlatInfo
	OpenDate     time.Time
	CloseDate    time.Time
	ManagerNRIC  string
	Visible      bool
	OfficerSlots int
	Officers     []string
}

// UnitsFor returns the remaining unit count for a flat type, zero when the
// project does not offer it.
func (p *Project) UnitsFor(ft domain.FlatType) int {
	return p.Flats[ft].Units
}

// ManagedBy reports whether the given manager owns this project.
func (p *Project) ManagedBy(nric string) bool {
	return p.ManagerNRIC == nric
}

// WithinWindow reports whether now falls inside the application window,
// inclusive on both ends. Comparison is by calendar date, not instant.
// Projects without a window accept applications at any time.
func (p *Project) WithinWindow(now time.Time) bool {
	if p.OpenDate.IsZero() || p.CloseDate.IsZero() {
		return true
	}
	day := truncateToDate(now)
	return !day.Before(truncateToDate(p.OpenDate)) && !day.After(truncateToDate(p.CloseDate))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// clone returns a deep copy so callers never mutate shared state outside the
// store lock.
func (p *Project) clone() *Project {
	cp := *p
	cp.Flats = make(map[domain.FlatType]FlatInfo, len(p.Flats))
	for ft, info := range p.Flats {
		cp.Flats[ft] = info
	}
	cp.Officers = append([]string(nil), p.Officers...)
	return &cp
}
