package project

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"btoportal/internal/eligibility"
	"btoportal/internal/user"
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/sentinel"
	"btoportal/pkg/requestcontext"
)

// Store is the registry surface the service needs.
type Store interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	ReduceUnits(ctx context.Context, id int64, ft domain.FlatType, count int) error
	SetVisibility(ctx context.Context, id int64, visible bool) error
	UpdateDetails(ctx context.Context, id int64, name, neighborhood string) error
}

// UserStore resolves actors so the service can check roles and assignments.
type UserStore interface {
	FindByNRIC(ctx context.Context, nric string) (*user.User, error)
}

// Service owns project registry operations: creation, edits, visibility, and
// the officer-facing availability update. Unit accounting itself lives in the
// store, under its lock.
type Service struct {
	projects Store
	users    UserStore
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(projects Store, users UserStore, opts ...Option) *Service {
	s := &Service{projects: projects, users: users, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSpec carries the fields a manager supplies when launching a project.
type CreateSpec struct {
	Name         string
	Neighborhood string
	Flats        map[domain.FlatType]FlatInfo
	OpenDate     time.Time
	CloseDate    time.Time
	OfficerSlots int
}

// Create launches a new project owned by the acting manager.
func (s *Service) Create(ctx context.Context, managerNRIC string, spec CreateSpec) (*Project, error) {
	manager, err := s.requireManager(ctx, managerNRIC)
	if err != nil {
		return nil, err
	}

	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "project name cannot be empty")
	}
	if spec.OfficerSlots < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "officer slots cannot be negative")
	}
	for ft, info := range spec.Flats {
		if !ft.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid flat type: "+ft.String())
		}
		if info.Units < 0 || info.Price < 0 {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "unit counts and prices cannot be negative")
		}
	}

	p := &Project{
		Name:         spec.Name,
		Neighborhood: spec.Neighborhood,
		Flats:        spec.Flats,
		OpenDate:     spec.OpenDate,
		CloseDate:    spec.CloseDate,
		ManagerNRIC:  manager.NRIC,
		Visible:      true,
		OfficerSlots: spec.OfficerSlots,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create project")
	}

	s.logger.InfoContext(ctx, "project created",
		"request_id", requestcontext.RequestID(ctx),
		"project_id", p.ID,
		"manager", manager.NRIC,
	)
	return p, nil
}

// Edit updates the name and/or neighborhood of a project the manager owns.
func (s *Service) Edit(ctx context.Context, managerNRIC string, id int64, name, neighborhood string) error {
	if _, err := s.requireOwnedProject(ctx, managerNRIC, id); err != nil {
		return err
	}
	if err := s.projects.UpdateDetails(ctx, id, strings.TrimSpace(name), strings.TrimSpace(neighborhood)); err != nil {
		return s.storeErr(err, "failed to update project")
	}
	return nil
}

// ToggleVisibility shows or hides a project the manager owns.
func (s *Service) ToggleVisibility(ctx context.Context, managerNRIC string, id int64, visible bool) error {
	if _, err := s.requireOwnedProject(ctx, managerNRIC, id); err != nil {
		return err
	}
	if err := s.projects.SetVisibility(ctx, id, visible); err != nil {
		return s.storeErr(err, "failed to toggle visibility")
	}
	return nil
}

// Get fetches a single project.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "failed to load project")
	}
	return p, nil
}

// BrowseFor lists the projects the acting user should see. Managers see
// everything, including hidden projects. Applicants and officers see only
// visible projects with at least one remaining unit in a flat type they are
// eligible for.
func (s *Service) BrowseFor(ctx context.Context, nric string) ([]Project, error) {
	u, err := s.users.FindByNRIC(ctx, nric)
	if err != nil {
		return nil, s.storeErr(err, "failed to load user")
	}

	all, err := s.projects.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	if u.Role == domain.RoleManager {
		return all, nil
	}

	eligibleTypes := eligibility.FlatTypesFor(u.Age, u.MaritalStatus)
	if len(eligibleTypes) == 0 {
		return nil, nil
	}

	var out []Project
	for _, p := range all {
		if !p.Visible {
			continue
		}
		for _, ft := range eligibleTypes {
			if p.UnitsFor(ft) > 0 {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// UpdateAvailability debits booked units from a flat type. Only the officer
// handling the project may call it; the decrement clamps at zero.
func (s *Service) UpdateAvailability(ctx context.Context, officerNRIC string, projectID int64, ft domain.FlatType, booked int) error {
	officer, err := s.users.FindByNRIC(ctx, officerNRIC)
	if err != nil {
		return s.storeErr(err, "failed to load officer")
	}
	if officer.Assignment.HandlingProjectID != projectID {
		return dErrors.New(dErrors.CodeAuthorizationDenied, "you are not handling this project")
	}
	if booked < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "booked count cannot be negative")
	}
	if err := s.projects.ReduceUnits(ctx, projectID, ft, booked); err != nil {
		return s.storeErr(err, "failed to update availability")
	}
	s.logger.InfoContext(ctx, "flat availability updated",
		"request_id", requestcontext.RequestID(ctx),
		"project_id", projectID,
		"flat_type", ft,
		"booked", booked,
	)
	return nil
}

func (s *Service) requireManager(ctx context.Context, nric string) (*user.User, error) {
	u, err := s.users.FindByNRIC(ctx, nric)
	if err != nil {
		return nil, s.storeErr(err, "failed to load user")
	}
	if u.Role != domain.RoleManager {
		return nil, dErrors.New(dErrors.CodeAuthorizationDenied, "only managers may perform this operation")
	}
	return u, nil
}

func (s *Service) requireOwnedProject(ctx context.Context, managerNRIC string, id int64) (*Project, error) {
	if _, err := s.requireManager(ctx, managerNRIC); err != nil {
		return nil, err
	}
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "failed to load project")
	}
	if !p.ManagedBy(managerNRIC) {
		return nil, dErrors.New(dErrors.CodeAuthorizationDenied, "you are not the manager of this project")
	}
	return p, nil
}

func (s *Service) storeErr(err error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "project or user not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
