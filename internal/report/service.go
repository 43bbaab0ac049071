// Package report provides the manager-facing read-only queries: approval
// queues and the booked-applications report. Nothing here mutates state.
package report

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"btoportal/internal/application"
	"btoportal/internal/project"
	"btoportal/internal/user"
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/sentinel"
)

// ApplicationStore lists applications for filtering.
type ApplicationStore interface {
	List(ctx context.Context) ([]application.Application, error)
}

// ProjectRegistry resolves project ownership and names.
type ProjectRegistry interface {
	List(ctx context.Context) ([]project.Project, error)
}

// UserStore resolves applicant details and officer registrations.
type UserStore interface {
	FindByNRIC(ctx context.Context, nric string) (*user.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]user.User, error)
}

// Service evaluates the queues as pure filters over the stores.
type Service struct {
	apps     ApplicationStore
	registry ProjectRegistry
	users    UserStore
}

// New constructs a Service.
func New(apps ApplicationStore, registry ProjectRegistry, users UserStore) *Service {
	return &Service{apps: apps, registry: registry, users: users}
}

// ApplicationRow is one entry in an application queue.
type ApplicationRow struct {
	Application   application.Application `json:"application"`
	ApplicantName string                  `json:"applicant_name"`
	ProjectName   string                  `json:"project_name"`
}

// OfficerRow is one entry in the pending officer registration queue.
type OfficerRow struct {
	OfficerNRIC string `json:"officer_nric"`
	OfficerName string `json:"officer_name"`
	ProjectID   int64  `json:"project_id"`
	ProjectName string `json:"project_name"`
}

// BookedRow is one entry in the booked-applications report.
type BookedRow struct {
	ApplicantName string               `json:"applicant_name"`
	ApplicantNRIC string               `json:"applicant_nric"`
	Age           int                  `json:"age"`
	MaritalStatus domain.MaritalStatus `json:"marital_status"`
	ProjectName   string               `json:"project_name"`
	FlatType      domain.FlatType      `json:"flat_type"`
}

// Dashboard bundles every queue a manager reviews in one view.
type Dashboard struct {
	PendingApplications []ApplicationRow `json:"pending_applications"`
	WithdrawalRequests  []ApplicationRow `json:"withdrawal_requests"`
	PendingOfficers     []OfficerRow     `json:"pending_officers"`
}

// PendingApplications returns the approval queue: Pending applications
// against projects the manager owns.
func (s *Service) PendingApplications(ctx context.Context, managerNRIC string) ([]ApplicationRow, error) {
	return s.applicationQueue(ctx, managerNRIC, func(app application.Application) bool {
		return app.Status == application.StatusPending
	})
}

// WithdrawalRequests returns the withdrawal queue: applications with the
// withdrawal flag set, against projects the manager owns.
func (s *Service) WithdrawalRequests(ctx context.Context, managerNRIC string) ([]ApplicationRow, error) {
	return s.applicationQueue(ctx, managerNRIC, func(app application.Application) bool {
		return app.WithdrawalRequested
	})
}

// PendingOfficers returns officers with a pending registration against the
// manager's projects.
func (s *Service) PendingOfficers(ctx context.Context, managerNRIC string) ([]OfficerRow, error) {
	owned, err := s.ownedProjects(ctx, managerNRIC)
	if err != nil {
		return nil, err
	}

	officers, err := s.users.ListByRole(ctx, domain.RoleOfficer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officers")
	}

	var rows []OfficerRow
	for _, o := range officers {
		if o.Assignment.Status != user.RegistrationPending {
			continue
		}
		p, ok := owned[o.Assignment.RegisteredProjectID]
		if !ok {
			continue
		}
		rows = append(rows, OfficerRow{
			OfficerNRIC: o.NRIC,
			OfficerName: o.Name,
			ProjectID:   p.ID,
			ProjectName: p.Name,
		})
	}
	return rows, nil
}

// BookedApplications returns the report rows for every Booked application,
// across all projects.
func (s *Service) BookedApplications(ctx context.Context) ([]BookedRow, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	names, err := s.projectNames(ctx)
	if err != nil {
		return nil, err
	}

	var rows []BookedRow
	for _, app := range apps {
		if app.Status != application.StatusBooked {
			continue
		}
		applicant, err := s.users.FindByNRIC(ctx, app.ApplicantNRIC)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
		}
		rows = append(rows, BookedRow{
			ApplicantName: applicant.Name,
			ApplicantNRIC: applicant.NRIC,
			Age:           applicant.Age,
			MaritalStatus: applicant.MaritalStatus,
			ProjectName:   names[app.ProjectID],
			FlatType:      app.FlatType,
		})
	}
	return rows, nil
}

// DashboardFor gathers the manager's three queues concurrently. The queries
// are read-only, so running them in parallel is safe.
func (s *Service) DashboardFor(ctx context.Context, managerNRIC string) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.PendingApplications(ctx, managerNRIC)
		d.PendingApplications = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.WithdrawalRequests(ctx, managerNRIC)
		d.WithdrawalRequests = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.PendingOfficers(ctx, managerNRIC)
		d.PendingOfficers = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) applicationQueue(ctx context.Context, managerNRIC string, keep func(application.Application) bool) ([]ApplicationRow, error) {
	owned, err := s.ownedProjects(ctx, managerNRIC)
	if err != nil {
		return nil, err
	}

	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}

	var rows []ApplicationRow
	for _, app := range apps {
		p, ok := owned[app.ProjectID]
		if !ok || !keep(app) {
			continue
		}
		row := ApplicationRow{Application: app, ProjectName: p.Name}
		if applicant, err := s.users.FindByNRIC(ctx, app.ApplicantNRIC); err == nil {
			row.ApplicantName = applicant.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) ownedProjects(ctx context.Context, managerNRIC string) (map[int64]project.Project, error) {
	all, err := s.registry.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	owned := make(map[int64]project.Project)
	for _, p := range all {
		if p.ManagedBy(managerNRIC) {
			owned[p.ID] = p
		}
	}
	return owned, nil
}

func (s *Service) projectNames(ctx context.Context) (map[int64]string, error) {
	all, err := s.registry.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	names := make(map[int64]string, len(all))
	for _, p := range all {
		names[p.ID] = p.Name
	}
	return names, nil
}
