// Package officer drives the officer registration state machine:
// None -> Pending -> Approved | Rejected.
package officer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"btoportal/internal/application"
	"btoportal/internal/platform/metrics"
	"btoportal/internal/project"
	"btoportal/internal/user"
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/sentinel"
	"btoportal/pkg/requestcontext"
)

// UserStore reads and writes officer assignment records.
type UserStore interface {
	FindByNRIC(ctx context.Context, nric string) (*user.User, error)
	UpdateAssignment(ctx context.Context, nric string, assignment user.OfficerAssignment) error
}

// ProjectRegistry covers the registry operations registration needs: project
// lookups and the atomic slot-guarded officer append.
type ProjectRegistry interface {
	FindByID(ctx context.Context, id int64) (*project.Project, error)
	AppendOfficerIfSlotFree(ctx context.Context, id int64, officerNRIC string) error
}

// ApplicationLookup detects conflicts between an officer's applications and
// the project they want to administer.
type ApplicationLookup interface {
	FindByApplicantAndProject(ctx context.Context, nric string, projectID int64) (*application.Application, error)
}

// Service manages officer registrations. Approvals touch two stores (slot
// append, assignment update), so mutating operations are serialized by the
// service mutex; the slot check-then-append itself is atomic in the registry.
type Service struct {
	users    UserStore
	registry ProjectRegistry
	apps     ApplicationLookup
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu sync.Mutex
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(users UserStore, registry ProjectRegistry, apps ApplicationLookup, opts ...Option) *Service {
	s := &Service{users: users, registry: registry, apps: apps, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register submits an officer's request to administer a project. It rejects
// officers already handling a project and officers holding any application
// against the target project.
func (s *Service) Register(ctx context.Context, officerNRIC string, projectID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	officer, err := s.loadOfficer(ctx, officerNRIC)
	if err != nil {
		return err
	}
	if officer.Assignment.HandlesProject() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "you are already handling another project")
	}

	if _, err := s.registry.FindByID(ctx, projectID); err != nil {
		return s.lookupErr(err, "project not found")
	}

	if _, err := s.apps.FindByApplicantAndProject(ctx, officerNRIC, projectID); err == nil {
		return dErrors.New(dErrors.CodeConflict, "you have already applied for this project as an applicant")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check applications")
	}

	assignment := user.OfficerAssignment{
		RegisteredProjectID: projectID,
		Status:              user.RegistrationPending,
	}
	if err := s.users.UpdateAssignment(ctx, officerNRIC, assignment); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}

	s.logger.InfoContext(ctx, "officer registration submitted",
		"request_id", requestcontext.RequestID(ctx),
		"officer", officerNRIC,
		"project_id", projectID,
	)
	return nil
}

// Approve grants a pending registration. The officer joins the project's
// officer set and starts handling it. Fails with SlotExhausted, and changes
// nothing, when the project's officer slots are full.
func (s *Service) Approve(ctx context.Context, managerNRIC, officerNRIC string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	officer, p, err := s.pendingRegistration(ctx, managerNRIC, officerNRIC)
	if err != nil {
		return err
	}

	if err := s.registry.AppendOfficerIfSlotFree(ctx, p.ID, officerNRIC); err != nil {
		if errors.Is(err, sentinel.ErrCapacityExhausted) {
			return dErrors.New(dErrors.CodeSlotExhausted, "no more officer slots available")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign officer")
	}

	assignment := officer.Assignment
	assignment.Status = user.RegistrationApproved
	assignment.HandlingProjectID = p.ID
	if err := s.users.UpdateAssignment(ctx, officerNRIC, assignment); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}

	s.countRegistration("approved")
	s.logger.InfoContext(ctx, "officer registration approved",
		"request_id", requestcontext.RequestID(ctx),
		"officer", officerNRIC,
		"project_id", p.ID,
	)
	return nil
}

// Reject declines a pending registration; the officer remains unassigned.
func (s *Service) Reject(ctx context.Context, managerNRIC, officerNRIC string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	officer, p, err := s.pendingRegistration(ctx, managerNRIC, officerNRIC)
	if err != nil {
		return err
	}

	assignment := officer.Assignment
	assignment.Status = user.RegistrationRejected
	if err := s.users.UpdateAssignment(ctx, officerNRIC, assignment); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}

	s.countRegistration("rejected")
	s.logger.InfoContext(ctx, "officer registration rejected",
		"request_id", requestcontext.RequestID(ctx),
		"officer", officerNRIC,
		"project_id", p.ID,
	)
	return nil
}

// pendingRegistration loads the officer's pending registration and checks the
// acting manager owns the registered project.
func (s *Service) pendingRegistration(ctx context.Context, managerNRIC, officerNRIC string) (*user.User, *project.Project, error) {
	officer, err := s.loadOfficer(ctx, officerNRIC)
	if err != nil {
		return nil, nil, err
	}
	if officer.Assignment.RegisteredProjectID == 0 {
		return nil, nil, dErrors.New(dErrors.CodeInvalidStateTransition, "officer has no project registration pending")
	}
	if officer.Assignment.Status != user.RegistrationPending {
		return nil, nil, dErrors.New(dErrors.CodeInvalidStateTransition, "officer's registration is not pending")
	}

	p, err := s.registry.FindByID(ctx, officer.Assignment.RegisteredProjectID)
	if err != nil {
		return nil, nil, s.lookupErr(err, "project not found")
	}
	if !p.ManagedBy(managerNRIC) {
		return nil, nil, dErrors.New(dErrors.CodeAuthorizationDenied, "you are not the manager of this project")
	}
	return officer, p, nil
}

func (s *Service) loadOfficer(ctx context.Context, nric string) (*user.User, error) {
	u, err := s.users.FindByNRIC(ctx, nric)
	if err != nil {
		return nil, s.lookupErr(err, "officer not found")
	}
	if u.Role != domain.RoleOfficer {
		return nil, dErrors.New(dErrors.CodeAuthorizationDenied, "only officers may register for projects")
	}
	return u, nil
}

func (s *Service) lookupErr(err error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}

func (s *Service) countRegistration(decision string) {
	if s.metrics != nil {
		s.metrics.OfficerRegistrations.WithLabelValues(decision).Inc()
	}
}
