package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"btoportal/internal/eligibility"
	"btoportal/internal/platform/metrics"
	"btoportal/internal/project"
	"btoportal/internal/user"
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/sentinel"
	"btoportal/pkg/requestcontext"
)

// Store is the application persistence surface the service needs.
type Store interface {
	CreateIfNoActive(ctx context.Context, app Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*Application, error)
	ListByApplicant(ctx context.Context, nric string) ([]Application, error)
	Update(ctx context.Context, app Application) error
}

// ProjectRegistry is the slice of the project registry the lifecycle touches:
// lookups for validation and the unit debit on booking.
type ProjectRegistry interface {
	FindByID(ctx context.Context, id int64) (*project.Project, error)
	ReduceUnits(ctx context.Context, id int64, ft domain.FlatType, count int) error
}

// UserStore resolves applicants, managers, and officers.
type UserStore interface {
	FindByNRIC(ctx context.Context, nric string) (*user.User, error)
}

// Service drives the application lifecycle state machine. Every transition
// validates the acting party and the source state before mutating anything.
//
// Transitions that read one store and write another (approve checks units,
// booking debits them) are serialized by the service mutex; single-store
// check-then-act sequences are atomic inside the stores themselves.
type Service struct {
	apps     Store
	registry ProjectRegistry
	users    UserStore
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer

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
func New(apps Store, registry ProjectRegistry, users UserStore, opts ...Option) *Service {
	s := &Service{
		apps:     apps,
		registry: registry,
		users:    users,
		logger:   slog.Default(),
		tracer:   otel.Tracer("btoportal/application"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply submits a new application. It rejects callers outside the project's
// application window, callers with an active application, ineligible flat
// type choices, and flat types with no remaining units.
func (s *Service) Apply(ctx context.Context, applicantNRIC string, projectID int64, ft domain.FlatType) (*Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.Apply",
		trace.WithAttributes(attribute.Int64("project.id", projectID)))
	defer span.End()

	applicant, err := s.users.FindByNRIC(ctx, applicantNRIC)
	if err != nil {
		return nil, s.lookupErr(err, "applicant not found")
	}
	if !applicant.Role.CanApply() {
		return nil, dErrors.New(dErrors.CodeAuthorizationDenied, "managers may not submit applications")
	}

	p, err := s.registry.FindByID(ctx, projectID)
	if err != nil {
		return nil, s.lookupErr(err, "project not found")
	}
	if !p.Visible {
		return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
	}

	now := requestcontext.Now(ctx)
	if !p.WithinWindow(now) {
		return nil, dErrors.New(dErrors.CodeInvalidStateTransition, "not within the application period")
	}

	// Advisory duplicate check for a precise failure reason; the store
	// re-checks atomically on insert.
	existing, err := s.apps.ListByApplicant(ctx, applicantNRIC)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applications")
	}
	for _, app := range existing {
		if app.Status.Active() {
			return nil, dErrors.New(dErrors.CodeDuplicateActiveApplication, "you already have an active application")
		}
	}

	if err := eligibility.Validate(applicant.Age, applicant.MaritalStatus, ft); err != nil {
		return nil, err
	}

	if p.UnitsFor(ft) <= 0 {
		return nil, dErrors.New(dErrors.CodeUnitsExhausted, "no available units for "+ft.String()+" in project '"+p.Name+"'")
	}

	app := Application{
		ID:            uuid.New(),
		ApplicantNRIC: applicantNRIC,
		ProjectID:     projectID,
		FlatType:      ft,
		Status:        StatusPending,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	if err := s.apps.CreateIfNoActive(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeDuplicateActiveApplication, "you already have an active application")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
	}
	s.logger.InfoContext(ctx, "application submitted",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"project_id", projectID,
		"flat_type", ft,
	)
	return &app, nil
}

// StatusFor returns all of the applicant's applications, past and active.
func (s *Service) StatusFor(ctx context.Context, applicantNRIC string) ([]Application, error) {
	apps, err := s.apps.ListByApplicant(ctx, applicantNRIC)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applications")
	}
	return apps, nil
}

// Approve moves a Pending application to Successful, provided the acting
// manager owns the project and the chosen flat type still has units left.
// On exhausted units the operation fails and the status stays Pending.
func (s *Service) Approve(ctx context.Context, managerNRIC string, appID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "application.Approve")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	app, p, err := s.ownedApplication(ctx, managerNRIC, appID)
	if err != nil {
		return err
	}
	if app.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "this application is not Pending")
	}
	if p.UnitsFor(app.FlatType) <= 0 {
		return dErrors.New(dErrors.CodeUnitsExhausted, "not enough units left for that flat type")
	}

	app.Status = StatusSuccessful
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.apps.Update(ctx, *app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}
	s.countDecision("approved")
	s.logDecision(ctx, "application approved", app)
	return nil
}

// Reject moves a Pending application to Unsuccessful unconditionally.
func (s *Service) Reject(ctx context.Context, managerNRIC string, appID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, _, err := s.ownedApplication(ctx, managerNRIC, appID)
	if err != nil {
		return err
	}
	if app.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "this application is not Pending")
	}

	app.Status = StatusUnsuccessful
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.apps.Update(ctx, *app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}
	s.countDecision("rejected")
	s.logDecision(ctx, "application rejected", app)
	return nil
}

// RequestWithdrawal flags an active application for manager review. The flag
// is advisory state, not a cancellation: the status does not change here.
func (s *Service) RequestWithdrawal(ctx context.Context, applicantNRIC string, appID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return s.lookupErr(err, "application not found")
	}
	if app.ApplicantNRIC != applicantNRIC {
		return dErrors.New(dErrors.CodeAuthorizationDenied, "this application belongs to someone else")
	}
	if !app.Status.Active() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "this application is either unsuccessful or booked; cannot withdraw")
	}

	app.WithdrawalRequested = true
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.apps.Update(ctx, *app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}
	s.logDecision(ctx, "withdrawal requested", app)
	return nil
}

// ApproveWithdrawal grants a requested withdrawal: the application becomes
// Unsuccessful and the flag clears. Units are never re-credited; Booked
// applications cannot reach this path.
func (s *Service) ApproveWithdrawal(ctx context.Context, managerNRIC string, appID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, _, err := s.ownedApplication(ctx, managerNRIC, appID)
	if err != nil {
		return err
	}
	if !app.WithdrawalRequested {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "no withdrawal requested")
	}
	if !app.Status.Active() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "application cannot be withdrawn from this state")
	}

	app.Status = StatusUnsuccessful
	app.WithdrawalRequested = false
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.apps.Update(ctx, *app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}
	s.countWithdrawal("approved")
	s.logDecision(ctx, "withdrawal approved", app)
	return nil
}

// RejectWithdrawal clears the withdrawal flag and leaves the status alone.
func (s *Service) RejectWithdrawal(ctx context.Context, managerNRIC string, appID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, _, err := s.ownedApplication(ctx, managerNRIC, appID)
	if err != nil {
		return err
	}
	if !app.WithdrawalRequested {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "no withdrawal requested")
	}

	app.WithdrawalRequested = false
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.apps.Update(ctx, *app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}
	s.countWithdrawal("rejected")
	s.logDecision(ctx, "withdrawal rejected", app)
	return nil
}

// Book finalizes a Successful application: the officer handling the project
// allocates a physical unit, the status becomes Booked, and the registry is
// debited by one unit of the chosen flat type.
func (s *Service) Book(ctx context.Context, officerNRIC string, appID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "application.Book")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return s.lookupErr(err, "application not found")
	}

	officer, err := s.users.FindByNRIC(ctx, officerNRIC)
	if err != nil {
		return s.lookupErr(err, "officer not found")
	}
	if officer.Assignment.HandlingProjectID != app.ProjectID {
		return dErrors.New(dErrors.CodeAuthorizationDenied, "you are not handling this project")
	}
	if app.Status != StatusSuccessful {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "only Successful applications can be booked")
	}

	app.Status = StatusBooked
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.apps.Update(ctx, *app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}
	if err := s.registry.ReduceUnits(ctx, app.ProjectID, app.FlatType, 1); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to debit unit inventory")
	}

	if s.metrics != nil {
		s.metrics.UnitsBooked.Inc()
	}
	s.logDecision(ctx, "application booked", app)
	return nil
}

// GenerateReceipt issues a booking receipt. It fails for anything but a
// Booked application, and only the officer handling the project may issue it.
func (s *Service) GenerateReceipt(ctx context.Context, officerNRIC string, appID uuid.UUID) (*Receipt, error) {
	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, s.lookupErr(err, "application not found")
	}

	officer, err := s.users.FindByNRIC(ctx, officerNRIC)
	if err != nil {
		return nil, s.lookupErr(err, "officer not found")
	}
	if officer.Assignment.HandlingProjectID != app.ProjectID {
		return nil, dErrors.New(dErrors.CodeAuthorizationDenied, "you are not handling this project")
	}
	if app.Status != StatusBooked {
		return nil, dErrors.New(dErrors.CodeInvalidStateTransition, "no Booked application found for this applicant")
	}

	applicant, err := s.users.FindByNRIC(ctx, app.ApplicantNRIC)
	if err != nil {
		return nil, s.lookupErr(err, "applicant not found")
	}
	p, err := s.registry.FindByID(ctx, app.ProjectID)
	if err != nil {
		return nil, s.lookupErr(err, "project not found")
	}

	return &Receipt{
		ApplicantName: applicant.Name,
		ApplicantNRIC: applicant.NRIC,
		Age:           applicant.Age,
		MaritalStatus: applicant.MaritalStatus,
		ProjectName:   p.Name,
		FlatType:      app.FlatType,
		IssuedAt:      requestcontext.Now(ctx),
	}, nil
}

// ownedApplication loads an application together with its project and checks
// the acting manager owns that project.
func (s *Service) ownedApplication(ctx context.Context, managerNRIC string, appID uuid.UUID) (*Application, *project.Project, error) {
	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, nil, s.lookupErr(err, "application not found")
	}
	p, err := s.registry.FindByID(ctx, app.ProjectID)
	if err != nil {
		return nil, nil, s.lookupErr(err, "project not found")
	}
	if !p.ManagedBy(managerNRIC) {
		return nil, nil, dErrors.New(dErrors.CodeAuthorizationDenied, "you are not the manager of this project")
	}
	return app, p, nil
}

func (s *Service) lookupErr(err error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}

func (s *Service) countDecision(decision string) {
	if s.metrics != nil {
		s.metrics.ApplicationDecisions.WithLabelValues(decision).Inc()
	}
}

func (s *Service) countWithdrawal(decision string) {
	if s.metrics != nil {
		s.metrics.WithdrawalDecisions.WithLabelValues(decision).Inc()
	}
}

func (s *Service) logDecision(ctx context.Context, msg string, app *Application) {
	s.logger.InfoContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"project_id", app.ProjectID,
		"status", app.Status,
	)
}
