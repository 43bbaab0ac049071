package enquiry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"btoportal/internal/user"
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/sentinel"
	"btoportal/pkg/requestcontext"
)

// Store is the enquiry persistence surface.
type Store interface {
	Create(ctx context.Context, e Enquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*Enquiry, error)
	ListByApplicant(ctx context.Context, nric string) ([]Enquiry, error)
	List(ctx context.Context) ([]Enquiry, error)
	Update(ctx context.Context, e Enquiry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore resolves responders for the reply authorization check.
type UserStore interface {
	FindByNRIC(ctx context.Context, nric string) (*user.User, error)
}

// Service handles enquiry submission, browsing, deletion, and replies.
type Service struct {
	enquiries Store
	users     UserStore
	logger    *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(enquiries Store, users UserStore, opts ...Option) *Service {
	s := &Service{enquiries: enquiries, users: users, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records a new enquiry from the applicant.
func (s *Service) Submit(ctx context.Context, applicantNRIC, message string) (*Enquiry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "enquiry message cannot be empty")
	}

	e := Enquiry{
		ID:            uuid.New(),
		ApplicantNRIC: applicantNRIC,
		Message:       message,
		SubmittedAt:   requestcontext.Now(ctx),
	}
	if err := s.enquiries.Create(ctx, e); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save enquiry")
	}

	s.logger.InfoContext(ctx, "enquiry submitted",
		"request_id", requestcontext.RequestID(ctx),
		"enquiry_id", e.ID,
	)
	return &e, nil
}

// ListMine returns the applicant's own enquiries.
func (s *Service) ListMine(ctx context.Context, applicantNRIC string) ([]Enquiry, error) {
	es, err := s.enquiries.ListByApplicant(ctx, applicantNRIC)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list enquiries")
	}
	return es, nil
}

// ListAll returns every enquiry; used by managers reviewing and replying.
func (s *Service) ListAll(ctx context.Context) ([]Enquiry, error) {
	es, err := s.enquiries.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list enquiries")
	}
	return es, nil
}

// Delete removes one of the applicant's own enquiries.
func (s *Service) Delete(ctx context.Context, applicantNRIC string, id uuid.UUID) error {
	e, err := s.enquiries.FindByID(ctx, id)
	if err != nil {
		return s.lookupErr(err)
	}
	if e.ApplicantNRIC != applicantNRIC {
		return dErrors.New(dErrors.CodeAuthorizationDenied, "this enquiry belongs to someone else")
	}
	if err := s.enquiries.Delete(ctx, id); err != nil {
		return s.lookupErr(err)
	}
	return nil
}

// Reply records a response from an officer or manager.
func (s *Service) Reply(ctx context.Context, responderNRIC string, id uuid.UUID, response string) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "response cannot be empty")
	}

	responder, err := s.users.FindByNRIC(ctx, responderNRIC)
	if err != nil {
		return s.lookupErr(err)
	}
	if responder.Role == domain.RoleApplicant {
		return dErrors.New(dErrors.CodeAuthorizationDenied, "only officers and managers may reply to enquiries")
	}

	e, err := s.enquiries.FindByID(ctx, id)
	if err != nil {
		return s.lookupErr(err)
	}
	e.ResponderNRIC = responderNRIC
	e.Response = response
	if err := s.enquiries.Update(ctx, *e); err != nil {
		return s.lookupErr(err)
	}

	s.logger.InfoContext(ctx, "enquiry replied",
		"request_id", requestcontext.RequestID(ctx),
		"enquiry_id", id,
		"responder", responderNRIC,
	)
	return nil
}

func (s *Service) lookupErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "enquiry not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "enquiry store failure")
}
