// Package auth covers login and credential changes. It exists to carry the
// acting user explicitly through request context rather than as global state;
// it makes no hardened-authentication claims.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"btoportal/internal/user"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/sentinel"
	"btoportal/pkg/requestcontext"
)

// UserStore is the user surface login needs.
type UserStore interface {
	FindByNRIC(ctx context.Context, nric string) (*user.User, error)
	UpdateCredential(ctx context.Context, nric, hash string) error
}

// Service authenticates users and changes credentials.
type Service struct {
	users  UserStore
	signer *SessionSigner
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(users UserStore, signer *SessionSigner, opts ...Option) *Service {
	s := &Service{users: users, signer: signer, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies the credential and issues a session token. Lookups and
// mismatches return the same error so callers cannot probe for NRICs.
func (s *Service) Login(ctx context.Context, nric, password string) (string, error) {
	u, err := s.users.FindByNRIC(ctx, nric)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid NRIC or password")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.CredentialHash), []byte(password)); err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid NRIC or password")
	}

	token, err := s.signer.Issue(u.NRIC, u.Role)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "user logged in",
		"request_id", requestcontext.RequestID(ctx),
		"nric", u.NRIC,
		"role", u.Role,
	)
	return token, nil
}

// ChangePassword replaces the acting user's credential.
func (s *Service) ChangePassword(ctx context.Context, nric, newPassword string) error {
	if newPassword == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password cannot be empty")
	}

	hash, err := HashCredential(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdateCredential(ctx, nric, hash); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update credential")
	}
	return nil
}

// HashCredential creates a bcrypt hash of the provided password.
// Ingestion uses it when loading the CSV user lists.
func HashCredential(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "password is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash password")
	}
	return string(hashed), nil
}
