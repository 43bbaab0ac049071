package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btoportal/internal/user"
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
)

const testNRIC = "S1234567A"

func newService(t *testing.T) (*Service, *user.InMemoryStore) {
	t.Helper()

	hash, err := HashCredential("password")
	require.NoError(t, err)

	users := user.NewInMemoryStore()
	require.NoError(t, users.Create(context.Background(), user.User{
		NRIC:           testNRIC,
		Name:           "Sarah",
		Role:           domain.RoleApplicant,
		CredentialHash: hash,
	}))

	signer := NewSessionSigner("test-signing-key", time.Hour)
	return New(users, signer), users
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	t.Run("valid credential returns a token", func(t *testing.T) {
		token, err := svc.Login(ctx, testNRIC, "password")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, testNRIC, "wrong")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unknown NRIC reads the same as a wrong password", func(t *testing.T) {
		_, wrongPw := svc.Login(ctx, testNRIC, "wrong")
		_, unknown := svc.Login(ctx, "S9999999Z", "password")
		require.Error(t, unknown)
		assert.Equal(t, wrongPw.Error(), unknown.Error())
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.ChangePassword(ctx, testNRIC, "new-password"))

	_, err := svc.Login(ctx, testNRIC, "password")
	require.Error(t, err)

	token, err := svc.Login(ctx, testNRIC, "new-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestService_ChangePasswordEmpty(t *testing.T) {
	svc, _ := newService(t)
	err := svc.ChangePassword(context.Background(), testNRIC, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSessionSigner_RoundTrip(t *testing.T) {
	signer := NewSessionSigner("test-signing-key", time.Hour)

	token, err := signer.Issue(testNRIC, domain.RoleOfficer)
	require.NoError(t, err)

	claims, err := signer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, testNRIC, claims.UserNRIC)
	assert.Equal(t, domain.RoleOfficer, claims.Role)
}

func TestSessionSigner_RejectsForgedTokens(t *testing.T) {
	signer := NewSessionSigner("test-signing-key", time.Hour)
	forger := NewSessionSigner("other-key", time.Hour)

	token, err := forger.Issue(testNRIC, domain.RoleManager)
	require.NoError(t, err)

	_, err = signer.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestSessionSigner_RejectsExpiredTokens(t *testing.T) {
	signer := NewSessionSigner("test-signing-key", -time.Minute)

	token, err := signer.Issue(testNRIC, domain.RoleApplicant)
	require.NoError(t, err)

	_, err = signer.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
