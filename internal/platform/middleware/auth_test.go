package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btoportal/pkg/domain"
	"btoportal/pkg/requestcontext"
)

type fakeValidator struct {
	claims *SessionClaims
	err    error
}

func (f *fakeValidator) ValidateToken(string) (*SessionClaims, error) {
	return f.claims, f.err
}

func runRequireAuth(t *testing.T, validator SessionValidator, header string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var seen *http.Request
	handler := RequireAuth(validator, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, seen
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token passes the user downstream", func(t *testing.T) {
		v := &fakeValidator{claims: &SessionClaims{UserNRIC: "S1234567A", Role: domain.RoleOfficer}}
		rr, seen := runRequireAuth(t, v, "Bearer good-token")

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "S1234567A", requestcontext.UserNRIC(seen.Context()))
		assert.Equal(t, domain.RoleOfficer, requestcontext.UserRole(seen.Context()))
	})

	t.Run("missing header", func(t *testing.T) {
		rr, seen := runRequireAuth(t, &fakeValidator{}, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seen)
	})

	t.Run("invalid token", func(t *testing.T) {
		v := &fakeValidator{err: errors.New("expired")}
		rr, seen := runRequireAuth(t, v, "Bearer stale-token")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seen)
	})
}
