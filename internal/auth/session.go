package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"btoportal/internal/platform/middleware"
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
)

// Claims represents the JWT claims for session tokens.
type Claims struct {
	NRIC string `json:"nric"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionSigner mints and validates session tokens. Security hardening is
// out of scope; tokens exist so every request carries its acting user
// explicitly instead of relying on process-wide login state.
type SessionSigner struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewSessionSigner(signingKey string, ttl time.Duration) *SessionSigner {
	return &SessionSigner{
		signingKey: []byte(signingKey),
		issuer:     "btoportal",
		ttl:        ttl,
	}
}

// Issue creates a signed session token for the user.
func (s *SessionSigner) Issue(nric string, role domain.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		NRIC: nric,
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}
	return signed, nil
}

// ValidateToken checks a session token and extracts the acting user.
// It satisfies middleware.SessionValidator.
func (s *SessionSigner) ValidateToken(tokenString string) (*middleware.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	return &middleware.SessionClaims{UserNRIC: claims.NRIC, Role: role}, nil
}
