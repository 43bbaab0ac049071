// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// This package defines context keys and getter/setter functions for values that are
// typically set by middleware but consumed by services. By keeping this package free
// of net/http dependencies, services can import only what they need without pulling
// in HTTP-related code.
//
// Usage in services (read values):
//
//	nric := requestcontext.UserNRIC(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithUser(ctx, nric, role)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedDate)
package requestcontext

import (
	"context"
	"time"

	"btoportal/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	userNRICKey    struct{}
	userRoleKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyUserNRIC    = userNRICKey{}
	ContextKeyUserRole    = userRoleKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// UserNRIC retrieves the authenticated user's NRIC from the context.
// Returns the empty string if not set.
func UserNRIC(ctx context.Context) string {
	if nric, ok := ctx.Value(ContextKeyUserNRIC).(string); ok {
		return nric
	}
	return ""
}

// UserRole retrieves the authenticated user's role from the context.
func UserRole(ctx context.Context) domain.Role {
	if role, ok := ctx.Value(ContextKeyUserRole).(domain.Role); ok {
		return role
	}
	return ""
}

// WithUser injects the authenticated user's identity into the context.
// There is deliberately no process-wide "current user"; the acting user
// always travels with the request.
func WithUser(ctx context.Context, nric string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserNRIC, nric)
	return context.WithValue(ctx, ContextKeyUserRole, role)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context. Application-window
// checks compare against this value, so a whole request sees one clock.
// Falls back to time.Now() if not set (for non-HTTP contexts like CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
