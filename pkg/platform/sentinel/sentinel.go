package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped) so
// services can translate them into coded domain errors.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: record does not exist in store
// - ErrAlreadyUsed: an atomic create would violate a uniqueness or
//   at-most-one constraint (e.g. a second active application)
// - ErrInvalidState: record in wrong state for the requested transition
// - ErrCapacityExhausted: an atomic append would exceed a capacity limit,
//   such as a project's officer slots
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyUsed       = errors.New("already used")
	ErrInvalidState      = errors.New("invalid state")
	ErrCapacityExhausted = errors.New("capacity exhausted")
)
