package domain

import dErrors "btoportal/pkg/domain-errors"

// FlatType is a category of unit with its own price and inventory.
// Invariant: the value must be one of the flat types on offer.
//
// Usage: construct via ParseFlatType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type FlatType string

const (
	FlatTypeTwoRoom   FlatType = "2-Room"
	FlatTypeThreeRoom FlatType = "3-Room"
)

// validFlatTypes is the single source of truth for flat types on offer.
var validFlatTypes = map[FlatType]bool{
	FlatTypeTwoRoom:   true,
	FlatTypeThreeRoom: true,
}

// ParseFlatType constructs a FlatType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseFlatType(s string) (FlatType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "flat type cannot be empty")
	}
	ft := FlatType(s)
	if !ft.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid flat type")
	}
	return ft, nil
}

// IsValid checks if the flat type is one of the supported enum values.
func (ft FlatType) IsValid() bool {
	return validFlatTypes[ft]
}

// String returns the string representation of the flat type.
func (ft FlatType) String() string {
	return string(ft)
}
