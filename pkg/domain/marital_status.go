package domain

import (
	"strings"

	dErrors "btoportal/pkg/domain-errors"
)

// MaritalStatus is a person's marital status as supplied by ingestion.
// Eligibility rules only distinguish single from not-single.
type MaritalStatus string

const (
	MaritalStatusSingle  MaritalStatus = "single"
	MaritalStatusMarried MaritalStatus = "married"
)

// ParseMaritalStatus constructs a MaritalStatus from external input.
// Input is case-insensitive; the CSV sources are inconsistent about casing.
func ParseMaritalStatus(s string) (MaritalStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return MaritalStatusSingle, nil
	case "married":
		return MaritalStatusMarried, nil
	case "":
		return "", dErrors.New(dErrors.CodeInvalidInput, "marital status cannot be empty")
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid marital status")
	}
}

// IsSingle reports whether the status is single.
func (m MaritalStatus) IsSingle() bool {
	return m == MaritalStatusSingle
}

// String returns the string representation of the status.
func (m MaritalStatus) String() string {
	return string(m)
}
