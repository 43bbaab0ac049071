// Package eligibility decides which flat types a person may apply for.
// This is pure domain logic - no I/O, no side effects.
package eligibility

import (
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
)

// FlatTypesFor returns the flat types the person is allowed to apply for.
// Rule set:
//   - single and under 35: none
//   - single and 35 or older: 2-Room only
//   - married and under 21: none
//   - married and 21 or older: 2-Room and 3-Room
func FlatTypesFor(age int, status domain.MaritalStatus) []domain.FlatType {
	if status.IsSingle() {
		if age < 35 {
			return nil
		}
		return []domain.FlatType{domain.FlatTypeTwoRoom}
	}
	if age < 21 {
		return nil
	}
	return []domain.FlatType{domain.FlatTypeTwoRoom, domain.FlatTypeThreeRoom}
}

// Allows reports whether the person may apply for the given flat type.
func Allows(age int, status domain.MaritalStatus, ft domain.FlatType) bool {
	for _, allowed := range FlatTypesFor(age, status) {
		if allowed == ft {
			return true
		}
	}
	return false
}

// Validate returns a coded error explaining why the person may not apply for
// the flat type, or nil when they may.
func Validate(age int, status domain.MaritalStatus, ft domain.FlatType) error {
	if status.IsSingle() {
		if age < 35 {
			return dErrors.New(dErrors.CodeEligibilityDenied, "single applicants must be at least 35 years old")
		}
		if ft != domain.FlatTypeTwoRoom {
			return dErrors.New(dErrors.CodeEligibilityDenied, "single applicants may only apply for 2-Room flats")
		}
		return nil
	}
	if age < 21 {
		return dErrors.New(dErrors.CodeEligibilityDenied, "married applicants must be at least 21 years old")
	}
	if !Allows(age, status, ft) {
		return dErrors.New(dErrors.CodeEligibilityDenied, "married applicants may apply for 2-Room or 3-Room flats only")
	}
	return nil
}
