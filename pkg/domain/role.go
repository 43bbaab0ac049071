package domain

import dErrors "btoportal/pkg/domain-errors"

// Role determines which operations a user may drive. Officers keep full
// applicant capabilities on top of their own; the role does not remove any.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleOfficer   Role = "officer"
	RoleManager   Role = "manager"
)

var validRoles = map[Role]bool{
	RoleApplicant: true,
	RoleOfficer:   true,
	RoleManager:   true,
}

// ParseRole constructs a Role from external input.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// CanApply reports whether the role may submit housing applications.
// Managers administer projects and never apply.
func (r Role) CanApply() bool {
	return r == RoleApplicant || r == RoleOfficer
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
