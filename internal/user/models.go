package user

import "btoportal/pkg/domain"

// RegistrationStatus tracks an officer's project registration.
// Transitions: None -> Pending -> Approved | Rejected.
type RegistrationStatus string

const (
	RegistrationNone     RegistrationStatus = "None"
	RegistrationPending  RegistrationStatus = "Pending"
	RegistrationApproved RegistrationStatus = "Approved"
	RegistrationRejected RegistrationStatus = "Rejected"
)

// OfficerAssignment is the officer-capability record. It lives beside the
// applicant capabilities rather than in a subclass: an officer is a person
// who can apply like anyone else plus hold this assignment.
//
// A project ID of zero means "none"; project IDs are assigned from 1.
type OfficerAssignment struct {
	RegisteredProjectID int64
	Status              RegistrationStatus
	HandlingProjectID   int64
}

// HandlesProject reports whether the officer currently administers a project.
func (a OfficerAssignment) HandlesProject() bool {
	return a.HandlingProjectID != 0
}

// User is a person known to the portal. Identity fields are immutable after
// ingestion; only the credential hash and the officer assignment change.
type User struct {
	NRIC           string
	Name           string
	Age            int
	MaritalStatus  domain.MaritalStatus
	Role           domain.Role
	CredentialHash string

	// Assignment is meaningful only for users with RoleOfficer.
	Assignment OfficerAssignment
}
