package application

import (
	"time"

	"github.com/google/uuid"

	"btoportal/pkg/domain"
)

// Status is an application's lifecycle state.
//
// Transitions: Pending -> Successful -> Booked (terminal),
// Pending -> Unsuccessful (terminal, manager rejection),
// Successful -> Unsuccessful (terminal, approved withdrawal).
type Status string

const (
	StatusPending      Status = "Pending"
	StatusSuccessful   Status = "Successful"
	StatusUnsuccessful Status = "Unsuccessful"
	StatusBooked       Status = "Booked"
)

// Active reports whether the status still occupies the applicant's single
// active-application slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusSuccessful
}

// Application links one applicant to one project and one chosen flat type.
// Created once per (applicant, project) attempt and mutated in place.
type Application struct {
	ID                  uuid.UUID
	ApplicantNRIC       string
	ProjectID           int64
	FlatType            domain.FlatType
	Status              Status
	WithdrawalRequested bool
	SubmittedAt         time.Time
	UpdatedAt           time.Time
}

// Receipt is the booking receipt an officer issues for a Booked application.
type Receipt struct {
	ApplicantName string               `json:"applicant_name"`
	ApplicantNRIC string               `json:"applicant_nric"`
	Age           int                  `json:"age"`
	MaritalStatus domain.MaritalStatus `json:"marital_status"`
	ProjectName   string               `json:"project_name"`
	FlatType      domain.FlatType      `json:"flat_type"`
	IssuedAt      time.Time            `json:"issued_at"`
}
