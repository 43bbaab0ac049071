package enquiry

import (
	"time"

	"github.com/google/uuid"
)

// Enquiry is a question an applicant raises about the projects on offer.
// Officers and managers may respond; the applicant may delete their own.
type Enquiry struct {
	ID            uuid.UUID
	ApplicantNRIC string
	Message       string
	ResponderNRIC string
	Response      string
	SubmittedAt   time.Time
}

// Answered reports whether anyone has responded yet.
func (e Enquiry) Answered() bool {
	return e.Response != ""
}
