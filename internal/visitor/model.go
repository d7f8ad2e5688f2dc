// Package visitor provides the visitor registration domain: drafts,
// validation, the submission workflow, list projection, and data access.
package visitor

import "time"

// DateLayout is the wire and storage format for visit dates.
const DateLayout = "2006-01-02"

// Status represents where a registration is in the intake workflow.
type Status string

const (
	StatusReceiving Status = "receiving"
	StatusReceived  Status = "received"
	StatusCompleted Status = "completed"
)

// ValidStatuses is the set of recognized statuses.
var ValidStatuses = []Status{StatusReceiving, StatusReceived, StatusCompleted}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusReceiving:
		return "Receiving"
	case StatusReceived:
		return "Received"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// BadgeStyle maps a status to its display style. Unknown statuses return
// ok=false; callers decide how to surface that rather than picking a
// fallback style here.
func BadgeStyle(s Status) (string, bool) {
	switch s {
	case StatusReceiving:
		return "warning", true
	case StatusReceived:
		return "info", true
	case StatusCompleted:
		return "success", true
	}
	return "", false
}

// Record is the stored representation of a visitor registration. The
// server owns it; clients read it and edit only through a new submission.
type Record struct {
	ID             string    `json:"id"`
	OwnerEmail     string    `json:"-"`
	Department     string    `json:"department"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	VisitStartDate string    `json:"visitStartDate"` // YYYY-MM-DD
	VisitEndDate   string    `json:"visitEndDate"`   // YYYY-MM-DD
	VisitTarget    string    `json:"visitTarget"`
	VisitPurpose   string    `json:"visitPurpose"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Registration is the submission payload sent to the server. ID is set
// only when editing an existing record.
type Registration struct {
	ID             string `json:"id,omitempty"`
	Department     string `json:"department"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	VisitStartDate string `json:"visitStartDate"`
	VisitEndDate   string `json:"visitEndDate"`
	VisitTarget    string `json:"visitTarget"`
	VisitPurpose   string `json:"visitPurpose"`
}
