package entity

import (
	"fmt"
	"time"
)

const (
	FollowUpCall    = "call"
	FollowUpEmail   = "email"
	FollowUpMeeting = "meeting"
	FollowUpNote    = "note"
)

var FollowUpTypes = []string{FollowUpCall, FollowUpEmail, FollowUpMeeting, FollowUpNote}

// RelatedType is the CRM entity a follow-up hangs off.
type RelatedType string

const (
	RelatedLead        RelatedType = "lead"
	RelatedContact     RelatedType = "contact"
	RelatedOpportunity RelatedType = "opportunity"
)

// Backend subject types for tasks.
const (
	SubjectCrmLead        = "CrmLead"
	SubjectCrmOpportunity = "CrmOpportunity"
)

// SubjectType maps the related entity to the backend's polymorphic task
// subject. Contacts are leads, so they share CrmLead.
func (r RelatedType) SubjectType() (string, error) {
	switch r {
	case RelatedLead, RelatedContact:
		return SubjectCrmLead, nil
	case RelatedOpportunity:
		return SubjectCrmOpportunity, nil
	default:
		return "", fmt.Errorf("unknown related type %q", r)
	}
}

// RelatedTypeFromSubject is the reverse mapping. A CrmLead subject is reported
// as a lead because the task alone cannot tell a lead from a contact.
func RelatedTypeFromSubject(subject string) RelatedType {
	switch subject {
	case SubjectCrmOpportunity:
		return RelatedOpportunity
	case SubjectCrmLead:
		return RelatedLead
	default:
		return ""
	}
}

// FollowUp is the CRM view of a backend task.
type FollowUp struct {
	ID            int64       `json:"id"`
	Type          string      `json:"type"`
	Subject       string      `json:"subject"`
	Description   string      `json:"description"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	Completed     bool        `json:"completed"`
	RelatedType   RelatedType `json:"related_type"`
	RelatedID     int64       `json:"related_id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// IsOverdue reports whether an open follow-up is past its schedule.
func (f FollowUp) IsOverdue(now time.Time) bool {
	return !f.Completed && !f.ScheduledDate.IsZero() && f.ScheduledDate.Before(now)
}

// FollowUpInput is the create/update payload before it is turned into a task.
type FollowUpInput struct {
	Type          string
	Subject       string
	Description   string
	ScheduledDate time.Time
	RelatedType   RelatedType
	RelatedID     int64
	Completed     bool
}
