package entity

import (
	"strings"
	"time"
)

const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusQualified   = "qualified"
	LeadStatusConverted   = "converted"
	LeadStatusUnqualified = "unqualified"
	LeadStatusLost        = "lost"
	// LeadStatusContact marks a lead that now reads as a Contact.
	LeadStatusContact = "contact"
)

// LeadStatuses lists the statuses an operator can set on a lead form.
var LeadStatuses = []string{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusUnqualified,
	LeadStatusLost,
}

// LeadSources lists the acquisition channels offered on the lead form.
var LeadSources = []string{"website", "referral", "social_media", "email", "phone", "event", "other"}

// Lead is the root aggregate of the CRM. Contacts are never stored on their
// own: a contact is a lead whose status is "contact", read through AsContactView.
type Lead struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Source     string            `json:"source"`
	Status     string            `json:"status"`
	PipelineID *int64            `json:"pipeline_id,omitempty"`
	Stage      string            `json:"stage"`
	Notes      string            `json:"notes"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// IsContact reports whether the lead currently reads as a Contact.
func (l Lead) IsContact() bool {
	return l.Status == LeadStatusContact
}

// AsContactView projects the lead into the Contact shape. The contact keeps
// the lead's id.
func (l Lead) AsContactView() Contact {
	first, last := SplitName(l.Name)
	return Contact{
		ID:        l.ID,
		FirstName: first,
		LastName:  last,
		Email:     l.Email,
		Phone:     l.Phone,
		Status:    l.Status,
		Source:    l.Source,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// SplitName breaks a full name into the first word and the remainder.
// Runs of whitespace collapse, so first+" "+last rebuilds the name modulo
// whitespace.
func SplitName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// JoinName is the inverse of SplitName.
func JoinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// LeadInput is the payload for creating or updating a lead.
type LeadInput struct {
	Name       string            `json:"name"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Source     string            `json:"source,omitempty"`
	Status     string            `json:"status,omitempty"`
	PipelineID *int64            `json:"pipeline_id,omitempty"`
	Stage      string            `json:"stage,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}
