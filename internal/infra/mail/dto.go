package mail

import "gopkg.in/gomail.v2"

type ConversionNoticeData struct {
	LeadID        int64
	LeadName      string
	Target        string
	Message       string
	PatientID     int64
	OpportunityID int64
	OccurredAt    string
}

type FollowUpReminderData struct {
	Subject     string
	Type        string
	Description string
	Scheduled   string
	RelatedType string
	RelatedID   int64
}

// Dialer is the part of *gomail.Dialer the sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From      string
	Recipient string
	dialer    Dialer
}
