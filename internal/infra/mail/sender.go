package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var targetLabels = map[string]string{
	string(entity.TargetContact):       "contact",
	string(entity.TargetOpportunity):   "opportunity",
	string(entity.TargetPatient):       "patient",
	string(entity.TargetPatientDirect): "patient (direct)",
}

// NewEmailSender builds a sender. recipient is the CRM team inbox that gets
// conversion notices.
func NewEmailSender(host string, port int, user, password, from, recipient string) *EmailSender {
	return &EmailSender{
		From:      from,
		Recipient: recipient,
		dialer:    gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer swaps the SMTP transport.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

// NotifyConversion mails the CRM inbox about a conversion. It lets the sender
// serve as the queue worker's notifier.
func (s *EmailSender) NotifyConversion(_ context.Context, ev queue.ConversionEvent) error {
	return s.SendConversionNotice(s.Recipient, ev)
}

func (s *EmailSender) SendConversionNotice(to string, ev queue.ConversionEvent) error {
	label, ok := targetLabels[ev.Target]
	if !ok {
		label = ev.Target
	}
	data := ConversionNoticeData{
		LeadID:        ev.LeadID,
		LeadName:      ev.LeadName,
		Target:        label,
		Message:       ev.Message,
		PatientID:     ev.PatientID,
		OpportunityID: ev.OpportunityID,
		OccurredAt:    ev.OccurredAt.Format("02/01/2006 15:04"),
	}
	subject := fmt.Sprintf("Lead %s converted to %s", ev.LeadName, label)
	return s.send(to, subject, "conversion_notice.html", data)
}

func (s *EmailSender) SendFollowUpReminder(to string, f entity.FollowUp) error {
	data := FollowUpReminderData{
		Subject:     f.Subject,
		Type:        f.Type,
		Description: f.Description,
		Scheduled:   f.ScheduledDate.Format("02/01/2006 15:04"),
		RelatedType: string(f.RelatedType),
		RelatedID:   f.RelatedID,
	}
	return s.send(to, "Reminder: "+f.Subject, "followup_reminder.html", data)
}

func (s *EmailSender) send(to, subject, tmpl string, data any) error {
	if to == "" {
		return fmt.Errorf("no recipient for %q", subject)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp mail: %w", err)
	}
	return nil
}
