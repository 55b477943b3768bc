package crmapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var errMissingID = errors.New("record without id")

func toLead(d leadDTO) (entity.Lead, error) {
	if d.ID == nil || *d.ID <= 0 {
		return entity.Lead{}, fmt.Errorf("lead: %w", errMissingID)
	}
	lead := entity.Lead{
		ID:        int64(*d.ID),
		Name:      strings.TrimSpace(d.Name),
		Email:     d.Email,
		Phone:     d.Phone,
		Source:    d.Source,
		Status:    d.Status,
		Stage:     d.Stage,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt.Time,
		UpdatedAt: d.UpdatedAt.Time,
	}
	if d.PipelineID != nil {
		id := int64(*d.PipelineID)
		lead.PipelineID = &id
	}
	if len(d.Metadata) > 0 {
		lead.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			if v == nil {
				lead.Metadata[k] = ""
				continue
			}
			lead.Metadata[k] = fmt.Sprint(v)
		}
	}
	return lead, nil
}

func toOpportunity(d opportunityDTO) (entity.Opportunity, error) {
	if d.ID == nil || *d.ID <= 0 {
		return entity.Opportunity{}, fmt.Errorf("opportunity: %w", errMissingID)
	}
	name := d.Name
	if name == "" {
		name = d.Title
	}
	amount := decimal.Zero
	if d.Amount.Valid {
		amount = d.Amount.Decimal
	}
	o := entity.Opportunity{
		ID:                int64(*d.ID),
		Name:              name,
		Amount:            amount,
		Stage:             d.Stage,
		ExpectedCloseDate: d.ExpectedCloseDate.ptr(),
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt.Time,
		UpdatedAt:         d.UpdatedAt.Time,
	}
	if o.Stage == "" {
		o.Stage = entity.StageProspecting
	}
	if d.Probability != nil {
		o.Probability = clampPercent(int(*d.Probability))
	}
	if d.LeadID != nil && *d.LeadID > 0 {
		id := int64(*d.LeadID)
		o.LeadID = &id
	}
	return o, nil
}

func toFollowUp(d taskDTO) (entity.FollowUp, error) {
	if d.ID == nil || *d.ID <= 0 {
		return entity.FollowUp{}, fmt.Errorf("task: %w", errMissingID)
	}
	subject := d.Title
	if subject == "" {
		subject = d.Subject
	}
	scheduled := d.DueDate.Time
	if scheduled.IsZero() {
		scheduled = d.ScheduledDate.Time
	}
	completed := d.Status == "completed" || !d.CompletedAt.IsZero()
	if d.Completed != nil {
		completed = *d.Completed
	}
	f := entity.FollowUp{
		ID:            int64(*d.ID),
		Type:          d.Type,
		Subject:       subject,
		Description:   d.Description,
		ScheduledDate: scheduled,
		Completed:     completed,
		RelatedType:   entity.RelatedTypeFromSubject(d.SubjectType),
		CreatedAt:     d.CreatedAt.Time,
		UpdatedAt:     d.UpdatedAt.Time,
	}
	if f.Type == "" {
		f.Type = entity.FollowUpNote
	}
	if d.SubjectID != nil {
		f.RelatedID = int64(*d.SubjectID)
	}
	return f, nil
}

// mapRecords converts every record it can. Records that fail, such as
// ones without an id, are dropped and their errors returned for logging.
func mapRecords[D, E any](ds []D, conv func(D) (E, error)) ([]E, []error) {
	out := make([]E, 0, len(ds))
	var skipped []error
	for _, d := range ds {
		e, err := conv(d)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		out = append(out, e)
	}
	return out, skipped
}

func toTaskRequest(in entity.FollowUpInput) (taskRequest, error) {
	subjectType, err := in.RelatedType.SubjectType()
	if err != nil {
		return taskRequest{}, err
	}
	status := "pending"
	if in.Completed {
		status = "completed"
	}
	return taskRequest{
		Title:       in.Subject,
		Description: in.Description,
		Type:        in.Type,
		DueDate:     in.ScheduledDate.Format("2006-01-02T15:04:05Z07:00"),
		Status:      status,
		SubjectType: subjectType,
		SubjectID:   in.RelatedID,
	}, nil
}

func toPatient(d patientDTO) entity.Patient {
	p := entity.Patient{
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Phone:       d.Phone,
		DateOfBirth: d.DateOfBirth,
		Gender:      d.Gender,
	}
	if d.ID != nil {
		p.ID = int64(*d.ID)
	}
	if p.FirstName == "" && p.LastName == "" {
		p.FirstName, p.LastName = entity.SplitName(d.Name)
	}
	return p
}

func toConversionOptions(leadID int64, d conversionOptionsDTO) entity.ConversionOptions {
	opts := entity.ConversionOptions{
		LeadID:                  leadID,
		CurrentStatus:           d.CurrentStatus,
		CanConvertToContact:     d.CanConvertToContact,
		CanConvertToOpportunity: d.CanConvertToOpportunity,
		CanConvertToPatient:     d.CanConvertToPatient,
	}
	if d.LeadID != nil && *d.LeadID > 0 {
		opts.LeadID = int64(*d.LeadID)
	}
	return opts
}

func toStatistics(d statisticsDTO) entity.CRMStatistics {
	value := decimal.Zero
	if d.TotalValue.Valid {
		value = d.TotalValue.Decimal
	}
	return entity.CRMStatistics{
		TotalLeads:                int(d.TotalLeads),
		TotalContacts:             int(d.TotalContacts),
		TotalOpportunities:        int(d.TotalOpportunities),
		TotalValue:                value,
		ConversionRate:            float64(d.ConversionRate),
		NewLeadsThisMonth:         int(d.NewLeadsThisMonth),
		NewContactsThisMonth:      int(d.NewContactsThisMonth),
		NewOpportunitiesThisMonth: int(d.NewOpportunitiesThisMonth),
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
