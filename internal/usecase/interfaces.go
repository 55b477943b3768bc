package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type LeadGateway interface {
	ListLeads(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Lead], error)
	GetLead(ctx context.Context, id int64) (entity.Lead, error)
	CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error)
	UpdateLead(ctx context.Context, id int64, in entity.LeadInput) (entity.Lead, error)
	DeleteLead(ctx context.Context, id int64) error
}

type ContactGateway interface {
	ListContacts(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Contact], error)
	ConvertContactToPatient(ctx context.Context, contactID int64, in entity.PatientInput) (entity.ConversionResult, error)
}

type OpportunityGateway interface {
	ListOpportunities(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Opportunity], error)
	CreateOpportunity(ctx context.Context, in entity.OpportunityInput) (entity.Opportunity, error)
	UpdateOpportunity(ctx context.Context, id int64, in entity.OpportunityInput) (entity.Opportunity, error)
	DeleteOpportunity(ctx context.Context, id int64) error
}

type FollowUpGateway interface {
	ListFollowUps(ctx context.Context, f entity.ListFilter) (entity.Page[entity.FollowUp], error)
	CreateFollowUp(ctx context.Context, in entity.FollowUpInput) (entity.FollowUp, error)
	UpdateFollowUp(ctx context.Context, id int64, in entity.FollowUpInput) (entity.FollowUp, error)
	CompleteFollowUp(ctx context.Context, id int64) (entity.FollowUp, error)
	DeleteFollowUp(ctx context.Context, id int64) error
}

type ConversionGateway interface {
	ConversionOptions(ctx context.Context, leadID int64) (entity.ConversionOptions, error)
	ConvertToContact(ctx context.Context, leadID int64) (entity.ConversionResult, error)
	ConvertToOpportunity(ctx context.Context, leadID int64, in entity.OpportunityInput) (entity.ConversionResult, error)
	ConvertLeadToPatient(ctx context.Context, leadID int64, in entity.PatientInput) (entity.ConversionResult, error)
	CreatePatientFromLead(ctx context.Context, leadID int64, in entity.PatientInput) (entity.ConversionResult, error)
}

type StatisticsGateway interface {
	Statistics(ctx context.Context) (entity.CRMStatistics, error)
}

// CRMGateway is everything the actions need from the backend.
// crmapi.Client implements it.
type CRMGateway interface {
	LeadGateway
	ContactGateway
	OpportunityGateway
	FollowUpGateway
	ConversionGateway
	StatisticsGateway
}

type EventPublisher interface {
	PublishConversion(ctx context.Context, ev queue.ConversionEvent) error
}
