package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListLeads(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Lead], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(entity.Page[entity.Lead]), args.Error(1)
}

func (m *MockGateway) GetLead(ctx context.Context, id int64) (entity.Lead, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockGateway) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockGateway) UpdateLead(ctx context.Context, id int64, in entity.LeadInput) (entity.Lead, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockGateway) DeleteLead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) ListContacts(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Contact], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(entity.Page[entity.Contact]), args.Error(1)
}

func (m *MockGateway) ConvertContactToPatient(ctx context.Context, contactID int64, in entity.PatientInput) (entity.ConversionResult, error) {
	args := m.Called(ctx, contactID, in)
	return args.Get(0).(entity.ConversionResult), args.Error(1)
}

func (m *MockGateway) ListOpportunities(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Opportunity], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(entity.Page[entity.Opportunity]), args.Error(1)
}

func (m *MockGateway) CreateOpportunity(ctx context.Context, in entity.OpportunityInput) (entity.Opportunity, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Opportunity), args.Error(1)
}

func (m *MockGateway) UpdateOpportunity(ctx context.Context, id int64, in entity.OpportunityInput) (entity.Opportunity, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(entity.Opportunity), args.Error(1)
}

func (m *MockGateway) DeleteOpportunity(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) ListFollowUps(ctx context.Context, f entity.ListFilter) (entity.Page[entity.FollowUp], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(entity.Page[entity.FollowUp]), args.Error(1)
}

func (m *MockGateway) CreateFollowUp(ctx context.Context, in entity.FollowUpInput) (entity.FollowUp, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.FollowUp), args.Error(1)
}

func (m *MockGateway) UpdateFollowUp(ctx context.Context, id int64, in entity.FollowUpInput) (entity.FollowUp, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(entity.FollowUp), args.Error(1)
}

func (m *MockGateway) CompleteFollowUp(ctx context.Context, id int64) (entity.FollowUp, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.FollowUp), args.Error(1)
}

func (m *MockGateway) DeleteFollowUp(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) ConversionOptions(ctx context.Context, leadID int64) (entity.ConversionOptions, error) {
	args := m.Called(ctx, leadID)
	return args.Get(0).(entity.ConversionOptions), args.Error(1)
}

func (m *MockGateway) ConvertToContact(ctx context.Context, leadID int64) (entity.ConversionResult, error) {
	args := m.Called(ctx, leadID)
	return args.Get(0).(entity.ConversionResult), args.Error(1)
}

func (m *MockGateway) ConvertToOpportunity(ctx context.Context, leadID int64, in entity.OpportunityInput) (entity.ConversionResult, error) {
	args := m.Called(ctx, leadID, in)
	return args.Get(0).(entity.ConversionResult), args.Error(1)
}

func (m *MockGateway) ConvertLeadToPatient(ctx context.Context, leadID int64, in entity.PatientInput) (entity.ConversionResult, error) {
	args := m.Called(ctx, leadID, in)
	return args.Get(0).(entity.ConversionResult), args.Error(1)
}

func (m *MockGateway) CreatePatientFromLead(ctx context.Context, leadID int64, in entity.PatientInput) (entity.ConversionResult, error) {
	args := m.Called(ctx, leadID, in)
	return args.Get(0).(entity.ConversionResult), args.Error(1)
}

func (m *MockGateway) Statistics(ctx context.Context) (entity.CRMStatistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.CRMStatistics), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishConversion(ctx context.Context, ev queue.ConversionEvent) error {
	return m.Called(ctx, ev).Error(0)
}
