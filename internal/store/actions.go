package store

import "github.com/xavierca1/ligue-crm/internal/entity"

// Action is a state transition request. Only the types in this file
// implement it.
type Action interface {
	action()
}

type FetchStarted struct{}

// FetchFailed sets the shared error and stops loading.
type FetchFailed struct {
	Err string
}

type LeadsLoaded struct {
	Page entity.Page[entity.Lead]
}

type ContactsLoaded struct {
	Page entity.Page[entity.Contact]
}

type OpportunitiesLoaded struct {
	Page entity.Page[entity.Opportunity]
}

type FollowUpsLoaded struct {
	Page entity.Page[entity.FollowUp]
}

type StatisticsLoaded struct {
	Stats entity.CRMStatistics
}

type LeadSaved struct {
	Lead entity.Lead
}

type LeadDeleted struct {
	ID int64
}

type OpportunitySaved struct {
	Opportunity entity.Opportunity
}

type OpportunityDeleted struct {
	ID int64
}

type FollowUpSaved struct {
	FollowUp entity.FollowUp
}

type FollowUpDeleted struct {
	ID int64
}

// Select marks one record of a list as the current one. ID 0 clears it.
type Select struct {
	Entity Entity
	ID     int64
}

type OpenModal struct {
	Modal Modal
}

type CloseModal struct {
	Modal Modal
}

// ModalFailed records a form error; the modal stays open.
type ModalFailed struct {
	Modal Modal
	Err   string
}

type ConversionOptionsLoaded struct {
	Options entity.ConversionOptions
}

type PageChanged struct {
	Entity  Entity
	Page    int
	PerPage int
}

type ClearError struct{}

func (FetchStarted) action()            {}
func (FetchFailed) action()             {}
func (LeadsLoaded) action()             {}
func (ContactsLoaded) action()          {}
func (OpportunitiesLoaded) action()     {}
func (FollowUpsLoaded) action()         {}
func (StatisticsLoaded) action()        {}
func (LeadSaved) action()               {}
func (LeadDeleted) action()             {}
func (OpportunitySaved) action()        {}
func (OpportunityDeleted) action()      {}
func (FollowUpSaved) action()           {}
func (FollowUpDeleted) action()         {}
func (Select) action()                  {}
func (OpenModal) action()               {}
func (CloseModal) action()              {}
func (ModalFailed) action()             {}
func (ConversionOptionsLoaded) action() {}
func (PageChanged) action()             {}
func (ClearError) action()              {}
