package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/store"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

// Actions are the operations the views trigger. Each one calls the backend
// and dispatches the outcome into the session's store. List failures land
// in the shared error; form failures land in the modal error and leave the
// modal open.
type Actions struct {
	Gateway   CRMGateway
	Store     *store.Store
	Convert   *ConvertLeadUseCase
	Validator *Validator
	log       *logger.Logger
}

func NewActions(gateway CRMGateway, st *store.Store, publisher EventPublisher, validator *Validator, log *logger.Logger) *Actions {
	if validator == nil {
		validator = NewValidator(nil)
	}
	return &Actions{
		Gateway:   gateway,
		Store:     st,
		Convert:   NewConvertLeadUseCase(gateway, publisher, validator, log),
		Validator: validator,
		log:       log.Component("actions"),
	}
}

// withPage fills page and per_page from the store when the caller left them out.
func (a *Actions) withPage(e store.Entity, f entity.ListFilter) entity.ListFilter {
	p := a.Store.State().Page(e)
	if f.Page <= 0 {
		f.Page = p.Page
	}
	if f.PerPage <= 0 {
		f.PerPage = p.PerPage
	}
	return f
}

func (a *Actions) fail(op string, err error) error {
	a.log.Warn().Err(err).Str("op", op).Msg("crm action failed")
	a.Store.Dispatch(store.FetchFailed{Err: Message(err)})
	return err
}

func (a *Actions) LoadLeads(ctx context.Context, f entity.ListFilter) error {
	a.Store.Dispatch(store.FetchStarted{}, store.PageChanged{Entity: store.EntityLeads, Page: f.Page, PerPage: f.PerPage})
	page, err := a.Gateway.ListLeads(ctx, a.withPage(store.EntityLeads, f))
	if err != nil {
		return a.fail("load leads", err)
	}
	a.Store.Dispatch(store.LeadsLoaded{Page: page})
	return nil
}

func (a *Actions) LoadContacts(ctx context.Context, f entity.ListFilter) error {
	a.Store.Dispatch(store.FetchStarted{}, store.PageChanged{Entity: store.EntityContacts, Page: f.Page, PerPage: f.PerPage})
	page, err := a.Gateway.ListContacts(ctx, a.withPage(store.EntityContacts, f))
	if err != nil {
		return a.fail("load contacts", err)
	}
	a.Store.Dispatch(store.ContactsLoaded{Page: page})
	return nil
}

func (a *Actions) LoadOpportunities(ctx context.Context, f entity.ListFilter) error {
	a.Store.Dispatch(store.FetchStarted{}, store.PageChanged{Entity: store.EntityOpportunities, Page: f.Page, PerPage: f.PerPage})
	page, err := a.Gateway.ListOpportunities(ctx, a.withPage(store.EntityOpportunities, f))
	if err != nil {
		return a.fail("load opportunities", err)
	}
	a.Store.Dispatch(store.OpportunitiesLoaded{Page: page})
	return nil
}

func (a *Actions) LoadFollowUps(ctx context.Context, f entity.ListFilter) error {
	a.Store.Dispatch(store.FetchStarted{}, store.PageChanged{Entity: store.EntityFollowUps, Page: f.Page, PerPage: f.PerPage})
	page, err := a.Gateway.ListFollowUps(ctx, a.withPage(store.EntityFollowUps, f))
	if err != nil {
		return a.fail("load follow-ups", err)
	}
	a.Store.Dispatch(store.FollowUpsLoaded{Page: page})
	return nil
}

func (a *Actions) LoadStatistics(ctx context.Context) error {
	a.Store.Dispatch(store.FetchStarted{})
	stats, err := a.Gateway.Statistics(ctx)
	if err != nil {
		return a.fail("load statistics", err)
	}
	a.Store.Dispatch(store.StatisticsLoaded{Stats: stats})
	return nil
}

func (a *Actions) modalFailed(m store.Modal, err error) error {
	a.Store.Dispatch(store.ModalFailed{Modal: m, Err: Message(err)})
	return err
}

// SaveLead creates the lead when id is 0 and updates it otherwise.
func (a *Actions) SaveLead(ctx context.Context, id int64, form LeadForm) (entity.Lead, error) {
	in, err := a.Validator.Lead(form)
	if err != nil {
		return entity.Lead{}, a.modalFailed(store.ModalLead, err)
	}

	var lead entity.Lead
	if id == 0 {
		lead, err = a.Gateway.CreateLead(ctx, in)
	} else {
		lead, err = a.Gateway.UpdateLead(ctx, id, in)
	}
	if err != nil {
		return entity.Lead{}, a.modalFailed(store.ModalLead, err)
	}

	a.Store.Dispatch(store.LeadSaved{Lead: lead})
	return lead, nil
}

func (a *Actions) DeleteLead(ctx context.Context, id int64) error {
	if err := a.Gateway.DeleteLead(ctx, id); err != nil {
		return a.fail("delete lead", err)
	}
	a.Store.Dispatch(store.LeadDeleted{ID: id})
	return nil
}

func (a *Actions) SaveOpportunity(ctx context.Context, id int64, form OpportunityForm) (entity.Opportunity, error) {
	in, err := a.Validator.Opportunity(form)
	if err != nil {
		return entity.Opportunity{}, a.modalFailed(store.ModalOpportunity, err)
	}

	var opp entity.Opportunity
	if id == 0 {
		opp, err = a.Gateway.CreateOpportunity(ctx, in)
	} else {
		opp, err = a.Gateway.UpdateOpportunity(ctx, id, in)
	}
	if err != nil {
		return entity.Opportunity{}, a.modalFailed(store.ModalOpportunity, err)
	}

	a.Store.Dispatch(store.OpportunitySaved{Opportunity: opp})
	return opp, nil
}

func (a *Actions) DeleteOpportunity(ctx context.Context, id int64) error {
	if err := a.Gateway.DeleteOpportunity(ctx, id); err != nil {
		return a.fail("delete opportunity", err)
	}
	a.Store.Dispatch(store.OpportunityDeleted{ID: id})
	return nil
}

func (a *Actions) SaveFollowUp(ctx context.Context, id int64, form FollowUpForm) (entity.FollowUp, error) {
	in, err := a.Validator.FollowUp(form)
	if err != nil {
		return entity.FollowUp{}, a.modalFailed(store.ModalFollowUp, err)
	}

	var f entity.FollowUp
	if id == 0 {
		f, err = a.Gateway.CreateFollowUp(ctx, in)
	} else {
		f, err = a.Gateway.UpdateFollowUp(ctx, id, in)
	}
	if err != nil {
		return entity.FollowUp{}, a.modalFailed(store.ModalFollowUp, err)
	}

	a.Store.Dispatch(store.FollowUpSaved{FollowUp: f})
	return f, nil
}

func (a *Actions) CompleteFollowUp(ctx context.Context, id int64) (entity.FollowUp, error) {
	done, err := a.Gateway.CompleteFollowUp(ctx, id)
	if err != nil {
		return entity.FollowUp{}, a.fail("complete follow-up", err)
	}

	// a bodiless answer only carries the id, keep the rest of the loaded record
	if done.Subject == "" {
		for _, f := range a.Store.State().FollowUps {
			if f.ID == id {
				f.Completed = true
				done = f
				break
			}
		}
	}
	a.Store.Dispatch(store.FollowUpSaved{FollowUp: done})
	return done, nil
}

func (a *Actions) DeleteFollowUp(ctx context.Context, id int64) error {
	if err := a.Gateway.DeleteFollowUp(ctx, id); err != nil {
		return a.fail("delete follow-up", err)
	}
	a.Store.Dispatch(store.FollowUpDeleted{ID: id})
	return nil
}

// LoadConversionOptions selects the lead and opens the conversion modal with
// what the backend allows.
func (a *Actions) LoadConversionOptions(ctx context.Context, leadID int64) (entity.ConversionOptions, error) {
	a.Store.Dispatch(store.Select{Entity: store.EntityLeads, ID: leadID}, store.OpenModal{Modal: store.ModalConversion})
	opts, err := a.Convert.Options(ctx, leadID)
	if err != nil {
		return entity.ConversionOptions{}, a.modalFailed(store.ModalConversion, err)
	}
	a.Store.Dispatch(store.ConversionOptionsLoaded{Options: opts})
	return opts, nil
}

// ConvertRequest is what the conversion modal submits.
type ConvertRequest struct {
	LeadID      int64
	Target      entity.ConversionTarget
	Opportunity OpportunityForm
	Patient     entity.PatientInput
}

func (a *Actions) ConvertLead(ctx context.Context, req ConvertRequest) (entity.ConversionResult, error) {
	lead, err := a.lead(ctx, req.LeadID)
	if err != nil {
		return entity.ConversionResult{}, a.modalFailed(store.ModalConversion, err)
	}

	in := ConvertLeadInput{
		Lead:        lead,
		Target:      req.Target,
		Opportunity: req.Opportunity,
		Patient:     req.Patient,
	}
	if opts := a.Store.State().ConversionOptions; opts != nil && opts.LeadID == lead.ID {
		in.Options = opts
	}

	res, err := a.Convert.Execute(ctx, in)
	if err != nil {
		return res, a.modalFailed(store.ModalConversion, err)
	}

	// eligibility changed with the conversion; the next one asks again
	actions := []store.Action{store.CloseModal{Modal: store.ModalConversion}, store.Select{Entity: store.EntityLeads}}
	updated := res.Lead
	if updated == nil && res.Target == entity.TargetContact {
		l := lead
		l.Status = entity.LeadStatusContact
		updated = &l
	}
	if updated != nil {
		actions = append(actions, store.LeadSaved{Lead: *updated})
	}
	if res.Opportunity != nil {
		actions = append(actions, store.OpportunitySaved{Opportunity: *res.Opportunity})
	}
	a.Store.Dispatch(actions...)
	return res, nil
}

// lead returns the lead from the store, or fetches it when the store has
// not loaded it.
func (a *Actions) lead(ctx context.Context, id int64) (entity.Lead, error) {
	for _, l := range a.Store.State().Leads {
		if l.ID == id {
			return l, nil
		}
	}
	l, err := a.Gateway.GetLead(ctx, id)
	if err != nil {
		return entity.Lead{}, backendError("load lead", err)
	}
	return l, nil
}

// ConvertContactToPatient creates a patient from a contact. Name, email and
// phone default to the contact's own.
func (a *Actions) ConvertContactToPatient(ctx context.Context, contactID int64, in entity.PatientInput) (entity.ConversionResult, error) {
	var contact entity.Contact
	for _, c := range a.Store.State().Contacts {
		if c.ID == contactID {
			contact = c
			break
		}
	}
	lead := entity.Lead{ID: contactID, Name: contact.FullName(), Email: contact.Email, Phone: contact.Phone, Notes: contact.Notes}
	in = entity.PatientInputFromLead(lead, in)

	if strings.TrimSpace(in.FirstName) == "" {
		return entity.ConversionResult{}, a.modalFailed(store.ModalPatient, ValidationErrors{{Field: "first_name", Message: "is required"}})
	}

	res, err := a.Gateway.ConvertContactToPatient(ctx, contactID, in)
	if err != nil {
		metrics.RecordConversion(string(entity.TargetPatient), "failed")
		return res, a.modalFailed(store.ModalPatient, backendError("convert contact to patient", err))
	}
	res.Target = entity.TargetPatient
	metrics.RecordConversion(string(entity.TargetPatient), "ok")

	a.Store.Dispatch(store.CloseModal{Modal: store.ModalPatient})
	a.Convert.publish(ctx, lead, res)
	return res, nil
}
