package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/store"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/internal/view"
)

func (h *CRMHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	a := h.actions(r)
	if r.URL.Query().Has("new") {
		a.Store.Dispatch(store.OpenModal{Modal: store.ModalLead})
	}
	// a failed load is shown through the store's error
	_ = a.LoadLeads(r.Context(), listFilter(r))
	h.render(w, r, http.StatusOK, "leads", "Leads", view.LeadList(a.Store.State(), r.URL.Query().Get("search")))
}

func (h *CRMHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	h.saveLead(w, r, 0)
}

func (h *CRMHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.saveLead(w, r, id)
}

func (h *CRMHandler) saveLead(w http.ResponseWriter, r *http.Request, id int64) {
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	a := h.actions(r)
	if _, err := a.SaveLead(r.Context(), id, leadForm(r)); err != nil {
		h.render(w, r, statusFor(err), "leads", "Leads", view.LeadList(a.Store.State(), ""))
		return
	}
	redirect(w, r, "/leads")
}

func (h *CRMHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a := h.actions(r)
	if err := a.DeleteLead(r.Context(), id); err != nil {
		h.render(w, r, statusFor(err), "leads", "Leads", view.LeadList(a.Store.State(), ""))
		return
	}
	redirect(w, r, "/leads")
}

// ConvertLeadPage opens the conversion modal with the options the backend
// reports for the lead.
func (h *CRMHandler) ConvertLeadPage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a := h.actions(r)
	lead, err := h.lead(r, a, id)
	if err != nil {
		h.render(w, r, statusFor(err), "leads", "Leads", view.LeadList(a.Store.State(), ""))
		return
	}

	status := http.StatusOK
	if _, err := a.LoadConversionOptions(r.Context(), id); err != nil {
		status = statusFor(err)
	}
	h.render(w, r, status, "convert", "Convert "+lead.Name, view.ConversionModal(a.Store.State(), lead))
}

func (h *CRMHandler) ConvertLead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	a := h.actions(r)
	req := usecase.ConvertRequest{
		LeadID:      id,
		Target:      entity.ConversionTarget(field(r, "target")),
		Opportunity: opportunityForm(r),
		Patient:     patientInput(r),
	}
	res, err := a.ConvertLead(r.Context(), req)
	if err != nil {
		lead, lerr := h.lead(r, a, id)
		if lerr != nil {
			lead = entity.Lead{ID: id}
		}
		h.render(w, r, statusFor(err), "convert", "Convert "+lead.Name, view.ConversionModal(a.Store.State(), lead))
		return
	}

	switch {
	case res.Patient != nil:
		redirect(w, r, "/contacts")
	case res.Opportunity != nil:
		redirect(w, r, "/opportunities")
	case res.Target == entity.TargetContact:
		redirect(w, r, "/contacts")
	default:
		redirect(w, r, "/leads")
	}
}

func (h *CRMHandler) lead(r *http.Request, a *usecase.Actions, id int64) (entity.Lead, error) {
	for _, l := range a.Store.State().Leads {
		if l.ID == id {
			return l, nil
		}
	}
	return a.Gateway.GetLead(r.Context(), id)
}
