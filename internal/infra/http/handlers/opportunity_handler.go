package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/store"
	"github.com/xavierca1/ligue-crm/internal/view"
)

func (h *CRMHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	a := h.actions(r)
	if r.URL.Query().Has("new") {
		a.Store.Dispatch(store.OpenModal{Modal: store.ModalOpportunity})
	}
	_ = a.LoadOpportunities(r.Context(), listFilter(r))
	h.render(w, r, http.StatusOK, "opportunities", "Opportunities", view.OpportunityList(a.Store.State(), r.URL.Query().Get("search")))
}

func (h *CRMHandler) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	h.saveOpportunity(w, r, 0)
}

func (h *CRMHandler) UpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.saveOpportunity(w, r, id)
}

func (h *CRMHandler) saveOpportunity(w http.ResponseWriter, r *http.Request, id int64) {
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	a := h.actions(r)
	if _, err := a.SaveOpportunity(r.Context(), id, opportunityForm(r)); err != nil {
		h.render(w, r, statusFor(err), "opportunities", "Opportunities", view.OpportunityList(a.Store.State(), ""))
		return
	}
	redirect(w, r, "/opportunities")
}

func (h *CRMHandler) DeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a := h.actions(r)
	if err := a.DeleteOpportunity(r.Context(), id); err != nil {
		h.render(w, r, statusFor(err), "opportunities", "Opportunities", view.OpportunityList(a.Store.State(), ""))
		return
	}
	redirect(w, r, "/opportunities")
}
