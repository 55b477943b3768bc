package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/store"
	"github.com/xavierca1/ligue-crm/internal/view"
)

func (h *CRMHandler) ListFollowUps(w http.ResponseWriter, r *http.Request) {
	a := h.actions(r)
	if r.URL.Query().Has("new") {
		a.Store.Dispatch(store.OpenModal{Modal: store.ModalFollowUp})
	}
	_ = a.LoadFollowUps(r.Context(), listFilter(r))
	h.render(w, r, http.StatusOK, "followups", "Follow-ups", view.FollowUpList(a.Store.State(), h.now()))
}

func (h *CRMHandler) CreateFollowUp(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	a := h.actions(r)
	if _, err := a.SaveFollowUp(r.Context(), 0, followUpForm(r)); err != nil {
		h.render(w, r, statusFor(err), "followups", "Follow-ups", view.FollowUpList(a.Store.State(), h.now()))
		return
	}
	redirect(w, r, "/followups")
}

func (h *CRMHandler) CompleteFollowUp(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a := h.actions(r)
	if _, err := a.CompleteFollowUp(r.Context(), id); err != nil {
		h.render(w, r, statusFor(err), "followups", "Follow-ups", view.FollowUpList(a.Store.State(), h.now()))
		return
	}
	redirect(w, r, "/followups")
}

func (h *CRMHandler) DeleteFollowUp(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a := h.actions(r)
	if err := a.DeleteFollowUp(r.Context(), id); err != nil {
		h.render(w, r, statusFor(err), "followups", "Follow-ups", view.FollowUpList(a.Store.State(), h.now()))
		return
	}
	redirect(w, r, "/followups")
}
