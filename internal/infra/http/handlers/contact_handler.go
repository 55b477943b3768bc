package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/view"
)

func (h *CRMHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	a := h.actions(r)
	_ = a.LoadContacts(r.Context(), listFilter(r))
	h.render(w, r, http.StatusOK, "contacts", "Contacts", view.ContactList(a.Store.State(), r.URL.Query().Get("search")))
}

// ConvertContactToPatient creates the patient for a contact. Missing name,
// email and phone are taken from the contact.
func (h *CRMHandler) ConvertContactToPatient(w http.ResponseWriter, r *http.Request) {
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
	if _, err := a.ConvertContactToPatient(r.Context(), id, patientInput(r)); err != nil {
		h.render(w, r, statusFor(err), "contacts", "Contacts", view.ContactList(a.Store.State(), ""))
		return
	}
	redirect(w, r, "/contacts")
}
