package store

import "github.com/xavierca1/ligue-crm/internal/entity"

// Entity names a list held by the store.
type Entity string

const (
	EntityLeads         Entity = "leads"
	EntityContacts      Entity = "contacts"
	EntityOpportunities Entity = "opportunities"
	EntityFollowUps     Entity = "followups"
)

// Modal names a dialog the views can show.
type Modal string

const (
	ModalLead        Modal = "lead"
	ModalOpportunity Modal = "opportunity"
	ModalFollowUp    Modal = "followup"
	ModalConversion  Modal = "conversion"
	ModalPatient     Modal = "patient"
)

// State is everything the views render from. IsLoading and Error are shared
// by all lists: one in-flight list load at a time is what the screens show.
type State struct {
	Leads         []entity.Lead
	Contacts      []entity.Contact
	Opportunities []entity.Opportunity
	FollowUps     []entity.FollowUp
	Statistics    *entity.CRMStatistics

	IsLoading bool
	Error     string

	Pages       map[Entity]Pagination
	Selected    map[Entity]int64
	Modals      map[Modal]bool
	ModalErrors map[Modal]string

	ConversionOptions *entity.ConversionOptions
}

// NewState returns an empty state with every map allocated.
func NewState() State {
	return State{
		Pages:       map[Entity]Pagination{},
		Selected:    map[Entity]int64{},
		Modals:      map[Modal]bool{},
		ModalErrors: map[Modal]string{},
	}
}

// Clone deep-copies the state so a snapshot can be handed out without the
// receiver being able to mutate the store through shared slices or maps.
func (s State) Clone() State {
	out := s
	out.Leads = cloneSlice(s.Leads)
	out.Contacts = cloneSlice(s.Contacts)
	out.Opportunities = cloneSlice(s.Opportunities)
	out.FollowUps = cloneSlice(s.FollowUps)
	if s.Statistics != nil {
		st := *s.Statistics
		out.Statistics = &st
	}
	if s.ConversionOptions != nil {
		o := *s.ConversionOptions
		out.ConversionOptions = &o
	}
	out.Pages = cloneMap(s.Pages)
	out.Selected = cloneMap(s.Selected)
	out.Modals = cloneMap(s.Modals)
	out.ModalErrors = cloneMap(s.ModalErrors)
	return out
}

// Page returns the pagination of e, defaulting to the first page.
func (s State) Page(e Entity) Pagination {
	p, ok := s.Pages[e]
	if !ok {
		return Pagination{Page: 1, PerPage: DefaultPerPage}
	}
	return p
}

// SelectedLead returns the selected lead, if it is loaded.
func (s State) SelectedLead() (entity.Lead, bool) {
	id, ok := s.Selected[EntityLeads]
	if !ok {
		return entity.Lead{}, false
	}
	for _, l := range s.Leads {
		if l.ID == id {
			return l, true
		}
	}
	return entity.Lead{}, false
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
