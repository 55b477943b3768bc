package store

import "github.com/xavierca1/ligue-crm/internal/entity"

// Reduce applies a to s and returns the next state. s is not modified.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch a := a.(type) {
	case FetchStarted:
		next.IsLoading = true
		next.Error = ""

	case FetchFailed:
		next.IsLoading = false
		next.Error = a.Err

	case LeadsLoaded:
		next.IsLoading = false
		next.Leads = nonNil(a.Page.Data)
		next.Pages[EntityLeads] = next.Page(EntityLeads).WithTotal(a.Page.Total)

	case ContactsLoaded:
		next.IsLoading = false
		next.Contacts = nonNil(a.Page.Data)
		next.Pages[EntityContacts] = next.Page(EntityContacts).WithTotal(a.Page.Total)

	case OpportunitiesLoaded:
		next.IsLoading = false
		next.Opportunities = nonNil(a.Page.Data)
		next.Pages[EntityOpportunities] = next.Page(EntityOpportunities).WithTotal(a.Page.Total)

	case FollowUpsLoaded:
		next.IsLoading = false
		next.FollowUps = nonNil(a.Page.Data)
		next.Pages[EntityFollowUps] = next.Page(EntityFollowUps).WithTotal(a.Page.Total)

	case StatisticsLoaded:
		next.IsLoading = false
		st := a.Stats
		next.Statistics = &st

	case LeadSaved:
		next.Leads = upsert(next.Leads, a.Lead, func(l entity.Lead) int64 { return l.ID })
		// the contacts list is a projection of the same records
		if a.Lead.IsContact() {
			next.Contacts = upsert(next.Contacts, a.Lead.AsContactView(), func(c entity.Contact) int64 { return c.ID })
		} else {
			next.Contacts = remove(next.Contacts, a.Lead.ID, func(c entity.Contact) int64 { return c.ID })
		}
		next.Modals[ModalLead] = false
		delete(next.ModalErrors, ModalLead)

	case LeadDeleted:
		next.Leads = remove(next.Leads, a.ID, func(l entity.Lead) int64 { return l.ID })
		next.Contacts = remove(next.Contacts, a.ID, func(c entity.Contact) int64 { return c.ID })
		next = clearSelection(next, EntityLeads, a.ID)

	case OpportunitySaved:
		next.Opportunities = upsert(next.Opportunities, a.Opportunity, func(o entity.Opportunity) int64 { return o.ID })
		next.Modals[ModalOpportunity] = false
		delete(next.ModalErrors, ModalOpportunity)

	case OpportunityDeleted:
		next.Opportunities = remove(next.Opportunities, a.ID, func(o entity.Opportunity) int64 { return o.ID })
		next = clearSelection(next, EntityOpportunities, a.ID)

	case FollowUpSaved:
		next.FollowUps = upsert(next.FollowUps, a.FollowUp, func(f entity.FollowUp) int64 { return f.ID })
		next.Modals[ModalFollowUp] = false
		delete(next.ModalErrors, ModalFollowUp)

	case FollowUpDeleted:
		next.FollowUps = remove(next.FollowUps, a.ID, func(f entity.FollowUp) int64 { return f.ID })
		next = clearSelection(next, EntityFollowUps, a.ID)

	case Select:
		if a.ID == 0 {
			delete(next.Selected, a.Entity)
		} else {
			next.Selected[a.Entity] = a.ID
		}
		if a.Entity == EntityLeads && (next.ConversionOptions == nil || next.ConversionOptions.LeadID != a.ID) {
			next.ConversionOptions = nil
		}

	case OpenModal:
		next.Modals[a.Modal] = true
		delete(next.ModalErrors, a.Modal)

	case CloseModal:
		next.Modals[a.Modal] = false
		delete(next.ModalErrors, a.Modal)

	case ModalFailed:
		next.Modals[a.Modal] = true
		next.ModalErrors[a.Modal] = a.Err

	case ConversionOptionsLoaded:
		opts := a.Options
		next.ConversionOptions = &opts

	case PageChanged:
		p := next.Page(a.Entity)
		if a.PerPage > 0 {
			p.PerPage = a.PerPage
		}
		if a.Page != 0 {
			p.Page = a.Page
		}
		// the upper bound is only known once a list has been loaded
		if p.Total > 0 {
			p = p.Clamp()
		} else if p.Page < 1 {
			p.Page = 1
		}
		next.Pages[a.Entity] = p

	case ClearError:
		next.Error = ""
	}

	return next
}

// upsert replaces the element with the same id or prepends v when the id is
// new. The whole record is replaced, fields are never merged.
func upsert[T any](list []T, v T, id func(T) int64) []T {
	for i := range list {
		if id(list[i]) == id(v) {
			list[i] = v
			return list
		}
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

func remove[T any](list []T, target int64, id func(T) int64) []T {
	out := list[:0:0]
	for _, v := range list {
		if id(v) != target {
			out = append(out, v)
		}
	}
	return out
}

func clearSelection(s State, e Entity, id int64) State {
	if s.Selected[e] == id {
		delete(s.Selected, e)
	}
	return s
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
