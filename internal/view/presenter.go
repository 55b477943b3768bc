package view

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/store"
)

const dateTimeLayout = "02/01/2006 15:04"

// Pager is the pagination strip under every list.
type Pager struct {
	Page       int
	TotalPages int
	Total      int
	PrevPage   int
	NextPage   int
	HasPrev    bool
	HasNext    bool
}

func NewPager(p store.Pagination) Pager {
	c := p.Clamp()
	return Pager{
		Page:       c.Page,
		TotalPages: c.TotalPages(),
		Total:      c.Total,
		PrevPage:   c.Page - 1,
		NextPage:   c.Page + 1,
		HasPrev:    c.HasPrev(),
		HasNext:    c.HasNext(),
	}
}

// ListMeta is shared by every list screen.
type ListMeta struct {
	Loading bool
	Error   string
	Search  string
	Pager   Pager
	Empty   bool
}

type LeadRow struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Source    string
	Status    string
	IsContact bool
	CreatedAt string
}

type LeadListView struct {
	ListMeta
	Rows     []LeadRow
	Statuses []string
	Sources  []string
	Form     FormModal
}

// LeadList builds the lead screen. The backend already searched; search is
// folded again here so accents and case match the way the operator typed.
func LeadList(s store.State, search string) LeadListView {
	leads := store.FilterLeads(s.Leads, search)
	rows := make([]LeadRow, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, LeadRow{
			ID:        l.ID,
			Name:      l.Name,
			Email:     l.Email,
			Phone:     l.Phone,
			Source:    l.Source,
			Status:    l.Status,
			IsContact: l.IsContact(),
			CreatedAt: formatTime(l.CreatedAt),
		})
	}
	return LeadListView{
		ListMeta: meta(s, store.EntityLeads, search, len(rows)),
		Rows:     rows,
		Statuses: entity.LeadStatuses,
		Sources:  entity.LeadSources,
		Form:     NewFormModal(s, store.ModalLead, "Lead"),
	}
}

type ContactRow struct {
	ID        int64
	FullName  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Source    string
}

type ContactListView struct {
	ListMeta
	Rows    []ContactRow
	Patient FormModal
}

func ContactList(s store.State, search string) ContactListView {
	contacts := store.FilterContacts(s.Contacts, search)
	rows := make([]ContactRow, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, ContactRow{
			ID:        c.ID,
			FullName:  c.FullName(),
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Source:    c.Source,
		})
	}
	return ContactListView{
		ListMeta: meta(s, store.EntityContacts, search, len(rows)),
		Rows:     rows,
		Patient:  NewFormModal(s, store.ModalPatient, "Patient"),
	}
}

type OpportunityRow struct {
	ID                int64
	LeadID            int64
	Name              string
	Amount            string
	Weighted          string
	Stage             string
	Probability       int
	ExpectedCloseDate string
	Closed            bool
}

type OpportunityListView struct {
	ListMeta
	Rows          []OpportunityRow
	Stages        []string
	PipelineValue string
	Form          FormModal
}

func OpportunityList(s store.State, search string) OpportunityListView {
	opps := store.FilterOpportunities(s.Opportunities, search)
	rows := make([]OpportunityRow, 0, len(opps))
	pipeline := decimal.Zero
	for _, o := range opps {
		row := OpportunityRow{
			ID:          o.ID,
			Name:        o.Name,
			Amount:      FormatMoney(o.Amount),
			Weighted:    FormatMoney(o.WeightedAmount()),
			Stage:       o.Stage,
			Probability: o.Probability,
			Closed:      o.IsClosed(),
		}
		if o.LeadID != nil {
			row.LeadID = *o.LeadID
		}
		if o.ExpectedCloseDate != nil {
			row.ExpectedCloseDate = o.ExpectedCloseDate.Format(entity.DateLayout)
		}
		if !o.IsClosed() {
			pipeline = pipeline.Add(o.WeightedAmount())
		}
		rows = append(rows, row)
	}
	return OpportunityListView{
		ListMeta:      meta(s, store.EntityOpportunities, search, len(rows)),
		Rows:          rows,
		Stages:        entity.OpportunityStages,
		PipelineValue: FormatMoney(pipeline),
		Form:          NewFormModal(s, store.ModalOpportunity, "Opportunity"),
	}
}

type FollowUpRow struct {
	ID          int64
	Type        string
	Subject     string
	Description string
	Scheduled   string
	Completed   bool
	Overdue     bool
	RelatedType string
	RelatedID   int64
}

type FollowUpListView struct {
	ListMeta
	Rows  []FollowUpRow
	Types []string
	Form  FormModal
}

func FollowUpList(s store.State, now time.Time) FollowUpListView {
	rows := make([]FollowUpRow, 0, len(s.FollowUps))
	for _, f := range s.FollowUps {
		rows = append(rows, FollowUpRow{
			ID:          f.ID,
			Type:        f.Type,
			Subject:     f.Subject,
			Description: f.Description,
			Scheduled:   formatTime(f.ScheduledDate),
			Completed:   f.Completed,
			Overdue:     f.IsOverdue(now),
			RelatedType: string(f.RelatedType),
			RelatedID:   f.RelatedID,
		})
	}
	return FollowUpListView{
		ListMeta: meta(s, store.EntityFollowUps, "", len(rows)),
		Rows:     rows,
		Types:    entity.FollowUpTypes,
		Form:     NewFormModal(s, store.ModalFollowUp, "Follow-up"),
	}
}

// Card is one dashboard counter.
type Card struct {
	Label string
	Value string
	Delta string
}

type DashboardView struct {
	Loading  bool
	Error    string
	Degraded bool
	Cards    []Card
}

func Dashboard(s store.State) DashboardView {
	v := DashboardView{Loading: s.IsLoading, Error: s.Error}
	if s.Statistics == nil {
		return v
	}
	st := s.Statistics
	v.Degraded = st.Degraded
	v.Cards = []Card{
		{Label: "Leads", Value: itoa(st.TotalLeads), Delta: delta(st.NewLeadsThisMonth)},
		{Label: "Contacts", Value: itoa(st.TotalContacts), Delta: delta(st.NewContactsThisMonth)},
		{Label: "Opportunities", Value: itoa(st.TotalOpportunities), Delta: delta(st.NewOpportunitiesThisMonth)},
		{Label: "Pipeline value", Value: FormatMoney(st.TotalValue)},
		{Label: "Conversion rate", Value: FormatPercent(st.ConversionRate)},
	}
	return v
}

// ConversionAction is one button of the conversion modal.
type ConversionAction struct {
	Target  entity.ConversionTarget
	Label   string
	Enabled bool
}

type ConversionModalView struct {
	Open          bool
	LeadID        int64
	LeadName      string
	CurrentStatus string
	Actions       []ConversionAction
	Error         string
	Stages        []string
}

var conversionLabels = map[entity.ConversionTarget]string{
	entity.TargetContact:       "Convert to contact",
	entity.TargetOpportunity:   "Create opportunity",
	entity.TargetPatient:       "Convert to patient",
	entity.TargetPatientDirect: "Create patient directly",
}

// ConversionModal lists one action per target. Enabled mirrors the options
// the backend returned; direct patient creation is always enabled. Without
// options only the direct action is enabled.
func ConversionModal(s store.State, lead entity.Lead) ConversionModalView {
	var opts entity.ConversionOptions
	if s.ConversionOptions != nil && s.ConversionOptions.LeadID == lead.ID {
		opts = *s.ConversionOptions
	}
	v := ConversionModalView{
		Open:          s.Modals[store.ModalConversion],
		LeadID:        lead.ID,
		LeadName:      lead.Name,
		CurrentStatus: opts.CurrentStatus,
		Error:         s.ModalErrors[store.ModalConversion],
		Stages:        entity.OpportunityStages,
	}
	if v.CurrentStatus == "" {
		v.CurrentStatus = lead.Status
	}
	for _, t := range entity.ConversionTargets {
		v.Actions = append(v.Actions, ConversionAction{
			Target:  t,
			Label:   conversionLabels[t],
			Enabled: opts.Allows(t),
		})
	}
	return v
}

// FormModal is the open/error state of a create/edit dialog.
type FormModal struct {
	Title string
	Open  bool
	Error string
}

func NewFormModal(s store.State, m store.Modal, title string) FormModal {
	return FormModal{
		Title: title,
		Open:  s.Modals[m],
		Error: s.ModalErrors[m],
	}
}

func meta(s store.State, e store.Entity, search string, rows int) ListMeta {
	return ListMeta{
		Loading: s.IsLoading,
		Error:   s.Error,
		Search:  search,
		Pager:   NewPager(s.Page(e)),
		Empty:   rows == 0 && !s.IsLoading,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}
