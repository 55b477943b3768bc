package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// LoginView is the body of the login page.
type LoginView struct {
	Error string
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func row(tw *tabwriter.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func footer(w io.Writer, m ListMeta) {
	if m.Error != "" {
		fmt.Fprintf(w, "error: %s\n", m.Error)
	}
	fmt.Fprintf(w, "page %d/%d, %d records\n", m.Pager.Page, m.Pager.TotalPages, m.Pager.Total)
}

func PrintLeads(w io.Writer, v LeadListView) error {
	tw := newTable(w)
	row(tw, "ID", "NAME", "EMAIL", "PHONE", "SOURCE", "STATUS")
	for _, r := range v.Rows {
		row(tw, r.ID, r.Name, r.Email, r.Phone, r.Source, r.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(w, v.ListMeta)
	return nil
}

func PrintContacts(w io.Writer, v ContactListView) error {
	tw := newTable(w)
	row(tw, "ID", "FIRST NAME", "LAST NAME", "EMAIL", "PHONE")
	for _, r := range v.Rows {
		row(tw, r.ID, r.FirstName, r.LastName, r.Email, r.Phone)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(w, v.ListMeta)
	return nil
}

func PrintOpportunities(w io.Writer, v OpportunityListView) error {
	tw := newTable(w)
	row(tw, "ID", "NAME", "AMOUNT", "STAGE", "PROB", "WEIGHTED", "CLOSE")
	for _, r := range v.Rows {
		row(tw, r.ID, r.Name, r.Amount, r.Stage, fmt.Sprintf("%d%%", r.Probability), r.Weighted, r.ExpectedCloseDate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "weighted open pipeline: %s\n", v.PipelineValue)
	footer(w, v.ListMeta)
	return nil
}

func PrintFollowUps(w io.Writer, v FollowUpListView) error {
	tw := newTable(w)
	row(tw, "ID", "TYPE", "SUBJECT", "SCHEDULED", "RELATED", "STATE")
	for _, r := range v.Rows {
		state := "open"
		switch {
		case r.Completed:
			state = "done"
		case r.Overdue:
			state = "overdue"
		}
		row(tw, r.ID, r.Type, r.Subject, r.Scheduled, fmt.Sprintf("%s #%d", r.RelatedType, r.RelatedID), state)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(w, v.ListMeta)
	return nil
}

func PrintDashboard(w io.Writer, v DashboardView) error {
	if v.Error != "" {
		fmt.Fprintf(w, "error: %s\n", v.Error)
	}
	if v.Degraded {
		fmt.Fprintln(w, "statistics service unavailable, totals estimated from lists")
	}
	tw := newTable(w)
	for _, c := range v.Cards {
		row(tw, c.Label, c.Value, c.Delta)
	}
	return tw.Flush()
}

func PrintConversionModal(w io.Writer, v ConversionModalView) error {
	fmt.Fprintf(w, "lead #%d %s (status: %s)\n", v.LeadID, v.LeadName, v.CurrentStatus)
	tw := newTable(w)
	row(tw, "TARGET", "ACTION", "AVAILABLE")
	for _, a := range v.Actions {
		available := "no"
		if a.Enabled {
			available = "yes"
		}
		row(tw, a.Target, a.Label, available)
	}
	return tw.Flush()
}
