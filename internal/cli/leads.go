package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/internal/view"
)

// userError flattens validation and domain errors into the text an
// operator should read.
func userError(err error) error {
	return errors.New(usecase.Message(err))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

type listFlags struct {
	status  string
	source  string
	stage   string
	search  string
	page    int
	perPage int
}

func (f *listFlags) bind(cmd *cobra.Command, status, source, stage bool) {
	if status {
		cmd.Flags().StringVar(&f.status, "status", "", "Filter by status")
	}
	if source {
		cmd.Flags().StringVar(&f.source, "source", "", "Filter by source")
	}
	if stage {
		cmd.Flags().StringVar(&f.stage, "stage", "", "Filter by stage")
	}
	cmd.Flags().StringVar(&f.search, "search", "", "Search by name, email or phone")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.perPage, "per-page", 0, "Records per page")
}

func (f listFlags) filter() entity.ListFilter {
	return entity.ListFilter{Search: f.search, Status: f.status, Source: f.source, Stage: f.stage, Page: f.page, PerPage: f.perPage}
}

func newLeadsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List, edit and convert leads",
	}
	cmd.AddCommand(newLeadsListCmd(a), newLeadsCreateCmd(a), newLeadsUpdateCmd(a), newLeadsDeleteCmd(a), newLeadsConvertCmd(a))
	return cmd
}

func newLeadsListCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.actions.LoadLeads(cmd.Context(), lf.filter()); err != nil {
				return err
			}
			v := view.LeadList(a.actions.Store.State(), lf.search)
			if a.jsonOut {
				return a.printJSON(v.Rows)
			}
			return view.PrintLeads(a.out, v)
		},
	}
	lf.bind(cmd, true, true, false)
	return cmd
}

func bindLeadForm(cmd *cobra.Command, f *usecase.LeadForm) {
	cmd.Flags().StringVar(&f.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&f.Email, "email", "", "Email")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "Phone")
	cmd.Flags().StringVar(&f.Source, "source", "", "Source (website, referral, ...)")
	cmd.Flags().StringVar(&f.Status, "status", "", "Status")
	cmd.Flags().StringVar(&f.Stage, "stage", "", "Pipeline stage")
	cmd.Flags().StringVar(&f.Notes, "notes", "", "Notes")
}

func newLeadsCreateCmd(a *app) *cobra.Command {
	var form usecase.LeadForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Capture a lead",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lead, err := a.actions.SaveLead(cmd.Context(), 0, form)
			if err != nil {
				return userError(err)
			}
			if a.jsonOut {
				return a.printJSON(lead)
			}
			fmt.Fprintf(a.out, "Lead %d created\n", lead.ID)
			return nil
		},
	}
	bindLeadForm(cmd, &form)
	return cmd
}

// newLeadsUpdateCmd only changes the fields whose flags were given; the
// rest is taken from the stored lead.
func newLeadsUpdateCmd(a *app) *cobra.Command {
	var form usecase.LeadForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.actions.Gateway.GetLead(cmd.Context(), id)
			if err != nil {
				return err
			}
			merged := usecase.LeadForm{
				Name: current.Name, Email: current.Email, Phone: current.Phone,
				Source: current.Source, Status: current.Status, Stage: current.Stage, Notes: current.Notes,
			}
			flags := cmd.Flags()
			for name, dst := range map[string]*string{
				"name": &merged.Name, "email": &merged.Email, "phone": &merged.Phone,
				"source": &merged.Source, "status": &merged.Status, "stage": &merged.Stage, "notes": &merged.Notes,
			} {
				if flags.Changed(name) {
					*dst, _ = flags.GetString(name)
				}
			}

			lead, err := a.actions.SaveLead(cmd.Context(), id, merged)
			if err != nil {
				return userError(err)
			}
			if a.jsonOut {
				return a.printJSON(lead)
			}
			fmt.Fprintf(a.out, "Lead %d updated\n", lead.ID)
			return nil
		},
	}
	bindLeadForm(cmd, &form)
	return cmd
}

func newLeadsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.actions.DeleteLead(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Lead %d deleted\n", id)
			return nil
		},
	}
}

// newLeadsConvertCmd shows the conversion options of a lead, or converts it
// when --target is given.
func newLeadsConvertCmd(a *app) *cobra.Command {
	var (
		target  string
		opp     usecase.OpportunityForm
		patient entity.PatientInput
	)
	cmd := &cobra.Command{
		Use:   "convert <id>",
		Short: "Show conversion options or convert a lead",
		Long: `Without --target, prints what the lead may be converted into.
Targets: contact, opportunity, patient (through contact), patient_direct.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if target == "" {
				lead, err := a.actions.Gateway.GetLead(ctx, id)
				if err != nil {
					return err
				}
				if _, err := a.actions.LoadConversionOptions(ctx, id); err != nil {
					return err
				}
				v := view.ConversionModal(a.actions.Store.State(), lead)
				if a.jsonOut {
					return a.printJSON(v)
				}
				return view.PrintConversionModal(a.out, v)
			}

			t, err := entity.ParseConversionTarget(target)
			if err != nil {
				return err
			}
			if err := a.withEvents(); err != nil {
				return err
			}
			res, err := a.actions.ConvertLead(ctx, usecase.ConvertRequest{LeadID: id, Target: t, Opportunity: opp, Patient: patient})
			if err != nil {
				return userError(err)
			}
			if a.jsonOut {
				return a.printJSON(res)
			}
			printConversion(a, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "contact, opportunity, patient or patient_direct")
	bindOpportunityForm(cmd, &opp)
	bindPatientInput(cmd, &patient)
	return cmd
}

func printConversion(a *app, res entity.ConversionResult) {
	msg := res.Message
	if msg == "" {
		msg = "Conversion done"
	}
	fmt.Fprintf(a.out, "%s (%s, %d request(s))\n", msg, res.Target, res.Calls)
	if res.Opportunity != nil {
		fmt.Fprintf(a.out, "Opportunity %d: %s\n", res.Opportunity.ID, res.Opportunity.Name)
	}
	if res.Patient != nil {
		fmt.Fprintf(a.out, "Patient %d: %s\n", res.Patient.ID, res.Patient.FullName())
	}
}

func bindPatientInput(cmd *cobra.Command, p *entity.PatientInput) {
	cmd.Flags().StringVar(&p.FirstName, "first-name", "", "Patient first name (defaults to the lead's)")
	cmd.Flags().StringVar(&p.LastName, "last-name", "", "Patient last name")
	cmd.Flags().StringVar(&p.DateOfBirth, "date-of-birth", "", "Patient date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.Gender, "gender", "", "Patient gender")
}
