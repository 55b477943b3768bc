package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/internal/view"
)

func bindOpportunityForm(cmd *cobra.Command, f *usecase.OpportunityForm) {
	cmd.Flags().StringVar(&f.Name, "name", "", "Opportunity name")
	cmd.Flags().StringVar(&f.Amount, "amount", "", "Amount, e.g. 1500.00")
	cmd.Flags().StringVar(&f.Stage, "stage", "", "Stage (defaults to prospecting)")
	cmd.Flags().IntVar(&f.Probability, "probability", 0, "Win probability, 0 to 100")
	cmd.Flags().StringVar(&f.ExpectedCloseDate, "close-date", "", "Expected close date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Notes, "notes", "", "Notes")
}

func newOpportunitiesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "opportunities",
		Aliases: []string{"opps"},
		Short:   "List and edit opportunities",
	}
	cmd.AddCommand(newOpportunitiesListCmd(a), newOpportunitiesCreateCmd(a), newOpportunitiesDeleteCmd(a))
	return cmd
}

func newOpportunitiesListCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List opportunities with the weighted pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.actions.LoadOpportunities(cmd.Context(), lf.filter()); err != nil {
				return err
			}
			v := view.OpportunityList(a.actions.Store.State(), lf.search)
			if a.jsonOut {
				return a.printJSON(v.Rows)
			}
			return view.PrintOpportunities(a.out, v)
		},
	}
	lf.bind(cmd, false, false, true)
	return cmd
}

func newOpportunitiesCreateCmd(a *app) *cobra.Command {
	var form usecase.OpportunityForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an opportunity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opp, err := a.actions.SaveOpportunity(cmd.Context(), 0, form)
			if err != nil {
				return userError(err)
			}
			if a.jsonOut {
				return a.printJSON(opp)
			}
			fmt.Fprintf(a.out, "Opportunity %d created\n", opp.ID)
			return nil
		},
	}
	bindOpportunityForm(cmd, &form)
	cmd.Flags().Int64Var(&form.LeadID, "lead-id", 0, "Lead the opportunity belongs to")
	return cmd
}

func newOpportunitiesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.actions.DeleteOpportunity(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Opportunity %d deleted\n", id)
			return nil
		},
	}
}
