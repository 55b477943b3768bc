package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/internal/view"
)

func newFollowUpsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "followups",
		Aliases: []string{"tasks"},
		Short:   "Schedule and complete follow-ups",
	}
	cmd.AddCommand(newFollowUpsListCmd(a), newFollowUpsCreateCmd(a), newFollowUpsCompleteCmd(a), newFollowUpsDeleteCmd(a))
	return cmd
}

func newFollowUpsListCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List follow-ups, overdue ones flagged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.actions.LoadFollowUps(cmd.Context(), lf.filter()); err != nil {
				return err
			}
			v := view.FollowUpList(a.actions.Store.State(), time.Now())
			if a.jsonOut {
				return a.printJSON(v.Rows)
			}
			return view.PrintFollowUps(a.out, v)
		},
	}
	lf.bind(cmd, true, false, false)
	return cmd
}

func newFollowUpsCreateCmd(a *app) *cobra.Command {
	var form usecase.FollowUpForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a follow-up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.actions.SaveFollowUp(cmd.Context(), 0, form)
			if err != nil {
				return userError(err)
			}
			if a.jsonOut {
				return a.printJSON(f)
			}
			fmt.Fprintf(a.out, "Follow-up %d scheduled for %s\n", f.ID, f.ScheduledDate.Local().Format("02/01/2006 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Type, "type", "call", "call, email, meeting or note")
	cmd.Flags().StringVar(&form.Subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	cmd.Flags().StringVar(&form.ScheduledDate, "at", "", "When, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	cmd.Flags().StringVar(&form.RelatedType, "related-type", "lead", "lead, contact or opportunity")
	cmd.Flags().Int64Var(&form.RelatedID, "related-id", 0, "Id of the related record")
	return cmd
}

func newFollowUpsCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a follow-up as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.actions.CompleteFollowUp(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Follow-up %d completed\n", id)
			return nil
		},
	}
}

func newFollowUpsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a follow-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.actions.DeleteFollowUp(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Follow-up %d deleted\n", id)
			return nil
		},
	}
}
