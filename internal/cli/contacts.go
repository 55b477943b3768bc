package cli

import (
	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/store"
	"github.com/xavierca1/ligue-crm/internal/view"
)

func newContactsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List contacts and turn them into patients",
	}
	cmd.AddCommand(newContactsListCmd(a), newContactsToPatientCmd(a))
	return cmd
}

func newContactsListCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.actions.LoadContacts(cmd.Context(), lf.filter()); err != nil {
				return err
			}
			v := view.ContactList(a.actions.Store.State(), lf.search)
			if a.jsonOut {
				return a.printJSON(v.Rows)
			}
			return view.PrintContacts(a.out, v)
		},
	}
	lf.bind(cmd, false, true, false)
	return cmd
}

func newContactsToPatientCmd(a *app) *cobra.Command {
	var patient entity.PatientInput
	cmd := &cobra.Command{
		Use:   "convert-to-patient <id>",
		Short: "Create the patient for a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			// the name, email and phone defaults come from the stored contact
			lead, err := a.actions.Gateway.GetLead(ctx, id)
			if err != nil {
				return err
			}
			a.actions.Store.Dispatch(store.ContactsLoaded{Page: entity.Page[entity.Contact]{
				Data:  []entity.Contact{lead.AsContactView()},
				Total: 1,
			}})

			if err := a.withEvents(); err != nil {
				return err
			}
			res, err := a.actions.ConvertContactToPatient(ctx, id, patient)
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
	bindPatientInput(cmd, &patient)
	cmd.Flags().StringVar(&patient.Email, "email", "", "Patient email")
	cmd.Flags().StringVar(&patient.Phone, "phone", "", "Patient phone")
	return cmd
}
