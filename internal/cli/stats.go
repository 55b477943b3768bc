package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/infra/report"
	"github.com/xavierca1/ligue-crm/internal/infra/session"
	"github.com/xavierca1/ligue-crm/internal/view"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.actions.LoadStatistics(cmd.Context()); err != nil {
				return err
			}
			s := a.actions.Store.State()
			if a.jsonOut {
				return a.printJSON(s.Statistics)
			}
			return view.PrintDashboard(a.out, view.Dashboard(s))
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the dashboard counters as a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.actions.LoadStatistics(ctx); err != nil {
				return err
			}
			stats := a.actions.Store.State().Statistics

			operator := ""
			if s, err := a.tokens.Load(); err == nil {
				operator = s.Operator
			} else if !errors.Is(err, session.ErrNotFound) {
				a.log.Warn().Err(err).Msg("could not read session file")
			}

			pdf, err := report.NewStatisticsPDF().Generate(ctx, *stats, operator)
			if err != nil {
				return err
			}
			if out == "" {
				out = "crm-statistics-" + time.Now().Format("2006-01-02") + ".pdf"
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(a.out, "Report written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	return cmd
}
