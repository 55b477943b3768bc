package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/infra/integration/crmapi"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/session"
	"github.com/xavierca1/ligue-crm/internal/store"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/pkg/config"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

// app is what every command shares. It is filled in PersistentPreRunE so
// --help works without configuration.
type app struct {
	verbose bool
	jsonOut bool

	cfg     *config.Config
	log     *logger.Logger
	tokens  *session.FileStore
	client  *crmapi.Client
	actions *usecase.Actions
	out     io.Writer

	closers []func() error
}

func NewRootCommand(version string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "crm",
		Short: "Ligue CRM - leads, contacts, opportunities and follow-ups",
		Long: `crm works the CRM module of the clinical backend: capture leads, convert them
into contacts, opportunities or patients, schedule follow-ups and watch the
pipeline. "crm serve" starts the web screens; the other commands work from
the terminal with the token saved by "crm login".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print JSON instead of tables")

	root.AddCommand(
		newServeCmd(a),
		newWorkerCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newLeadsCmd(a),
		newContactsCmd(a),
		newOpportunitiesCmd(a),
		newFollowUpsCmd(a),
		newStatsCmd(a),
		newReportCmd(a),
	)
	root.Version = version
	return root
}

// Execute runs the CLI.
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	} else if cmd.Name() != "serve" && cmd.Name() != "worker" {
		// keep tables readable
		level = "warn"
	}

	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	a.log = logger.New(logger.Config{Env: cfg.App.Env, Level: level, File: cfg.Log.File, Out: cmd.ErrOrStderr()})
	a.tokens = session.NewFileStore(cfg.Session.File)
	a.client = crmapi.NewClient(cfg.CRM.BaseURL, cfg.CRM.Timeout, a.tokens, a.log)
	a.actions = usecase.NewActions(a.client, store.New(), nil, usecase.NewValidator(nil), a.log)
	return nil
}

// withEvents rebuilds the actions with a conversion event publisher when a
// broker is configured. Without one, conversions are not announced.
func (a *app) withEvents() error {
	if !a.cfg.RabbitMQ.Enabled() {
		return nil
	}
	rmq, err := queue.NewRabbitMQ(a.cfg.RabbitMQ.User, a.cfg.RabbitMQ.Password, a.cfg.RabbitMQ.Host, a.cfg.RabbitMQ.Port)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, rmq.Close)
	a.actions = usecase.NewActions(a.client, a.actions.Store, queue.NewProducer(rmq.Ch), a.actions.Validator, a.log)
	return nil
}

func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
