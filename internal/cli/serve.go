package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/crmapi"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/report"
	"github.com/xavierca1/ligue-crm/internal/infra/session"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/internal/view"
)

func newServeCmd(a *app) *cobra.Command {
	var loginLimit int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CRM web screens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, loginLimit)
		},
	}
	cmd.Flags().IntVar(&loginLimit, "login-limit", 10, "Login attempts per minute per client IP")
	return cmd
}

func (a *app) serve(ctx context.Context, loginLimit int) error {
	cfg := a.cfg

	// 1. Sessions
	var (
		sessions session.Repository = session.NewMemoryStore()
		pinger   handlers.Pinger
	)
	if cfg.DB.DatabaseURL != "" {
		db, err := database.NewDBConnection(cfg.DB.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		repo := database.NewSessionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		go a.purgeSessions(ctx, repo)
		sessions, pinger = repo, db
	} else {
		a.log.Warn().Msg("DATABASE_URL not set, sessions are kept in memory")
	}

	// 2. Conversion events
	var (
		publisher usecase.EventPublisher
		broker    handlers.BrokerConn
	)
	if cfg.RabbitMQ.Enabled() {
		rmq, err := queue.NewRabbitMQ(cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, rmq.Close)
		publisher, broker = queue.NewProducer(rmq.Ch), rmq.Conn
	}

	// 3. Backend client: each request carries the token of its own session
	client := crmapi.NewClient(cfg.CRM.BaseURL, cfg.CRM.Timeout, session.ContextTokenSource{}, a.log)
	workspaces := handlers.NewWorkspaces(client, publisher, usecase.NewValidator(nil), a.log)

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}
	limiter := middleware.NewRateLimiter(loginLimit, time.Minute)
	defer limiter.Stop()

	// 4. Router
	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandler(sessions, workspaces, renderer, cfg.Session.TTL, cfg.HTTP.SecureCookies, a.log),
		CRM:            handlers.NewCRMHandler(workspaces, renderer, report.NewStatisticsPDF(), a.log),
		Health:         handlers.NewHealthHandler(pinger, broker, cfg.CRM.BaseURL, workspaces),
		Sessions:       middleware.NewSessions(sessions, a.log),
		LoginLimiter:   limiter,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Str("crm_api", cfg.CRM.BaseURL).Msg("CRM server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// purgeSessions drops expired rows every hour.
func (a *app) purgeSessions(ctx context.Context, repo *database.SessionRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				a.log.Warn().Err(err).Msg("could not purge expired sessions")
				continue
			}
			a.log.Debug().Int64("deleted", n).Msg("expired sessions purged")
		}
	}
}
