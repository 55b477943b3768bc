package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
)

func newWorkerCmd(a *app) *cobra.Command {
	var noReminders bool
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Mail conversion notices and follow-up reminders",
		Long: `Consumes conversion events from RabbitMQ and mails a notice for each one,
and reminds the configured inbox of follow-ups that are about to be due.
Reminders list follow-ups with the token saved by "crm login".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWorkers(ctx, !noReminders)
		},
	}
	cmd.Flags().BoolVar(&noReminders, "no-reminders", false, "Only process conversion events")
	return cmd
}

func (a *app) runWorkers(ctx context.Context, reminders bool) error {
	cfg := a.cfg
	if !cfg.Mail.Enabled() {
		return errors.New("MAIL_HOST is required by the worker")
	}
	if cfg.Reminder.Recipient == "" {
		return errors.New("REMINDER_EMAIL is required by the worker")
	}
	sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Reminder.Recipient)

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	if cfg.RabbitMQ.Enabled() {
		rmq, err := queue.NewRabbitMQ(cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, rmq.Close)

		consumer := queue.NewWorker(rmq.Ch, sender, a.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Start(ctx, queue.QueueName); err != nil {
				errCh <- err
			}
		}()
	} else {
		a.log.Warn().Msg("RABBITMQ_HOST not set, conversion notices are disabled")
	}

	if reminders {
		w := worker.NewFollowUpReminderWorker(a.client, sender, cfg.Reminder.Recipient, cfg.Reminder.Interval, cfg.Reminder.Window, a.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Start(ctx)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
		return nil
	}
}
