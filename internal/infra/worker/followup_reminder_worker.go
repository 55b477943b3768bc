package worker

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

type FollowUpLister interface {
	ListFollowUps(ctx context.Context, f entity.ListFilter) (entity.Page[entity.FollowUp], error)
}

type ReminderSender interface {
	SendFollowUpReminder(to string, f entity.FollowUp) error
}

// reminderPageSize bounds one scan. Follow-ups beyond it are picked up on a
// later tick once earlier ones are completed.
const reminderPageSize = 100

// FollowUpReminderWorker mails one reminder per open follow-up that comes due
// within the window.
type FollowUpReminderWorker struct {
	lister       FollowUpLister
	sender       ReminderSender
	recipient    string
	window       time.Duration
	tickInterval time.Duration
	now          func() time.Time
	log          *logger.Logger

	mu   sync.Mutex
	sent map[int64]time.Time
}

func NewFollowUpReminderWorker(lister FollowUpLister, sender ReminderSender, recipient string, interval, window time.Duration, log *logger.Logger) *FollowUpReminderWorker {
	return &FollowUpReminderWorker{
		lister:       lister,
		sender:       sender,
		recipient:    recipient,
		window:       window,
		tickInterval: interval,
		now:          time.Now,
		log:          log.Component("followup_reminder"),
		sent:         map[int64]time.Time{},
	}
}

func (w *FollowUpReminderWorker) Start(ctx context.Context) {
	w.log.Info().Dur("window", w.window).Dur("interval", w.tickInterval).Msg("follow-up reminder worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.remindDue(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("follow-up reminder worker stopped")
			return
		case <-ticker.C:
			w.remindDue(ctx)
		}
	}
}

// remindDue runs one scan and returns how many reminders went out.
func (w *FollowUpReminderWorker) remindDue(ctx context.Context) int {
	page, err := w.lister.ListFollowUps(ctx, entity.ListFilter{Status: "pending", Page: 1, PerPage: reminderPageSize})
	if err != nil {
		w.log.Error().Err(err).Msg("could not list follow-ups")
		return 0
	}

	now := w.now()
	limit := now.Add(w.window)
	count := 0

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, f := range page.Data {
		if f.Completed || f.ScheduledDate.IsZero() {
			continue
		}
		if f.ScheduledDate.Before(now) || f.ScheduledDate.After(limit) {
			continue
		}
		if _, done := w.sent[f.ID]; done {
			continue
		}
		if err := w.sender.SendFollowUpReminder(w.recipient, f); err != nil {
			w.log.Warn().Err(err).Int64("followup_id", f.ID).Msg("reminder not sent")
			continue
		}
		w.sent[f.ID] = f.ScheduledDate
		count++
	}

	// forget reminders whose schedule has passed so the map stays small
	for id, at := range w.sent {
		if at.Before(now) {
			delete(w.sent, id)
		}
	}

	if count > 0 {
		w.log.Info().Int("count", count).Msg("follow-up reminders sent")
	}
	return count
}
