package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/pkg/logger"
)

// ConversionNotifier is told about every conversion taken off the queue.
type ConversionNotifier interface {
	NotifyConversion(ctx context.Context, ev ConversionEvent) error
}

// Consumer is the part of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

var errMalformed = errors.New("malformed conversion event")

type Worker struct {
	Channel  Consumer
	Notifier ConversionNotifier
	log      *logger.Logger
}

func NewWorker(ch Consumer, notifier ConversionNotifier, log *logger.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		log:      log.Component("conversion_worker"),
	}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.log.Info().Str("queue", queueName).Msg("conversion worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("conversion worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := w.Handle(ctx, d.Body); err != nil {
				// no requeue: failures go to the DLQ
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message and notifies. Split from Start so it can be
// exercised without a broker.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var ev ConversionEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		w.log.Error().Err(err).Msg("invalid conversion event")
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if ev.LeadID <= 0 || ev.Target == "" {
		w.log.Error().Str("event_id", ev.EventID).Msg("conversion event without lead or target")
		return errMalformed
	}

	if err := w.Notifier.NotifyConversion(ctx, ev); err != nil {
		w.log.Error().Err(err).Str("event_id", ev.EventID).Int64("lead_id", ev.LeadID).Msg("conversion notice failed")
		return err
	}

	w.log.Info().Str("event_id", ev.EventID).Int64("lead_id", ev.LeadID).Str("target", ev.Target).Msg("conversion notice sent")
	return nil
}
