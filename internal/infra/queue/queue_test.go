package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/pkg/logger"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, msg)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyConversion(ctx context.Context, ev ConversionEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type fakeTopology struct {
	exchanges []string
	queues    map[string]amqp.Table
	bindings  []string
}

func (f *fakeTopology) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.exchanges = append(f.exchanges, name)
	return nil
}

func (f *fakeTopology) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if f.queues == nil {
		f.queues = map[string]amqp.Table{}
	}
	f.queues[name] = args
	return amqp.Queue{Name: name}, nil
}

func (f *fakeTopology) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	f.bindings = append(f.bindings, exchange+"->"+name)
	return nil
}

// ============ PRODUCER ============

func TestPublishConversionFillsIDAndRoutesToExchange(t *testing.T) {
	pub := new(MockPublisher)
	var sent amqp.Publishing
	pub.On("PublishWithContext", mock.Anything, ExchangeName, RoutingKey, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(3).(amqp.Publishing) }).
		Return(nil)

	err := NewProducer(pub).PublishConversion(context.Background(), ConversionEvent{Target: "patient", LeadID: 7, LeadName: "Ana"})
	require.NoError(t, err)

	var ev ConversionEvent
	require.NoError(t, json.Unmarshal(sent.Body, &ev))
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, ev.EventID, sent.MessageId)
	assert.Equal(t, int64(7), ev.LeadID)
	assert.False(t, ev.OccurredAt.IsZero())
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	pub.AssertExpectations(t)
}

func TestPublishConversionWrapsBrokerError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	err := NewProducer(pub).PublishConversion(context.Background(), ConversionEvent{Target: "contact", LeadID: 1})
	assert.ErrorContains(t, err, "channel closed")
}

// ============ TOPOLOGY ============

func TestSetupTopologyDeclaresDeadLetter(t *testing.T) {
	top := &fakeTopology{}

	require.NoError(t, setupTopology(top))

	assert.Equal(t, []string{DLXName, ExchangeName}, top.exchanges)
	assert.Equal(t, DLXName, top.queues[QueueName]["x-dead-letter-exchange"])
	assert.Contains(t, top.bindings, ExchangeName+"->"+QueueName)
	assert.Contains(t, top.bindings, DLXName+"->"+DLQName)
}

// ============ WORKER ============

func TestWorkerHandleNotifies(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("NotifyConversion", mock.Anything, mock.MatchedBy(func(ev ConversionEvent) bool {
		return ev.LeadID == 5 && ev.Target == "opportunity"
	})).Return(nil)

	w := NewWorker(nil, notifier, logger.Nop())
	err := w.Handle(context.Background(), []byte(`{"event_id":"e1","target":"opportunity","lead_id":5}`))

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestWorkerHandleRejectsMalformed(t *testing.T) {
	notifier := new(MockNotifier)
	w := NewWorker(nil, notifier, logger.Nop())

	assert.ErrorIs(t, w.Handle(context.Background(), []byte(`not json`)), errMalformed)
	assert.ErrorIs(t, w.Handle(context.Background(), []byte(`{"target":"contact"}`)), errMalformed)
	notifier.AssertNotCalled(t, "NotifyConversion", mock.Anything, mock.Anything)
}

func TestWorkerHandlePropagatesNotifierError(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("NotifyConversion", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	w := NewWorker(nil, notifier, logger.Nop())
	err := w.Handle(context.Background(), []byte(`{"target":"contact","lead_id":2}`))

	assert.ErrorContains(t, err, "smtp down")
}
