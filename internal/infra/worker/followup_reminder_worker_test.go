package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListFollowUps(ctx context.Context, f entity.ListFilter) (entity.Page[entity.FollowUp], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(entity.Page[entity.FollowUp]), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendFollowUpReminder(to string, f entity.FollowUp) error {
	return m.Called(to, f.ID).Error(0)
}

func TestReminderSendsOncePerFollowUpInWindow(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	lister := new(MockLister)
	lister.On("ListFollowUps", mock.Anything, mock.Anything).Return(entity.Page[entity.FollowUp]{Data: []entity.FollowUp{
		{ID: 1, ScheduledDate: now.Add(10 * time.Minute)},
		{ID: 2, ScheduledDate: now.Add(2 * time.Hour)},
		{ID: 3, ScheduledDate: now.Add(5 * time.Minute), Completed: true},
		{ID: 4, ScheduledDate: now.Add(-5 * time.Minute)},
	}}, nil)
	sender := new(MockSender)
	sender.On("SendFollowUpReminder", "op@ligue.com", int64(1)).Return(nil).Once()

	w := NewFollowUpReminderWorker(lister, sender, "op@ligue.com", time.Minute, 30*time.Minute, logger.Nop())
	w.now = func() time.Time { return now }

	assert.Equal(t, 1, w.remindDue(context.Background()))
	assert.Equal(t, 0, w.remindDue(context.Background()))
	sender.AssertExpectations(t)
}

func TestReminderRetriesAfterSendFailure(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	lister := new(MockLister)
	lister.On("ListFollowUps", mock.Anything, mock.Anything).Return(entity.Page[entity.FollowUp]{Data: []entity.FollowUp{
		{ID: 1, ScheduledDate: now.Add(10 * time.Minute)},
	}}, nil)
	sender := new(MockSender)
	sender.On("SendFollowUpReminder", mock.Anything, int64(1)).Return(errors.New("smtp down")).Once()
	sender.On("SendFollowUpReminder", mock.Anything, int64(1)).Return(nil).Once()

	w := NewFollowUpReminderWorker(lister, sender, "op@ligue.com", time.Minute, 30*time.Minute, logger.Nop())
	w.now = func() time.Time { return now }

	assert.Equal(t, 0, w.remindDue(context.Background()))
	assert.Equal(t, 1, w.remindDue(context.Background()))
}

func TestReminderListFailureSendsNothing(t *testing.T) {
	lister := new(MockLister)
	lister.On("ListFollowUps", mock.Anything, mock.Anything).Return(entity.Page[entity.FollowUp]{}, errors.New("status 401"))
	sender := new(MockSender)

	w := NewFollowUpReminderWorker(lister, sender, "op@ligue.com", time.Minute, 30*time.Minute, logger.Nop())

	assert.Equal(t, 0, w.remindDue(context.Background()))
	sender.AssertNotCalled(t, "SendFollowUpReminder", mock.Anything, mock.Anything)
}

func TestReminderStartStopsOnCancel(t *testing.T) {
	lister := new(MockLister)
	lister.On("ListFollowUps", mock.Anything, mock.Anything).Return(entity.Page[entity.FollowUp]{}, nil)

	w := NewFollowUpReminderWorker(lister, new(MockSender), "op@ligue.com", time.Hour, time.Minute, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
