package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/redact/redact-backend/internal/common"
	"github.com/redact/redact-backend/internal/domain"
	"github.com/redact/redact-backend/internal/jobstore"
	"github.com/redact/redact-backend/pkg/throttle"
)

func newTestDeletionService(gw Gateway) (*DeletionService, *jobstore.Memory) {
	store := jobstore.NewMemory()
	svc := NewDeletionService(&fakeProvider{gateway: gw}, store, DeletionPolicy{
		PreviewPages: 10,
		MaxPages:     50,
		PageSize:     100,
	})
	svc.limiterFor = func() throttle.Limiter { return throttle.Nop{} }
	return svc, store
}

func waitForTerminal(t *testing.T, store jobstore.Store, jobID string) *domain.DeletionJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.Get(context.Background(), jobID)
		assert.NoError(t, err)
		if job.Status == domain.JobStatusCompleted || job.Status == domain.JobStatusFailed {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal status", jobID)
	return nil
}

func TestPreview_EndToEndScenario(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 12 fetched messages: 3 match (promo, ≥ dateFrom, authored by U),
	// 2 contain promo but belong to someone else
	fetched := []domain.Message{
		msg("1", "U", "promo weekend", from.AddDate(0, 1, 0)),
		msg("2", "U", "hello there", from.AddDate(0, 1, 0)),
		msg("3", "other", "promo spam", from.AddDate(0, 1, 0)),
		msg("4", "U", "big PROMO", from.AddDate(0, 2, 0)),
		msg("5", "U", "lunch?", from.AddDate(0, 2, 0)),
		msg("6", "other", "promo again", from.AddDate(0, 2, 0)),
		msg("7", "U", "promo expired", from.Add(-time.Hour)),
		msg("8", "U", "promo code xyz", from.AddDate(0, 3, 0)),
		msg("9", "U", "random", from.AddDate(0, 3, 0)),
		msg("10", "other", "noise", from.AddDate(0, 3, 0)),
		msg("11", "other", "noise", from.AddDate(0, 3, 0)),
		msg("12", "U", "bye", from.AddDate(0, 3, 0)),
	}

	gw := new(mockGateway)
	gw.On("Messages", mock.Anything, "tok", "C1", 100, "").Return(fetched, nil).Once()

	svc, _ := newTestDeletionService(gw)
	preview, err := svc.Preview(context.Background(), "tok", "U", domain.DeletionFilter{
		Channels: []string{"C1"},
		Keywords: []string{"promo"},
		DateFrom: &from,
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, preview.TotalMessages)
	assert.Equal(t, []string{"1", "4", "8"}, ids(preview.Messages))
}

func TestPreview_EmptyFilterKeepsAllOwnMessages(t *testing.T) {
	now := time.Now()
	fetched := []domain.Message{
		msg("1", "U", "a", now),
		msg("2", "other", "b", now),
		msg("3", "U", "c", now),
	}

	gw := new(mockGateway)
	gw.On("Messages", mock.Anything, "tok", "C1", 100, "").Return(fetched, nil).Once()

	svc, _ := newTestDeletionService(gw)
	preview, err := svc.Preview(context.Background(), "tok", "U", domain.DeletionFilter{Channels: []string{"C1"}})

	assert.NoError(t, err)
	assert.Equal(t, 2, preview.TotalMessages)
	assert.Equal(t, []string{"1", "3"}, ids(preview.Messages))
}

func TestPreview_SampleCappedAtTen(t *testing.T) {
	fetched := page(30, 30)

	gw := new(mockGateway)
	gw.On("Messages", mock.Anything, "tok", "C1", 100, "").Return(fetched, nil).Once()

	svc, _ := newTestDeletionService(gw)
	preview, err := svc.Preview(context.Background(), "tok", "U", domain.DeletionFilter{Channels: []string{"C1"}})

	assert.NoError(t, err)
	assert.Equal(t, 0, preview.TotalMessages)
	assert.Empty(t, preview.Messages)

	// now with the requesting user owning everything
	gw2 := new(mockGateway)
	gw2.On("Messages", mock.Anything, "tok", "C1", 100, "").Return(fetched, nil).Once()
	svc2, _ := newTestDeletionService(gw2)
	preview, err = svc2.Preview(context.Background(), "tok", "me", domain.DeletionFilter{Channels: []string{"C1"}})

	assert.NoError(t, err)
	assert.Equal(t, 30, preview.TotalMessages)
	assert.Len(t, preview.Messages, 10)
}

func TestPreview_RequiresChannel(t *testing.T) {
	svc, _ := newTestDeletionService(new(mockGateway))

	_, err := svc.Preview(context.Background(), "tok", "U", domain.DeletionFilter{})
	assert.ErrorIs(t, err, common.ErrChannelRequired)
}

func TestPreview_UpstreamErrorAborts(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Messages", mock.Anything, "tok", "C1", 100, "").Return(nil, &common.UpstreamError{StatusCode: 502, Body: "bad gateway"}).Once()

	svc, _ := newTestDeletionService(gw)
	_, err := svc.Preview(context.Background(), "tok", "U", domain.DeletionFilter{Channels: []string{"C1"}})
	assert.True(t, common.IsUpstreamError(err))
}

func TestStartDeletion_SnapshotAndFinalStatus(t *testing.T) {
	now := time.Now()
	fetched := []domain.Message{
		msg("1", "U", "promo", now),
		msg("2", "other", "promo", now),
		msg("3", "U", "promo", now),
	}

	gw := new(mockGateway)
	gw.On("Messages", mock.Anything, "tok", "C1", 100, "").Return(fetched, nil).Once()
	gw.On("DeleteMessage", mock.Anything, "tok", "C1", "1").Return(nil).Once()
	gw.On("DeleteMessage", mock.Anything, "tok", "C1", "3").Return(&common.UpstreamError{StatusCode: 500, Body: "oops"}).Once()

	svc, store := newTestDeletionService(gw)
	job, err := svc.StartDeletion(context.Background(), "tok", "U", domain.DeletionFilter{
		Channels: []string{"C1"},
		Keywords: []string{"promo"},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "discord", job.Platform)
	assert.Equal(t, domain.JobStatusRunning, job.Status)
	assert.Equal(t, 2, job.TotalMessages)
	assert.Equal(t, 0, job.DeletedMessages)

	final := waitForTerminal(t, store, job.ID)
	assert.Equal(t, domain.JobStatusCompleted, final.Status)
	assert.Equal(t, 1, final.DeletedMessages)
	assert.Equal(t, 1, final.FailedMessages)

	// message "2" belongs to another user and must never be attempted
	gw.AssertNotCalled(t, "DeleteMessage", mock.Anything, "tok", "C1", "2")
}

func TestStartDeletion_RequiresChannel(t *testing.T) {
	svc, _ := newTestDeletionService(new(mockGateway))

	_, err := svc.StartDeletion(context.Background(), "tok", "U", domain.DeletionFilter{Channels: []string{""}})
	assert.ErrorIs(t, err, common.ErrChannelRequired)
}

func TestJob_Lookup(t *testing.T) {
	svc, store := newTestDeletionService(new(mockGateway))

	assert.NoError(t, store.Put(context.Background(), &domain.DeletionJob{
		ID:     "j1",
		Status: domain.JobStatusRunning,
	}))

	job, err := svc.Job(context.Background(), "j1")
	assert.NoError(t, err)
	assert.Equal(t, "j1", job.ID)

	_, err = svc.Job(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrJobNotFound)
}

func TestCancel_StopsRunningJob(t *testing.T) {
	now := time.Now()
	fetched := page(40, 40)
	for i := range fetched {
		fetched[i].Author.ID = "U"
		fetched[i].Timestamp = now
	}

	started := make(chan struct{})
	release := make(chan struct{})

	gw := new(mockGateway)
	gw.On("Messages", mock.Anything, "tok", "C1", 100, "").Return(fetched, nil).Once()
	gw.On("DeleteMessage", mock.Anything, "tok", "C1", mock.Anything).Return(nil).Run(func(mock.Arguments) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})

	svc, store := newTestDeletionService(gw)
	job, err := svc.StartDeletion(context.Background(), "tok", "U", domain.DeletionFilter{Channels: []string{"C1"}})
	assert.NoError(t, err)

	<-started
	assert.NoError(t, svc.Cancel(context.Background(), job.ID))
	close(release)

	final := waitForTerminal(t, store, job.ID)
	assert.Equal(t, domain.JobStatusFailed, final.Status)
	assert.Equal(t, "canceled", final.Error)
	assert.Less(t, final.DeletedMessages, 40)
}

func TestCancel_UnknownJob(t *testing.T) {
	svc, _ := newTestDeletionService(new(mockGateway))
	assert.ErrorIs(t, svc.Cancel(context.Background(), "missing"), common.ErrJobNotFound)
}

func TestCancel_FinishedJobNotCancelable(t *testing.T) {
	svc, store := newTestDeletionService(new(mockGateway))

	assert.NoError(t, store.Put(context.Background(), &domain.DeletionJob{
		ID:     "done",
		Status: domain.JobStatusCompleted,
	}))

	assert.ErrorIs(t, svc.Cancel(context.Background(), "done"), common.ErrJobNotCancelable)
}
