package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redact/redact-backend/internal/common"
	"github.com/redact/redact-backend/internal/domain"
	"github.com/redact/redact-backend/internal/jobstore"
	"github.com/redact/redact-backend/pkg/logger"
	"github.com/redact/redact-backend/pkg/throttle"
)

const (
	platformDiscord = "discord"

	// previewSampleSize caps how many matching messages a preview returns
	previewSampleSize = 10
)

// DeletionPolicy holds the pipeline's policy knobs. The page bounds are
// service policy, not Discord protocol limits.
type DeletionPolicy struct {
	PreviewPages   int
	MaxPages       int
	PageSize       int
	DeleteInterval time.Duration
}

// DeletionService drives the deletion pipeline: paginated fetch, filter
// evaluation, and the detached rate-limited bulk delete with its job record.
type DeletionService struct {
	provider GatewayProvider
	store    jobstore.Store
	policy   DeletionPolicy

	// limiterFor is swappable in tests to avoid real sleeps
	limiterFor func() throttle.Limiter

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewDeletionService creates a DeletionService
func NewDeletionService(provider GatewayProvider, store jobstore.Store, policy DeletionPolicy) *DeletionService {
	s := &DeletionService{
		provider: provider,
		store:    store,
		policy:   policy,
		cancels:  make(map[string]context.CancelFunc),
	}
	s.limiterFor = func() throttle.Limiter {
		return throttle.NewInterval(policy.DeleteInterval)
	}
	return s
}

// Preview fetches a bounded slice of channel history, applies the filter, and
// returns the match count plus a capped sample. Nothing is deleted.
func (s *DeletionService) Preview(ctx context.Context, accessToken, userID string, filter domain.DeletionFilter) (*domain.PreviewResponse, error) {
	channelID, err := operativeChannel(filter)
	if err != nil {
		return nil, err
	}

	gw := s.provider.Acquire(userID)
	defer s.provider.Release(userID)

	messages, err := NewFetcher(gw).FetchUpTo(ctx, accessToken, channelID, s.policy.PreviewPages, s.policy.PageSize)
	if err != nil {
		return nil, err
	}

	filtered := ApplyFilter(messages, filter, userID)

	sample := filtered
	if len(sample) > previewSampleSize {
		sample = sample[:previewSampleSize]
	}

	return &domain.PreviewResponse{
		TotalMessages: len(filtered),
		Messages:      sample,
	}, nil
}

// StartDeletion fetches and filters the channel history, records a running
// job, and kicks off the bulk delete in the background. The returned snapshot
// is what the caller sees; final counts land in the job store when the run
// finishes.
func (s *DeletionService) StartDeletion(ctx context.Context, accessToken, userID string, filter domain.DeletionFilter) (*domain.DeletionJob, error) {
	channelID, err := operativeChannel(filter)
	if err != nil {
		return nil, err
	}

	gw := s.provider.Acquire(userID)
	messages, err := NewFetcher(gw).FetchUpTo(ctx, accessToken, channelID, s.policy.MaxPages, s.policy.PageSize)
	if err != nil {
		s.provider.Release(userID)
		return nil, err
	}

	filtered := ApplyFilter(messages, filter, userID)
	messageIDs := make([]string, len(filtered))
	for i, msg := range filtered {
		messageIDs[i] = msg.ID
	}

	job := &domain.DeletionJob{
		ID:            uuid.New().String(),
		Platform:      platformDiscord,
		Status:        domain.JobStatusRunning,
		Filter:        filter,
		TotalMessages: len(messageIDs),
		CreatedAt:     time.Now(),
	}
	if err := s.store.Put(ctx, job); err != nil {
		s.provider.Release(userID)
		return nil, err
	}

	// The run is detached from the request but carries its own cancel func
	// so it remains an explicit, stoppable task.
	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[job.ID] = cancel
	s.mu.Unlock()

	go s.run(runCtx, gw, job.ID, accessToken, userID, channelID, messageIDs)

	snapshot := *job
	return &snapshot, nil
}

// run executes the bulk delete and writes the final status to the job store
func (s *DeletionService) run(ctx context.Context, gw Gateway, jobID, accessToken, userID, channelID string, messageIDs []string) {
	defer func() {
		s.provider.Release(userID)
		s.mu.Lock()
		if cancel, ok := s.cancels[jobID]; ok {
			cancel()
			delete(s.cancels, jobID)
		}
		s.mu.Unlock()
	}()

	log := logger.WithJobID(jobID)

	executor := NewExecutor(gw, s.limiterFor())
	result, runErr := executor.DeleteBulk(ctx, accessToken, channelID, messageIDs)

	status := domain.JobStatusCompleted
	errMsg := ""
	if runErr != nil {
		status = domain.JobStatusFailed
		errMsg = runErr.Error()
		if errors.Is(runErr, context.Canceled) {
			errMsg = "canceled"
		}
	}

	if err := s.store.Complete(context.Background(), jobID, status, result.Deleted, result.Failed, errMsg); err != nil {
		log.Error().Err(err).Msg("failed to finalize job")
		return
	}

	log.Info().
		Int("deleted", result.Deleted).
		Int("failed", result.Failed).
		Str("status", string(status)).
		Msg("deletion job finished")
}

// Job returns the current snapshot of a deletion job
func (s *DeletionService) Job(ctx context.Context, jobID string) (*domain.DeletionJob, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobstore.ErrNotFound) {
			return nil, common.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// Cancel stops a running job. The partial deletion already performed is
// permanent; the job ends up failed with a "canceled" error.
func (s *DeletionService) Cancel(ctx context.Context, jobID string) error {
	if _, err := s.Job(ctx, jobID); err != nil {
		return err
	}

	s.mu.Lock()
	cancel, ok := s.cancels[jobID]
	s.mu.Unlock()
	if !ok {
		return common.ErrJobNotCancelable
	}

	cancel()
	return nil
}

// operativeChannel validates the filter and returns its first channel, the
// operative scope for the current behavior
func operativeChannel(filter domain.DeletionFilter) (string, error) {
	if len(filter.Channels) == 0 || filter.Channels[0] == "" {
		return "", common.ErrChannelRequired
	}
	return filter.Channels[0], nil
}
