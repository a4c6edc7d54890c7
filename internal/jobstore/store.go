// Package jobstore keeps deletion job snapshots keyed by ID so callers can
// poll status after the triggering request has returned.
package jobstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redact/redact-backend/internal/domain"
)

var (
	// ErrNotFound is returned when no job exists for the given ID
	ErrNotFound = errors.New("job not found")
	// ErrIllegalTransition is returned for a status change that violates
	// pending -> running -> completed|failed
	ErrIllegalTransition = errors.New("illegal job status transition")
)

// Store holds deletion job snapshots
type Store interface {
	Put(ctx context.Context, job *domain.DeletionJob) error
	Get(ctx context.Context, id string) (*domain.DeletionJob, error)
	// Complete atomically moves a running job to completed or failed and
	// records final counts. Terminal jobs cannot transition again.
	Complete(ctx context.Context, id string, status domain.JobStatus, deleted, failed int, errMsg string) error
}

// legalTransition reports whether a job may move from one status to another
func legalTransition(from, to domain.JobStatus) bool {
	switch from {
	case domain.JobStatusPending:
		return to == domain.JobStatusRunning
	case domain.JobStatusRunning:
		return to == domain.JobStatusCompleted || to == domain.JobStatusFailed
	default:
		return false
	}
}

// Memory is an in-process Store, the default when Redis is not configured
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]*domain.DeletionJob
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*domain.DeletionJob)}
}

// Put stores a job snapshot
func (s *Memory) Put(_ context.Context, job *domain.DeletionJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

// Get returns a copy of the job snapshot
func (s *Memory) Get(_ context.Context, id string) (*domain.DeletionJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	return &cp, nil
}

// Complete finalizes a running job
func (s *Memory) Complete(_ context.Context, id string, status domain.JobStatus, deleted, failed int, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if !legalTransition(job.Status, status) {
		return ErrIllegalTransition
	}

	now := time.Now()
	job.Status = status
	job.DeletedMessages = deleted
	job.FailedMessages = failed
	job.CompletedAt = &now
	job.Error = errMsg
	return nil
}
