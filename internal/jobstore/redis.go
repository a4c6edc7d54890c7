package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redact/redact-backend/internal/domain"
)

const jobKeyPrefix = "deletion:job:"

// Redis is a Store backed by Redis, so job status survives process restarts
// and is visible across replicas. Finished jobs expire after the TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. ttl bounds how long snapshots are kept.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{client: client, ttl: ttl}
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}

// Put stores a job snapshot
func (s *Redis) Put(ctx context.Context, job *domain.DeletionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, jobKey(job.ID), data, s.ttl).Err()
}

// Get returns the job snapshot
func (s *Redis) Get(ctx context.Context, id string) (*domain.DeletionJob, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var job domain.DeletionJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Complete finalizes a running job under a watch so concurrent writers
// cannot race the transition check
func (s *Redis) Complete(ctx context.Context, id string, status domain.JobStatus, deleted, failed int, errMsg string) error {
	key := jobKey(id)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}

		var job domain.DeletionJob
		if err := json.Unmarshal(data, &job); err != nil {
			return err
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

		updated, err := json.Marshal(&job)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.ttl)
			return nil
		})
		return err
	}, key)
}
