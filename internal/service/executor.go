package service

import (
	"context"

	"github.com/redact/redact-backend/internal/domain"
	"github.com/redact/redact-backend/pkg/logger"
	"github.com/redact/redact-backend/pkg/throttle"
)

// Executor deletes a list of message IDs one by one, paced by a Limiter so
// the run stays under Discord's per-channel delete budget.
type Executor struct {
	gateway Gateway
	limiter throttle.Limiter
}

// NewExecutor creates an Executor
func NewExecutor(gateway Gateway, limiter throttle.Limiter) *Executor {
	return &Executor{gateway: gateway, limiter: limiter}
}

// DeleteBulk attempts every ID in order. A failed delete is logged, counted,
// and the batch continues; only context cancellation stops the run early, in
// which case the partial result is returned alongside the context error.
// Pacing happens after each successful delete, not after failures.
func (e *Executor) DeleteBulk(ctx context.Context, accessToken, channelID string, messageIDs []string) (domain.DeletionResult, error) {
	var result domain.DeletionResult

	for _, messageID := range messageIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := e.gateway.DeleteMessage(ctx, accessToken, channelID, messageID); err != nil {
			logger.GetLogger().Warn().
				Err(err).
				Str("channel_id", channelID).
				Str("message_id", messageID).
				Msg("failed to delete message")
			result.Failed++
			continue
		}
		result.Deleted++

		if err := e.limiter.Wait(ctx); err != nil {
			return result, err
		}
	}

	return result, nil
}
