package service

import (
	"context"

	"github.com/redact/redact-backend/internal/domain"
)

// Fetcher pages backward through a channel's message history
type Fetcher struct {
	gateway Gateway
}

// NewFetcher creates a Fetcher on top of a gateway handle
func NewFetcher(gateway Gateway) *Fetcher {
	return &Fetcher{gateway: gateway}
}

// FetchPage fetches a single page of messages, newest first
func (f *Fetcher) FetchPage(ctx context.Context, accessToken, channelID string, limit int, before string) ([]domain.Message, error) {
	return f.gateway.Messages(ctx, accessToken, channelID, limit, before)
}

// FetchUpTo retrieves up to maxPages pages of pageSize messages, paging
// backward by passing the last-seen message ID as before. Stops on an empty
// page, a short page, or when maxPages is exhausted. Any upstream failure
// aborts the whole fetch.
func (f *Fetcher) FetchUpTo(ctx context.Context, accessToken, channelID string, maxPages, pageSize int) ([]domain.Message, error) {
	var all []domain.Message
	var before string

	for page := 0; page < maxPages; page++ {
		messages, err := f.gateway.Messages(ctx, accessToken, channelID, pageSize, before)
		if err != nil {
			return nil, err
		}
		if len(messages) == 0 {
			break
		}

		all = append(all, messages...)
		before = messages[len(messages)-1].ID

		// a short page means we reached the start of the channel history
		if len(messages) < pageSize {
			break
		}
	}

	return all, nil
}
