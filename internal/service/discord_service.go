package service

import (
	"context"

	"github.com/redact/redact-backend/internal/domain"
)

// DiscordService proxies read calls and the single-message delete to the
// Discord API on the user's behalf
type DiscordService struct {
	provider GatewayProvider
}

// NewDiscordService creates a DiscordService
func NewDiscordService(provider GatewayProvider) *DiscordService {
	return &DiscordService{provider: provider}
}

// Guilds lists the user's servers
func (s *DiscordService) Guilds(ctx context.Context, accessToken, userID string) ([]domain.Guild, error) {
	gw := s.provider.Acquire(userID)
	defer s.provider.Release(userID)
	return gw.Guilds(ctx, accessToken)
}

// GuildChannels lists the channels of a server
func (s *DiscordService) GuildChannels(ctx context.Context, accessToken, userID, guildID string) ([]domain.Channel, error) {
	gw := s.provider.Acquire(userID)
	defer s.provider.Release(userID)
	return gw.GuildChannels(ctx, accessToken, guildID)
}

// DMChannels lists the user's direct message channels
func (s *DiscordService) DMChannels(ctx context.Context, accessToken, userID string) ([]domain.Channel, error) {
	gw := s.provider.Acquire(userID)
	defer s.provider.Release(userID)
	return gw.DMChannels(ctx, accessToken)
}

// Messages fetches one page of channel messages, newest first
func (s *DiscordService) Messages(ctx context.Context, accessToken, userID, channelID string, limit int, before string) ([]domain.Message, error) {
	gw := s.provider.Acquire(userID)
	defer s.provider.Release(userID)
	return NewFetcher(gw).FetchPage(ctx, accessToken, channelID, limit, before)
}

// DeleteMessage deletes a single message. Ownership is enforced by Discord
// itself on this path, not re-checked locally; the bulk path's ownership
// pre-filter does not apply here.
func (s *DiscordService) DeleteMessage(ctx context.Context, accessToken, userID, channelID, messageID string) error {
	gw := s.provider.Acquire(userID)
	defer s.provider.Release(userID)
	return gw.DeleteMessage(ctx, accessToken, channelID, messageID)
}
