package service

import (
	"context"

	"github.com/redact/redact-backend/internal/discord"
	"github.com/redact/redact-backend/internal/domain"
)

// Gateway is the Discord API surface the services consume. *discord.Client
// satisfies it.
type Gateway interface {
	ExchangeCode(ctx context.Context, code string) (*domain.Tokens, error)
	User(ctx context.Context, accessToken string) (*domain.User, error)
	Guilds(ctx context.Context, accessToken string) ([]domain.Guild, error)
	GuildChannels(ctx context.Context, accessToken, guildID string) ([]domain.Channel, error)
	DMChannels(ctx context.Context, accessToken string) ([]domain.Channel, error)
	Messages(ctx context.Context, accessToken, channelID string, limit int, before string) ([]domain.Message, error)
	DeleteMessage(ctx context.Context, accessToken, channelID, messageID string) error
}

// GatewayProvider hands out per-user gateway handles with an explicit
// acquire/release lifecycle
type GatewayProvider interface {
	Acquire(userID string) Gateway
	Release(userID string)
}

// NewPoolProvider adapts a *discord.Pool to the GatewayProvider interface
func NewPoolProvider(pool *discord.Pool) GatewayProvider {
	return poolAdapter{pool: pool}
}

type poolAdapter struct {
	pool *discord.Pool
}

func (a poolAdapter) Acquire(userID string) Gateway {
	return a.pool.Acquire(userID)
}

func (a poolAdapter) Release(userID string) {
	a.pool.Release(userID)
}
