package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/redact/redact-backend/internal/domain"
)

// --- Mock Gateway ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) ExchangeCode(ctx context.Context, code string) (*domain.Tokens, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tokens), args.Error(1)
}

func (m *mockGateway) User(ctx context.Context, accessToken string) (*domain.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockGateway) Guilds(ctx context.Context, accessToken string) ([]domain.Guild, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Guild), args.Error(1)
}

func (m *mockGateway) GuildChannels(ctx context.Context, accessToken, guildID string) ([]domain.Channel, error) {
	args := m.Called(ctx, accessToken, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Channel), args.Error(1)
}

func (m *mockGateway) DMChannels(ctx context.Context, accessToken string) ([]domain.Channel, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Channel), args.Error(1)
}

func (m *mockGateway) Messages(ctx context.Context, accessToken, channelID string, limit int, before string) ([]domain.Message, error) {
	args := m.Called(ctx, accessToken, channelID, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *mockGateway) DeleteMessage(ctx context.Context, accessToken, channelID, messageID string) error {
	return m.Called(ctx, accessToken, channelID, messageID).Error(0)
}

// --- Fake provider handing out a fixed gateway ---

type fakeProvider struct {
	gateway  Gateway
	mu       sync.Mutex
	acquired int
	released int
}

func (p *fakeProvider) Acquire(string) Gateway {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++
	return p.gateway
}

func (p *fakeProvider) Release(string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

// --- Counting limiter, no real sleeps ---

type countingLimiter struct {
	mu    sync.Mutex
	waits int
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	l.waits++
	l.mu.Unlock()
	return ctx.Err()
}
