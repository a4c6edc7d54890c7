package discord

import (
	"sync"
	"time"

	"github.com/redact/redact-backend/pkg/logger"
)

// Pool manages one API client handle per user with an explicit lifecycle:
// Acquire/Release with reference counting, and eviction of handles that have
// been idle longer than idleTTL. Handles hold a dedicated http.Client so each
// user's connections are reused and torn down together.
type Pool struct {
	mu      sync.Mutex
	entries map[string]*poolEntry
	cfg     Config
	idleTTL time.Duration
	stop    chan struct{}
	stopped sync.Once
}

type poolEntry struct {
	client   *Client
	refs     int
	lastUsed time.Time
}

// NewPool creates a client pool and starts the idle sweeper
func NewPool(cfg Config, idleTTL time.Duration) *Pool {
	if idleTTL <= 0 {
		idleTTL = 15 * time.Minute
	}
	p := &Pool{
		entries: make(map[string]*poolEntry),
		cfg:     cfg,
		idleTTL: idleTTL,
		stop:    make(chan struct{}),
	}
	go p.sweep()
	return p
}

// Acquire returns the client handle for a user, creating it on first use.
// Callers must Release when done with the handle.
func (p *Pool) Acquire(userID string) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[userID]
	if !ok {
		e = &poolEntry{client: NewClient(p.cfg)}
		p.entries[userID] = e
	}
	e.refs++
	e.lastUsed = time.Now()
	return e.client
}

// Release returns a handle to the pool. Idle handles stay cached until the
// sweeper evicts them.
func (p *Pool) Release(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[userID]
	if !ok {
		return
	}
	if e.refs > 0 {
		e.refs--
	}
	e.lastUsed = time.Now()
}

// Size returns the number of live handles
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Close stops the idle sweeper
func (p *Pool) Close() {
	p.stopped.Do(func() { close(p.stop) })
}

func (p *Pool) sweep() {
	ticker := time.NewTicker(p.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.evictIdle(time.Now())
		}
	}
}

// evictIdle drops unreferenced handles idle past the TTL
func (p *Pool) evictIdle(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for userID, e := range p.entries {
		if e.refs == 0 && now.Sub(e.lastUsed) > p.idleTTL {
			e.client.httpClient.CloseIdleConnections()
			delete(p.entries, userID)
			logger.GetLogger().Debug().Str("user_id", userID).Msg("evicted idle discord client")
		}
	}
}
