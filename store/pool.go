package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Pool holds one Store per signed-in user so concurrent users never share
// a roster.
type Pool struct {
	data DataService
	log  zerolog.Logger
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]*poolEntry
}

type poolEntry struct {
	store    *Store
	ready    chan struct{}
	lastUsed time.Time
}

func NewPool(data DataService, logger zerolog.Logger) *Pool {
	return &Pool{
		data:    data,
		log:     logger,
		now:     time.Now,
		entries: make(map[string]*poolEntry),
	}
}

// Get returns the store for identity, loading it on first use. Concurrent
// first calls for the same user share a single load.
func (p *Pool) Get(ctx context.Context, identity Identity) (*Store, error) {
	if identity.ID == "" {
		return nil, ErrNoIdentity
	}

	p.mu.Lock()
	entry, ok := p.entries[identity.ID]
	if !ok {
		entry = &poolEntry{
			store: New(p.data, p.log),
			ready: make(chan struct{}),
		}
		p.entries[identity.ID] = entry
	}
	entry.lastUsed = p.now()
	p.mu.Unlock()

	if !ok {
		entry.store.Reload(ctx, identity)
		close(entry.ready)
		return entry.store, nil
	}

	select {
	case <-entry.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	// A changed email changes which parent-linked players are visible.
	entry.store.SetIdentity(ctx, identity)
	return entry.store, nil
}

// Forget drops the user's store; the next Get loads it again.
func (p *Pool) Forget(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, userID)
}

// EvictIdle drops stores not used within maxIdle and reports how many were
// dropped. Stores still loading are kept.
func (p *Pool) EvictIdle(maxIdle time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := p.now().Add(-maxIdle)
	evicted := 0
	for userID, entry := range p.entries {
		select {
		case <-entry.ready:
		default:
			continue
		}
		if entry.lastUsed.Before(cutoff) {
			delete(p.entries, userID)
			evicted++
		}
	}
	return evicted
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
