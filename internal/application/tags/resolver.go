package tags

import (
	"context"
	"sync"
	"time"

	"github.com/sawa-shop/storefront-service/internal/application/ports"
	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
	"github.com/sawa-shop/storefront-service/internal/pkg/clock"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// Resolver answers single tag lookups while issuing batched upstream
// calls. Lookups arriving within one scheduling window are coalesced
// into a single BatchResolveTags call carrying the deduplicated id set;
// every waiter gets its own record back. Results (including misses) are
// cached per id with a TTL so re-renders do not re-batch.
type Resolver struct {
	backend ports.TagBackend
	clk     clock.Clock
	log     *logger.Logger
	window  time.Duration
	ttl     time.Duration

	mu         sync.Mutex
	cache      map[string]cacheEntry
	pending    map[string][]chan lookupResult
	flushArmed bool
}

type cacheEntry struct {
	tag       *catalog.Tag
	expiresAt time.Time
}

type lookupResult struct {
	tag *catalog.Tag
	err error
}

func NewResolver(backend ports.TagBackend, clk clock.Clock, log *logger.Logger, window, ttl time.Duration) *Resolver {
	return &Resolver{
		backend: backend,
		clk:     clk,
		log:     log,
		window:  window,
		ttl:     ttl,
		cache:   make(map[string]cacheEntry),
		pending: make(map[string][]chan lookupResult),
	}
}

// Resolve returns the tag record for tagID, or nil when the backend
// does not know the id. A failed batch call fails every lookup that was
// coalesced into it.
func (r *Resolver) Resolve(ctx context.Context, tagID string) (*catalog.Tag, error) {
	if tagID == "" {
		return nil, nil
	}

	r.mu.Lock()
	if entry, ok := r.cache[tagID]; ok && r.clk.Now().Before(entry.expiresAt) {
		r.mu.Unlock()
		return entry.tag, nil
	}

	ch := make(chan lookupResult, 1)
	r.pending[tagID] = append(r.pending[tagID], ch)

	// First lookup of the window arms the flush timer; everything
	// queued before it fires rides the same batch.
	if !r.flushArmed {
		r.flushArmed = true
		time.AfterFunc(r.window, r.flush)
	}
	r.mu.Unlock()

	select {
	case res := <-ch:
		return res.tag, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// flush swaps out the accumulated queue and resolves it with one
// upstream call, fanning the shared response back out by id.
func (r *Resolver) flush() {
	r.mu.Lock()
	batch := r.pending
	r.pending = make(map[string][]chan lookupResult)
	r.flushArmed = false
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	ids := make([]string, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tags, err := r.backend.BatchResolveTags(ctx, ids)
	if err != nil {
		r.log.Error("Tag batch lookup failed", "ids", len(ids), "error", err)
		for _, waiters := range batch {
			for _, ch := range waiters {
				ch <- lookupResult{err: err}
			}
		}
		return
	}

	byID := make(map[string]*catalog.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	r.mu.Lock()
	expiresAt := r.clk.Now().Add(r.ttl)
	for id := range batch {
		r.cache[id] = cacheEntry{tag: byID[id], expiresAt: expiresAt}
	}
	r.mu.Unlock()

	for id, waiters := range batch {
		for _, ch := range waiters {
			ch <- lookupResult{tag: byID[id]}
		}
	}
}
