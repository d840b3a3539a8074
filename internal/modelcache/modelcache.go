// Package modelcache memoizes translation model handles per identifier.
//
// Model loading is the one shared mutable resource in the pipeline, so the
// cache guarantees at most one load per identifier even under concurrent
// requests: first-callers for the same not-yet-cached identifier are
// collapsed into a single load via singleflight, while unrelated
// identifiers load in parallel. A failed load is logged but never cached,
// so a later request may retry.
package modelcache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bharatml/codemix/internal/observe"
	"github.com/bharatml/codemix/pkg/provider/translation"
)

// Cache is a concurrency-safe, lazily populated registry of loaded model
// handles keyed by model identifier. Once cached, a handle is immutable and
// shared for read-only inference across callers.
type Cache struct {
	loader  translation.Loader
	metrics *observe.Metrics

	group singleflight.Group

	mu      sync.RWMutex
	handles map[string]translation.Handle
}

// New creates a Cache that resolves cache misses through loader. metrics may
// be nil, in which case load accounting is skipped.
func New(loader translation.Loader, metrics *observe.Metrics) *Cache {
	return &Cache{
		loader:  loader,
		metrics: metrics,
		handles: make(map[string]translation.Handle),
	}
}

// Get returns the handle for modelID, loading it on first use. Concurrent
// callers for the same uncached identifier share one load; the winning
// result (success or failure) is returned to all of them. Only successful
// loads are cached.
func (c *Cache) Get(ctx context.Context, modelID string) (translation.Handle, error) {
	c.mu.RLock()
	h, ok := c.handles[modelID]
	c.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := c.group.Do(modelID, func() (any, error) {
		// Re-check under the flight: another caller may have just finished.
		c.mu.RLock()
		h, ok := c.handles[modelID]
		c.mu.RUnlock()
		if ok {
			return h, nil
		}

		slog.Info("loading translation model", "model", modelID)
		start := time.Now()
		loaded, err := c.loader.Load(ctx, modelID)
		if err != nil {
			slog.Error("model load failed", "model", modelID, "err", err)
			if c.metrics != nil {
				c.metrics.RecordModelLoad(ctx, modelID, "error", time.Since(start))
			}
			return nil, err
		}
		if c.metrics != nil {
			c.metrics.RecordModelLoad(ctx, modelID, "ok", time.Since(start))
		}

		c.mu.Lock()
		c.handles[modelID] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(translation.Handle), nil
}

// GetCached returns the handle for modelID if it has already been loaded,
// without triggering a load.
func (c *Cache) GetCached(modelID string) (translation.Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handles[modelID]
	return h, ok
}

// Len reports how many handles are currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}
