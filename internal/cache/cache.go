package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spigell/guest-tracker/internal/host"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a host analysis stays valid.
const DefaultTTL = 24 * time.Hour

// Entry is a stored host analysis.
type Entry struct {
	Key       string
	Analysis  *host.Analysis
	CreatedAt time.Time
}

// HostAnalysisCache keeps host analyses in memory keyed by channel URL.
// Entries older than the TTL behave as absent. Safe for concurrent use.
type HostAnalysisCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry
	group   singleflight.Group
}

type Option func(*HostAnalysisCache)

// WithClock replaces the wall clock used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *HostAnalysisCache) {
		if now != nil {
			c.now = now
		}
	}
}

func New(ttl time.Duration, opts ...Option) *HostAnalysisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &HostAnalysisCache{ttl: ttl, now: time.Now, entries: map[string]Entry{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key normalizes a channel URL into a cache key.
func Key(channelURL string) string {
	return strings.TrimRight(strings.TrimSpace(channelURL), "/")
}

// Get returns the analysis for channelURL while it is younger than the TTL.
func (c *HostAnalysisCache) Get(channelURL string) (*host.Analysis, bool) {
	key := Key(channelURL)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.CreatedAt) >= c.ttl {
		return nil, false
	}
	return entry.Analysis, true
}

// Put stores analysis, replacing any previous entry and resetting its age.
func (c *HostAnalysisCache) Put(channelURL string, analysis *host.Analysis) {
	if analysis == nil {
		return
	}
	key := Key(channelURL)

	c.mu.Lock()
	c.entries[key] = Entry{Key: key, Analysis: analysis, CreatedAt: c.now()}
	c.mu.Unlock()
}

// GetOrCompute returns a fresh cached analysis or runs compute. Concurrent
// callers for the same key share a single compute. Degraded analyses are
// returned but not stored. The boolean reports a cache hit.
func (c *HostAnalysisCache) GetOrCompute(ctx context.Context, channelURL string, compute func(context.Context) (*host.Analysis, error)) (*host.Analysis, bool, error) {
	if analysis, ok := c.Get(channelURL); ok {
		return analysis, true, nil
	}
	return c.flight(ctx, channelURL, true, compute)
}

// Refresh recomputes the analysis for channelURL whether or not a fresh entry
// exists, sharing the per-key flight with GetOrCompute. A non-degraded result
// replaces the stored entry.
func (c *HostAnalysisCache) Refresh(ctx context.Context, channelURL string, compute func(context.Context) (*host.Analysis, error)) (*host.Analysis, error) {
	analysis, _, err := c.flight(ctx, channelURL, false, compute)
	return analysis, err
}

func (c *HostAnalysisCache) flight(ctx context.Context, channelURL string, lookup bool, compute func(context.Context) (*host.Analysis, error)) (*host.Analysis, bool, error) {
	key := Key(channelURL)
	hit := false
	v, err, _ := c.group.Do(key, func() (any, error) {
		if lookup {
			if analysis, ok := c.Get(key); ok {
				hit = true
				return analysis, nil
			}
		}
		analysis, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if analysis != nil && !analysis.Degraded {
			c.Put(key, analysis)
		}
		return analysis, nil
	})
	if err != nil {
		return nil, false, err
	}

	analysis, _ := v.(*host.Analysis)
	return analysis, hit, nil
}

// Len reports the number of stored entries, expired ones included.
func (c *HostAnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
