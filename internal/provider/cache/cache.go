package cache

import (
    "context"
    "errors"
    "strings"
    "sync"
    "time"

    "pricetrend/internal/provider"
    "golang.org/x/sync/singleflight"
)

// entry stores one cached snapshot with expiry.
type entry struct {
    expiresAt time.Time
    snap      provider.Snapshot
}

// Provider caches whole snapshots per (coins, currencies) request for a TTL.
// Concurrent refreshes of the same request are coalesced so the upstream sees
// at most one call per expiry window.
type Provider struct {
    P   provider.Provider
    TTL time.Duration

    mu      sync.RWMutex
    entries map[string]entry
    sf      singleflight.Group
}

func (c *Provider) Name() string { return c.P.Name() }

// Fetch returns a cached snapshot when still valid, refreshing otherwise.
// Callers get clones; the cached maps are never shared.
func (c *Provider) Fetch(ctx context.Context, coins, currencies []string) (provider.Snapshot, error) {
    if c.P == nil {
        return nil, errors.New("cache: nil provider")
    }
    if c.TTL <= 0 {
        return c.P.Fetch(ctx, coins, currencies)
    }

    key := requestKey(coins, currencies)
    now := time.Now()

    c.mu.RLock()
    e, ok := c.entries[key]
    c.mu.RUnlock()
    if ok && now.Before(e.expiresAt) {
        return e.snap.Clone(), nil
    }

    v, err, _ := c.sf.Do(key, func() (any, error) {
        snap, err := c.P.Fetch(ctx, coins, currencies)
        if err != nil { return nil, err }
        c.mu.Lock()
        if c.entries == nil { c.entries = make(map[string]entry) }
        c.entries[key] = entry{expiresAt: time.Now().Add(c.TTL), snap: snap.Clone()}
        c.mu.Unlock()
        return snap, nil
    })
    if err != nil {
        // Serve a stale snapshot rather than failing entirely.
        if ok {
            return e.snap.Clone(), nil
        }
        return nil, err
    }
    return v.(provider.Snapshot), nil
}

func requestKey(coins, currencies []string) string {
    return strings.Join(coins, ",") + "|" + strings.Join(currencies, ",")
}
