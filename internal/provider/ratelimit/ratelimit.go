package ratelimit

import (
    "context"
    "sync"
    "time"

    "pricetrend/internal/provider"
)

// MinInterval wraps a provider and enforces a minimum time between calls.
// A call arriving early waits until the interval has elapsed since the last
// call, or returns early if the context is canceled.
type MinInterval struct {
    P        provider.Provider
    Interval time.Duration

    mu   sync.Mutex
    last time.Time
}

func (m *MinInterval) Name() string { return m.P.Name() }

func (m *MinInterval) Fetch(ctx context.Context, coins, currencies []string) (provider.Snapshot, error) {
    if m.Interval > 0 {
        m.mu.Lock()
        wait := time.Until(m.last.Add(m.Interval))
        m.mu.Unlock()
        if wait > 0 {
            t := time.NewTimer(wait)
            defer t.Stop()
            select {
            case <-ctx.Done():
                return nil, ctx.Err()
            case <-t.C:
            }
        }
    }
    snap, err := m.P.Fetch(ctx, coins, currencies)
    if m.Interval > 0 {
        m.mu.Lock()
        m.last = time.Now()
        m.mu.Unlock()
    }
    return snap, err
}
