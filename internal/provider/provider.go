package provider

import (
    "context"
)

// Snapshot is one point-in-time price reading: coin id -> currency code -> price.
// A snapshot may be partial; coins the source did not return are simply absent.
type Snapshot map[string]map[string]float64

type Provider interface {
    Name() string
    Fetch(ctx context.Context, coins, currencies []string) (Snapshot, error)
}

// Clone deep-copies a snapshot so decorators and callers never share maps.
func (s Snapshot) Clone() Snapshot {
    if s == nil { return nil }
    out := make(Snapshot, len(s))
    for coin, byCur := range s {
        m := make(map[string]float64, len(byCur))
        for cur, p := range byCur { m[cur] = p }
        out[coin] = m
    }
    return out
}

// Price looks up a price, reporting whether the (coin, currency) pair is present.
func (s Snapshot) Price(coin, currency string) (float64, bool) {
    byCur, ok := s[coin]
    if !ok { return 0, false }
    p, ok := byCur[currency]
    return p, ok
}
