package fallback

import (
    "context"
    "log"
    "math/rand"

    "pricetrend/internal/provider"
)

// Band is the price range simulated prices are drawn from.
type Band struct {
    Low  float64
    High float64
}

// bands mirrors the rough market ranges of the tracked coins; anything
// unknown gets the default band.
var bands = map[string]Band{
    "bitcoin":  {Low: 25000, High: 70000},
    "ethereum": {Low: 1500, High: 4000},
}

var defaultBand = Band{Low: 1, High: 100}

// Provider wraps another provider and absorbs its failures. When the wrapped
// fetch errors or comes back empty, a simulated snapshot covering every
// requested (coin, currency) pair is returned instead. Fetch never fails,
// keeping the collection cadence alive when the upstream is not.
type Provider struct {
    P provider.Provider

    // Rand draws simulated prices; nil uses the shared global source.
    Rand *rand.Rand
    // Logf reports fallback substitutions; nil uses log.Printf.
    Logf func(format string, args ...any)
}

func (f *Provider) Name() string {
    if f.P != nil { return f.P.Name() }
    return "Simulated"
}

func (f *Provider) Fetch(ctx context.Context, coins, currencies []string) (provider.Snapshot, error) {
    if f.P != nil {
        snap, err := f.P.Fetch(ctx, coins, currencies)
        if err == nil && len(snap) > 0 {
            return snap, nil
        }
        if err != nil {
            f.logf("%s fetch failed, substituting simulated prices: %v", f.Name(), err)
        } else {
            f.logf("%s returned no data, substituting simulated prices", f.Name())
        }
    }
    return f.Simulate(coins, currencies), nil
}

// Simulate produces a full snapshot for every requested pair from the bands.
// Shape is deterministic even though values are random.
func (f *Provider) Simulate(coins, currencies []string) provider.Snapshot {
    out := make(provider.Snapshot, len(coins))
    for _, coin := range coins {
        band, ok := bands[coin]
        if !ok { band = defaultBand }
        byCur := make(map[string]float64, len(currencies))
        for _, cur := range currencies {
            byCur[cur] = band.Low + f.float64()*(band.High-band.Low)
        }
        out[coin] = byCur
    }
    return out
}

func (f *Provider) float64() float64 {
    if f.Rand != nil { return f.Rand.Float64() }
    return rand.Float64()
}

func (f *Provider) logf(format string, args ...any) {
    if f.Logf != nil {
        f.Logf(format, args...)
        return
    }
    log.Printf(format, args...)
}
