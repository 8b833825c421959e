package coingeckoadapter

import (
    "context"

    "pricetrend/internal/provider"
    "pricetrend/internal/provider/coingecko"
)

type Config struct {
    Name string // display name, default: CoinGecko
}

// Adapter bridges the CoinGecko API client to the provider contract.
type Adapter struct {
    cfg    Config
    client *coingecko.CoinGeckoAPIClient
}

func New(cfg Config, client *coingecko.CoinGeckoAPIClient) *Adapter {
    if cfg.Name == "" { cfg.Name = "CoinGecko" }
    return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Fetch(ctx context.Context, coins, currencies []string) (provider.Snapshot, error) {
    prices, err := a.client.GetSimplePrice(ctx, coins, currencies)
    if err != nil {
        return nil, err
    }

    // Keep only requested pairs; the API ignores unknown ids but a stale key
    // in the client query could widen the response.
    want := make(map[string]struct{}, len(coins))
    for _, c := range coins { want[c] = struct{}{} }
    wantCur := make(map[string]struct{}, len(currencies))
    for _, c := range currencies { wantCur[c] = struct{}{} }

    out := make(provider.Snapshot, len(coins))
    for coin, byCur := range prices {
        if _, ok := want[coin]; !ok { continue }
        for cur, p := range byCur {
            if _, ok := wantCur[cur]; !ok { continue }
            if out[coin] == nil { out[coin] = make(map[string]float64, len(currencies)) }
            out[coin][cur] = p
        }
    }
    return out, nil
}
