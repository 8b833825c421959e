package main

import (
    "context"
    "flag"
    "fmt"
    "log"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "pricetrend/internal/collect"
    "pricetrend/internal/config"
    "pricetrend/internal/httpx"
    "pricetrend/internal/provider"
    "pricetrend/internal/provider/cache"
    coingeckopkg "pricetrend/internal/provider/coingecko"
    "pricetrend/internal/provider/coingeckoadapter"
    "pricetrend/internal/provider/fallback"
    "pricetrend/internal/provider/ratelimit"
    "pricetrend/internal/render"
)

func main() {
    var coinsCSV string
    var currenciesCSV string
    var iterations int
    var delaySec int
    var output string
    var apiKey string
    var timeout int
    var configPath string

    flag.StringVar(&coinsCSV, "coins", getenv("COINS", ""), "comma-separated CoinGecko coin ids")
    flag.StringVar(&currenciesCSV, "currencies", getenv("CURRENCIES", ""), "comma-separated quote currency codes")
    flag.IntVar(&iterations, "iterations", getenvInt("ITERATIONS", 0), "number of collection passes")
    flag.IntVar(&delaySec, "delay", getenvInt("DELAY_SEC", -1), "seconds between passes")
    flag.StringVar(&output, "output", getenv("OUTPUT_PATH", ""), "chart output path")
    flag.StringVar(&apiKey, "api-key", getenv("COINGECKO_API_KEY", ""), "CoinGecko demo API key (optional)")
    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 0), "request timeout seconds")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.Parse()

    // Load config (optional) and merge with flags/env
    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if coinsCSV != "" { cfg.Run.Coins = splitCSV(coinsCSV) }
    if currenciesCSV != "" { cfg.Run.Currencies = splitCSV(currenciesCSV) }
    if iterations > 0 { cfg.Run.Iterations = iterations }
    if delaySec >= 0 { cfg.Run.DelaySeconds = delaySec }
    if output != "" { cfg.Run.Output = output }
    if apiKey != "" { cfg.CoinGecko.APIKey = apiKey }
    if timeout > 0 { cfg.CoinGecko.RequestTimeoutSec = timeout }

    if err := cfg.Validate(); err != nil { log.Fatalf("%v", err) }

    httpClient := httpx.New(time.Duration(cfg.CoinGecko.RequestTimeoutSec) * time.Second)

    cgClient, err := coingeckopkg.NewCoinGeckoAPIClient(
        cfg.CoinGecko.APIKey,
        coingeckopkg.WithBaseURL(cfg.CoinGecko.Endpoint),
        coingeckopkg.WithHTTPClient(httpClient),
    )
    if err != nil { log.Fatalf("coingecko client: %v", err) }

    var p provider.Provider = coingeckoadapter.New(coingeckoadapter.Config{Name: "CoinGecko"}, cgClient)
    if cfg.CoinGecko.MaxRequestsPerMinute > 0 {
        rate := float64(cfg.CoinGecko.MaxRequestsPerMinute) / 60.0
        burst := cfg.CoinGecko.Burst
        if burst <= 0 { burst = 1 }
        p = &ratelimit.TokenBucketProvider{P: p, TB: ratelimit.NewTokenBucket(rate, burst)}
    } else if cfg.CoinGecko.MinRequestIntervalSec > 0 {
        interval := time.Duration(cfg.CoinGecko.MinRequestIntervalSec) * time.Second
        p = &ratelimit.MinInterval{P: p, Interval: interval}
    }
    if cfg.CoinGecko.CacheTTLSeconds > 0 {
        p = &cache.Provider{P: p, TTL: time.Duration(cfg.CoinGecko.CacheTTLSeconds) * time.Second}
    }
    // Fallback outermost: a failed fetch degrades to simulated prices and the
    // collection cadence never breaks.
    p = &fallback.Provider{P: p}

    collector, err := collect.New(
        p,
        cfg.Run.Coins,
        cfg.Run.Currencies,
        cfg.Run.Iterations,
        time.Duration(cfg.Run.DelaySeconds)*time.Second,
    )
    if err != nil { log.Fatalf("%v", err) }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    log.Printf("collecting %v in %v: %d passes, %ds apart",
        cfg.Run.Coins, cfg.Run.Currencies, cfg.Run.Iterations, cfg.Run.DelaySeconds)

    table := collector.Run(ctx)
    log.Printf("collected %d rows across %d coins", len(table), len(table.Coins()))

    opts := render.Options{Title: cfg.Chart.Title, Width: cfg.Chart.Width, Height: cfg.Chart.Height}
    if err := render.Render(cfg.Run.Output, table, opts); err != nil {
        log.Fatalf("%v", err)
    }
    log.Printf("chart written to %s", cfg.Run.Output)
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        _, _ = fmt.Sscanf(v, "%d", &x)
        if x != 0 { return x }
    }
    return def
}
