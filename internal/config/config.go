package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Run struct {
    Coins        []string `json:"coins"`
    Currencies   []string `json:"currencies"`
    Iterations   int      `json:"iterations"`
    DelaySeconds int      `json:"delay_sec"`
    Output       string   `json:"output"`
}

type CoinGecko struct {
    Endpoint              string `json:"endpoint"`
    APIKey                string `json:"api_key"`
    RequestTimeoutSec     int    `json:"request_timeout_sec"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int    `json:"min_request_interval_sec"`
    Burst                 int    `json:"burst"`
    CacheTTLSeconds       int    `json:"cache_ttl_sec"`
}

type Chart struct {
    Title  string `json:"title"`
    Width  int    `json:"width"`
    Height int    `json:"height"`
}

type Config struct {
    Run       Run       `json:"run"`
    CoinGecko CoinGecko `json:"coingecko"`
    Chart     Chart     `json:"chart"`
}

func Default() Config {
    return Config{
        Run: Run{
            Coins:        []string{"bitcoin", "ethereum"},
            Currencies:   []string{"usd", "inr"},
            Iterations:   3,
            DelaySeconds: 5,
            Output:       "output/crypto_price_trend.png",
        },
        CoinGecko: CoinGecko{
            Endpoint:             "https://api.coingecko.com/api/v3",
            RequestTimeoutSec:    10,
            MaxRequestsPerMinute: 10,
            Burst:                1,
        },
        Chart: Chart{
            Title:  "Cryptocurrency Price Trend Over Time",
            Width:  1200,
            Height: 600,
        },
    }
}

// Load reads JSON config from path. An empty path probes for config.json and
// falls back to defaults when absent; a named path must exist. Environment
// variables override select fields.
func Load(path string) (Config, error) {
    cfg := Default()
    probed := false
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
            probed = true
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil {
            if probed && errors.Is(err, os.ErrNotExist) {
                // probe raced a deletion; defaults are fine
            } else {
                return cfg, fmt.Errorf("read config: %w", err)
            }
        } else {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

// Validate rejects configurations that cannot produce a single row.
func (c Config) Validate() error {
    if len(c.Run.Coins) == 0 { return errors.New("config: no coins configured") }
    if len(c.Run.Currencies) == 0 { return errors.New("config: no currencies configured") }
    if c.Run.Iterations <= 0 { return fmt.Errorf("config: iterations must be positive, got %d", c.Run.Iterations) }
    if c.Run.DelaySeconds < 0 { return fmt.Errorf("config: delay must be non-negative, got %d", c.Run.DelaySeconds) }
    if strings.TrimSpace(c.Run.Output) == "" { return errors.New("config: output path is empty") }
    if c.CoinGecko.Endpoint == "" { return errors.New("config: coingecko endpoint is empty") }
    return nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("COINS"); v != "" { cfg.Run.Coins = splitCSV(v) }
    if v := os.Getenv("CURRENCIES"); v != "" { cfg.Run.Currencies = splitCSV(v) }
    if v := os.Getenv("ITERATIONS"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x > 0 { cfg.Run.Iterations = x }
    }
    if v := os.Getenv("DELAY_SEC"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x >= 0 { cfg.Run.DelaySeconds = x }
    }
    if v := os.Getenv("OUTPUT_PATH"); v != "" { cfg.Run.Output = v }
    if v := os.Getenv("COINGECKO_ENDPOINT"); v != "" { cfg.CoinGecko.Endpoint = v }
    if v := os.Getenv("COINGECKO_API_KEY"); v != "" { cfg.CoinGecko.APIKey = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x > 0 { cfg.CoinGecko.RequestTimeoutSec = x }
    }
    if v := os.Getenv("COINGECKO_MAX_RPM"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x >= 0 { cfg.CoinGecko.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("COINGECKO_MIN_INTERVAL_SEC"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x >= 0 { cfg.CoinGecko.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("COINGECKO_BURST"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x > 0 { cfg.CoinGecko.Burst = x }
    }
    if v := os.Getenv("COINGECKO_CACHE_TTL_SEC"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x >= 0 { cfg.CoinGecko.CacheTTLSeconds = x }
    }
    if v := os.Getenv("CHART_TITLE"); v != "" { cfg.Chart.Title = v }
    if v := os.Getenv("CHART_WIDTH"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x > 0 { cfg.Chart.Width = x }
    }
    if v := os.Getenv("CHART_HEIGHT"); v != "" {
        var x int; n, _ := fmt.Sscanf(v, "%d", &x); if n == 1 && x > 0 { cfg.Chart.Height = x }
    }
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
