package collect

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "pricetrend/internal/provider"
)

// Row is one normalized price observation.
type Row struct {
    Timestamp time.Time `json:"timestamp"`
    Coin      string    `json:"coin"`
    Currency  string    `json:"currency"`
    Price     float64   `json:"price"`
}

// Table is the append-only sequence of rows gathered during one run,
// in capture order.
type Table []Row

// Coins returns the distinct coins present in the table, first-seen order.
func (t Table) Coins() []string {
    seen := make(map[string]struct{})
    out := make([]string, 0, 4)
    for _, r := range t {
        if _, ok := seen[r.Coin]; ok { continue }
        seen[r.Coin] = struct{}{}
        out = append(out, r.Coin)
    }
    return out
}

// Series extracts the (timestamp, price) sequence for one (coin, currency)
// pair in insertion order.
func (t Table) Series(coin, currency string) (xs []time.Time, ys []float64) {
    for _, r := range t {
        if r.Coin != coin || r.Currency != currency { continue }
        xs = append(xs, r.Timestamp)
        ys = append(ys, r.Price)
    }
    return xs, ys
}

// Normalize flattens a snapshot into rows, coin-major and currency-minor in
// the configured ordering. Pairs absent from the snapshot produce no row.
// Pure: same snapshot and timestamp always yield the same rows.
func Normalize(snap provider.Snapshot, ts time.Time, coins, currencies []string) []Row {
    rows := make([]Row, 0, len(coins)*len(currencies))
    for _, coin := range coins {
        byCur, ok := snap[coin]
        if !ok { continue }
        for _, cur := range currencies {
            p, ok := byCur[cur]
            if !ok { continue }
            rows = append(rows, Row{Timestamp: ts, Coin: coin, Currency: cur, Price: p})
        }
    }
    return rows
}

// Collector runs the bounded fetch -> normalize -> append -> wait loop.
// It is the single writer of the table it returns.
type Collector struct {
    P          provider.Provider
    Coins      []string
    Currencies []string
    Iterations int
    Delay      time.Duration

    // Logf reports per-iteration progress; nil uses log.Printf.
    Logf func(format string, args ...any)
    // Now supplies capture timestamps; nil uses time.Now.
    Now func() time.Time
}

// New validates the run parameters up front; an invalid configuration can
// never produce a row, so it is rejected before any fetch happens.
func New(p provider.Provider, coins, currencies []string, iterations int, delay time.Duration) (*Collector, error) {
    if p == nil { return nil, errors.New("collect: nil provider") }
    if len(coins) == 0 { return nil, errors.New("collect: no coins to track") }
    if len(currencies) == 0 { return nil, errors.New("collect: no currencies to track") }
    if iterations <= 0 { return nil, fmt.Errorf("collect: iterations must be positive, got %d", iterations) }
    if delay < 0 { return nil, fmt.Errorf("collect: delay must be non-negative, got %v", delay) }
    return &Collector{P: p, Coins: coins, Currencies: currencies, Iterations: iterations, Delay: delay}, nil
}

// Run performs exactly Iterations sequential passes and returns the table.
// A failed fetch contributes no rows for that pass but never aborts the loop;
// with a fallback provider outermost, fetches do not fail at all. A canceled
// context ends the run early with whatever was collected.
func (c *Collector) Run(ctx context.Context) Table {
    table := make(Table, 0, c.Iterations*len(c.Coins)*len(c.Currencies))
    for i := 0; i < c.Iterations; i++ {
        snap, err := c.P.Fetch(ctx, c.Coins, c.Currencies)
        ts := c.now().UTC()
        if err != nil {
            c.logf("iteration %d/%d: fetch failed, no rows: %v", i+1, c.Iterations, err)
        } else {
            rows := Normalize(snap, ts, c.Coins, c.Currencies)
            table = append(table, rows...)
            c.logf("iteration %d/%d: %d rows at %s", i+1, c.Iterations, len(rows), ts.Format(time.RFC3339))
        }
        if ctx.Err() != nil {
            return table
        }
        if i == c.Iterations-1 || c.Delay <= 0 {
            continue
        }
        t := time.NewTimer(c.Delay)
        select {
        case <-ctx.Done():
            t.Stop()
            return table
        case <-t.C:
        }
    }
    return table
}

func (c *Collector) now() time.Time {
    if c.Now != nil { return c.Now() }
    return time.Now()
}

func (c *Collector) logf(format string, args ...any) {
    if c.Logf != nil {
        c.Logf(format, args...)
        return
    }
    log.Printf(format, args...)
}
