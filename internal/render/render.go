package render

import (
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    "github.com/wcharczuk/go-chart/v2"

    "pricetrend/internal/collect"
)

// Options controls the chart dimensions and title.
type Options struct {
    Title  string
    Width  int
    Height int
}

// RenderTo draws the collected table as a PNG line chart, one series per
// (coin, currency) pair present in the table. The table is read-only here;
// rows are neither dropped nor reordered.
func RenderTo(w io.Writer, table collect.Table, opts Options) error {
    if len(table) == 0 {
        return errors.New("render: empty table, nothing to plot")
    }

    // Distinct pairs in first-seen order; one line per pair.
    type pair struct{ coin, currency string }
    seen := make(map[pair]struct{})
    pairs := make([]pair, 0, 4)
    currencies := make(map[string]struct{})
    for _, r := range table {
        currencies[r.Currency] = struct{}{}
        k := pair{coin: r.Coin, currency: r.Currency}
        if _, ok := seen[k]; ok { continue }
        seen[k] = struct{}{}
        pairs = append(pairs, k)
    }
    multiCurrency := len(currencies) > 1

    series := make([]chart.Series, 0, len(pairs))
    for _, k := range pairs {
        xs, ys := table.Series(k.coin, k.currency)
        name := k.coin
        if multiCurrency {
            name = fmt.Sprintf("%s/%s", k.coin, k.currency)
        }
        series = append(series, chart.TimeSeries{
            Name:    name,
            XValues: xs,
            YValues: ys,
        })
    }

    xaxis := chart.XAxis{
        Name:           "Time",
        ValueFormatter: chart.TimeValueFormatterWithFormat("15:04:05"),
    }
    // A single capture leaves the x-range with zero width, which the chart
    // library rejects; widen it around the lone timestamp instead.
    minTS, maxTS := table[0].Timestamp, table[0].Timestamp
    for _, r := range table {
        if r.Timestamp.Before(minTS) { minTS = r.Timestamp }
        if r.Timestamp.After(maxTS) { maxTS = r.Timestamp }
    }
    if minTS.Equal(maxTS) {
        xaxis.Range = &chart.ContinuousRange{
            Min: chart.TimeToFloat64(minTS.Add(-time.Minute)),
            Max: chart.TimeToFloat64(maxTS.Add(time.Minute)),
        }
    }

    graph := chart.Chart{
        Title:  opts.Title,
        Width:  opts.Width,
        Height: opts.Height,
        XAxis:  xaxis,
        YAxis: chart.YAxis{
            Name: "Price",
        },
        Series: series,
    }
    graph.Elements = []chart.Renderable{chart.Legend(&graph)}

    if err := graph.Render(chart.PNG, w); err != nil {
        return fmt.Errorf("render chart: %w", err)
    }
    return nil
}

// Render writes the chart to path, creating parent directories as needed.
func Render(path string, table collect.Table, opts Options) error {
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil {
            return fmt.Errorf("create output dir: %w", err)
        }
    }
    f, err := os.Create(path)
    if err != nil {
        return fmt.Errorf("create output file: %w", err)
    }
    defer f.Close()
    return RenderTo(f, table, opts)
}
