package yahoo

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"finboard/src/models"

	yfgo "github.com/komsit37/yf-go"
)

// API is the part of yfgo.API the providers call.
type API interface {
	Quote(ctx context.Context, symbols []string) ([]yfgo.Quote, error)
	QuoteSummaryTyped(ctx context.Context, symbol string, modules []yfgo.QuoteSummaryModule) (yfgo.QuoteSummaryTyped, error)
	ChartTyped(ctx context.Context, symbol string, opts yfgo.ChartOptions) (yfgo.ChartResult, error)
}

// NewAPI builds a yf-go client without its own response cache; CachedSource owns caching.
func NewAPI(timeout time.Duration) API {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &lockedAPI{
		client: yfgo.NewClient(
			yfgo.WithHTTPClient(&http.Client{Timeout: timeout}),
			yfgo.WithCacheDisabled(),
		),
	}
}

// lockedAPI serializes calls; the yf-go client refreshes its crumb and
// session cookies in place.
type lockedAPI struct {
	mu     sync.Mutex
	client *yfgo.Client
}

func (l *lockedAPI) Quote(ctx context.Context, symbols []string) ([]yfgo.Quote, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.client.Quote(ctx, symbols)
}

func (l *lockedAPI) QuoteSummaryTyped(ctx context.Context, symbol string, modules []yfgo.QuoteSummaryModule) (yfgo.QuoteSummaryTyped, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.client.QuoteSummaryTyped(ctx, symbol, modules)
}

func (l *lockedAPI) ChartTyped(ctx context.Context, symbol string, opts yfgo.ChartOptions) (yfgo.ChartResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.client.ChartTyped(ctx, symbol, opts)
}

// isMissing reports whether a yf-go error means Yahoo has nothing for the
// symbol, as opposed to a transport or server failure. yf-go only returns
// formatted errors, so the known messages are matched.
func isMissing(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"404 Not Found", "chart error:", "no chart data returned", "no results returned", "quoteSummary error:"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// fetchHistory reads OHLCV bars through the v8 chart endpoint.
// Bars without a close are skipped; a symbol without data yields an empty slice.
func fetchHistory(ctx context.Context, api API, symbol, period, interval string) ([]models.HistoryBar, error) {
	chart, err := api.ChartTyped(ctx, symbol, yfgo.ChartOptions{Range: period, Interval: interval})
	if err != nil {
		if isMissing(err) {
			return []models.HistoryBar{}, nil
		}
		return nil, err
	}

	bars := []models.HistoryBar{}
	if len(chart.Indicators.Quote) == 0 {
		return bars, nil
	}
	series := chart.Indicators.Quote[0]
	for i, ts := range chart.Timestamp {
		closePrice := valueAt(series.Close, i)
		if closePrice == nil {
			continue
		}
		bar := models.HistoryBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closePrice,
		}
		if v := valueAt(series.Open, i); v != nil {
			bar.Open = *v
		}
		if v := valueAt(series.High, i); v != nil {
			bar.High = *v
		}
		if v := valueAt(series.Low, i); v != nil {
			bar.Low = *v
		}
		if v := valueAt(series.Volume, i); v != nil {
			bar.Volume = *v
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func valueAt[T any](values []*T, i int) *T {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
