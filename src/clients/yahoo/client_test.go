package yahoo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"finboard/src/clients/yahoo"

	yfgo "github.com/komsit37/yf-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	quotes   []yfgo.Quote
	summary  yfgo.QuoteSummaryTyped
	chart    yfgo.ChartResult
	err      error
	chartReq yfgo.ChartOptions
}

func (f *fakeAPI) Quote(ctx context.Context, symbols []string) ([]yfgo.Quote, error) {
	return f.quotes, f.err
}

func (f *fakeAPI) QuoteSummaryTyped(ctx context.Context, symbol string, modules []yfgo.QuoteSummaryModule) (yfgo.QuoteSummaryTyped, error) {
	return f.summary, f.err
}

func (f *fakeAPI) ChartTyped(ctx context.Context, symbol string, opts yfgo.ChartOptions) (yfgo.ChartResult, error) {
	f.chartReq = opts
	return f.chart, f.err
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func sampleChart() yfgo.ChartResult {
	return yfgo.ChartResult{
		Timestamp: []int64{1700000000, 1700086400, 1700172800},
		Indicators: yfgo.ChartIndicators{
			Quote: []yfgo.ChartQuoteSeries{{
				Open:   []*float64{f64(10), f64(11), nil},
				High:   []*float64{f64(12), f64(13), nil},
				Low:    []*float64{f64(9), f64(10), nil},
				Close:  []*float64{f64(11), f64(12.5), nil},
				Volume: []*int64{i64(100), i64(200)},
			}},
		},
	}
}

func TestQuoteClient(t *testing.T) {
	t.Run("Fills every quote field", func(t *testing.T) {
		api := &fakeAPI{quotes: []yfgo.Quote{{
			Symbol:                     "AAPL",
			LongName:                   "Apple Inc.",
			Currency:                   "USD",
			RegularMarketPrice:         f64(190),
			RegularMarketPreviousClose: f64(188),
			RegularMarketVolume:        i64(52000000),
			MarketCap:                  i64(2900000000000),
			TrailingPE:                 f64(29.5),
		}}}

		q, err := yahoo.NewQuoteClient(api).FetchQuote(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Apple Inc.", q.Name)
		assert.Equal(t, 190.0, q.CurrentPrice)
		assert.Equal(t, 188.0, q.PreviousClose)
		assert.Equal(t, 2.0, q.Change)
		assert.InDelta(t, 1.06, q.ChangePercent, 0.01)
		assert.Equal(t, int64(52000000), q.Volume)
		assert.Equal(t, "USD", q.Currency)
		assert.Equal(t, 2.9e12, q.MarketCap)
		assert.Equal(t, 29.5, q.PERatio)
	})

	t.Run("Missing price is no data", func(t *testing.T) {
		api := &fakeAPI{quotes: []yfgo.Quote{{Symbol: "ZZZZ"}}}
		_, err := yahoo.NewQuoteClient(api).FetchQuote(context.Background(), "ZZZZ")
		assert.ErrorIs(t, err, yahoo.ErrNoData)
	})

	t.Run("Empty result is no data", func(t *testing.T) {
		api := &fakeAPI{err: errors.New("no results returned")}
		_, err := yahoo.NewQuoteClient(api).FetchQuote(context.Background(), "ZZZZ")
		assert.ErrorIs(t, err, yahoo.ErrNoData)
	})

	t.Run("Upstream failure is passed through", func(t *testing.T) {
		api := &fakeAPI{err: errors.New("yahoo finance error: 500 Internal Server Error: boom")}
		_, err := yahoo.NewQuoteClient(api).FetchQuote(context.Background(), "AAPL")
		require.Error(t, err)
		assert.NotErrorIs(t, err, yahoo.ErrNoData)
	})
}

func TestSummaryClient(t *testing.T) {
	t.Run("Fills every quote field from the price module", func(t *testing.T) {
		api := &fakeAPI{summary: yfgo.QuoteSummaryTyped{Price: &yfgo.PriceModule{
			ShortName:                  "Apple",
			Currency:                   "USD",
			RegularMarketPrice:         yfgo.YNum{Raw: f64(190)},
			RegularMarketPreviousClose: yfgo.YNum{Raw: f64(188)},
			RegularMarketVolume:        yfgo.YNum{Raw: f64(52000000)},
			MarketCap:                  yfgo.YNum{Raw: f64(2.9e12)},
			TrailingPE:                 yfgo.YNum{Raw: f64(29.5)},
		}}}

		q, err := yahoo.NewSummaryClient(api).FetchQuote(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Apple", q.Name)
		assert.Equal(t, 188.0, q.PreviousClose)
		assert.Equal(t, 2.0, q.Change)
		assert.Equal(t, int64(52000000), q.Volume)
		assert.Equal(t, "USD", q.Currency)
		assert.Equal(t, 2.9e12, q.MarketCap)
		assert.Equal(t, 29.5, q.PERatio)
	})

	t.Run("Missing price module is no data", func(t *testing.T) {
		api := &fakeAPI{}
		_, err := yahoo.NewSummaryClient(api).FetchQuote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, yahoo.ErrNoData)
	})
}

func TestFetchHistory(t *testing.T) {
	t.Run("Converts chart bars and skips empty closes", func(t *testing.T) {
		api := &fakeAPI{chart: sampleChart()}

		bars, err := yahoo.NewQuoteClient(api).FetchHistory(context.Background(), "AAPL", "1mo", "1d")
		require.NoError(t, err)
		require.Len(t, bars, 2)
		assert.Equal(t, yfgo.ChartOptions{Range: "1mo", Interval: "1d"}, api.chartReq)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), bars[0].Date)
		assert.Equal(t, 11.0, bars[0].Close)
		assert.Equal(t, 13.0, bars[1].High)
		assert.Equal(t, int64(200), bars[1].Volume)
	})

	t.Run("Summary provider shares the chart history", func(t *testing.T) {
		api := &fakeAPI{chart: sampleChart()}
		bars, err := yahoo.NewSummaryClient(api).FetchHistory(context.Background(), "AAPL", "5d", "1h")
		require.NoError(t, err)
		assert.Len(t, bars, 2)
	})

	t.Run("Unknown symbol yields empty history", func(t *testing.T) {
		api := &fakeAPI{err: errors.New("yahoo finance error: 404 Not Found: {}")}
		bars, err := yahoo.NewQuoteClient(api).FetchHistory(context.Background(), "ZZZZ", "1mo", "1d")
		require.NoError(t, err)
		assert.Empty(t, bars)
	})

	t.Run("Transport failure is returned", func(t *testing.T) {
		api := &fakeAPI{err: context.DeadlineExceeded}
		_, err := yahoo.NewQuoteClient(api).FetchHistory(context.Background(), "AAPL", "1mo", "1d")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
