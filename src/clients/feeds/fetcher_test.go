package feeds_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finboard/src/clients/feeds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Markets</title>
<item><title>Stocks rally as earnings beat</title><description>&lt;p&gt;Shares &amp;amp; indexes rose&lt;/p&gt;</description><link>https://example.com/a</link><pubDate>Mon, 06 May 2024 10:00:00 GMT</pubDate></item>
<item><title>Undated headline for test</title><description>No date here</description><link>https://example.com/b</link></item>
</channel></rss>`

func TestFetchFeed(t *testing.T) {
	t.Run("Parses RSS entries", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(rss))
		}))
		defer ts.Close()

		entries, err := feeds.NewFetcher(time.Second).FetchFeed(context.Background(), ts.URL)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Stocks rally as earnings beat", entries[0].Title)
		assert.Equal(t, "https://example.com/a", entries[0].Link)
		require.NotNil(t, entries[0].Published)
		assert.Equal(t, 2024, entries[0].Published.Year())
		assert.Nil(t, entries[1].Published)
	})

	t.Run("Non 200 status is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		_, err := feeds.NewFetcher(time.Second).FetchFeed(context.Background(), ts.URL)
		assert.Error(t, err)
	})

	t.Run("Malformed body is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not a feed"))
		}))
		defer ts.Close()

		_, err := feeds.NewFetcher(time.Second).FetchFeed(context.Background(), ts.URL)
		assert.Error(t, err)
	})
}
