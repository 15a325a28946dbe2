package newsfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stockanalyst/internal/httpx"
	"stockanalyst/internal/provider"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Yahoo! Finance: AAPL News</title>
    <link>https://finance.yahoo.com</link>
    <item>
      <title>Apple &lt;b&gt;shares rally&lt;/b&gt; after earnings</title>
      <link>https://example.com/a</link>
      <description>&lt;p&gt;Quarterly results beat expectations.&lt;/p&gt;</description>
      <pubDate>Mon, 02 Jun 2025 09:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Older analyst note</title>
      <link>https://example.com/b</link>
      <description>A week-old writeup.</description>
      <pubDate>Mon, 26 May 2025 12:00:00 +0000</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://example.com/ignored</link>
    </item>
    <item>
      <title>Newest wire headline</title>
      <link>https://example.com/c</link>
      <pubDate>Tue, 03 Jun 2025 08:30:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func newTestProvider(handler http.Handler) (*Provider, *httptest.Server) {
	srv := httptest.NewServer(handler)
	p := New(Config{Endpoint: srv.URL}, httpx.New(5*time.Second))
	return p, srv
}

func TestNews(t *testing.T) {
	p, srv := newTestProvider(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "AAPL", r.URL.Query().Get("s"))
		fmt.Fprint(w, feedFixture)
	}))
	defer srv.Close()

	articles, err := p.News(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, articles, 3, "untitled items are dropped")

	// Newest first.
	require.Equal(t, "Newest wire headline", articles[0].Title)
	require.Equal(t, "Apple shares rally after earnings", articles[1].Title)
	require.Equal(t, "Older analyst note", articles[2].Title)

	require.Equal(t, "Quarterly results beat expectations.", articles[1].Summary)
	require.Equal(t, "https://example.com/a", articles[1].URL)
	require.Equal(t, "Yahoo! Finance: AAPL News", articles[1].Source)
	require.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), articles[1].PublishedAt)
}

func TestNews_LimitBoundsBatch(t *testing.T) {
	p, srv := newTestProvider(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, feedFixture)
	}))
	defer srv.Close()

	articles, err := p.News(context.Background(), "AAPL", 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "Newest wire headline", articles[0].Title)
}

func TestNews_MalformedFeedIsInvalid(t *testing.T) {
	p, srv := newTestProvider(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "this is not xml")
	}))
	defer srv.Close()

	_, err := p.News(context.Background(), "AAPL", 10)
	require.Equal(t, provider.KindInvalidResponse, provider.KindOf(err))
}

func TestNews_ServerErrorIsUnavailable(t *testing.T) {
	p, srv := newTestProvider(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := p.News(context.Background(), "AAPL", 10)
	require.Equal(t, provider.KindUnavailable, provider.KindOf(err))
}

func TestStripHTML(t *testing.T) {
	require.Equal(t, "plain", stripHTML("plain"))
	require.Equal(t, "bold move", stripHTML("<b>bold</b> move"))
	require.Equal(t, "trimmed", stripHTML("  <p>trimmed</p>  "))
}
