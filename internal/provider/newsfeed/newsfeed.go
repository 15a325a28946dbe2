// Package newsfeed adapts a per-ticker RSS headline feed to the
// canonical news shape.
package newsfeed

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"stockanalyst/internal/httpx"
	"stockanalyst/internal/market"
	"stockanalyst/internal/provider"
)

type Config struct {
	Name     string // display name, default: newsfeed
	Endpoint string // feed URL, default: Yahoo Finance headline feed
}

type Provider struct {
	cfg    Config
	client *httpx.Client
	parser *gofeed.Parser
}

func New(cfg Config, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "newsfeed"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://feeds.finance.yahoo.com/rss/2.0/headline"
	}
	return &Provider{cfg: cfg, client: hc, parser: gofeed.NewParser()}
}

func (p *Provider) Name() string { return p.cfg.Name }

// News fetches and parses the feed, newest first, bounded to limit.
func (p *Provider) News(ctx context.Context, t market.Ticker, limit int) ([]market.NewsArticle, error) {
	u := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", p.cfg.Endpoint, url.QueryEscape(t.String()))

	resp, err := p.client.Get(ctx, u)
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, p.cfg.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return nil, provider.NewError(provider.ClassifyStatus(resp.StatusCode), p.cfg.Name,
			fmt.Errorf("GET %s -> %d: %s", u, resp.StatusCode, string(b)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, p.cfg.Name, err)
	}
	feed, err := p.parser.ParseString(string(body))
	if err != nil {
		return nil, provider.NewError(provider.KindInvalidResponse, p.cfg.Name, fmt.Errorf("parse feed: %w", err))
	}

	out := make([]market.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		published := time.Time{}
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}
		source := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			source = item.Author.Name
		}
		out = append(out, market.NewsArticle{
			Title:       stripHTML(item.Title),
			Source:      source,
			URL:         item.Link,
			Summary:     stripHTML(item.Description),
			PublishedAt: published,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

func stripHTML(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}
