// Package synthetic generates placeholder data when every real
// provider has failed. Output is deterministic per ticker (seeded by
// the symbol) so repeated requests for the same unknown ticker are
// stable, and it is always tagged with the synthetic provenance so it
// can never pass for real market data.
package synthetic

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"stockanalyst/internal/market"
)

const basePrice = 150.0

var (
	sectors    = []string{"Technology", "Healthcare", "Finance", "Consumer Goods", "Energy"}
	industries = []string{"Software", "Hardware", "Pharmaceuticals", "Banking", "Retail", "Oil & Gas"}
	countries  = []string{"USA", "Canada", "UK", "Germany", "Japan"}

	headlines = []string{
		"%s Reports Strong Quarterly Results",
		"%s Announces New Product Launch",
		"Analysts Upgrade %s Stock Rating",
		"%s Expands into New Markets",
		"CEO of %s Discusses Future Growth",
	}
	newsSources = []string{"Financial Times", "Bloomberg", "CNBC", "Reuters", "Wall Street Journal"}
)

// Generator implements all three provider interfaces and never fails.
type Generator struct {
	now func() time.Time // test hook
}

func New() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) Name() string { return market.SourceSynthetic }

// rng returns a source seeded by the ticker so every call for the same
// symbol replays the same sequence.
func rng(t market.Ticker) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(t))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// Prices generates a daily series around $150 with a slight upward
// drift and bounded noise.
func (g *Generator) Prices(_ context.Context, t market.Ticker, rangeDays int) (market.PriceSeries, error) {
	if rangeDays <= 0 {
		rangeDays = 30
	}
	r := rng(t)
	end := g.now().UTC().Truncate(24 * time.Hour)
	series := make(market.PriceSeries, 0, rangeDays+1)
	for i := 0; i <= rangeDays; i++ {
		date := end.AddDate(0, 0, i-rangeDays)
		px := basePrice + float64(i)*0.5 + (r.Float64()*10 - 5)
		series = append(series, market.PricePoint{Date: date, Close: px})
	}
	return series, nil
}

// Profile generates a stable placeholder profile.
func (g *Generator) Profile(_ context.Context, t market.Ticker) (market.CompanyProfile, error) {
	r := rng(t)
	return market.CompanyProfile{
		Name:        fmt.Sprintf("%s Corporation", t),
		Sector:      sectors[r.Intn(len(sectors))],
		Industry:    industries[r.Intn(len(industries))],
		Country:     countries[r.Intn(len(countries))],
		Website:     fmt.Sprintf("https://www.%s.example.com", strings.ToLower(t.String())),
		Description: fmt.Sprintf("Placeholder description for %s. No real company data was available.", t),
		Employees:   1000 + r.Intn(99000),
	}, nil
}

// News generates a handful of template headlines.
func (g *Generator) News(_ context.Context, t market.Ticker, limit int) ([]market.NewsArticle, error) {
	r := rng(t)
	n := len(headlines)
	if limit > 0 && limit < n {
		n = limit
	}
	now := g.now().UTC().Truncate(24 * time.Hour)
	out := make([]market.NewsArticle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, market.NewsArticle{
			Title:       fmt.Sprintf(headlines[i], t),
			Source:      newsSources[r.Intn(len(newsSources))],
			URL:         fmt.Sprintf("https://example.com/news/%s/%d", strings.ToLower(t.String()), i),
			Summary:     fmt.Sprintf("Placeholder article about %s. No real news data was available.", t),
			PublishedAt: now.AddDate(0, 0, -r.Intn(7)),
		})
	}
	return out, nil
}
