// Package analyzer runs the full per-ticker pipeline: resolve data
// through the manager, score news sentiment, and derive the
// recommendation. The only failure it surfaces is an invalid ticker.
package analyzer

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stockanalyst/internal/manager"
	"stockanalyst/internal/market"
	"stockanalyst/internal/recommend"
	"stockanalyst/internal/sentiment"
)

type Config struct {
	RangeDays   int // price lookback window, default 30
	MaxArticles int // news batch bound, default 10
}

type Analyzer struct {
	cfg    Config
	mgr    *manager.Manager
	agg    *sentiment.Aggregator
	engine recommend.Engine
	log    *zap.Logger
}

func New(cfg Config, mgr *manager.Manager, agg *sentiment.Aggregator, engine recommend.Engine, log *zap.Logger) *Analyzer {
	if cfg.RangeDays <= 0 {
		cfg.RangeDays = 30
	}
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, mgr: mgr, agg: agg, engine: engine, log: log}
}

// Analyze produces a complete AnalysisResult for a raw ticker string.
// The three data kinds are fetched concurrently; each resolves
// independently, so a failing profile chain cannot sink the price
// fetch.
func (a *Analyzer) Analyze(ctx context.Context, raw string) (market.AnalysisResult, error) {
	t, err := market.ParseTicker(raw)
	if err != nil {
		return market.AnalysisResult{}, err
	}

	start := time.Now()
	var (
		prices  manager.Result[market.PriceSeries]
		profile manager.Result[market.CompanyProfile]
		news    manager.Result[[]market.NewsArticle]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prices = a.mgr.Prices(gctx, t, a.cfg.RangeDays)
		return nil
	})
	g.Go(func() error {
		profile = a.mgr.Profile(gctx, t)
		return nil
	})
	g.Go(func() error {
		news = a.mgr.News(gctx, t, a.cfg.MaxArticles)
		return nil
	})
	_ = g.Wait() // fetches absorb their own failures

	agg, scored := a.agg.Score(ctx, news.Value)
	changePct := prices.Value.ChangePct()
	rec, rationale := a.engine.Recommend(changePct, agg)

	result := market.AnalysisResult{
		Ticker:         t,
		Profile:        profile.Value,
		Prices:         prices.Value,
		CurrentPrice:   prices.Value.Last(),
		PriceChangePct: changePct,
		News:           scored,
		Sentiment:      agg,
		Recommendation: rec,
		Rationale:      rationale,
		Provenance: market.Provenance{
			Price:            prices.Provider,
			Profile:          profile.Provider,
			News:             news.Provider,
			PriceFromCache:   prices.FromCache,
			ProfileFromCache: profile.FromCache,
			NewsFromCache:    news.FromCache,
		},
		GeneratedAt: time.Now().UTC(),
	}

	a.log.Info("analysis complete",
		zap.String("ticker", t.String()),
		zap.String("recommendation", string(rec)),
		zap.String("price_source", prices.Provider),
		zap.Bool("synthetic", result.Provenance.Synthetic()),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}
