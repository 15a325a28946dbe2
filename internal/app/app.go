// Package app assembles the pipeline from configuration. Both the
// server and the CLI build the same object graph through here.
package app

import (
	"go.uber.org/zap"

	"stockanalyst/internal/analyzer"
	"stockanalyst/internal/config"
	"stockanalyst/internal/httpx"
	"stockanalyst/internal/manager"
	"stockanalyst/internal/market"
	"stockanalyst/internal/provider"
	"stockanalyst/internal/provider/alphavantage"
	"stockanalyst/internal/provider/cache"
	"stockanalyst/internal/provider/newsfeed"
	"stockanalyst/internal/provider/ratelimit"
	"stockanalyst/internal/provider/yahoo"
	"stockanalyst/internal/recommend"
	"stockanalyst/internal/sentiment"
)

// Build wires providers, gate, caches, sentiment and the engine into
// a ready Analyzer.
func Build(cfg config.Config, log *zap.Logger) *analyzer.Analyzer {
	gate := ratelimit.NewGate()

	var (
		priceChain   []provider.PriceProvider
		profileChain []provider.ProfileProvider
		newsChain    []provider.NewsProvider
	)

	if cfg.Yahoo.Enabled {
		yh := yahoo.New(yahoo.Config{Endpoint: cfg.Yahoo.Endpoint}, httpx.New(cfg.Yahoo.Timeout))
		gate.Register(yh.Name(), ratelimit.Limit{
			RequestsPerMinute: cfg.Yahoo.MaxRequestsPerMinute,
			Burst:             cfg.Yahoo.Burst,
			MinInterval:       cfg.Yahoo.MinRequestInterval,
			DeferBudget:       cfg.Engine.DeferBudget,
		})
		priceChain = append(priceChain, yh)
		profileChain = append(profileChain, yh)
	}

	if cfg.AlphaVantage.APIKey != "" {
		av := alphavantage.New(alphavantage.Config{
			Endpoint: cfg.AlphaVantage.Endpoint,
			APIKey:   cfg.AlphaVantage.APIKey,
		}, httpx.New(cfg.AlphaVantage.Timeout))
		gate.Register(av.Name(), ratelimit.Limit{
			RequestsPerMinute: cfg.AlphaVantage.MaxRequestsPerMinute,
			Burst:             cfg.AlphaVantage.Burst,
			DeferBudget:       cfg.Engine.DeferBudget,
		})
		priceChain = append(priceChain, av)
		profileChain = append(profileChain, av)
	} else {
		log.Info("alpha vantage adapter disabled, no API key configured")
	}

	nf := newsfeed.New(newsfeed.Config{Endpoint: cfg.News.FeedEndpoint}, httpx.New(cfg.News.Timeout))
	gate.Register(nf.Name(), ratelimit.Limit{
		RequestsPerMinute: cfg.News.MaxRequestsPerMinute,
		Burst:             cfg.News.Burst,
		DeferBudget:       cfg.Engine.DeferBudget,
	})
	newsChain = append(newsChain, nf)

	mgr := manager.New(manager.Config{
		Prices:       priceChain,
		Profiles:     profileChain,
		News:         newsChain,
		Gate:         gate,
		PriceCache:   cache.New[market.PriceSeries](cfg.Cache.PriceTTL, cfg.Cache.MaxItems),
		ProfileCache: cache.New[market.CompanyProfile](cfg.Cache.ProfileTTL, cfg.Cache.MaxItems),
		NewsCache:    cache.New[[]market.NewsArticle](cfg.Cache.NewsTTL, cfg.Cache.MaxItems),
		WaitOnDefer:  cfg.Engine.WaitOnDefer,
		Logger:       log,
	})

	var classifier sentiment.Classifier
	if cfg.Classifier.Endpoint != "" {
		classifier = sentiment.NewHTTPClassifier(cfg.Classifier.Endpoint, httpx.New(cfg.Classifier.Timeout))
	} else {
		log.Info("no classifier endpoint configured, using lexicon scorer")
		classifier = sentiment.NewLexicon()
	}
	agg := sentiment.NewAggregator(classifier, cfg.Classifier.Concurrency, log)

	engine := recommend.New(recommend.Config{
		Threshold:        cfg.Engine.Threshold,
		PriceWeight:      cfg.Engine.PriceWeight,
		SentimentWeight:  cfg.Engine.SentimentWeight,
		MaxPriceSwingPct: cfg.Engine.MaxPriceSwingPct,
	})

	return analyzer.New(analyzer.Config{
		RangeDays:   cfg.Engine.RangeDays,
		MaxArticles: cfg.News.MaxArticles,
	}, mgr, agg, engine, log)
}
