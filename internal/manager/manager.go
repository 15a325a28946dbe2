// Package manager orchestrates provider chains per data kind: cache
// first, then real providers in priority order behind the rate-limit
// gate, then the synthetic generator. It never fails for a valid
// ticker; the worst outcome is clearly-tagged synthetic data.
package manager

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stockanalyst/internal/market"
	"stockanalyst/internal/provider"
	"stockanalyst/internal/provider/cache"
	"stockanalyst/internal/provider/ratelimit"
	"stockanalyst/internal/provider/synthetic"
)

// Config wires the manager. Provider slices are in priority order:
// index 0 is tried first.
type Config struct {
	Prices   []provider.PriceProvider
	Profiles []provider.ProfileProvider
	News     []provider.NewsProvider

	Gate *ratelimit.Gate

	PriceCache   *cache.Store[market.PriceSeries]
	ProfileCache *cache.Store[market.CompanyProfile]
	NewsCache    *cache.Store[[]market.NewsArticle]

	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration
	// WaitOnDefer sleeps out Deferred admissions instead of skipping
	// to the next provider.
	WaitOnDefer bool

	Logger *zap.Logger
}

type Manager struct {
	cfg      Config
	fallback *synthetic.Generator
	log      *zap.Logger
}

func New(cfg Config) *Manager {
	if cfg.Gate == nil {
		cfg.Gate = ratelimit.NewGate()
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{cfg: cfg, fallback: synthetic.New(), log: log}
}

// Result carries a payload with its provenance.
type Result[T any] struct {
	Value     T
	Provider  string
	FromCache bool
}

// Prices resolves the close series for a ticker.
func (m *Manager) Prices(ctx context.Context, t market.Ticker, rangeDays int) Result[market.PriceSeries] {
	chain := make([]chainEntry[market.PriceSeries], 0, len(m.cfg.Prices))
	for _, p := range m.cfg.Prices {
		p := p
		chain = append(chain, chainEntry[market.PriceSeries]{
			name: p.Name(),
			call: func(ctx context.Context) (market.PriceSeries, error) { return p.Prices(ctx, t, rangeDays) },
		})
	}
	return resolve(ctx, m, market.KindPrices, t.String(), m.cfg.PriceCache, chain,
		func(ctx context.Context) (market.PriceSeries, error) { return m.fallback.Prices(ctx, t, rangeDays) })
}

// Profile resolves company data for a ticker.
func (m *Manager) Profile(ctx context.Context, t market.Ticker) Result[market.CompanyProfile] {
	chain := make([]chainEntry[market.CompanyProfile], 0, len(m.cfg.Profiles))
	for _, p := range m.cfg.Profiles {
		p := p
		chain = append(chain, chainEntry[market.CompanyProfile]{
			name: p.Name(),
			call: func(ctx context.Context) (market.CompanyProfile, error) { return p.Profile(ctx, t) },
		})
	}
	return resolve(ctx, m, market.KindProfile, t.String(), m.cfg.ProfileCache, chain,
		func(ctx context.Context) (market.CompanyProfile, error) { return m.fallback.Profile(ctx, t) })
}

// News resolves recent articles for a ticker.
func (m *Manager) News(ctx context.Context, t market.Ticker, limit int) Result[[]market.NewsArticle] {
	chain := make([]chainEntry[[]market.NewsArticle], 0, len(m.cfg.News))
	for _, p := range m.cfg.News {
		p := p
		chain = append(chain, chainEntry[[]market.NewsArticle]{
			name: p.Name(),
			call: func(ctx context.Context) ([]market.NewsArticle, error) { return p.News(ctx, t, limit) },
		})
	}
	return resolve(ctx, m, market.KindNews, t.String(), m.cfg.NewsCache, chain,
		func(ctx context.Context) ([]market.NewsArticle, error) { return m.fallback.News(ctx, t, limit) })
}

type chainEntry[T any] struct {
	name string
	call func(ctx context.Context) (T, error)
}

// resolve runs the precedence: fresh cache hit, then the provider
// chain, then the synthetic generator. Synthetic payloads are never
// written to the cache so a recovering provider takes over on the
// next request.
func resolve[T any](
	ctx context.Context,
	m *Manager,
	kind market.Kind,
	key string,
	store *cache.Store[T],
	chain []chainEntry[T],
	synth func(context.Context) (T, error),
) Result[T] {
	if store != nil {
		if e, ok := store.Get(key); ok {
			return Result[T]{Value: e.Value, Provider: e.Provider, FromCache: true}
		}
	}

	for _, entry := range chain {
		if !m.admit(ctx, entry.name, kind, key) {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, m.cfg.CallTimeout)
		v, err := entry.call(callCtx)
		cancel()

		if err == nil {
			if store != nil && ctx.Err() == nil {
				store.Put(key, v, entry.name)
			}
			return Result[T]{Value: v, Provider: entry.name}
		}

		errKind := provider.KindOf(err)
		m.log.Warn("provider call failed",
			zap.String("provider", entry.name),
			zap.String("kind", string(kind)),
			zap.String("ticker", key),
			zap.String("failure", errKind.String()),
			zap.Error(err))
		if errKind == provider.KindNotFound {
			// Other providers are unlikely to know the ticker either.
			break
		}
	}

	v, _ := synth(ctx)
	m.log.Info("falling back to synthetic data",
		zap.String("kind", string(kind)), zap.String("ticker", key))
	return Result[T]{Value: v, Provider: market.SourceSynthetic}
}

// admit consults the gate, honoring Deferred by waiting or skipping
// per configuration.
func (m *Manager) admit(ctx context.Context, providerID string, kind market.Kind, key string) bool {
	d := m.cfg.Gate.Admit(providerID)
	switch d.Action {
	case ratelimit.Allowed:
		return true
	case ratelimit.Deferred:
		if !m.cfg.WaitOnDefer {
			m.log.Debug("rate limit deferred, skipping provider",
				zap.String("provider", providerID), zap.String("kind", string(kind)),
				zap.String("ticker", key), zap.Duration("wait", d.Wait))
			return false
		}
		wd, err := m.cfg.Gate.Wait(ctx, providerID)
		return err == nil && wd.Action == ratelimit.Allowed
	default:
		m.log.Debug("rate limit rejected provider",
			zap.String("provider", providerID), zap.String("kind", string(kind)),
			zap.String("ticker", key), zap.Duration("wait", d.Wait))
		return false
	}
}
