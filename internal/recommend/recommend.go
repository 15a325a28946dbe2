// Package recommend maps price trend and aggregate news sentiment to
// a Buy/Hold/Sell call. The mapping is pure and total: every input
// pair yields exactly one label.
package recommend

import (
	"fmt"

	"stockanalyst/internal/market"
)

// Config tunes the engine. Zero values are replaced with defaults so
// a zero Config is usable.
type Config struct {
	// Threshold is the composite score at which Hold flips to Buy or
	// Sell. The boundary belongs to the action: exactly +Threshold
	// is a Buy, exactly -Threshold a Sell.
	Threshold float64
	// PriceWeight and SentimentWeight blend the two signals; they are
	// renormalized to sum to 1.
	PriceWeight     float64
	SentimentWeight float64
	// MaxPriceSwingPct is the price change treated as a full-strength
	// signal; larger moves are clipped.
	MaxPriceSwingPct float64
}

type Engine struct {
	cfg Config
}

func New(cfg Config) Engine {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.15
	}
	if cfg.PriceWeight <= 0 && cfg.SentimentWeight <= 0 {
		cfg.PriceWeight, cfg.SentimentWeight = 0.4, 0.6
	}
	if cfg.MaxPriceSwingPct <= 0 {
		cfg.MaxPriceSwingPct = 10
	}
	return Engine{cfg: cfg}
}

// Recommend combines the clipped, normalized price signal with the
// aggregate sentiment scalar. When the sentiment signal is empty the
// weights renormalize to price alone, so no news plus a flat price
// lands on Hold rather than drifting bullish or bearish.
func (e Engine) Recommend(priceChangePct float64, s market.AggregateSentiment) (market.Recommendation, string) {
	priceSignal := clip(priceChangePct, e.cfg.MaxPriceSwingPct) / e.cfg.MaxPriceSwingPct

	wp, ws := e.cfg.PriceWeight, e.cfg.SentimentWeight
	if s.Empty {
		wp, ws = 1, 0
	}
	if total := wp + ws; total > 0 {
		wp, ws = wp/total, ws/total
	}

	pricePart := wp * priceSignal
	sentimentPart := ws * s.Score
	composite := pricePart + sentimentPart

	var rec market.Recommendation
	switch {
	case composite >= e.cfg.Threshold:
		rec = market.Buy
	case composite <= -e.cfg.Threshold:
		rec = market.Sell
	default:
		rec = market.Hold
	}
	return rec, e.rationale(rec, priceChangePct, priceSignal, s, pricePart, sentimentPart)
}

func (e Engine) rationale(rec market.Recommendation, pct, priceSignal float64, s market.AggregateSentiment, pricePart, sentimentPart float64) string {
	priceDesc := describePrice(priceSignal, pct)
	if s.Empty {
		return fmt.Sprintf("%s: no scorable news was available, so the call rests on price trend alone (%s).", rec, priceDesc)
	}

	sentimentDesc := describeSentiment(s.Score, s.Articles)
	if abs(sentimentPart) >= abs(pricePart) {
		if sameDirection(sentimentPart, pricePart) {
			return fmt.Sprintf("%s: driven by %s, supported by %s.", rec, sentimentDesc, priceDesc)
		}
		return fmt.Sprintf("%s: driven by %s despite %s.", rec, sentimentDesc, priceDesc)
	}
	if sameDirection(pricePart, sentimentPart) {
		return fmt.Sprintf("%s: driven by %s, supported by %s.", rec, priceDesc, sentimentDesc)
	}
	return fmt.Sprintf("%s: driven by %s despite %s.", rec, priceDesc, sentimentDesc)
}

func describePrice(signal, pct float64) string {
	switch {
	case signal >= 0.5:
		return fmt.Sprintf("a strong price gain (%+.1f%% over the window)", pct)
	case signal >= 0.1:
		return fmt.Sprintf("a modest price gain (%+.1f%% over the window)", pct)
	case signal <= -0.5:
		return fmt.Sprintf("a steep price decline (%+.1f%% over the window)", pct)
	case signal <= -0.1:
		return fmt.Sprintf("a modest price decline (%+.1f%% over the window)", pct)
	default:
		return fmt.Sprintf("flat price action (%+.1f%% over the window)", pct)
	}
}

func describeSentiment(score float64, articles int) string {
	var tone string
	switch {
	case score >= 0.5:
		tone = "strongly positive"
	case score > 0.1:
		tone = "mildly positive"
	case score <= -0.5:
		tone = "strongly negative"
	case score < -0.1:
		tone = "mildly negative"
	default:
		tone = "neutral"
	}
	return fmt.Sprintf("%s news sentiment (%.2f across %d articles)", tone, score, articles)
}

func clip(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sameDirection(a, b float64) bool {
	return (a >= 0 && b >= 0) || (a <= 0 && b <= 0)
}
