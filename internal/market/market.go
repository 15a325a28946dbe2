package market

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Kind names a category of per-ticker data. Cache keys and provider
// chains are organized per kind.
type Kind string

const (
	KindPrices  Kind = "prices"
	KindProfile Kind = "profile"
	KindNews    Kind = "news"
)

const maxTickerLen = 10

var ErrInvalidTicker = errors.New("invalid ticker symbol")

// Ticker is a validated, upper-cased stock symbol.
type Ticker string

// ParseTicker validates and normalizes a raw symbol: non-empty,
// ASCII alphanumeric, at most 10 characters. Lower case is accepted
// and upper-cased.
func ParseTicker(raw string) (Ticker, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTicker)
	}
	if len(raw) > maxTickerLen {
		return "", fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidTicker, raw, maxTickerLen)
	}
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out[i] = c
		case c >= 'a' && c <= 'z':
			out[i] = c - ('a' - 'A')
		default:
			return "", fmt.Errorf("%w: %q contains non-alphanumeric character", ErrInvalidTicker, raw)
		}
	}
	return Ticker(out), nil
}

func (t Ticker) String() string { return string(t) }

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered run of daily closes over the lookback window.
// Dates are strictly increasing with no duplicates after Normalize.
type PriceSeries []PricePoint

// Normalize sorts the series by date and collapses duplicate dates,
// keeping the last value seen for each calendar day.
func (ps PriceSeries) Normalize() PriceSeries {
	if len(ps) == 0 {
		return ps
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Date.Before(ps[j].Date) })
	out := ps[:1]
	for _, p := range ps[1:] {
		last := &out[len(out)-1]
		if sameDay(p.Date, last.Date) {
			*last = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ChangePct returns the percentage change between the first and last
// close of the series. Zero for series shorter than two points.
func (ps PriceSeries) ChangePct() float64 {
	if len(ps) < 2 || ps[0].Close == 0 {
		return 0
	}
	return (ps[len(ps)-1].Close - ps[0].Close) / ps[0].Close * 100
}

// Last returns the most recent close, or 0 for an empty series.
func (ps PriceSeries) Last() float64 {
	if len(ps) == 0 {
		return 0
	}
	return ps[len(ps)-1].Close
}

// CompanyProfile holds descriptive company data. Providers may fill
// any subset; the zero value is a legal (empty) profile.
type CompanyProfile struct {
	Name        string `json:"name,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Country     string `json:"country,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Employees   int    `json:"employees,omitempty"`
}

// IsZero reports whether no field was populated.
func (p CompanyProfile) IsZero() bool { return p == CompanyProfile{} }

// NewsArticle is one normalized news item.
type NewsArticle struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

type SentimentLabel string

const (
	Positive SentimentLabel = "Positive"
	Neutral  SentimentLabel = "Neutral"
	Negative SentimentLabel = "Negative"
)

// labelBand is the |score| below which sentiment counts as neutral.
const labelBand = 0.2

// SentimentScore is a scalar in [-1, +1] with its discrete label.
type SentimentScore struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

// NewSentimentScore clamps v to [-1, +1] and derives the label.
func NewSentimentScore(v float64) SentimentScore {
	v = math.Max(-1, math.Min(1, v))
	return SentimentScore{Score: v, Label: LabelFor(v)}
}

// LabelFor maps a scalar score to its discrete label.
func LabelFor(v float64) SentimentLabel {
	switch {
	case v > labelBand:
		return Positive
	case v < -labelBand:
		return Negative
	default:
		return Neutral
	}
}

// AggregateSentiment is the mean sentiment over a batch of articles.
// Empty is set when no article produced a usable score, so downstream
// consumers do not over-weight a missing signal.
type AggregateSentiment struct {
	SentimentScore
	Articles int  `json:"articles"`
	Empty    bool `json:"empty"`
}

// ScoredArticle pairs an article with its individual sentiment.
type ScoredArticle struct {
	NewsArticle
	Sentiment SentimentScore `json:"sentiment"`
}

type Recommendation string

const (
	Buy  Recommendation = "Buy"
	Hold Recommendation = "Hold"
	Sell Recommendation = "Sell"
)

// SourceSynthetic is the provenance tag for generator output. It must
// survive to the presentation layer so synthetic data is never shown
// as real.
const SourceSynthetic = "synthetic"

// Provenance records which provider supplied each kind of data and
// whether it was served from cache.
type Provenance struct {
	Price            string `json:"price"`
	Profile          string `json:"profile"`
	News             string `json:"news"`
	PriceFromCache   bool   `json:"price_from_cache,omitempty"`
	ProfileFromCache bool   `json:"profile_from_cache,omitempty"`
	NewsFromCache    bool   `json:"news_from_cache,omitempty"`
}

// Synthetic reports whether any kind fell back to generated data.
func (p Provenance) Synthetic() bool {
	return p.Price == SourceSynthetic || p.Profile == SourceSynthetic || p.News == SourceSynthetic
}

// AnalysisResult is the complete outcome for one ticker. It is a value
// object built fresh per request; nothing retains it.
type AnalysisResult struct {
	Ticker         Ticker             `json:"ticker"`
	Profile        CompanyProfile     `json:"profile"`
	Prices         PriceSeries        `json:"prices"`
	CurrentPrice   float64            `json:"current_price"`
	PriceChangePct float64            `json:"price_change_pct"`
	News           []ScoredArticle    `json:"news"`
	Sentiment      AggregateSentiment `json:"sentiment"`
	Recommendation Recommendation     `json:"recommendation"`
	Rationale      string             `json:"rationale"`
	Provenance     Provenance         `json:"provenance"`
	GeneratedAt    time.Time          `json:"generated_at"`
}
