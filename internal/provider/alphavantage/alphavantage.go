// Package alphavantage adapts the Alpha Vantage daily time series and
// company overview endpoints. The free tier throttles hard, so the
// adapter watches for the "Note"/"Information" bodies the API returns
// with HTTP 200 when a key runs out of calls.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"stockanalyst/internal/httpx"
	"stockanalyst/internal/market"
	"stockanalyst/internal/provider"
)

type Config struct {
	Name     string // display name, default: alphavantage
	Endpoint string // base URL, default: https://www.alphavantage.co
	APIKey   string
}

type Provider struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "alphavantage"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://www.alphavantage.co"
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

// Prices fetches TIME_SERIES_DAILY and keeps the trailing rangeDays.
func (p *Provider) Prices(ctx context.Context, t market.Ticker, rangeDays int) (market.PriceSeries, error) {
	outputSize := "compact"
	if rangeDays > 100 {
		outputSize = "full"
	}
	u := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=%s&apikey=%s",
		p.cfg.Endpoint, url.QueryEscape(t.String()), outputSize, url.QueryEscape(p.cfg.APIKey))

	var api dailyResponse
	if err := p.getJSON(ctx, u, &api); err != nil {
		return nil, err
	}
	if err := p.checkEnvelope(api.envelope); err != nil {
		return nil, err
	}
	if len(api.Series) == 0 {
		return nil, provider.NewError(provider.KindInvalidResponse, p.cfg.Name,
			fmt.Errorf("response missing daily time series"))
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -rangeDays)
	series := make(market.PriceSeries, 0, rangeDays)
	for day, bar := range api.Series {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, provider.NewError(provider.KindInvalidResponse, p.cfg.Name,
				fmt.Errorf("bad series date %q: %w", day, err))
		}
		if date.Before(cutoff) {
			continue
		}
		// Prices arrive as decimal strings ("229.8700"); parse exactly
		// before converting for the canonical series.
		d, err := decimal.NewFromString(bar.Close)
		if err != nil {
			return nil, provider.NewError(provider.KindInvalidResponse, p.cfg.Name,
				fmt.Errorf("bad close %q for %s: %w", bar.Close, day, err))
		}
		series = append(series, market.PricePoint{Date: date, Close: d.InexactFloat64()})
	}
	if len(series) == 0 {
		return nil, provider.NewError(provider.KindInvalidResponse, p.cfg.Name,
			fmt.Errorf("no prices within %d day window", rangeDays))
	}
	return series.Normalize(), nil
}

// Profile fetches the OVERVIEW function. Unknown tickers come back as
// an empty JSON object.
func (p *Provider) Profile(ctx context.Context, t market.Ticker) (market.CompanyProfile, error) {
	u := fmt.Sprintf("%s/query?function=OVERVIEW&symbol=%s&apikey=%s",
		p.cfg.Endpoint, url.QueryEscape(t.String()), url.QueryEscape(p.cfg.APIKey))

	var api overviewResponse
	if err := p.getJSON(ctx, u, &api); err != nil {
		return market.CompanyProfile{}, err
	}
	if err := p.checkEnvelope(api.envelope); err != nil {
		return market.CompanyProfile{}, err
	}
	if api.Symbol == "" {
		return market.CompanyProfile{}, provider.NewError(provider.KindNotFound, p.cfg.Name,
			fmt.Errorf("no overview for %s", t))
	}

	employees := 0
	if n, err := strconv.Atoi(api.FullTimeEmployees); err == nil {
		employees = n
	}
	return market.CompanyProfile{
		Name:        api.CompanyName,
		Sector:      api.Sector,
		Industry:    api.Industry,
		Country:     api.Country,
		Description: api.Description,
		Employees:   employees,
	}, nil
}

// checkEnvelope handles the status-200 failure bodies.
func (p *Provider) checkEnvelope(env envelope) error {
	if env.Note != "" || env.Information != "" {
		msg := env.Note
		if msg == "" {
			msg = env.Information
		}
		return provider.NewError(provider.KindRateLimited, p.cfg.Name, fmt.Errorf("throttled: %s", msg))
	}
	if env.ErrorMessage != "" {
		return provider.NewError(provider.KindNotFound, p.cfg.Name, fmt.Errorf("api error: %s", env.ErrorMessage))
	}
	return nil
}

func (p *Provider) getJSON(ctx context.Context, u string, v any) error {
	resp, err := p.client.Get(ctx, u)
	if err != nil {
		return provider.NewError(provider.KindUnavailable, p.cfg.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return provider.NewError(provider.ClassifyStatus(resp.StatusCode), p.cfg.Name,
			fmt.Errorf("GET -> %d: %s", resp.StatusCode, string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return provider.NewError(provider.KindInvalidResponse, p.cfg.Name, fmt.Errorf("decode: %w", err))
	}
	return nil
}

type envelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

type dailyBar struct {
	Close string `json:"4. close"`
}

type dailyResponse struct {
	envelope
	Series map[string]dailyBar `json:"Time Series (Daily)"`
}

type overviewResponse struct {
	envelope
	Symbol            string `json:"Symbol"`
	CompanyName       string `json:"Name"`
	Sector            string `json:"Sector"`
	Industry          string `json:"Industry"`
	Country           string `json:"Country"`
	Description       string `json:"Description"`
	FullTimeEmployees string `json:"FullTimeEmployees"`
}
