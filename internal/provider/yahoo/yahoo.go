// Package yahoo adapts the Yahoo Finance chart and quoteSummary APIs
// to the canonical price and profile shapes.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"stockanalyst/internal/httpx"
	"stockanalyst/internal/market"
	"stockanalyst/internal/provider"
)

// minPricePoints is the smallest series worth normalizing. Shorter
// payloads are treated as partial data.
const minPricePoints = 5

// defaultUserAgents rotates browser agent strings; the chart endpoint
// throttles unknown agents aggressively.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
}

type Config struct {
	Name     string // display name, default: yahoo
	Endpoint string // base URL, default: https://query1.finance.yahoo.com
}

type Provider struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "yahoo"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://query1.finance.yahoo.com"
	}
	if len(hc.UserAgents) == 0 {
		hc.UserAgents = defaultUserAgents
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

// Prices fetches the daily close series from the chart API.
func (p *Provider) Prices(ctx context.Context, t market.Ticker, rangeDays int) (market.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		p.cfg.Endpoint, url.PathEscape(t.String()), rangeParam(rangeDays))

	var api chartResponse
	if err := p.getJSON(ctx, u, &api); err != nil {
		return nil, err
	}
	if api.Chart.Error != nil {
		return nil, provider.NewError(provider.KindNotFound, p.cfg.Name,
			fmt.Errorf("chart error: %s: %s", api.Chart.Error.Code, api.Chart.Error.Description))
	}
	if len(api.Chart.Result) == 0 || len(api.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, provider.NewError(provider.KindInvalidResponse, p.cfg.Name, fmt.Errorf("empty chart result"))
	}

	res := api.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close
	series := make(market.PriceSeries, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // market holidays come back as nulls
		}
		series = append(series, market.PricePoint{Date: time.Unix(ts, 0).UTC(), Close: *closes[i]})
	}
	if len(series) < minPricePoints {
		return nil, provider.NewError(provider.KindInvalidResponse, p.cfg.Name,
			fmt.Errorf("only %d usable price points", len(series)))
	}
	return series.Normalize(), nil
}

// Profile fetches company data from the quoteSummary API.
func (p *Provider) Profile(ctx context.Context, t market.Ticker) (market.CompanyProfile, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile,price",
		p.cfg.Endpoint, url.PathEscape(t.String()))

	var api summaryResponse
	if err := p.getJSON(ctx, u, &api); err != nil {
		return market.CompanyProfile{}, err
	}
	if api.QuoteSummary.Error != nil || len(api.QuoteSummary.Result) == 0 {
		return market.CompanyProfile{}, provider.NewError(provider.KindNotFound, p.cfg.Name,
			fmt.Errorf("no quote summary for %s", t))
	}

	res := api.QuoteSummary.Result[0]
	out := market.CompanyProfile{
		Name:        res.Price.LongName,
		Sector:      res.AssetProfile.Sector,
		Industry:    res.AssetProfile.Industry,
		Country:     res.AssetProfile.Country,
		Website:     res.AssetProfile.Website,
		Description: res.AssetProfile.LongBusinessSummary,
		Employees:   res.AssetProfile.FullTimeEmployees,
	}
	if out.IsZero() {
		return out, provider.NewError(provider.KindInvalidResponse, p.cfg.Name, fmt.Errorf("empty profile payload"))
	}
	return out, nil
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
			fmt.Errorf("GET %s -> %d: %s", u, resp.StatusCode, string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return provider.NewError(provider.KindInvalidResponse, p.cfg.Name, fmt.Errorf("decode: %w", err))
	}
	return nil
}

func rangeParam(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	default:
		return "6mo"
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector              string `json:"sector"`
				Industry            string `json:"industry"`
				Country             string `json:"country"`
				Website             string `json:"website"`
				LongBusinessSummary string `json:"longBusinessSummary"`
				FullTimeEmployees   int    `json:"fullTimeEmployees"`
			} `json:"assetProfile"`
			Price struct {
				LongName string `json:"longName"`
			} `json:"price"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
