package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"stockanalyst/internal/market"
)

// PriceProvider fetches the daily close series for a ticker over the
// trailing rangeDays calendar days.
type PriceProvider interface {
	Name() string
	Prices(ctx context.Context, t market.Ticker, rangeDays int) (market.PriceSeries, error)
}

// ProfileProvider fetches descriptive company data for a ticker.
type ProfileProvider interface {
	Name() string
	Profile(ctx context.Context, t market.Ticker) (market.CompanyProfile, error)
}

// NewsProvider fetches up to limit recent articles for a ticker.
type NewsProvider interface {
	Name() string
	News(ctx context.Context, t market.Ticker, limit int) ([]market.NewsArticle, error)
}

// Kind classifies a provider failure so the fallback chain can decide
// whether to retry later, move on, or stop.
type Kind int

const (
	// KindUnavailable covers network errors, timeouts and 5xx responses.
	// The next provider should be tried.
	KindUnavailable Kind = iota
	// KindRateLimited means the provider throttled us. The call may
	// succeed later; the next provider should be tried now.
	KindRateLimited
	// KindInvalidResponse means the payload was malformed or too
	// partial to normalize. The next provider should be tried.
	KindInvalidResponse
	// KindNotFound means the provider does not know the ticker. Other
	// providers are unlikely to know it either.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindInvalidResponse:
		return "invalid_response"
	case KindNotFound:
		return "not_found"
	default:
		return "unavailable"
	}
}

// Error is the normalized provider failure. Adapters translate their
// source-specific failure modes into one of the Kind values.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err as a provider failure of the given kind.
func NewError(kind Kind, providerName string, err error) *Error {
	return &Error{Kind: kind, Provider: providerName, Err: err}
}

// KindOf extracts the failure kind from err. Anything that is not a
// *Error (including context errors and plain transport errors) counts
// as KindUnavailable.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnavailable
}

// IsNotFound reports whether err is a KindNotFound provider failure.
func IsNotFound(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindNotFound
}

// IsRateLimited reports whether err is a KindRateLimited provider failure.
func IsRateLimited(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindRateLimited
}

// ClassifyStatus maps an HTTP status code to a failure kind.
func ClassifyStatus(code int) Kind {
	switch {
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code == http.StatusNotFound:
		return KindNotFound
	case code >= 500:
		return KindUnavailable
	default:
		return KindInvalidResponse
	}
}
