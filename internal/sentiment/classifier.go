// Package sentiment scores news text. Classification itself is an
// external capability: text in, label plus score out. The package
// ships an HTTP client for a remote classifier service and a local
// lexicon scorer used when no service is configured.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"stockanalyst/internal/httpx"
	"stockanalyst/internal/market"
)

//go:generate mockgen -package=sentiment_test -destination=mock_classifier_test.go -source=classifier.go Classifier

// Classifier scores a single piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (market.SentimentScore, error)
}

// HTTPClassifier calls a remote classifier over HTTP. The service
// contract is POST {"text": ...} returning {"label": ..., "score": ...}.
type HTTPClassifier struct {
	Endpoint string
	Client   *httpx.Client
}

func NewHTTPClassifier(endpoint string, hc *httpx.Client) *HTTPClassifier {
	return &HTTPClassifier{Endpoint: endpoint, Client: hc}
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (market.SentimentScore, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return market.SentimentScore{}, fmt.Errorf("encode classify request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return market.SentimentScore{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(ctx, req)
	if err != nil {
		return market.SentimentScore{}, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return market.SentimentScore{}, fmt.Errorf("classifier -> %d: %s", resp.StatusCode, string(b))
	}

	var out struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return market.SentimentScore{}, fmt.Errorf("decode classifier response: %w", err)
	}
	// Trust the scalar and rederive the label so the ±band convention
	// stays consistent regardless of the remote service's labeling.
	return market.NewSentimentScore(out.Score), nil
}
