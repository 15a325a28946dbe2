package market

import (
	"testing"
	"time"
)

func TestParseTicker_ValidSymbols(t *testing.T) {
	cases := map[string]Ticker{
		"AAPL":       "AAPL",
		"aapl":       "AAPL",
		"Brk2":       "BRK2",
		"V":          "V",
		"ABCDEFGHIJ": "ABCDEFGHIJ",
	}
	for in, want := range cases {
		got, err := ParseTicker(in)
		if err != nil {
			t.Fatalf("ParseTicker(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseTicker(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTicker_Invalid(t *testing.T) {
	for _, in := range []string{"", "ABCDEFGHIJK", "AA PL", "BRK.B", "A-1", "Ñ"} {
		if _, err := ParseTicker(in); err == nil {
			t.Fatalf("ParseTicker(%q): expected error", in)
		}
	}
}

func TestPriceSeries_NormalizeSortsAndDedupes(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC) }
	ps := PriceSeries{
		{Date: d(3), Close: 103},
		{Date: d(1), Close: 101},
		{Date: d(2), Close: 102},
		{Date: d(2), Close: 102.5}, // duplicate date, later value wins
	}
	got := ps.Normalize()
	if len(got) != 3 {
		t.Fatalf("want 3 points, got %d: %+v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Date.After(got[i-1].Date) {
			t.Fatalf("dates not strictly increasing: %+v", got)
		}
	}
	if got[1].Close != 102.5 {
		t.Fatalf("duplicate date should keep last value, got %+v", got[1])
	}
}

func TestPriceSeries_ChangePct(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC) }
	ps := PriceSeries{{Date: d(1), Close: 100}, {Date: d(30), Close: 101}}
	if got := ps.ChangePct(); got != 1.0 {
		t.Fatalf("ChangePct = %v, want 1.0", got)
	}
	if got := (PriceSeries{}).ChangePct(); got != 0 {
		t.Fatalf("empty series ChangePct = %v, want 0", got)
	}
	if got := (PriceSeries{{Date: d(1), Close: 100}}).ChangePct(); got != 0 {
		t.Fatalf("single point ChangePct = %v, want 0", got)
	}
}

func TestNewSentimentScore_ClampAndLabel(t *testing.T) {
	cases := []struct {
		in        float64
		wantScore float64
		wantLabel SentimentLabel
	}{
		{0.6, 0.6, Positive},
		{-0.6, -0.6, Negative},
		{0.1, 0.1, Neutral},
		{0.2, 0.2, Neutral}, // band edge stays neutral
		{1.7, 1.0, Positive},
		{-3, -1.0, Negative},
		{0, 0, Neutral},
	}
	for _, c := range cases {
		got := NewSentimentScore(c.in)
		if got.Score != c.wantScore || got.Label != c.wantLabel {
			t.Fatalf("NewSentimentScore(%v) = %+v, want score=%v label=%s", c.in, got, c.wantScore, c.wantLabel)
		}
	}
}

func TestProvenance_Synthetic(t *testing.T) {
	p := Provenance{Price: "yahoo", Profile: "yahoo", News: "newsfeed"}
	if p.Synthetic() {
		t.Fatal("real provenance flagged synthetic")
	}
	p.News = SourceSynthetic
	if !p.Synthetic() {
		t.Fatal("synthetic news not flagged")
	}
}
