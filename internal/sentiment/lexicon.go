package sentiment

import (
	"context"
	"strings"

	"stockanalyst/internal/market"
)

// Lexicon is a keyword-based classifier used when no remote service
// is configured. The score is the mean weight of matched words, so a
// headline full of strong negatives lands near -1.
type Lexicon struct {
	positive map[string]float64
	negative map[string]float64
}

func NewLexicon() *Lexicon {
	return &Lexicon{positive: positiveWords(), negative: negativeWords()}
}

func (l *Lexicon) Classify(_ context.Context, text string) (market.SentimentScore, error) {
	if text == "" {
		return market.NewSentimentScore(0), nil
	}

	var score float64
	matched := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if w, ok := l.positive[word]; ok {
			score += w
			matched++
		}
		if w, ok := l.negative[word]; ok {
			score -= w
			matched++
		}
	}
	if matched == 0 {
		return market.NewSentimentScore(0), nil
	}
	return market.NewSentimentScore(score / float64(matched)), nil
}

func positiveWords() map[string]float64 {
	return map[string]float64{
		"rally":        0.9,
		"surge":        0.8,
		"soar":         0.8,
		"record":       0.7,
		"breakthrough": 0.6,
		"upgrade":      0.6,
		"beat":         0.6,
		"gain":         0.6,
		"profit":       0.6,
		"strong":       0.6,
		"success":      0.6,
		"growth":       0.5,
		"partnership":  0.5,
		"expands":      0.5,
		"rise":         0.5,
		"up":           0.4,
		"high":         0.4,
		"positive":     0.5,
		"optimistic":   0.5,
	}
}

func negativeWords() map[string]float64 {
	return map[string]float64{
		"crash":       1.0,
		"fraud":       1.0,
		"lawsuit":     0.8,
		"plunge":      0.8,
		"recall":      0.7,
		"downgrade":   0.7,
		"miss":        0.6,
		"loss":        0.7,
		"losses":      0.7,
		"decline":     0.6,
		"declining":   0.6,
		"drop":        0.6,
		"fall":        0.6,
		"weak":        0.6,
		"risk":        0.5,
		"concern":     0.5,
		"worry":       0.5,
		"down":        0.4,
		"low":         0.4,
		"negative":    0.5,
		"pessimistic": 0.5,
	}
}
