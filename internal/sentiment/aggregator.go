package sentiment

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stockanalyst/internal/market"
)

// Aggregator scores a batch of articles and reduces them to a single
// sentiment. Individual classifier failures degrade that article to
// Neutral without aborting the batch.
type Aggregator struct {
	classifier  Classifier
	concurrency int
	log         *zap.Logger
}

func NewAggregator(c Classifier, concurrency int, log *zap.Logger) *Aggregator {
	if concurrency <= 0 {
		concurrency = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{classifier: c, concurrency: concurrency, log: log}
}

// Score classifies each article concurrently and returns the mean
// scalar over articles that produced a result. An empty batch, or one
// where every classification failed, yields a Neutral aggregate with
// Empty set so downstream logic does not over-weight a missing signal.
func (a *Aggregator) Score(ctx context.Context, articles []market.NewsArticle) (market.AggregateSentiment, []market.ScoredArticle) {
	scored := make([]market.ScoredArticle, len(articles))
	ok := make([]bool, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, art := range articles {
		i, art := i, art
		g.Go(func() error {
			text := art.Title
			if art.Summary != "" {
				text += ". " + art.Summary
			}
			s, err := a.classifier.Classify(gctx, text)
			if err != nil {
				a.log.Warn("classifier failed for article, treating as neutral",
					zap.String("title", art.Title), zap.Error(err))
				scored[i] = market.ScoredArticle{NewsArticle: art, Sentiment: market.NewSentimentScore(0)}
				return nil
			}
			scored[i] = market.ScoredArticle{NewsArticle: art, Sentiment: s}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	var sum float64
	counted := 0
	for i := range scored {
		if ok[i] {
			sum += scored[i].Sentiment.Score
			counted++
		}
	}
	if counted == 0 {
		return market.AggregateSentiment{
			SentimentScore: market.NewSentimentScore(0),
			Articles:       0,
			Empty:          true,
		}, scored
	}
	return market.AggregateSentiment{
		SentimentScore: market.NewSentimentScore(sum / float64(counted)),
		Articles:       counted,
	}, scored
}
