package news

import (
	"context"

	"github.com/ternarybob/arbor"

	"TWStockDesk/internal/metrics"
	"TWStockDesk/internal/model"
	"TWStockDesk/internal/sentiment"
)

// Service tags headlines from a Source. Fetch failures degrade to an empty list.
type Service struct {
	source  Source
	tagger  *sentiment.Tagger
	metrics *metrics.Metrics
	logger  arbor.ILogger
}

// NewService creates a Service. A nil tagger uses the default keyword sets.
func NewService(source Source, tagger *sentiment.Tagger, m *metrics.Metrics, logger arbor.ILogger) *Service {
	if tagger == nil {
		tagger = sentiment.NewTagger(sentiment.BullishKeywords, sentiment.BearishKeywords)
	}
	return &Service{source: source, tagger: tagger, metrics: m, logger: logger}
}

// Latest returns the tagged headlines, or an empty slice when the feed is unavailable.
func (s *Service) Latest(ctx context.Context) []model.NewsItem {
	headlines, err := s.source.Headlines(ctx)
	s.metrics.ObserveNews(err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("news feed unavailable")
		return []model.NewsItem{}
	}
	return s.tagger.Tag(headlines)
}
