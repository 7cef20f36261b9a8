package model

import "time"

// SentimentKind classifies a headline.
type SentimentKind string

const (
	SentimentBullish SentimentKind = "BULLISH"
	SentimentBearish SentimentKind = "BEARISH"
	SentimentNeutral SentimentKind = "NEUTRAL"
)

// Sentiment is the badge shown next to a headline.
type Sentiment struct {
	Kind  SentimentKind `json:"kind"`
	Label string        `json:"label"`
	Color string        `json:"color"`
}

// Headline is a raw title/link pair supplied by a news source.
type Headline struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
}

// NewsItem is a headline with its sentiment tag.
type NewsItem struct {
	Headline
	Sentiment Sentiment `json:"sentiment"`
}
