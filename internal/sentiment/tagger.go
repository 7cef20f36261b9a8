// Package sentiment tags headlines as bullish, bearish or neutral by keyword lookup.
package sentiment

import (
	"strings"

	"TWStockDesk/internal/model"
)

// Default keyword sets for Taiwan market headlines.
var (
	BullishKeywords = []string{"漲", "強", "攻", "高", "多", "旺", "噴", "利多"}
	BearishKeywords = []string{"跌", "弱", "挫", "低", "空", "縮", "崩", "利空"}
)

var (
	Bullish = model.Sentiment{Kind: model.SentimentBullish, Label: "🔥 利多", Color: "#FF4B4B"}
	Bearish = model.Sentiment{Kind: model.SentimentBearish, Label: "🥶 利空", Color: "#00C853"}
	Neutral = model.Sentiment{Kind: model.SentimentNeutral, Label: "😐 一般", Color: "#777777"}
)

// Tagger classifies titles against fixed keyword sets. Bullish keywords are
// checked first, so a title matching both sets is bullish.
type Tagger struct {
	bullish []string
	bearish []string
}

// NewTagger copies the keyword sets; empty keywords are ignored.
func NewTagger(bullish, bearish []string) *Tagger {
	return &Tagger{bullish: compact(bullish), bearish: compact(bearish)}
}

var defaultTagger = NewTagger(BullishKeywords, BearishKeywords)

// Classify tags title with the default keyword sets.
func Classify(title string) model.Sentiment {
	return defaultTagger.Classify(title)
}

// Classify returns the sentiment of title.
func (t *Tagger) Classify(title string) model.Sentiment {
	if containsAny(title, t.bullish) {
		return Bullish
	}
	if containsAny(title, t.bearish) {
		return Bearish
	}
	return Neutral
}

// Tag attaches a sentiment to every headline, preserving order.
func (t *Tagger) Tag(headlines []model.Headline) []model.NewsItem {
	items := make([]model.NewsItem, len(headlines))
	for i, h := range headlines {
		items[i] = model.NewsItem{Headline: h, Sentiment: t.Classify(h.Title)}
	}
	return items
}

// Tag attaches sentiments using the default keyword sets.
func Tag(headlines []model.Headline) []model.NewsItem {
	return defaultTagger.Tag(headlines)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func compact(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
