package sentiment

import (
	"testing"

	"TWStockDesk/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		title string
		want  model.SentimentKind
	}{
		{"大盤重挫創新低", model.SentimentBearish},
		{"台積電強攻漲停", model.SentimentBullish},
		{"盤勢持平", model.SentimentNeutral},
		{"外資利多出盡", model.SentimentBullish},
		{"航運股崩盤", model.SentimentBearish},
		{"", model.SentimentNeutral},
	}
	for _, tt := range tests {
		got := Classify(tt.title)
		if got.Kind != tt.want {
			t.Errorf("Classify(%q): expected %s, got %s", tt.title, tt.want, got.Kind)
		}
	}
}

func TestClassify_BothSetsIsBullish(t *testing.T) {
	// 漲 is bullish, 跌 is bearish; bullish is checked first.
	got := Classify("早盤漲後尾盤跌")
	if got != Bullish {
		t.Errorf("expected bullish, got %+v", got)
	}
}

func TestClassify_LabelsAndColors(t *testing.T) {
	if b := Classify("漲"); b.Label != "🔥 利多" || b.Color != "#FF4B4B" {
		t.Errorf("unexpected bullish badge %+v", b)
	}
	if b := Classify("跌"); b.Label != "🥶 利空" || b.Color != "#00C853" {
		t.Errorf("unexpected bearish badge %+v", b)
	}
	if b := Classify("持平"); b.Label != "😐 一般" || b.Color != "#777777" {
		t.Errorf("unexpected neutral badge %+v", b)
	}
}

func TestTagger_CustomKeywords(t *testing.T) {
	tg := NewTagger([]string{"rally", ""}, []string{"slump"})
	if got := tg.Classify("tech rally continues"); got.Kind != model.SentimentBullish {
		t.Errorf("expected bullish, got %s", got.Kind)
	}
	if got := tg.Classify("chip slump"); got.Kind != model.SentimentBearish {
		t.Errorf("expected bearish, got %s", got.Kind)
	}
	// empty keyword must not match everything
	if got := tg.Classify("quiet session"); got.Kind != model.SentimentNeutral {
		t.Errorf("expected neutral, got %s", got.Kind)
	}
}

func TestTag_PreservesOrder(t *testing.T) {
	items := Tag([]model.Headline{
		{Title: "台股大漲", Link: "a"},
		{Title: "台股大跌", Link: "b"},
	})
	if len(items) != 2 || items[0].Link != "a" || items[1].Link != "b" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].Sentiment.Kind != model.SentimentBullish || items[1].Sentiment.Kind != model.SentimentBearish {
		t.Errorf("unexpected tags %+v", items)
	}
}
