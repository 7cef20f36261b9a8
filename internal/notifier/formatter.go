package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TWStockDesk/internal/model"
)

// HelpText lists the bot commands.
const HelpText = `🤖 <b>TWStockDesk 指令</b>

/quote &lt;代號&gt; - 查詢個股 (例: /quote 2330)
/news - 最新台股新聞
/digest - 自選股收盤摘要
/help - 顯示本說明`

// changeMarker follows the Taiwan convention: red for up, green for down.
func changeMarker(change float64) string {
	switch {
	case change > 0:
		return "🔴"
	case change < 0:
		return "🟢"
	default:
		return "⚪"
	}
}

// FormatQuote formats one dashboard into a Telegram message.
func FormatQuote(d *model.Dashboard) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b>", html.EscapeString(d.Title())))
	if d.Quote != nil {
		b.WriteString(fmt.Sprintf(" | %s", d.Quote.Date.Format("2006-01-02")))
	}
	b.WriteString("\n\n")

	if q := d.Quote; q != nil {
		b.WriteString(fmt.Sprintf("收盤價: %.1f\n", q.Close))
		b.WriteString(fmt.Sprintf("漲跌: %s %+.1f (%+.2f%%)\n", changeMarker(q.Change), q.Change, q.ChangePct))
	}
	if ind := d.Indicators; ind != nil {
		if ind.LatestMA.Valid {
			b.WriteString(fmt.Sprintf("MA%d: %.1f | ", ind.MAPeriod, ind.LatestMA.Value))
		}
		if ind.LatestRSI.Valid {
			b.WriteString(fmt.Sprintf("RSI: %.1f", ind.LatestRSI.Value))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("近一年配息: %.2f 元 | 殖利率: %.2f%%\n", d.Dividends.TrailingSum, d.Dividends.YieldPct))

	if p := d.Projection; p != nil {
		b.WriteString(fmt.Sprintf("\n🔮 趨勢預測：%s (斜率 %+.2f)\n", p.Trend.Label(), p.Slope))
		if n := len(p.Points); n > 0 {
			last := p.Points[n-1]
			b.WriteString(fmt.Sprintf("   %s 預估 %.1f\n", last.Date.Format("01/02"), last.Price))
		}
	}
	if r := d.Range; r != nil {
		b.WriteString(fmt.Sprintf("區間高低: %.1f / %.1f (位置 %.0f%%)\n", r.High, r.Low, r.Position*100))
	}
	return b.String()
}

// FormatNews formats tagged headlines, one per line with their badge.
func FormatNews(items []model.NewsItem) string {
	var b strings.Builder
	b.WriteString("📰 <b>最新台股新聞</b>\n\n")
	if len(items) == 0 {
		b.WriteString("暫無新聞")
		return b.String()
	}
	for _, item := range items {
		title := html.EscapeString(item.Title)
		if item.Link != "" {
			title = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(item.Link), title)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", item.Sentiment.Label, title))
	}
	return b.String()
}

// FormatDigest formats the after-close summary of the watchlist.
func FormatDigest(date time.Time, dashboards []*model.Dashboard, failed []string, items []model.NewsItem) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>台股收盤摘要</b> | %s\n\n", date.Format("2006-01-02")))

	for _, d := range dashboards {
		line := html.EscapeString(d.Title())
		if q := d.Quote; q != nil {
			line += fmt.Sprintf(" %.1f %s%+.1f", q.Close, changeMarker(q.Change), q.Change)
		}
		if d.Indicators != nil && d.Indicators.LatestRSI.Valid {
			line += fmt.Sprintf(" RSI %.1f", d.Indicators.LatestRSI.Value)
		}
		if d.Projection != nil {
			if d.Projection.Trend == model.TrendUp {
				line += " 📈"
			} else {
				line += " 📉"
			}
		}
		b.WriteString(line + "\n")
	}
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ 無資料: %s\n", html.EscapeString(strings.Join(failed, ", "))))
	}
	if len(items) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatNews(items))
	}
	return b.String()
}
