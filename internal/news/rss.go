// Package news fetches market headlines from an RSS feed and tags their sentiment.
package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TWStockDesk/internal/model"
)

// Source supplies the latest headlines, newest first.
type Source interface {
	Headlines(ctx context.Context) ([]model.Headline, error)
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// RSSSource reads headlines from an RSS 2.0 feed.
type RSSSource struct {
	FeedURL  string
	MaxItems int
	Client   *http.Client
}

// NewRSSSource creates a feed reader with optional proxy support.
// maxItems <= 0 keeps every item.
func NewRSSSource(feedURL string, maxItems int, proxyURL string, timeout time.Duration) *RSSSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RSSSource{
		FeedURL:  feedURL,
		MaxItems: maxItems,
		Client:   &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Headlines fetches the feed and returns up to MaxItems entries in feed order.
func (s *RSSSource) Headlines(ctx context.Context) ([]model.Headline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FeedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return parseFeed(body, s.MaxItems)
}

func parseFeed(body []byte, maxItems int) ([]model.Headline, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	headlines := make([]model.Headline, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		if maxItems > 0 && len(headlines) >= maxItems {
			break
		}
		title := plainText(item.Title)
		if title == "" {
			continue
		}
		headlines = append(headlines, model.Headline{
			Title:     title,
			Link:      strings.TrimSpace(item.Link),
			Published: parsePubDate(item.PubDate),
		})
	}
	return headlines, nil
}

// plainText flattens any markup or entities left in a title.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
