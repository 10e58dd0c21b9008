// Package rss fetches entries from RSS/Atom feeds.
package rss

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/sentinelai/sentinel/internal/feeds"
)

// Fetcher retrieves items from RSS/Atom sources.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given HTTP timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves entries from one source. It does not store anything;
// the caller decides what to do with the items.
func (f *Fetcher) Fetch(ctx context.Context, src feeds.Source) ([]feeds.Item, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Sentinel/1.0 (+https://github.com/sentinelai/sentinel)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	now := time.Now()
	items := make([]feeds.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Link == "" {
			continue // no dedup key, nothing to store
		}
		items = append(items, feeds.Item{
			Title:     strings.TrimSpace(entry.Title),
			Link:      entry.Link,
			Summary:   summaryText(entry),
			Published: publishedString(entry, now),
			Source:    src.Name,
			Fetched:   now,
		})
	}
	return items, nil
}

// summaryText extracts a plain-text summary. Feed descriptions are routinely
// HTML; the markup is stripped before the text feeds keyword matching and
// prompts.
func summaryText(entry *gofeed.Item) string {
	raw := entry.Description
	if raw == "" {
		raw = entry.Content
	}
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// publishedString keeps whatever the source said; the store treats it as an
// opaque value. Falls back to the fetch time for feeds that omit it.
func publishedString(entry *gofeed.Item, now time.Time) string {
	if entry.Published != "" {
		return entry.Published
	}
	if entry.Updated != "" {
		return entry.Updated
	}
	return now.Format(time.RFC1123Z)
}
