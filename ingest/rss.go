package ingest

import (
	"context"
	"fmt"
	"net/http"

	"radar/models"

	"github.com/mmcdole/gofeed"
)

// RSSFetcher cobre fontes RSS/Atom via gofeed.
type RSSFetcher struct {
	Client *http.Client
}

func (f *RSSFetcher) Fetch(ctx context.Context, src models.Source) ([]Entry, error) {
	return f.fetchURL(ctx, src.URL)
}

func (f *RSSFetcher) fetchURL(ctx context.Context, feedURL string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "radar-collector/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed %s: status %d", feedURL, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed %s: parse: %w", feedURL, err)
	}

	out := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		snippet := item.Description
		if snippet == "" {
			snippet = item.Content
		}
		out = append(out, Entry{
			Title:       CollapseWhitespace(StripHTML(item.Title)),
			Snippet:     StripHTML(snippet),
			URL:         item.Link,
			PublishedAt: item.PublishedParsed,
			Tags:        item.Categories,
		})
	}
	return out, nil
}
