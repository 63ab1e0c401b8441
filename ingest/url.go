package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"radar/models"

	"github.com/PuerkitoBio/goquery"
)

// URLFetcher cobre fontes que são uma página HTML, não um feed.
// Primeiro tenta autodiscovery de feed (<link rel="alternate">); se a página
// não anuncia feed, cai pra extração de links candidatos a matéria.
type URLFetcher struct {
	Client *http.Client
	RSS    *RSSFetcher
}

// Texto de âncora abaixo disso dificilmente é título de matéria.
const minAnchorTitleLen = 30

func (f *URLFetcher) Fetch(ctx context.Context, src models.Source) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
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
		return nil, fmt.Errorf("page %s: status %d", src.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("page %s: parse: %w", src.URL, err)
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, err
	}

	if feedURL := discoverFeed(doc, base); feedURL != "" && f.RSS != nil {
		return f.RSS.fetchURL(ctx, feedURL)
	}

	return anchorCandidates(doc, base), nil
}

func discoverFeed(doc *goquery.Document, base *url.URL) string {
	var found string
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		typ, _ := s.Attr("type")
		if !strings.Contains(typ, "rss") && !strings.Contains(typ, "atom") {
			return true
		}
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return true
		}
		if ref, err := url.Parse(href); err == nil {
			found = base.ResolveReference(ref).String()
			return false
		}
		return true
	})
	return found
}

func anchorCandidates(doc *goquery.Document, base *url.URL) []Entry {
	seen := map[string]bool{}
	var out []Entry

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		title := CollapseWhitespace(s.Text())
		if len(title) < minAnchorTitleLen {
			return
		}
		href, _ := s.Attr("href")
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if abs.Host != base.Host {
			return
		}
		link := abs.String()
		if seen[link] {
			return
		}
		seen[link] = true
		out = append(out, Entry{Title: title, URL: link})
	})
	return out
}
