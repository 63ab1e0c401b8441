package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"radar/models"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Portal Teste</title>
    <item>
      <title>ANTAQ publica novo edital</title>
      <link>https://portal.example.com/antaq-edital</link>
      <description>&lt;p&gt;A agência abriu &lt;b&gt;consulta&lt;/b&gt; pública.&lt;/p&gt;</description>
      <category>portos</category>
      <pubDate>Mon, 24 Aug 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Sem link, deve ser ignorado</title>
      <description>x</description>
    </item>
  </channel>
</rss>`

func TestRSSFetcherParsesFeed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	f := &RSSFetcher{Client: srv.Client()}
	entries, err := f.Fetch(context.Background(), models.Source{URL: srv.URL, Type: models.SOURCE_TYPE_RSS})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("esperava 1 entrada (item sem link cai fora), veio %d", len(entries))
	}
	e := entries[0]
	if e.Title != "ANTAQ publica novo edital" {
		t.Fatalf("title: %q", e.Title)
	}
	if e.Snippet != "A agência abriu consulta pública." {
		t.Fatalf("snippet deveria vir sem markup: %q", e.Snippet)
	}
	if e.PublishedAt == nil {
		t.Fatalf("pubDate deveria ser parseado")
	}
	if len(e.Tags) != 1 || e.Tags[0] != "portos" {
		t.Fatalf("tags: %v", e.Tags)
	}
}

func TestRSSFetcherErrorOnBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := &RSSFetcher{Client: srv.Client()}
	if _, err := f.Fetch(context.Background(), models.Source{URL: srv.URL}); err == nil {
		t.Fatalf("status 500 deveria virar erro")
	}
}

func TestURLFetcherDiscoversFeed(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<link rel="alternate" type="application/rss+xml" href="/feed.xml">
		</head><body>portal</body></html>`))
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFixture))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rss := &RSSFetcher{Client: srv.Client()}
	f := &URLFetcher{Client: srv.Client(), RSS: rss}
	entries, err := f.Fetch(context.Background(), models.Source{URL: srv.URL, Type: models.SOURCE_TYPE_URL})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "ANTAQ publica novo edital" {
		t.Fatalf("autodiscovery deveria delegar pro feed: %+v", entries)
	}
}

func TestURLFetcherFallsBackToAnchors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/materia-1">Governo federal anuncia pacote de investimentos em portos</a>
			<a href="/materia-1">Governo federal anuncia pacote de investimentos em portos</a>
			<a href="/curta">curta</a>
			<a href="https://outro-site.com/x">Link externo com titulo bem comprido que deveria cair fora</a>
		</body></html>`))
	}))
	defer srv.Close()

	f := &URLFetcher{Client: srv.Client()}
	entries, err := f.Fetch(context.Background(), models.Source{URL: srv.URL, Type: models.SOURCE_TYPE_URL})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("esperava 1 candidato (dedup, âncora curta e host externo fora), veio %d: %+v", len(entries), entries)
	}
	if !strings.HasSuffix(entries[0].URL, "/materia-1") {
		t.Fatalf("url resolvida errada: %s", entries[0].URL)
	}
}

func TestRegistryResolvesByType(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	if _, ok := r.For(models.SOURCE_TYPE_RSS); !ok {
		t.Fatalf("RSS deveria estar registrado")
	}
	if _, ok := r.For(models.SOURCE_TYPE_URL); !ok {
		t.Fatalf("URL deveria estar registrado")
	}
	if _, ok := r.For(models.SOURCE_TYPE_OTHER); ok {
		t.Fatalf("OTHER não tem fetcher por padrão")
	}
}
