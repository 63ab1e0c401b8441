package ingest

import (
	"context"
	"net/http"
	"time"

	"radar/models"
)

// Entry é um item bruto devolvido por um fetcher, antes do upsert.
type Entry struct {
	Title       string
	Snippet     string
	URL         string
	PublishedAt *time.Time
	Tags        []string
}

// Fetcher busca entradas brutas de uma fonte. A mecânica de rede/parse
// fica toda atrás dessa interface; o collector só vê Entry.
type Fetcher interface {
	Fetch(ctx context.Context, src models.Source) ([]Entry, error)
}

// Registry resolve o fetcher pelo type da fonte.
type Registry struct {
	fetchers map[string]Fetcher
}

func NewRegistry(client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	rss := &RSSFetcher{Client: client}
	return &Registry{
		fetchers: map[string]Fetcher{
			models.SOURCE_TYPE_RSS: rss,
			models.SOURCE_TYPE_URL: &URLFetcher{Client: client, RSS: rss},
		},
	}
}

// Register troca/adiciona um fetcher (os testes usam pra injetar stubs).
func (r *Registry) Register(sourceType string, f Fetcher) {
	r.fetchers[sourceType] = f
}

func (r *Registry) For(sourceType string) (Fetcher, bool) {
	f, ok := r.fetchers[sourceType]
	return f, ok
}
