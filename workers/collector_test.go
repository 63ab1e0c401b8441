package workers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"radar/config"
	dbpkg "radar/db"
	"radar/ingest"
	"radar/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

type stubFetcher struct {
	entries []ingest.Entry
	err     error
	calls   int
}

func (s *stubFetcher) Fetch(ctx context.Context, src models.Source) ([]ingest.Entry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func testCollector(t *testing.T, stub *stubFetcher) (*Collector, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("abrindo sqlite em memória: %v", err)
	}
	gdb.DB().SetMaxOpenConns(1)
	gdb.LogMode(false)
	dbpkg.Migrate(gdb)
	t.Cleanup(func() { gdb.Close() })

	reg := ingest.NewRegistry(&http.Client{Timeout: time.Second})
	reg.Register(models.SOURCE_TYPE_RSS, stub)

	cfg := config.Get(filepath.Join(t.TempDir(), "ausente.json"))
	return NewCollector(gdb, reg, nil, cfg), gdb
}

func seedSource(t *testing.T, gdb *gorm.DB, src models.Source) models.Source {
	t.Helper()
	if src.TenantID == "" {
		src.TenantID = "t1"
	}
	if src.Name == "" {
		src.Name = "fonte"
	}
	if src.Type == "" {
		src.Type = models.SOURCE_TYPE_RSS
	}
	if src.FetchIntervalMinutes == 0 {
		src.FetchIntervalMinutes = 1440
	}
	src.IsActive = true
	if err := gdb.Create(&src).Error; err != nil {
		t.Fatalf("seed source: %v", err)
	}
	return src
}

func TestRunCycleCollectsDueSource(t *testing.T) {
	stub := &stubFetcher{entries: []ingest.Entry{
		{Title: "ANTAQ abre consulta sobre cabotagem no porto", URL: "https://portal.example.com/a"},
		{Title: "Novo terminal de contêineres é anunciado em Santos", URL: "https://portal.example.com/b"},
	}}
	c, gdb := testCollector(t, stub)
	src := seedSource(t, gdb, models.Source{URL: "https://portal.example.com/feed"})

	c.RunCycle(context.Background())

	var count int64
	gdb.Model(&models.ContentItem{}).Where("tenant_id = ?", "t1").Count(&count)
	if count != 2 {
		t.Fatalf("esperava 2 itens ingeridos, veio %d", count)
	}

	var got models.Source
	gdb.First(&got, src.ID)
	if got.Fetching {
		t.Fatalf("fetching deveria voltar pra false")
	}
	if got.LastFetchedAt == nil {
		t.Fatalf("last_fetched_at não marcado")
	}
	if got.LastError != "" {
		t.Fatalf("last_error deveria estar limpo: %q", got.LastError)
	}
}

func TestFailureWaitsFullInterval(t *testing.T) {
	stub := &stubFetcher{err: errors.New("timeout na origem")}
	c, gdb := testCollector(t, stub)
	src := seedSource(t, gdb, models.Source{URL: "https://portal.example.com/feed"})

	c.RunCycle(context.Background())

	var got models.Source
	gdb.First(&got, src.ID)
	if got.Fetching {
		t.Fatalf("falha não pode deixar a fonte travada")
	}
	if got.LastError == "" {
		t.Fatalf("last_error deveria registrar a falha")
	}
	// Falha consome o intervalo: a fonte não pode virar retry a cada tick.
	if got.LastFetchedAt == nil {
		t.Fatalf("falha deveria avançar last_fetched_at")
	}
	if got.DueAt().Before(time.Now()) {
		t.Fatalf("fonte com falha não pode continuar vencida")
	}

	c.RunCycle(context.Background())
	if stub.calls != 1 {
		t.Fatalf("ciclo seguinte não pode recoletar fonte com falha recente: %d chamadas", stub.calls)
	}
}

func TestSourceNotDueIsSkipped(t *testing.T) {
	stub := &stubFetcher{entries: []ingest.Entry{{Title: "qualquer título com tamanho razoável aqui", URL: "https://x.com/1"}}}
	c, gdb := testCollector(t, stub)
	recent := time.Now().Add(-time.Hour)
	seedSource(t, gdb, models.Source{URL: "https://portal.example.com/feed", LastFetchedAt: &recent})

	c.RunCycle(context.Background())

	if stub.calls != 0 {
		t.Fatalf("fonte dentro do intervalo não pode ser coletada: %d chamadas", stub.calls)
	}
}

func TestInactiveSourceIsSkipped(t *testing.T) {
	stub := &stubFetcher{}
	c, gdb := testCollector(t, stub)
	src := seedSource(t, gdb, models.Source{URL: "https://portal.example.com/feed"})
	gdb.Model(&models.Source{}).Where("id = ?", src.ID).Update("is_active", false)

	c.RunCycle(context.Background())

	if stub.calls != 0 {
		t.Fatalf("fonte desativada não pode ser coletada")
	}
}

func TestClaimBlocksConcurrentCollect(t *testing.T) {
	stub := &stubFetcher{entries: []ingest.Entry{{Title: "título de exemplo com tamanho razoável", URL: "https://x.com/1"}}}
	c, gdb := testCollector(t, stub)
	src := seedSource(t, gdb, models.Source{URL: "https://portal.example.com/feed"})

	now := time.Now()
	gdb.Model(&models.Source{}).Where("id = ?", src.ID).
		Updates(map[string]any{"fetching": true, "last_attempt_at": &now})
	src.Fetching = true

	res := c.CollectSource(context.Background(), src)
	if stub.calls != 0 || res.Inserted != 0 {
		t.Fatalf("fonte já reivindicada não pode ser coletada de novo")
	}
}

func TestResetStuckReleasesOldClaims(t *testing.T) {
	stub := &stubFetcher{entries: []ingest.Entry{{Title: "ANTAQ publica resolução sobre praticagem", URL: "https://x.com/1"}}}
	c, gdb := testCollector(t, stub)
	src := seedSource(t, gdb, models.Source{URL: "https://portal.example.com/feed"})

	old := time.Now().Add(-30 * time.Minute)
	gdb.Model(&models.Source{}).Where("id = ?", src.ID).
		Updates(map[string]any{"fetching": true, "last_attempt_at": &old})

	c.RunCycle(context.Background())

	if stub.calls != 1 {
		t.Fatalf("claim velho deveria ser liberado e a fonte coletada: %d chamadas", stub.calls)
	}
}

func TestPurgeRemovesOnlyUntouchedNewItems(t *testing.T) {
	stub := &stubFetcher{}
	c, gdb := testCollector(t, stub)

	items := []models.ContentItem{
		{TenantID: "t1", SourceID: 1, Title: "velho e intocado", URL: "https://x.com/1", Status: models.ITEM_STATUS_NEW, Tier: "C"},
		{TenantID: "t1", SourceID: 1, Title: "velho mas usado", URL: "https://x.com/2", Status: models.ITEM_STATUS_ASSIGNED, Tier: "B"},
		{TenantID: "t1", SourceID: 1, Title: "novo", URL: "https://x.com/3", Status: models.ITEM_STATUS_NEW, Tier: "C"},
	}
	for i := range items {
		if err := gdb.Create(&items[i]).Error; err != nil {
			t.Fatalf("item: %v", err)
		}
	}
	old := time.Now().AddDate(0, 0, -30)
	gdb.Model(&models.ContentItem{}).Where("id in (?)", []int64{items[0].ID, items[1].ID}).
		Update("created_at", old)

	c.RunCycle(context.Background())

	var urls []string
	gdb.Model(&models.ContentItem{}).Order("id asc").Pluck("url", &urls)
	if len(urls) != 2 {
		t.Fatalf("esperava 2 itens sobreviventes, veio %d: %v", len(urls), urls)
	}
	if urls[0] != "https://x.com/2" || urls[1] != "https://x.com/3" {
		t.Fatalf("purge removeu os itens errados: %v", urls)
	}
}
