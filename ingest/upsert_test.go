package ingest

import (
	"testing"
	"time"

	dbpkg "radar/db"
	"radar/models"

	"github.com/jinzhu/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("abrindo sqlite em memória: %v", err)
	}
	gdb.DB().SetMaxOpenConns(1)
	gdb.LogMode(false)
	dbpkg.Migrate(gdb)
	t.Cleanup(func() { gdb.Close() })
	return gdb
}

func testSource(gdb *gorm.DB, t *testing.T) models.Source {
	t.Helper()
	src := models.Source{
		TenantID: "t1",
		Name:     "Portal Teste",
		URL:      "https://portal.example.com/feed",
		Type:     models.SOURCE_TYPE_RSS,
		IsActive: true,
	}
	if err := gdb.Create(&src).Error; err != nil {
		t.Fatalf("criando source: %v", err)
	}
	return src
}

func TestUpsertIsIdempotent(t *testing.T) {
	gdb := testDB(t)
	src := testSource(gdb, t)

	published := time.Now().Add(-2 * time.Hour)
	entries := []Entry{{
		Title:       "ANTAQ publica novo edital para o porto",
		Snippet:     "consulta pública aberta",
		URL:         "https://portal.example.com/antaq?utm_source=feed",
		PublishedAt: &published,
	}}

	res, err := Upsert(gdb, src, entries, Options{})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Inserted != 1 || res.Updated != 0 {
		t.Fatalf("primeira rodada: %+v", res)
	}

	res, err = Upsert(gdb, src, entries, Options{})
	if err != nil {
		t.Fatalf("upsert 2: %v", err)
	}
	if res.Inserted != 0 || res.Updated != 1 {
		t.Fatalf("segunda rodada deveria só atualizar: %+v", res)
	}

	var count int64
	gdb.Model(&models.ContentItem{}).Where("tenant_id = ?", "t1").Count(&count)
	if count != 1 {
		t.Fatalf("esperava exatamente 1 linha, veio %d", count)
	}

	var item models.ContentItem
	gdb.Where("tenant_id = ?", "t1").First(&item)
	if item.URL != "https://portal.example.com/antaq" {
		t.Fatalf("url deveria estar canonicalizada: %s", item.URL)
	}
}

func TestUpsertPreservesArchivedStatus(t *testing.T) {
	gdb := testDB(t)
	src := testSource(gdb, t)

	entries := []Entry{{
		Title: "Licitação do terminal portuário entra em nova fase",
		URL:   "https://portal.example.com/licitacao",
	}}
	if _, err := Upsert(gdb, src, entries, Options{}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := gdb.Model(&models.ContentItem{}).
		Where("tenant_id = ?", "t1").
		Update("status", models.ITEM_STATUS_ARCHIVED).Error; err != nil {
		t.Fatalf("arquivando: %v", err)
	}

	entries[0].Snippet = "texto atualizado na reingestão"
	if _, err := Upsert(gdb, src, entries, Options{}); err != nil {
		t.Fatalf("upsert 2: %v", err)
	}

	var item models.ContentItem
	gdb.Where("tenant_id = ?", "t1").First(&item)
	if item.Status != models.ITEM_STATUS_ARCHIVED {
		t.Fatalf("reingestão não pode ressuscitar item arquivado: %s", item.Status)
	}
	if item.Snippet != "texto atualizado na reingestão" {
		t.Fatalf("snippet deveria ser sobrescrito: %q", item.Snippet)
	}
}

func TestUpsertTitleHashDedup(t *testing.T) {
	gdb := testDB(t)
	src := testSource(gdb, t)

	first := []Entry{{
		Title: "Governo anuncia investimento no porto de Santos",
		URL:   "https://portal.example.com/noticia-a",
	}}
	if _, err := Upsert(gdb, src, first, Options{}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Mesmo título (modulo caixa/acentos) em outra URL: skip.
	second := []Entry{{
		Title: "GOVERNO anuncia investimento no porto de SANTOS",
		URL:   "https://portal.example.com/noticia-b",
	}}
	res, err := Upsert(gdb, src, second, Options{})
	if err != nil {
		t.Fatalf("upsert 2: %v", err)
	}
	if res.Inserted != 0 || res.Skipped != 1 {
		t.Fatalf("título repetido deveria ser pulado: %+v", res)
	}
}

func TestUpsertSourceFilters(t *testing.T) {
	gdb := testDB(t)
	src := testSource(gdb, t)
	src.IncludeKeywords = models.StringList{"porto"}
	src.ExcludeKeywords = models.StringList{"futebol"}
	src.MinContentLength = 20

	entries := []Entry{
		{Title: "Movimentação no porto cresce dois dígitos", URL: "https://portal.example.com/1"},
		{Title: "Time de futebol do porto vence clássico", URL: "https://portal.example.com/2"},
		{Title: "Notícia sobre energia solar sem o termo esperado", URL: "https://portal.example.com/3"},
		{Title: "porto curto", URL: "https://portal.example.com/4"},
	}
	res, err := Upsert(gdb, src, entries, Options{})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Inserted != 1 || res.Skipped != 3 {
		t.Fatalf("filtros da fonte: %+v", res)
	}
}

func TestUpsertSetsInitialScoreAndTier(t *testing.T) {
	gdb := testDB(t)
	src := testSource(gdb, t)

	published := time.Now().Add(-1 * time.Hour)
	entries := []Entry{{
		Title:       "ANTAQ aprova novo terminal no porto com cabotagem em alta",
		URL:         "https://portal.example.com/fresco",
		PublishedAt: &published,
	}}
	if _, err := Upsert(gdb, src, entries, Options{}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var item models.ContentItem
	gdb.Where("tenant_id = ?", "t1").First(&item)
	if item.Score <= 0 || item.Score > 100 {
		t.Fatalf("score inicial fora da faixa: %v", item.Score)
	}
	if item.Tier == "" {
		t.Fatalf("tier deveria ser atribuído")
	}
	if len(item.Categories) == 0 {
		t.Fatalf("segmento inferido deveria virar categoria")
	}
}
